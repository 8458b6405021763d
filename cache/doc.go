// Package cache holds the two caching layers used by resource resolution.
// ContentCache memoizes decoded text per key (file path or URL) for the life
// of the process. Store manages the on-disk copies of remote resources at the
// paths chosen by the resolver's prefix table: writes go through a temp file
// plus rename, directories are created on demand, and a parent path that
// exists as a regular file is reported as ErrNotDirectory. Presence on disk is
// the only cache state; there is no index file and no revalidation.
//
// LoadGroup collapses concurrent loads of one key into a single call that
// outlives the caller who started it; every caller waits under its own
// context.
package cache

// Package content memoizes the text of local files and remote documents for the
// lifetime of the process.
//
// Files are keyed by path and URLs by their literal string; both caches are
// unbounded and never invalidated. URL reads go through the opener installed in
// a resolver.ResolverContext, so prefix redirection to the on-disk cache
// applies to them exactly as it does to any other consumer.
package content

// Package resolver turns resource URLs into byte streams, redirecting
// configured URL prefixes to a local on-disk cache.
//
// A PrefixResolver maps a URL onto a local path when one of its configured
// prefixes is a path-segment ancestor of the URL. FileResolver serves that
// path from disk when present, downloads and persists it on first access, and
// otherwise falls through to the default network opener unchanged.
// ResolverContext holds the single active Opener; the package-level Default
// context plays the role of the process-wide URL-opening mechanism and is
// expected to be installed once at start-up.
package resolver

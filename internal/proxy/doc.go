// Package proxy adapts the installed resolver to the mirror server: it opens
// the requested URL through a resolver.ResolverContext and streams the result
// back, reporting whether the bytes came from the local cache.
package proxy

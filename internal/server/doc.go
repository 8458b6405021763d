// Package server hosts the Fiber HTTP service that mirrors linked-data
// resources through the installed resolver. It owns the request middleware
// chain (request IDs, panic recovery), the source registry built from config,
// and the router that hands /resolve requests to a ProxyHandler. Handlers and
// diagnostic routes live in sibling packages (proxy, server/routes) and receive
// their dependencies explicitly, so keep exports narrow.
package server

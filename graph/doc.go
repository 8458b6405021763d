// Package graph is a small in-memory triple store standing in for the graph
// collaborator consumed by collection loading. It knows how to enumerate RDF
// list containers (rdf:first / rdf:rest chains) and carries a namespace table
// for CURIE expansion. Parsing serialized RDF is out of scope; callers build
// graphs programmatically with Add and AddList.
package graph

// Package namespace collects the well-known metamodel locations served by the
// secorolab and comp-rob2b sites, and provides the prefix table used to expand
// short-form identifiers (CURIEs such as "geom:Point") into full IRIs.
// Graph implementations embed a Manager so that collection loading can expand
// string literals without knowing where the prefixes came from.
package namespace

package resolver

import (
	"errors"
	"path/filepath"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
)

func TestPrefixResolverMatchesBySegment(t *testing.T) {
	r, err := NewPrefixResolver([]PrefixMapping{
		{Prefix: "http://example.org/foo", Directory: "/cache/foo"},
	})
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}

	testCases := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"descendant", "http://example.org/foo/a/b.ttl", filepath.Join("/cache/foo", "a", "b.ttl"), true},
		{"equal", "http://example.org/foo", filepath.Clean("/cache/foo"), true},
		{"trailing slash", "http://example.org/foo/", filepath.Clean("/cache/foo"), true},
		{"sibling with shared string prefix", "http://example.org/foobar/a.ttl", "", false},
		{"other host", "http://example.com/foo/a.ttl", "", false},
		{"other scheme", "https://example.org/foo/a.ttl", "", false},
		{"host case insensitive", "http://EXAMPLE.org/foo/a.ttl", filepath.Join("/cache/foo", "a.ttl"), true},
		{"query ignored", "http://example.org/foo/a.ttl?x=1#frag", filepath.Join("/cache/foo", "a.ttl"), true},
		{"dot segments cleaned", "http://example.org/foo/x/../a.ttl", filepath.Join("/cache/foo", "a.ttl"), true},
		{"escape attempt", "http://example.org/foo/../../etc/passwd", "", false},
		{"relative url", "foo/a.ttl", "", false},
		{"escaped segment decoded", "http://example.org/foo/a%20b.ttl", filepath.Join("/cache/foo", "a b.ttl"), true},
		{"encoded slash", "http://example.org/foo/a%2Fb.ttl", "", false},
		{"encoded backslash", "http://example.org/foo/a%5Cb.ttl", "", false},
		{"encoded dot segment", "http://example.org/foo/%2E%2E/%2e%2e/etc/passwd", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := r.Resolve(tc.url)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v (%s)", tc.ok, ok, got)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPrefixResolverKeepsEncodedSlashApart(t *testing.T) {
	r, err := NewPrefixResolver([]PrefixMapping{
		{Prefix: "http://example.org/", Directory: "/tmp/cache"},
	})
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}

	plain, ok := r.Resolve("http://example.org/a/b.ttl")
	if !ok || plain != filepath.Join("/tmp/cache", "a", "b.ttl") {
		t.Fatalf("unexpected plain mapping %q ok=%v", plain, ok)
	}
	if encoded, ok := r.Resolve("http://example.org/a%2Fb.ttl"); ok {
		t.Fatalf("encoded slash must not share a cache path, got %q", encoded)
	}

	if _, err := NewPrefixResolver([]PrefixMapping{
		{Prefix: "http://example.org/a%2Fb/", Directory: "/tmp/cache"},
	}); !errors.Is(err, ErrInvalidMapping) {
		t.Fatalf("expected ErrInvalidMapping for encoded slash prefix, got %v", err)
	}
}

func TestPrefixResolverFirstRegisteredWins(t *testing.T) {
	r, err := NewPrefixResolver([]PrefixMapping{
		{Prefix: "https://example.org/", Directory: "/cache/root"},
		{Prefix: "https://example.org/models", Directory: "/cache/models"},
	})
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}

	for i := 0; i < 3; i++ {
		match, ok := r.Lookup("https://example.org/models/a.json")
		if !ok {
			t.Fatalf("expected match")
		}
		if match.Mapping.Directory != "/cache/root" {
			t.Fatalf("first mapping should win, got %+v", match.Mapping)
		}
		if match.Path != filepath.Join("/cache/root", "models", "a.json") {
			t.Fatalf("unexpected path %s", match.Path)
		}
	}
}

func TestPrefixResolverRejectsInvalidMappings(t *testing.T) {
	testCases := []PrefixMapping{
		{Prefix: "example.org/foo", Directory: "/cache"},
		{Prefix: "/foo", Directory: "/cache"},
		{Prefix: "http://example.org/?q=1", Directory: "/cache"},
		{Prefix: "http://example.org/", Directory: "  "},
	}
	for _, m := range testCases {
		_, err := NewPrefixResolver([]PrefixMapping{m})
		if !errors.Is(err, ErrInvalidMapping) {
			t.Fatalf("expected ErrInvalidMapping for %+v, got %v", m, err)
		}
		if code := platformerrors.GetCode(err); code != platformerrors.CodeInvalidConfig {
			t.Fatalf("expected CodeInvalidConfig, got %s", code)
		}
	}
}

func TestPrefixResolverEmptyTable(t *testing.T) {
	r, err := NewPrefixResolver(nil)
	if err != nil {
		t.Fatalf("empty table should be valid: %v", err)
	}
	if _, ok := r.Resolve("https://example.org/a"); ok {
		t.Fatalf("empty table should never match")
	}
	if len(r.Mappings()) != 0 {
		t.Fatalf("expected no mappings")
	}
}

func TestDefaultMappings(t *testing.T) {
	root := filepath.Join("cache", "rdf-utils")
	r, err := NewPrefixResolver(DefaultMappings(root))
	if err != nil {
		t.Fatalf("default mappings should be valid: %v", err)
	}
	path, ok := r.Resolve("https://secorolab.github.io/metamodels/languages/python.json")
	if !ok {
		t.Fatalf("secorolab URL should be mapped")
	}
	if path != filepath.Join(root, "secoro", "metamodels", "languages", "python.json") {
		t.Fatalf("unexpected path %s", path)
	}
	if filepath.Base(DefaultCacheRoot()) != "rdf-utils" {
		t.Fatalf("default cache root should end with rdf-utils, got %s", DefaultCacheRoot())
	}
}

package graph

import (
	"errors"
	"testing"
	"time"
)

func TestAddListAndItems(t *testing.T) {
	g := New()
	head := g.AddList(IRI("http://example.org/a"), NewInteger(3), NewString("x"))

	items, err := g.Items(head)
	if err != nil {
		t.Fatalf("items error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0] != Node(IRI("http://example.org/a")) {
		t.Fatalf("unexpected first item %v", items[0])
	}
	if lit, ok := items[1].(Literal); !ok || lit.Value() != int64(3) {
		t.Fatalf("unexpected second item %v", items[1])
	}
}

func TestItemsEmptyList(t *testing.T) {
	g := New()
	head := g.AddList()
	if head != Node(RDFNil) {
		t.Fatalf("empty list should be rdf:nil, got %v", head)
	}
	items, err := g.Items(head)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected no items, got %v (%v)", items, err)
	}
}

func TestItemsDetectsRecursiveRest(t *testing.T) {
	g := New()
	b1 := g.NewBlankNode()
	b2 := g.NewBlankNode()
	g.Add(b1, RDFFirst, NewString("a"))
	g.Add(b1, RDFRest, b2)
	g.Add(b2, RDFFirst, NewString("b"))
	g.Add(b2, RDFRest, b1)

	if _, err := g.Items(b1); !errors.Is(err, ErrRecursiveList) {
		t.Fatalf("expected ErrRecursiveList, got %v", err)
	}
}

func TestAddIgnoresDuplicates(t *testing.T) {
	g := New()
	g.Add(IRI("s"), RDFType, IRI("o"))
	g.Add(IRI("s"), RDFType, IRI("o"))
	if g.Len() != 1 {
		t.Fatalf("duplicate triple should be ignored, len=%d", g.Len())
	}
	if v, ok := g.Value(IRI("s"), RDFType); !ok || v != Node(IRI("o")) {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestLiteralValue(t *testing.T) {
	testCases := []struct {
		name string
		lit  Literal
		want any
	}{
		{"integer", NewInteger(42), int64(42)},
		{"double", NewDouble(1.5), 1.5},
		{"boolean", NewBoolean(true), true},
		{"string", NewString("hello"), "hello"},
		{"lang string", Literal{Lexical: "hallo", Lang: "de"}, "hallo"},
		{"bad integer", Literal{Lexical: "abc", Datatype: XSDInteger}, "abc"},
		{"non negative integer", Literal{Lexical: "5", Datatype: XSDNonNegativeInteger}, int64(5)},
		{"negative integer", Literal{Lexical: "-3", Datatype: XSDNegativeInteger}, int64(-3)},
		{"unsigned byte", Literal{Lexical: "255", Datatype: XSDUnsignedByte}, int64(255)},
		{"short", Literal{Lexical: "12", Datatype: XSDShort}, int64(12)},
		{"unknown datatype", Literal{Lexical: "P1D", Datatype: "http://www.w3.org/2001/XMLSchema#duration"}, "P1D"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.lit.Value(); got != tc.want {
				t.Fatalf("expected %v (%T), got %v (%T)", tc.want, tc.want, got, got)
			}
		})
	}

	timeCases := []struct {
		name string
		lit  Literal
		want time.Time
	}{
		{"dateTime with zone", Literal{Lexical: "2024-01-02T03:04:05Z", Datatype: XSDDateTime}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"dateTime without zone", Literal{Lexical: "2024-01-02T03:04:05", Datatype: XSDDateTime}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"date", Literal{Lexical: "2024-01-02", Datatype: XSDDate}, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"date with zone", Literal{Lexical: "2024-01-02Z", Datatype: XSDDate}, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range timeCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := tc.lit.Value().(time.Time)
			if !ok || !v.Equal(tc.want) {
				t.Fatalf("expected %v, got %#v", tc.want, tc.lit.Value())
			}
		})
	}

	if got := (Literal{Lexical: "not-a-date", Datatype: XSDDate}).Value(); got != "not-a-date" {
		t.Fatalf("unparseable date should keep its lexical form, got %#v", got)
	}
}

func TestLiteralIsString(t *testing.T) {
	if !NewString("x").IsString() || !(Literal{Lexical: "x", Datatype: XSDString}).IsString() {
		t.Fatalf("plain and xsd:string literals are text")
	}
	if !(Literal{Lexical: "x", Lang: "en"}).IsString() {
		t.Fatalf("language-tagged literal is text")
	}
	if NewInteger(1).IsString() || (Literal{Lexical: "2024-01-02", Datatype: XSDDate}).IsString() {
		t.Fatalf("typed literals are not text")
	}
}

func TestExpandCURIE(t *testing.T) {
	g := New()
	if err := g.Bind("ex", "http://example.org/"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	iri, err := g.ExpandCURIE("ex:thing")
	if err != nil || iri != IRI("http://example.org/thing") {
		t.Fatalf("unexpected expansion %v (%v)", iri, err)
	}
}

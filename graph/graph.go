package graph

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rdf-utils/rdf-utils/namespace"
)

// ErrRecursiveList 表示 rdf:rest 链回到了已经访问过的节点。
var ErrRecursiveList = errors.New("list contains a recursive rdf:rest reference")

// Triple 是一条 (subject, predicate, object) 陈述。
type Triple struct {
	Subject   Node
	Predicate IRI
	Object    Node
}

// Graph 是按 subject/predicate 建索引的内存三元组集合。
type Graph struct {
	mu      sync.RWMutex
	triples []Triple
	index   map[Node]map[IRI][]Node
	seen    map[Triple]struct{}
	ns      *namespace.Manager
	bnodes  int
}

// New 创建空图，命名空间表预置 rdf/rdfs/xsd/owl。
func New() *Graph {
	return &Graph{
		index: make(map[Node]map[IRI][]Node),
		seen:  make(map[Triple]struct{}),
		ns:    namespace.NewManager(),
	}
}

// Add 写入一条三元组，重复写入被忽略。
func (g *Graph) Add(subject Node, predicate IRI, object Node) {
	t := Triple{Subject: subject, Predicate: predicate, Object: object}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[t]; exists {
		return
	}
	g.seen[t] = struct{}{}
	g.triples = append(g.triples, t)

	preds := g.index[subject]
	if preds == nil {
		preds = make(map[IRI][]Node)
		g.index[subject] = preds
	}
	preds[predicate] = append(preds[predicate], object)
}

// Len 返回三元组数量。
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// Triples 返回插入顺序的三元组副本。
func (g *Graph) Triples() []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Triple(nil), g.triples...)
}

// Objects 返回 subject/predicate 下的全部 object，按插入顺序。
func (g *Graph) Objects(subject Node, predicate IRI) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Node(nil), g.index[subject][predicate]...)
}

// Value 返回 subject/predicate 下的第一个 object。
func (g *Graph) Value(subject Node, predicate IRI) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	objs := g.index[subject][predicate]
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

// NewBlankNode 分配一个图内唯一的空白节点。
func (g *Graph) NewBlankNode() BlankNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bnodes++
	return BlankNode("b" + strconv.Itoa(g.bnodes))
}

// AddList 以 rdf:first/rdf:rest 链的形式写入 items，返回列表头；空列表返回 rdf:nil。
func (g *Graph) AddList(items ...Node) Node {
	if len(items) == 0 {
		return RDFNil
	}

	head := g.NewBlankNode()
	cur := head
	for i, item := range items {
		g.Add(cur, RDFFirst, item)
		if i == len(items)-1 {
			g.Add(cur, RDFRest, RDFNil)
			break
		}
		next := g.NewBlankNode()
		g.Add(cur, RDFRest, next)
		cur = next
	}
	return head
}

// Items 沿 rdf:rest 链按顺序返回每个节点的 rdf:first。
// 链回到已访问节点时返回 ErrRecursiveList，而不是无限循环。
func (g *Graph) Items(head Node) ([]Node, error) {
	var items []Node
	chained := map[Node]struct{}{}

	cur := head
	for cur != nil && cur != Node(RDFNil) {
		if item, ok := g.Value(cur, RDFFirst); ok {
			items = append(items, item)
		}
		next, ok := g.Value(cur, RDFRest)
		if !ok {
			break
		}
		if _, loop := chained[next]; loop {
			return nil, fmt.Errorf("%w at %s", ErrRecursiveList, next)
		}
		chained[next] = struct{}{}
		cur = next
	}
	return items, nil
}

// Namespaces 返回图的命名空间表。
func (g *Graph) Namespaces() *namespace.Manager {
	return g.ns
}

// Bind 是 Namespaces().Bind 的快捷方式。
func (g *Graph) Bind(prefix, ns string) error {
	return g.ns.Bind(prefix, ns)
}

// ExpandCURIE 使用图的命名空间表展开短格式标识。
func (g *Graph) ExpandCURIE(curie string) (IRI, error) {
	iri, err := g.ns.ExpandCURIE(curie)
	if err != nil {
		return "", err
	}
	return IRI(iri), nil
}

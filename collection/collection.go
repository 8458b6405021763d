// Package collection extracts nested RDF list containers into Go slices.
//
// Each element of the result is one of: a graph.IRI, a Go scalar decoded from
// a literal (int64, float64, bool, time.Time), a string, or a nested []any
// when the element is itself the head of another list. Blank nodes are
// tracked for the duration of one Load call, so a structure that refers back
// to a list it is already inside fails with a CycleError instead of looping.
package collection

import (
	"errors"
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/rdf-utils/rdf-utils/graph"
)

// ErrCycle 用于 errors.Is 判断，具体节点见 CycleError。
var ErrCycle = errors.New("loop detected in collection")

// CycleError 记录触发环检测的节点。
type CycleError struct {
	Node graph.Node
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("loop detected in collection at node: %s", e.Node)
}

// Is 让 errors.Is(err, ErrCycle) 成立。
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// Graph 是加载列表所需的图查询能力。
type Graph interface {
	// Items 按稳定顺序返回以 head 开头的列表元素。
	Items(head graph.Node) ([]graph.Node, error)
	// ExpandCURIE 展开短格式标识，前缀未知时返回可区分的错误。
	ExpandCURIE(curie string) (graph.IRI, error)
}

type options struct {
	parseURI bool
	quiet    bool
}

// Option 调整 Load 的行为。
type Option func(*options)

// WithParseURI 控制是否尝试把文本字面量展开为 IRI，默认开启。
func WithParseURI(enabled bool) Option {
	return func(o *options) { o.parseURI = enabled }
}

// WithQuiet 控制 CURIE 展开失败时是否静默回退为原始字符串 IRI，默认开启。
// 环检测错误不受影响。
func WithQuiet(quiet bool) Option {
	return func(o *options) { o.quiet = quiet }
}

// Load 从 head 开始递归展开列表。
func Load(g Graph, head graph.Node, opts ...Option) ([]any, error) {
	o := options{parseURI: true, quiet: true}
	for _, opt := range opts {
		opt(&o)
	}

	l := loader{
		graph:   g,
		opts:    o,
		visited: map[graph.BlankNode]struct{}{},
	}
	if b, ok := head.(graph.BlankNode); ok {
		l.visited[b] = struct{}{}
	}
	return l.load(head)
}

type loader struct {
	graph   Graph
	opts    options
	visited map[graph.BlankNode]struct{}
}

func (l *loader) load(head graph.Node) ([]any, error) {
	nodes, err := l.graph.Items(head)
	if err != nil {
		return nil, err
	}

	result := make([]any, 0, len(nodes))
	for _, n := range nodes {
		switch node := n.(type) {
		case graph.IRI:
			result = append(result, node)

		case graph.Literal:
			value, err := l.literal(node)
			if err != nil {
				return nil, err
			}
			result = append(result, value)

		case graph.BlankNode:
			if _, seen := l.visited[node]; seen {
				return nil, &CycleError{Node: node}
			}
			l.visited[node] = struct{}{}

			nested, err := l.load(node)
			if err != nil {
				return nil, err
			}
			result = append(result, nested)

		default:
			panic(fmt.Sprintf("collection: node '%v' is not an IRI, Literal or BlankNode, type: %T", n, n))
		}
	}
	return result, nil
}

// literal 只对文本字面量尝试 CURIE 展开；带其它数据类型的字面量始终保持标量，
// 词法形式无法解析时返回词法字符串。
func (l *loader) literal(lit graph.Literal) (any, error) {
	if !lit.IsString() || !l.opts.parseURI {
		return lit.Value(), nil
	}
	str := lit.Lexical

	iri, err := l.graph.ExpandCURIE(str)
	if err == nil {
		return iri, nil
	}
	if l.opts.quiet {
		return graph.IRI(str), nil
	}
	return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to expand '%s'", str)
}

package namespace

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownPrefix 表示 CURIE 使用了未绑定的前缀。
	ErrUnknownPrefix = errors.New("prefix not bound to any namespace")
	// ErrInvalidCURIE 表示字符串不具备 prefix:reference 形式。
	ErrInvalidCURIE = errors.New("invalid CURIE")
)

// Binding 是一条前缀到命名空间 IRI 的映射。
type Binding struct {
	Prefix    string
	Namespace string
}

// Manager 维护前缀表，读多写少，可在多个 goroutine 间共享。
type Manager struct {
	mu       sync.RWMutex
	prefixes map[string]string
}

// NewManager 返回预置 rdf/rdfs/xsd/owl 前缀的命名空间表。
func NewManager() *Manager {
	m := &Manager{prefixes: make(map[string]string)}
	m.prefixes["rdf"] = URIRDF
	m.prefixes["rdfs"] = URIRDFS
	m.prefixes["xsd"] = URIXSD
	m.prefixes["owl"] = URIOWL
	return m
}

// Bind 绑定（或覆盖）一个前缀。
func (m *Manager) Bind(prefix, namespace string) error {
	prefix = strings.TrimSpace(prefix)
	if strings.Contains(prefix, ":") {
		return fmt.Errorf("bind %q: prefix must not contain ':'", prefix)
	}
	if namespace == "" {
		return fmt.Errorf("bind %q: namespace required", prefix)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefixes[prefix] = namespace
	return nil
}

// Namespace 返回前缀对应的命名空间。
func (m *Manager) Namespace(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.prefixes[prefix]
	return ns, ok
}

// Bindings 返回按前缀排序的绑定列表。
func (m *Manager) Bindings() []Binding {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Binding, 0, len(m.prefixes))
	for prefix, ns := range m.prefixes {
		result = append(result, Binding{Prefix: prefix, Namespace: ns})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Prefix < result[j].Prefix
	})
	return result
}

// ExpandCURIE 将 "prefix:reference" 展开为完整 IRI。
// 前缀未绑定时返回 ErrUnknownPrefix，格式不合法时返回 ErrInvalidCURIE。
func (m *Manager) ExpandCURIE(curie string) (string, error) {
	prefix, reference, ok := strings.Cut(curie, ":")
	if !ok {
		return "", fmt.Errorf("%w: %q has no ':' separator", ErrInvalidCURIE, curie)
	}
	if strings.HasPrefix(reference, "//") {
		return "", fmt.Errorf("%w: %q looks like an absolute IRI", ErrInvalidCURIE, curie)
	}

	ns, found := m.Namespace(prefix)
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	return ns + reference, nil
}

// TryExpandCURIE 在 quiet 为 true 时吞掉展开错误并返回 ok=false，
// 否则把错误包装后返回给调用方。
func TryExpandCURIE(m *Manager, curie string, quiet bool) (string, bool, error) {
	iri, err := m.ExpandCURIE(curie)
	if err != nil {
		if quiet {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to expand '%s': %w", curie, err)
	}
	return iri, true, nil
}

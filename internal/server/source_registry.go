package server

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rdf-utils/rdf-utils/internal/config"
	"github.com/rdf-utils/rdf-utils/resolver"
)

// SourceRoute 将 Source 配置与解析后的前缀映射聚合在一起，供路由/日志直接复用。
type SourceRoute struct {
	// Name 是配置中的 Source 名称；使用内置映射时取缓存子目录名。
	Name string
	// Mapping 是生效的前缀映射，Directory 已拼接 CacheRoot。
	Mapping resolver.PrefixMapping
	// ListenPort 记录当前监听端口，方便日志输出。
	ListenPort int
}

// SourceRegistry 提供 URL 到 SourceRoute 的查询能力，匹配规则与 resolver 一致。
type SourceRegistry struct {
	prefixes *resolver.PrefixResolver
	routes   map[string]*SourceRoute
	ordered  []*SourceRoute
	download bool
}

// NewSourceRegistry 根据配置构建映射表。调用方应在启动阶段创建一次并复用。
func NewSourceRegistry(cfg *config.Config) (*SourceRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	mappings := cfg.Mappings()
	prefixes, err := resolver.NewPrefixResolver(mappings)
	if err != nil {
		return nil, err
	}

	registry := &SourceRegistry{
		prefixes: prefixes,
		routes:   make(map[string]*SourceRoute, len(mappings)),
		download: cfg.Global.Download,
	}

	for i, mapping := range prefixes.Mappings() {
		name := filepath.Base(mapping.Directory)
		if i < len(cfg.Sources) {
			name = cfg.Sources[i].Name
		}
		if _, exists := registry.routes[mapping.Prefix]; exists {
			return nil, fmt.Errorf("duplicate prefix mapping detected for %s", mapping.Prefix)
		}

		route := &SourceRoute{
			Name:       name,
			Mapping:    mapping,
			ListenPort: cfg.Global.ListenPort,
		}
		registry.routes[mapping.Prefix] = route
		registry.ordered = append(registry.ordered, route)
	}

	return registry, nil
}

// Lookup 返回 URL 命中的 SourceRoute 与候选缓存路径；未命中任何前缀时 ok=false。
func (r *SourceRegistry) Lookup(rawURL string) (*SourceRoute, string, bool) {
	if r == nil {
		return nil, "", false
	}

	match, ok := r.prefixes.Lookup(rawURL)
	if !ok {
		return nil, "", false
	}
	route, ok := r.routes[match.Mapping.Prefix]
	if !ok {
		return nil, "", false
	}
	return route, match.Path, true
}

// List 返回当前注册的 SourceRoute 列表（按配置定义的顺序），用于 /-/sources 输出。
func (r *SourceRegistry) List() []SourceRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}

	result := make([]SourceRoute, len(r.ordered))
	for i, route := range r.ordered {
		result[i] = *route
	}
	return result
}

// DownloadEnabled 表示缓存缺失时是否会下载落盘。
func (r *SourceRegistry) DownloadEnabled() bool {
	return r != nil && r.download
}

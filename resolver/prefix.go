package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// ErrInvalidMapping 表示前缀映射表中存在非法条目。
var ErrInvalidMapping = errors.New("invalid prefix mapping")

// PrefixMapping 将一个 URL 前缀映射到本地目录。
type PrefixMapping struct {
	Prefix    string `json:"prefix"`
	Directory string `json:"directory"`
}

// Match 是一次成功的前缀匹配：命中的映射与推导出的本地路径。
type Match struct {
	Mapping PrefixMapping
	Path    string
}

type prefixRule struct {
	mapping  PrefixMapping
	scheme   string
	host     string
	segments []string
}

// PrefixResolver 按路径段比较 URL 与前缀：前缀 /foo 匹配 /foo 与 /foo/bar，
// 但不匹配 /foobar。scheme 与 host 不区分大小写，query 与 fragment 不参与映射。
// 多个前缀同时命中时按注册顺序取第一个。
type PrefixResolver struct {
	rules []prefixRule
}

// NewPrefixResolver 校验映射表并构建解析器；前缀必须是带 scheme 与 host 的绝对 URL。
func NewPrefixResolver(mappings []PrefixMapping) (*PrefixResolver, error) {
	rules := make([]prefixRule, 0, len(mappings))
	for i, m := range mappings {
		prefix := strings.TrimSpace(m.Prefix)
		u, err := url.Parse(prefix)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, invalidMapping(i, m, "prefix must be an absolute URL")
		}
		if u.RawQuery != "" || u.Fragment != "" {
			return nil, invalidMapping(i, m, "prefix must not carry a query or fragment")
		}
		if strings.TrimSpace(m.Directory) == "" {
			return nil, invalidMapping(i, m, "directory required")
		}
		segments, ok := splitSegments(u.EscapedPath())
		if !ok {
			return nil, invalidMapping(i, m, "prefix path must not encode '/' or dot segments")
		}

		rules = append(rules, prefixRule{
			mapping:  PrefixMapping{Prefix: prefix, Directory: m.Directory},
			scheme:   strings.ToLower(u.Scheme),
			host:     strings.ToLower(u.Host),
			segments: segments,
		})
	}
	return &PrefixResolver{rules: rules}, nil
}

func invalidMapping(index int, m PrefixMapping, reason string) error {
	return platformerrors.Wrap(
		fmt.Errorf("%w #%d (%q -> %q): %s", ErrInvalidMapping, index, m.Prefix, m.Directory, reason),
		platformerrors.CodeInvalidConfig,
		"build prefix resolver",
	)
}

// Resolve 返回 rawURL 对应的本地缓存路径；没有前缀命中时返回 ok=false。
// 该方法不访问文件系统。
func (r *PrefixResolver) Resolve(rawURL string) (string, bool) {
	match, ok := r.Lookup(rawURL)
	if !ok {
		return "", false
	}
	return match.Path, true
}

// Lookup 与 Resolve 相同，但额外返回命中的映射，便于日志输出。
func (r *PrefixResolver) Lookup(rawURL string) (Match, bool) {
	if r == nil || len(r.rules) == 0 {
		return Match{}, false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return Match{}, false
	}
	// 编码后的 "/" 无法映射为唯一的本地路径，这类 URL 按未命中处理。
	segments, ok := splitSegments(u.EscapedPath())
	if !ok {
		return Match{}, false
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)

	for _, rule := range r.rules {
		if rule.scheme != scheme || rule.host != host {
			continue
		}
		if !hasSegmentPrefix(segments, rule.segments) {
			continue
		}
		parts := append([]string{rule.mapping.Directory}, segments[len(rule.segments):]...)
		return Match{Mapping: rule.mapping, Path: filepath.Join(parts...)}, true
	}
	return Match{}, false
}

// Mappings 返回按注册顺序排列的映射表副本。
func (r *PrefixResolver) Mappings() []PrefixMapping {
	if r == nil {
		return nil
	}
	result := make([]PrefixMapping, len(r.rules))
	for i, rule := range r.rules {
		result[i] = rule.mapping
	}
	return result
}

// splitSegments 在转义形式的路径上切分路径段后再逐段解码，并清理 "." 与 ".."，
// 保证推导出的本地路径不会跳出映射目录。解码后仍含分隔符或成为点段的路径段
// 会让 ok=false：a%2Fb 与 a/b 不能落到同一个缓存文件。
func splitSegments(escaped string) ([]string, bool) {
	cleaned := path.Clean("/" + escaped)
	if cleaned == "/" {
		return nil, true
	}
	raw := strings.Split(strings.TrimPrefix(cleaned, "/"), "/")
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, false
		}
		if decoded == "." || decoded == ".." || strings.ContainsAny(decoded, "/\\") {
			return nil, false
		}
		segments = append(segments, decoded)
	}
	return segments, true
}

func hasSegmentPrefix(segments, prefix []string) bool {
	if len(prefix) > len(segments) {
		return false
	}
	for i := range prefix {
		if segments[i] != prefix[i] {
			return false
		}
	}
	return true
}

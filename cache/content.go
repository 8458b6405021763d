package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// ErrInvalidUTF8 表示加载到的内容不是合法的 UTF-8 文本。
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// Loader 读取 key 对应的原始内容，例如文件路径或 URL。
type Loader func(ctx context.Context, key string) ([]byte, error)

// ContentCache 以 key 为索引缓存解码后的文本，进程生命周期内不淘汰。
// 同一 key 的并发首次加载会经 LoadGroup 合并为一次 loader 调用；
// 某个调用方超时或取消只影响它自己，loader 继续为其余等待者运行。
type ContentCache struct {
	name string

	mu      sync.RWMutex
	entries map[string]string
	group   LoadGroup
}

// NewContentCache 创建一个空的内容缓存，name 仅用于错误信息。
func NewContentCache(name string) *ContentCache {
	return &ContentCache{
		name:    name,
		entries: make(map[string]string),
	}
}

// GetOrLoad 命中时直接返回缓存文本；未命中时调用 loader 一次并缓存结果。
// loader 失败时不写入任何条目，下一次调用会重新加载。
func (c *ContentCache) GetOrLoad(ctx context.Context, key string, loader Loader) (string, error) {
	if text, ok := c.Get(key); ok {
		return text, nil
	}

	value, err := c.group.Do(ctx, key, func(ctx context.Context) (interface{}, error) {
		if text, ok := c.Get(key); ok {
			return text, nil
		}
		raw, err := loader(ctx, key)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%s cache %q: %w", c.name, key, ErrInvalidUTF8)
		}
		text := string(raw)

		c.mu.Lock()
		c.entries[key] = text
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Get 仅查询缓存，不触发加载。
func (c *ContentCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[key]
	return text, ok
}

// Len 返回已缓存条目数。
func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys 返回排序后的全部 key，供诊断输出。
func (c *ContentCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

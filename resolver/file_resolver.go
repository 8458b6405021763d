package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/sirupsen/logrus"

	"github.com/rdf-utils/rdf-utils/cache"
)

// Options 控制 FileResolver 的构建。
type Options struct {
	// URLMap 为 URL 前缀到本地目录的映射，按顺序匹配。
	URLMap []PrefixMapping
	// DisableDownload 为 true 时缓存缺失直接走默认 opener，且不创建任何文件或目录。
	DisableDownload bool
	// Quiet 关闭下载日志。
	Quiet  bool
	Logger *logrus.Logger
	// Store/Fallback 为空时分别使用 cache.NewStore 与 NewHTTPOpener(nil)。
	Store    cache.Store
	Fallback Opener
}

// FileResolver 负责 orchestrate “前缀匹配 → 磁盘命中 → 回源下载并落盘” 的流程。
// 命中的文件不会再与远端比对，缓存内容视为不可变。
type FileResolver struct {
	prefixes *PrefixResolver
	store    cache.Store
	fallback Opener
	download bool
	quiet    bool
	logger   *logrus.Logger
	group    cache.LoadGroup
}

// NewFileResolver 校验映射表并构建解析器。
func NewFileResolver(opts Options) (*FileResolver, error) {
	prefixes, err := NewPrefixResolver(opts.URLMap)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store = cache.NewStore()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewHTTPOpener(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &FileResolver{
		prefixes: prefixes,
		store:    store,
		fallback: fallback,
		download: !opts.DisableDownload,
		quiet:    opts.Quiet,
		logger:   logger,
	}, nil
}

// Mappings 返回当前生效的前缀映射。
func (r *FileResolver) Mappings() []PrefixMapping {
	return r.prefixes.Mappings()
}

// DownloadEnabled 表示缓存缺失时是否会下载落盘。
func (r *FileResolver) DownloadEnabled() bool {
	return r.download
}

// OpenURL 是 OpenURL(ctx, r, rawURL, timeout) 的快捷方式。
func (r *FileResolver) OpenURL(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, error) {
	return OpenURL(ctx, r, rawURL, timeout)
}

// RoundTrip 使 FileResolver 可以直接作为 http.Client 的 Transport。
func (r *FileResolver) RoundTrip(req *http.Request) (*http.Response, error) {
	return r.Open(req)
}

// Open 按前缀映射解析请求。未命中任何前缀时原样交给默认 opener；
// 命中且文件存在时直接返回文件（状态码恒为 200）；文件缺失时按 download 配置
// 回源下载落盘或直接走默认 opener。
func (r *FileResolver) Open(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "request URL required")
	}
	req = normalizeRequest(req)

	match, ok := r.prefixes.Lookup(req.URL.String())
	if !ok {
		return r.fallback.Open(req)
	}

	ctx := req.Context()
	result, err := r.store.Get(ctx, match.Path)
	switch {
	case err == nil:
		r.logger.WithFields(r.fields("resolver_cache_hit", req, match)).Debug("cache hit")
		return cachedResponse(req, result), nil
	case errors.Is(err, cache.ErrIsDirectory):
		return r.fallback.Open(req)
	case errors.Is(err, cache.ErrNotFound):
		// miss, continue
	default:
		return nil, err
	}

	if !r.download {
		return r.fallback.Open(req)
	}

	if err := r.fetchToCache(req, match); err != nil {
		return nil, err
	}

	result, err = r.store.Get(ctx, match.Path)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, platformerrors.Newf(platformerrors.CodeInternal,
				"file '%s' not cached for URL '%s'", match.Path, req.URL.Redacted())
		}
		return nil, err
	}
	return cachedResponse(req, result), nil
}

// fetchToCache 同一路径的并发下载经 LoadGroup 合并，落盘由 Store 的 entryLock 串行化。
// 下载不继承发起者的取消与超时，每个调用方只按自己请求的 context 等待。
func (r *FileResolver) fetchToCache(req *http.Request, match Match) error {
	ctx := req.Context()
	_, err := r.group.Do(ctx, match.Path, func(workCtx context.Context) (interface{}, error) {
		if info, err := os.Stat(match.Path); err == nil && !info.IsDir() {
			return nil, nil
		}

		if err := cache.EnsureDir(filepath.Dir(match.Path)); err != nil {
			return nil, wrapStoreError(err, "prepare cache directory")
		}

		shared := req.WithContext(workCtx)
		if !r.quiet {
			r.logger.WithFields(r.fields("resolver_download", shared, match)).Info("downloading and caching")
		}

		resp, err := r.fallback.Open(shared)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		started := time.Now()
		entry, err := r.store.Put(workCtx, match.Path, resp.Body)
		if err != nil {
			return nil, wrapStoreError(err, fmt.Sprintf("write cache file %s", match.Path))
		}

		fields := r.fields("resolver_download", shared, match)
		fields["size_bytes"] = entry.SizeBytes
		fields["elapsed_ms"] = time.Since(started).Milliseconds()
		r.logger.WithFields(fields).Debug("cached")
		return entry, nil
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		code := platformerrors.CodeNetwork
		if errors.Is(err, context.DeadlineExceeded) {
			code = platformerrors.CodeTimeout
		}
		return platformerrors.Wrapf(err, code, "download %s", req.URL.Redacted())
	}
	return err
}

func wrapStoreError(err error, message string) error {
	if errors.Is(err, cache.ErrNotDirectory) {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

func (r *FileResolver) fields(action string, req *http.Request, match Match) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"url":        req.URL.Redacted(),
		"prefix":     match.Mapping.Prefix,
		"cache_path": match.Path,
	}
}

// cachedBody 暴露缓存文件路径，供 CachedPath 查询。
type cachedBody struct {
	io.ReadSeekCloser
	path string
}

func (b *cachedBody) Name() string {
	return b.path
}

func cachedResponse(req *http.Request, result *cache.ReadResult) *http.Response {
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          &cachedBody{ReadSeekCloser: result.Reader, path: result.Entry.FilePath},
		ContentLength: result.Entry.SizeBytes,
		Request:       req,
	}
}

// CachedPath 返回响应对应的本地缓存文件；网络响应返回 ok=false。
func CachedPath(resp *http.Response) (string, bool) {
	if resp == nil || resp.Body == nil {
		return "", false
	}
	named, ok := resp.Body.(interface{ Name() string })
	if !ok {
		return "", false
	}
	if name := named.Name(); name != "" {
		return name, true
	}
	return "", false
}

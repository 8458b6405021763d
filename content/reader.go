package content

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/rdf-utils/rdf-utils/cache"
	"github.com/rdf-utils/rdf-utils/resolver"
)

// Reader 组合文件与 URL 两个内容缓存，URL 一律经由 ResolverContext 当前生效的 Opener 读取。
type Reader struct {
	files    *cache.ContentCache
	urls     *cache.ContentCache
	resolver *resolver.ResolverContext
}

// NewReader 创建独立的读取器，rc 为空时使用 resolver.Default。
func NewReader(rc *resolver.ResolverContext) *Reader {
	if rc == nil {
		rc = resolver.Default
	}
	return &Reader{
		files:    cache.NewContentCache("file"),
		urls:     cache.NewContentCache("url"),
		resolver: rc,
	}
}

// Files 返回按路径索引的内容缓存。
func (r *Reader) Files() *cache.ContentCache {
	return r.files
}

// URLs 返回按 URL 索引的内容缓存。
func (r *Reader) URLs() *cache.ContentCache {
	return r.urls
}

// ReadFile 读取整个文件并缓存其文本，之后对同一路径的调用不再访问磁盘。
func (r *Reader) ReadFile(ctx context.Context, path string) (string, error) {
	return r.files.GetOrLoad(ctx, path, loadFile)
}

// ReadURL 通过当前生效的 Opener 执行 GET 并缓存响应文本。timeout <= 0 表示不限时，
// 超时同时覆盖建立连接与读取正文。并发读取同一 URL 时共享一次下载，
// 每个调用方只按自己的 ctx 与 timeout 等待。
func (r *Reader) ReadURL(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := r.urls.GetOrLoad(ctx, rawURL, func(ctx context.Context, key string) ([]byte, error) {
		resp, err := r.resolver.Open(ctx, key, timeout)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, platformerrors.Wrapf(err, networkCode(err), "read %s", key)
		}
		return data, nil
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return "", platformerrors.Wrapf(err, networkCode(err), "read %s", rawURL)
	}
	return text, err
}

func networkCode(err error) platformerrors.ErrorCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return platformerrors.CodeTimeout
	}
	return platformerrors.CodeNetwork
}

func loadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, platformerrors.Wrapf(err, platformerrors.CodeNotFound, "read %s", path)
		}
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInternal, "read %s", path)
	}
	return data, nil
}

var defaultReader = NewReader(resolver.Default)

var (
	// Files 是进程级的文件内容缓存。
	Files = defaultReader.Files()
	// URLs 是进程级的 URL 内容缓存。
	URLs = defaultReader.URLs()
)

// ReadFileAndCache 在进程级缓存中读取文件文本。
func ReadFileAndCache(path string) (string, error) {
	return defaultReader.ReadFile(context.Background(), path)
}

// ReadURLAndCache 在进程级缓存中读取 URL 文本，读取经由 resolver.Default。
func ReadURLAndCache(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	return defaultReader.ReadURL(ctx, rawURL, timeout)
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/rdf-utils/rdf-utils/internal/version"
)

// Opener 把一次请求转换为响应字节流。返回的响应需由调用方关闭 Body。
type Opener interface {
	Open(req *http.Request) (*http.Response, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(req *http.Request) (*http.Response, error)

// Open makes OpenerFunc satisfy Opener.
func (f OpenerFunc) Open(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewRequest 将普通 URL 规范化为带 User-Agent 的 GET 请求。
func NewRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid URL %q", rawURL)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	return req, nil
}

// normalizeRequest 为调用方构造好的请求补齐 User-Agent，已有的请求头保持不变。
// 需要修改时先 Clone，避免改写调用方持有的请求。
func normalizeRequest(req *http.Request) *http.Request {
	if req.Header.Get("User-Agent") != "" {
		return req
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", version.UserAgent())
	return cloned
}

// OpenURL 以 rawURL 构造请求并交给 opener；timeout <= 0 表示不限时。
// 超时覆盖到 Body 读取结束，关闭 Body 时释放 context。
func OpenURL(ctx context.Context, opener Opener, rawURL string, timeout time.Duration) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := NewRequest(ctx, rawURL)
	if err != nil {
		cancel()
		return nil, err
	}

	resp, err := opener.Open(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Name 透传底层缓存文件名，使 CachedPath 在超时包装后依然可用。
func (c *cancelOnClose) Name() string {
	if named, ok := c.ReadCloser.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}

// HTTPOpener 是默认 opener：直接经由 http.Client 访问网络，
// 保留重定向、TLS 与代理环境变量等默认行为。
type HTTPOpener struct {
	client *http.Client
}

// NewHTTPOpener 使用给定 client 构建默认 opener，client 为空时使用 NewHTTPClient。
func NewHTTPOpener(client *http.Client) *HTTPOpener {
	if client == nil {
		client = NewHTTPClient()
	}
	return &HTTPOpener{client: client}
}

// Open 执行请求；网络错误包装为 CodeNetwork/CodeTimeout，4xx/5xx 返回 StatusError。
func (o *HTTPOpener) Open(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "request URL required")
	}

	switch strings.ToLower(req.URL.Scheme) {
	case "http", "https", "ftp", "file":
	default:
		return nil, platformerrors.Wrapf(ErrUnsupportedScheme, platformerrors.CodeInvalidInput,
			"open %s: scheme %q", req.URL.Redacted(), req.URL.Scheme)
	}

	resp, err := o.client.Do(normalizeRequest(req))
	if err != nil {
		code := platformerrors.CodeNetwork
		if errors.Is(err, context.DeadlineExceeded) {
			code = platformerrors.CodeTimeout
		}
		return nil, platformerrors.Wrapf(err, code, "open %s", req.URL.Redacted())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		statusErr := &StatusError{URL: req.URL.Redacted(), StatusCode: resp.StatusCode, Status: resp.Status}
		return nil, platformerrors.Wrap(statusErr, platformerrors.CodeNetwork, fmt.Sprintf("open %s", req.URL.Redacted()))
	}
	return resp, nil
}

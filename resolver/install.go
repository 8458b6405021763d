package resolver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// InstallOptions 描述一次安装。Resolver 非空时直接安装它，其余字段被忽略；
// 否则以 URLMap 构建 FileResolver，URLMap 为 nil 时使用 DefaultMappings。
// 非 nil 的空 URLMap 表示不做任何重定向。
type InstallOptions struct {
	Resolver        Opener
	URLMap          []PrefixMapping
	DisableDownload bool
	Quiet           bool
	Logger          *logrus.Logger
}

// ResolverContext 持有唯一生效的 Opener。应在进程启动时安装一次，之后只读；
// 每次 Install 整体替换之前的 Opener，不叠加也不恢复。
type ResolverContext struct {
	mu       sync.RWMutex
	active   Opener
	fallback Opener
}

// NewResolverContext 创建尚未安装解析器的上下文，此时 Active 返回默认网络 opener。
func NewResolverContext() *ResolverContext {
	return &ResolverContext{fallback: NewHTTPOpener(nil)}
}

// Default 是进程级的解析上下文，包级函数都作用于它。
var Default = NewResolverContext()

// Install 构建并安装解析器。构建失败时保留原有的 Opener。
func (c *ResolverContext) Install(opts InstallOptions) (Opener, error) {
	opener := opts.Resolver
	if opener == nil {
		urlMap := opts.URLMap
		if urlMap == nil {
			urlMap = DefaultMappings(DefaultCacheRoot())
		}
		fileResolver, err := NewFileResolver(Options{
			URLMap:          urlMap,
			DisableDownload: opts.DisableDownload,
			Quiet:           opts.Quiet,
			Logger:          opts.Logger,
			Fallback:        c.fallback,
		})
		if err != nil {
			return nil, err
		}
		opener = fileResolver
	}

	c.mu.Lock()
	c.active = opener
	c.mu.Unlock()
	return opener, nil
}

// Active 返回当前生效的 Opener；尚未安装时为默认网络 opener。
func (c *ResolverContext) Active() Opener {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return c.fallback
	}
	return c.active
}

// Installed 表示是否已经调用过 Install。
func (c *ResolverContext) Installed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active != nil
}

// Open 通过当前 Opener 打开 rawURL，timeout <= 0 表示不限时。
func (c *ResolverContext) Open(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, error) {
	return OpenURL(ctx, c.Active(), rawURL, timeout)
}

// Client 返回一个 http.Client，其每次请求都会经过调用时刻生效的 Opener。
func (c *ResolverContext) Client() *http.Client {
	return &http.Client{Transport: contextTransport{rc: c}}
}

type contextTransport struct {
	rc *ResolverContext
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.rc.Active().Open(req)
}

// Install 在 Default 上安装解析器。
func Install(opts InstallOptions) (Opener, error) {
	return Default.Install(opts)
}

// Active 返回 Default 当前生效的 Opener。
func Active() Opener {
	return Default.Active()
}

// Open 通过 Default 打开 rawURL。
func Open(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, error) {
	return Default.Open(ctx, rawURL, timeout)
}

// Client 返回经由 Default 的 http.Client。
func Client() *http.Client {
	return Default.Client()
}

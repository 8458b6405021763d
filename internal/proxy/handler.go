package proxy

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/sirupsen/logrus"

	"github.com/rdf-utils/rdf-utils/internal/logging"
	"github.com/rdf-utils/rdf-utils/internal/server"
	"github.com/rdf-utils/rdf-utils/resolver"
)

// Handler 负责把 /resolve 请求交给当前安装的解析器，并把结果原样流式返回。
// 前缀命中、磁盘命中与回源下载全部由解析器完成，这里只做协议转换与日志。
type Handler struct {
	resolver *resolver.ResolverContext
	logger   *logrus.Logger
	timeout  time.Duration
}

// NewHandler constructs a proxy handler bound to a resolver context. timeout <= 0
// means no per-request limit.
func NewHandler(rc *resolver.ResolverContext, logger *logrus.Logger, timeout time.Duration) *Handler {
	if rc == nil {
		rc = resolver.Default
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Handler{
		resolver: rc,
		logger:   logger,
		timeout:  timeout,
	}
}

// Handle 实现 server.ProxyHandler。
func (h *Handler) Handle(c fiber.Ctx, req *server.ResolveRequest) error {
	requestID := server.RequestID(c)
	started := time.Now()

	// 打开前先记录磁盘状态，用于区分“已有缓存”与“本次刚下载”。
	preexisting := req.CachePath != "" && isRegularFile(req.CachePath)

	resp, err := h.resolver.Open(c.Context(), req.URL, h.timeout)
	if err != nil {
		status, code := classifyError(err)
		h.logResult(req, requestID, status, false, started, err)
		return h.writeError(c, status, code)
	}
	defer resp.Body.Close()

	_, servedFromDisk := resolver.CachedPath(resp)
	cacheHit := servedFromDisk && preexisting

	copyResponseHeaders(c, resp.Header)
	c.Set("X-Rdf-Utils-Cache-Hit", strconv.FormatBool(cacheHit))
	if req.Route != nil {
		c.Set("X-Rdf-Utils-Source", req.Route.Name)
	}
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	c.Status(resp.StatusCode)

	if c.Method() == http.MethodHead {
		h.logResult(req, requestID, resp.StatusCode, cacheHit, started, nil)
		return nil
	}

	_, err = io.Copy(c.Response().BodyWriter(), resp.Body)
	h.logResult(req, requestID, resp.StatusCode, cacheHit, started, err)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("proxy stream failed: %v", err))
	}
	return nil
}

// classifyError 将解析错误映射为 HTTP 状态码与错误码。
func classifyError(err error) (int, string) {
	var statusErr *resolver.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.StatusCode, "upstream_status"
	case errors.Is(err, resolver.ErrUnsupportedScheme):
		return fiber.StatusBadRequest, "unsupported_scheme"
	}

	switch platformerrors.GetCode(err) {
	case platformerrors.CodeInvalidInput:
		return fiber.StatusBadRequest, "invalid_url"
	case platformerrors.CodeTimeout:
		return fiber.StatusGatewayTimeout, "upstream_timeout"
	case platformerrors.CodeInvalidConfig:
		return fiber.StatusInternalServerError, "cache_misconfigured"
	default:
		return fiber.StatusBadGateway, "upstream_failed"
	}
}

func (h *Handler) writeError(c fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}

func (h *Handler) logResult(
	req *server.ResolveRequest,
	requestID string,
	status int,
	cacheHit bool,
	started time.Time,
	err error,
) {
	source := ""
	if req.Route != nil {
		source = req.Route.Name
	}
	fields := logging.FetchFields(req.URL, source, req.CachePath, cacheHit)
	fields["action"] = "proxy"
	fields["status"] = status
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if err != nil {
		fields["error"] = err.Error()
		h.logger.WithFields(fields).Error("proxy_failed")
		return
	}
	h.logger.WithFields(fields).Info("proxy_complete")
}

func copyResponseHeaders(c fiber.Ctx, headers http.Header) {
	for key, values := range headers {
		if server.IsHopByHopHeader(key) {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

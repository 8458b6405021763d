package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ResolveRequest 描述一次 /resolve 请求：目标 URL 以及它命中的 Source。
type ResolveRequest struct {
	URL string
	// Route 是命中的 Source；路由层不会转发未命中前缀的请求。
	Route *SourceRoute
	// CachePath 是命中前缀时推导出的本地缓存路径。
	CachePath string
}

// ProxyHandler describes the component responsible for turning a resolve
// request into a response. It allows injecting fake handlers during tests.
type ProxyHandler interface {
	Handle(fiber.Ctx, *ResolveRequest) error
}

// ProxyHandlerFunc adapts a function to the ProxyHandler interface.
type ProxyHandlerFunc func(fiber.Ctx, *ResolveRequest) error

// Handle makes ProxyHandlerFunc satisfy ProxyHandler.
func (f ProxyHandlerFunc) Handle(c fiber.Ctx, req *ResolveRequest) error {
	return f(c, req)
}

// AppOptions controls how the Fiber application should behave on a specific port.
type AppOptions struct {
	Logger     *logrus.Logger
	Registry   *SourceRegistry
	Proxy      ProxyHandler
	ListenPort int
}

const contextKeyRequestID = "_rdfutils_request_id"

// NewApp builds a Fiber application with request ID middleware, the /resolve
// endpoint and structured error handling.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("source registry is required")
	}
	if opts.Proxy == nil {
		return nil, errors.New("proxy handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())

	app.Get("/-/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 镜像只代理已配置的 Source：其它 scheme（file:// 等）与未命中前缀的 URL
	// 一律在进入解析器之前拒绝。
	app.Get("/resolve", func(c fiber.Ctx) error {
		target := strings.TrimSpace(c.Query("url"))
		if target == "" {
			return renderRejected(c, opts.Logger, fiber.StatusBadRequest, "url_required", target)
		}

		parsed, err := url.Parse(target)
		if err != nil || parsed.Host == "" {
			return renderRejected(c, opts.Logger, fiber.StatusBadRequest, "invalid_url", target)
		}
		switch strings.ToLower(parsed.Scheme) {
		case "http", "https":
		default:
			return renderRejected(c, opts.Logger, fiber.StatusBadRequest, "unsupported_scheme", target)
		}

		route, cachePath, ok := opts.Registry.Lookup(target)
		if !ok {
			return renderRejected(c, opts.Logger, fiber.StatusForbidden, "url_not_mapped", target)
		}
		return opts.Proxy.Handle(c, &ResolveRequest{
			URL:       target,
			Route:     route,
			CachePath: cachePath,
		})
	})

	return app, nil
}

// RegisterFallback 在所有路由注册完成后调用，为未知路径返回 JSON 404。
func RegisterFallback(app *fiber.App) {
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "route_not_found",
		})
	})
}

// requestContextMiddleware 负责生成请求 ID 并回写到响应头。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

func renderRejected(c fiber.Ctx, logger *logrus.Logger, status int, code, target string) error {
	logger.WithFields(logrus.Fields{
		"action":     "resolve",
		"request_id": RequestID(c),
		"url":        target,
		"status":     status,
		"error":      code,
	}).Warn("request rejected")

	return c.Status(status).JSON(fiber.Map{
		"error": code,
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

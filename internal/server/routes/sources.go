package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rdf-utils/rdf-utils/internal/server"
)

// RegisterSourceRoutes 暴露 /-/sources 诊断接口，列出 URL 前缀与本地缓存目录的映射关系。
func RegisterSourceRoutes(app *fiber.App, registry *server.SourceRegistry) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/sources", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"sources":          encodeSources(registry.List()),
			"download_enabled": registry.DownloadEnabled(),
		}
		return c.JSON(payload)
	})

	app.Get("/-/sources/:name", func(c fiber.Ctx) error {
		name := strings.TrimSpace(c.Params("name"))
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source_name_required"})
		}
		for _, route := range registry.List() {
			if route.Name == name {
				return c.JSON(encodeSource(route))
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "source_not_found"})
	})
}

type sourcePayload struct {
	Name      string `json:"name"`
	Prefix    string `json:"prefix"`
	Directory string `json:"directory"`
	Port      int    `json:"port"`
}

// encodeSources 保持注册顺序输出，先注册的前缀在重叠时优先。
func encodeSources(routes []server.SourceRoute) []sourcePayload {
	if len(routes) == 0 {
		return nil
	}
	result := make([]sourcePayload, 0, len(routes))
	for _, route := range routes {
		result = append(result, encodeSource(route))
	}
	return result
}

func encodeSource(route server.SourceRoute) sourcePayload {
	return sourcePayload{
		Name:      route.Name,
		Prefix:    route.Mapping.Prefix,
		Directory: route.Mapping.Directory,
		Port:      route.ListenPort,
	}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.LogLevel != "" {
		if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
			return newFieldError("Global.LogLevel", "仅支持 trace/debug/info/warn/error/fatal/panic")
		}
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}
	if strings.TrimSpace(g.CacheRoot) == "" {
		return newFieldError("Global.CacheRoot", "不能为空")
	}
	if g.FetchTimeout.DurationValue() < 0 {
		return newFieldError("Global.FetchTimeout", "不能为负数")
	}

	seenNames := map[string]struct{}{}
	seenPrefixes := map[string]struct{}{}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Name == "" {
			return newFieldError("Source[].Name", "不能为空")
		}
		if _, exists := seenNames[src.Name]; exists {
			return newFieldError(sourceField(src.Name, "Name"), "重复")
		}
		seenNames[src.Name] = struct{}{}

		if err := validatePrefix(src.Prefix); err != nil {
			return fmt.Errorf("%s: %w", sourceField(src.Name, "Prefix"), err)
		}
		if _, exists := seenPrefixes[src.Prefix]; exists {
			return newFieldError(sourceField(src.Name, "Prefix"), "与其它 Source 重复")
		}
		seenPrefixes[src.Prefix] = struct{}{}

		if src.Directory == "" {
			return newFieldError(sourceField(src.Name, "Directory"), "不能为空")
		}
	}

	return nil
}

func validatePrefix(raw string) error {
	if raw == "" {
		return errors.New("缺少 URL 前缀")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch parsed.Scheme {
	case "http", "https", "ftp":
	default:
		return fmt.Errorf("仅支持 http/https/ftp，前缀: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("前缀缺少 Host: %s", raw)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("前缀不能包含 query 或 fragment: %s", raw)
	}
	return nil
}

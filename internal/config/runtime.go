package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rdf-utils/rdf-utils/resolver"
)

// InstallOptions 将配置转换为解析器安装参数，Mappings 永远非 nil。
func (c *Config) InstallOptions(logger *logrus.Logger) resolver.InstallOptions {
	return resolver.InstallOptions{
		URLMap:          c.Mappings(),
		DisableDownload: !c.Global.Download,
		Quiet:           c.Global.Quiet,
		Logger:          logger,
	}
}

// FetchTimeout 返回单次读取的超时，0 表示不限时。
func (c *Config) FetchTimeout() time.Duration {
	return c.Global.FetchTimeout.DurationValue()
}

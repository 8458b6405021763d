package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rdf-utils/rdf-utils/resolver"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if seconds, err := time.ParseDuration(raw); err == nil {
		*d = Duration(seconds)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述全局运行时行为：日志、缓存根目录、下载开关与镜像服务端口。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
	CacheRoot     string `mapstructure:"CacheRoot"`
	// Download 为 false 时缓存缺失直接回源，不写磁盘。
	Download bool `mapstructure:"Download"`
	// Quiet 关闭下载提示日志。
	Quiet bool `mapstructure:"Quiet"`
	// FetchTimeout 为 0 表示不限时。
	FetchTimeout Duration `mapstructure:"FetchTimeout"`
}

// SourceConfig 将一个 URL 前缀映射到本地目录，相对目录以 CacheRoot 为基准。
type SourceConfig struct {
	Name      string `mapstructure:"Name"`
	Prefix    string `mapstructure:"Prefix"`
	Directory string `mapstructure:"Directory"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global  GlobalConfig   `mapstructure:",squash"`
	Sources []SourceConfig `mapstructure:"Source"`
}

// ResolvedDirectory 返回 Source 实际使用的缓存目录。
func (s SourceConfig) ResolvedDirectory(cacheRoot string) string {
	if filepath.IsAbs(s.Directory) {
		return filepath.Clean(s.Directory)
	}
	return filepath.Join(cacheRoot, s.Directory)
}

// Mappings 按声明顺序输出前缀映射；未声明任何 Source 时使用内置默认站点。
func (c *Config) Mappings() []resolver.PrefixMapping {
	if len(c.Sources) == 0 {
		return resolver.DefaultMappings(c.Global.CacheRoot)
	}
	result := make([]resolver.PrefixMapping, len(c.Sources))
	for i, src := range c.Sources {
		result[i] = resolver.PrefixMapping{
			Prefix:    strings.TrimSpace(src.Prefix),
			Directory: src.ResolvedDirectory(c.Global.CacheRoot),
		}
	}
	return result
}

// SourceNames 返回映射摘要，例如 secoro:https://secorolab.github.io，供启动日志使用。
func SourceNames(sources []SourceConfig) []string {
	if len(sources) == 0 {
		return nil
	}
	result := make([]string, len(sources))
	for i, src := range sources {
		result[i] = fmt.Sprintf("%s:%s", src.Name, src.Prefix)
	}
	return result
}

package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// FetchFields 提供 URL/来源/缓存命中字段，供读取与镜像请求日志复用。
// source 为空表示该 URL 未命中任何前缀映射。
func FetchFields(url, source, cachePath string, cacheHit bool) logrus.Fields {
	fields := logrus.Fields{
		"url":       url,
		"cache_hit": cacheHit,
	}
	if source != "" {
		fields["source"] = source
	}
	if cachePath != "" {
		fields["cache_path"] = cachePath
	}
	return fields
}

package resolver

import (
	"errors"
	"fmt"
)

// ErrUnsupportedScheme 表示默认 opener 无法处理该 URL 协议（例如 gopher）。
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// StatusError 表示远端返回了错误状态码，行为与标准库 urllib 的默认 opener 一致：
// 4xx/5xx 视为打开失败而不是正常响应。
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("open %s: unexpected status %s", e.URL, e.Status)
}

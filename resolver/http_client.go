package resolver

import (
	"net"
	"net/http"
	"time"
)

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// NewHTTPClient 返回默认 opener 使用的 http.Client。
// 客户端本身不设整体超时，超时由调用方通过 context 逐次指定；
// 额外注册 file:// 与 ftp:// 协议，使本地路径、FTP 与 HTTP URL 走同一套接口。
func NewHTTPClient() *http.Client {
	transport := defaultTransport.Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	transport.RegisterProtocol("ftp", newFTPTransport())

	return &http.Client{
		Transport: transport,
	}
}

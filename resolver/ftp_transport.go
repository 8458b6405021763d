package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// ftpConn 是读取单个文件所需的 FTP 控制连接能力，测试中可替换为假实现。
type ftpConn interface {
	Login(user, password string) error
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

// ftpTransport 以 RETR 读取 ftp:// URL，并把结果包装成 http.Response，
// 注册到共享 Transport 后与 http/https 走同一套 Opener 接口。
// 每个请求单独建立一次控制连接，正文关闭时发送 QUIT。
type ftpTransport struct {
	dial func(ctx context.Context, addr string) (ftpConn, error)
}

func newFTPTransport() *ftpTransport {
	return &ftpTransport{dial: dialFTP}
}

// RoundTrip 仅支持 GET；550 映射为 404，其余 FTP 错误作为传输错误返回。
func (t *ftpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != "" && req.Method != http.MethodGet {
		return nil, fmt.Errorf("ftp: method %s not supported", req.Method)
	}

	ctx := req.Context()
	addr := req.URL.Host
	if req.URL.Port() == "" {
		addr = net.JoinHostPort(req.URL.Hostname(), "21")
	}

	user, password := "anonymous", "anonymous"
	if req.URL.User != nil {
		user = req.URL.User.Username()
		if p, ok := req.URL.User.Password(); ok {
			password = p
		}
	}

	conn, err := t.dial(ctx, addr)
	if err != nil {
		return nil, ftpError(ctx, "dial "+addr, err)
	}
	if err := conn.Login(user, password); err != nil {
		_ = conn.Quit()
		return nil, ftpError(ctx, "login "+addr, err)
	}

	body, err := conn.Retr(req.URL.Path)
	if err != nil {
		_ = conn.Quit()
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code == ftp.StatusFileUnavailable {
			return ftpResponse(req, http.StatusNotFound, io.NopCloser(strings.NewReader(""))), nil
		}
		return nil, ftpError(ctx, "retr "+req.URL.Path, err)
	}
	return ftpResponse(req, http.StatusOK, &ftpBody{ReadCloser: body, conn: conn}), nil
}

// ftpError 在请求 context 已结束时返回 context 错误，便于上层区分超时。
func ftpError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ftp %s: %w", op, ctxErr)
	}
	return fmt.Errorf("ftp %s: %w", op, err)
}

func ftpResponse(req *http.Request, status int, body io.ReadCloser) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          body,
		ContentLength: -1,
		Request:       req,
	}
}

type ftpBody struct {
	io.ReadCloser
	conn ftpConn
	once sync.Once
}

func (b *ftpBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(func() {
		if quitErr := b.conn.Quit(); err == nil {
			err = quitErr
		}
	})
	return err
}

// serverConn 适配 *ftp.ServerConn；context 结束时关闭控制连接与数据连接。
type serverConn struct {
	*ftp.ServerConn
	stop func() bool
}

func (c *serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := c.ServerConn.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *serverConn) Quit() error {
	defer c.stop()
	return c.ServerConn.Quit()
}

func dialFTP(ctx context.Context, addr string) (ftpConn, error) {
	tracker := &connTracker{}
	stop := context.AfterFunc(ctx, tracker.closeAll)

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	conn, err := ftp.Dial(addr, ftp.DialWithDialFunc(func(network, address string) (net.Conn, error) {
		return tracker.add(dialer.DialContext(ctx, network, address))
	}))
	if err != nil {
		stop()
		return nil, err
	}
	return &serverConn{ServerConn: conn, stop: stop}, nil
}

// connTracker 记录一次 FTP 会话建立的全部连接。
type connTracker struct {
	mu     sync.Mutex
	conns  []net.Conn
	closed bool
}

func (t *connTracker) add(conn net.Conn, err error) (net.Conn, error) {
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		conn.Close()
		return nil, net.ErrClosed
	}
	t.conns = append(t.conns, conn)
	return conn, nil
}

func (t *connTracker) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for _, conn := range t.conns {
		conn.Close()
	}
}

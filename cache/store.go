package cache

import (
	"context"
	"errors"
	"io"
	"time"
)

// Store 负责管理磁盘缓存的读写。磁盘布局由解析器的前缀映射决定：
//
//	<Directory>/<URL 路径剩余部分>
//
// 每个条目仅由正文文件组成，文件的 ModTime/Size 由文件系统提供。
type Store interface {
	// Get 返回一个可流式读取的缓存条目。若不存在则返回 ErrNotFound，
	// 若路径是目录则返回 ErrIsDirectory。
	Get(ctx context.Context, filePath string) (*ReadResult, error)

	// Put 将上游响应写入缓存，并产出新的 Entry 描述。实现需通过临时文件 + rename
	// 保证写入原子性，并在失败时清理临时文件。
	Put(ctx context.Context, filePath string, body io.Reader) (*Entry, error)
}

// Entry 表示一次缓存命中结果，包含绝对文件路径及文件信息。
type Entry struct {
	FilePath  string    `json:"file_path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// ReadResult 组合 Entry 与正文 Reader，便于解析器直接把 Body 交给调用方。
type ReadResult struct {
	Entry  Entry
	Reader io.ReadSeekCloser
}

var (
	// ErrNotFound 表示缓存不存在。
	ErrNotFound = errors.New("cache entry not found")
	// ErrIsDirectory 表示缓存路径被目录占用，不能作为缓存文件。
	ErrIsDirectory = errors.New("cache path is a directory")
	// ErrNotDirectory 表示缓存文件的父路径已存在但不是目录，属于配置错误。
	ErrNotDirectory = errors.New("cache parent path is not a directory")
)

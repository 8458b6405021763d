package resolver

import (
	"os"
	"path/filepath"

	"github.com/rdf-utils/rdf-utils/namespace"
)

const cacheDirName = "rdf-utils"

// DefaultCacheRoot 返回平台用户缓存目录下的 rdf-utils 子目录，
// Linux 上通常为 $HOME/.cache/rdf-utils；无法确定时退回系统临时目录。
func DefaultCacheRoot() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, cacheDirName)
}

// DefaultMappings 返回内置站点到 root 下固定子目录的映射。
func DefaultMappings(root string) []PrefixMapping {
	return []PrefixMapping{
		{Prefix: namespace.URLSecoro, Directory: filepath.Join(root, "secoro")},
		{Prefix: namespace.URLCompRob2b, Directory: filepath.Join(root, "comp-rob2b")},
	}
}

// Package naming converts IRIs and labels into strings usable as file names
// or generated identifiers.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidName 表示清洗后的名字为空或是 "." / ".."。
var ErrInvalidName = errors.New("could not derive name")

type replacement struct {
	old string
	new string
}

var filenameReplacements = []replacement{
	{" ", "_"},
	{":", "__"},
	{"/", "_"},
}

var varNameReplacements = append([]replacement{
	{"-", "_"},
	{".", "_"},
}, filenameReplacements...)

var disallowed = regexp.MustCompile(`[^-\p{L}\p{N}_.]`)

func validName(name string, table []replacement) (string, error) {
	s := strings.TrimSpace(name)
	for _, r := range table {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	s = disallowed.ReplaceAllString(s, "")
	if s == "" || s == "." || s == ".." {
		return "", fmt.Errorf("%w from '%s'", ErrInvalidName, name)
	}
	return s, nil
}

// ValidFilename 去掉首尾空白，把空格替换为 "_"、":" 替换为 "__"、"/" 替换为 "_"，
// 并删除其余非字母数字、"-"、"_"、"." 的字符。
func ValidFilename(name string) (string, error) {
	return validName(name, filenameReplacements)
}

// ValidVarName 在 ValidFilename 的基础上额外把 "-" 与 "." 替换为 "_"。
func ValidVarName(name string) (string, error) {
	return validName(name, varNameReplacements)
}

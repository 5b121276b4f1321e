package prompt

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore 基于目录的模板存储，文件名为 <kind>_<platform>.txt
type FileStore struct {
	dir string
}

// NewFileStore 创建文件模板存储
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Read 读取模板文件
func (s *FileStore) Read(kind, platform string) (string, bool, error) {
	if s == nil || s.dir == "" {
		return "", false, nil
	}
	if !safeName(kind) || !safeName(platform) {
		return "", false, nil
	}

	b, err := os.ReadFile(filepath.Join(s.dir, kind+"_"+platform+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

// safeName 拒绝包含路径分隔符的名称
func safeName(s string) bool {
	return s != "" && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}

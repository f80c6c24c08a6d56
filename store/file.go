package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkstream/recokit/core"
)

// FileStore 是目录文件实现的 Store，用于快照落盘。
//
// 每个 key 一个文件。写入走临时文件 + rename：rename 在同一文件系统上
// 是原子的，慢盘或写到一半失败都不会留下半成品覆盖旧快照。
// 读写都是打开-操作-关闭的短作用域，不长期占用句柄。
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Name() string { return "file" }

// path 将 key 映射到文件名。key 中的路径分隔符替换掉，避免逃出目录。
func (f *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(f.dir, safe)
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrStoreNotFound
		}
		return nil, err
	}
	return data, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path(key))
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FileStore) Close() error { return nil }

var _ core.Store = (*FileStore)(nil)

// Package storage 管理会员照片的本地文件存储。
// 数据库只保存生成的文件名，文件本身位于上传目录。
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPhotoTooLarge    = errors.New("照片文件过大")
	ErrPhotoType        = errors.New("不支持的照片格式")
	ErrPhotoNotFound    = errors.New("照片不存在")
	ErrInvalidPhotoName = errors.New("非法的照片文件名")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// PhotoStore 照片文件存储
type PhotoStore struct {
	dir     string
	maxSize int64
}

// NewPhotoStore 创建照片存储，目录不存在时自动创建
func NewPhotoStore(dir string, maxSize int64) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &PhotoStore{dir: dir, maxSize: maxSize}, nil
}

// Save 写入照片并返回生成的文件名
// originalName 只用于取扩展名
func (s *PhotoStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", ErrPhotoType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建照片文件失败: %w", err)
	}

	// 多读一个字节用于判断是否超限
	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxSize {
		err = ErrPhotoTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return name, nil
}

// Path 返回照片的磁盘路径；拒绝包含目录成分的文件名
func (s *PhotoStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidPhotoName
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrPhotoNotFound
		}
		return "", err
	}
	return path, nil
}

// Remove 删除照片，文件不存在时不报错
func (s *PhotoStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}

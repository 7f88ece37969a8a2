package database

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrBackupUnsupported 仅 SQLite 单文件存储支持文件级备份
var ErrBackupUnsupported = errors.New("当前数据库不支持文件备份")

// SnapshotFile 将数据库文件按字节复制到 dir/backup_YYYYMMDD_HHMMSS.db，返回备份路径
// 同一秒内多次备份时文件名追加序号
// 系统只有一个操作员，不存在并发写入，无需加锁
func SnapshotFile(dbPath, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建备份目录失败: %w", err)
	}

	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("打开数据库文件失败: %w", err)
	}
	defer src.Close()

	target, dst, err := createBackupFile(dir, now)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return "", fmt.Errorf("复制数据库文件失败: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("写入备份文件失败: %w", err)
	}

	return target, nil
}

// maxSameSecondBackups 同一秒内允许的备份份数
const maxSameSecondBackups = 100

// createBackupFile 独占创建备份文件；同名已存在时追加 _1、_2 … 后缀，不覆盖旧备份
func createBackupFile(dir string, now time.Time) (string, *os.File, error) {
	stamp := now.Format("20060102_150405")
	for i := 0; i < maxSameSecondBackups; i++ {
		name := fmt.Sprintf("backup_%s.db", stamp)
		if i > 0 {
			name = fmt.Sprintf("backup_%s_%d.db", stamp, i)
		}
		target := filepath.Join(dir, name)
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return target, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("创建备份文件失败: %w", err)
		}
	}
	return "", nil, fmt.Errorf("创建备份文件失败: %s 已有 %d 份备份", stamp, maxSameSecondBackups)
}

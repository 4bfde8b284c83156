package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileAdapter 附件文件存储接口
// 具体后端（本地磁盘、对象存储等）由部署方选择，这里只约定行为
type FileAdapter interface {
	// Save 保存文件内容，返回可供访问的相对 URL
	Save(filename string, data []byte) (string, error)
	// Delete 按 Save 返回的 URL 删除文件
	Delete(fileURL string) error
}

// LocalFileAdapter 本地磁盘实现，文件存放在 baseDir 下
type LocalFileAdapter struct {
	baseDir string
}

// NewLocalFileAdapter 创建本地文件适配器
func NewLocalFileAdapter(baseDir string) *LocalFileAdapter {
	return &LocalFileAdapter{baseDir: baseDir}
}

// Save 保存文件，文件名加时间戳前缀避免冲突
func (a *LocalFileAdapter) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(a.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}

	unique := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(a.baseDir, unique)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("保存文件失败: %w", err)
	}

	return "/uploads/" + unique, nil
}

// Delete 删除文件，文件不存在视为成功
func (a *LocalFileAdapter) Delete(fileURL string) error {
	path := filepath.Join(a.baseDir, filepath.Base(fileURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

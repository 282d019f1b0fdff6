package engine

import "errors"

// 预定义错误
var (
	// ErrNotFound 键不存在
	ErrNotFound = errors.New("storage: key not found")

	// ErrClosed 存储引擎已关闭
	ErrClosed = errors.New("storage: engine is closed")

	// ErrEmptyKey 空键
	ErrEmptyKey = errors.New("storage: empty key")

	// ErrReadOnly 只读模式下的写操作
	ErrReadOnly = errors.New("storage: engine is read-only")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("storage: invalid config")
)

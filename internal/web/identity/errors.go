package identity

import "errors"

// 预定义错误
var (
	// ErrNilRecord 记录为空
	ErrNilRecord = errors.New("identity: nil record")

	// ErrInvalidSignature 记录签名无效
	ErrInvalidSignature = errors.New("identity: invalid record signature")

	// ErrEmptyAddress 空四词地址
	ErrEmptyAddress = errors.New("identity: empty four-word address")

	// ErrTruncatedRecord 记录数据不完整
	ErrTruncatedRecord = errors.New("identity: truncated record data")
)

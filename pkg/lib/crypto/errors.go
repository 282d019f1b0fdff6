package crypto

import "errors"

var (
	// ErrUnsupportedKeyType 不支持的密钥类型
	ErrUnsupportedKeyType = errors.New("crypto: unsupported key type")

	// ErrInvalidKeyLength 密钥长度无效
	ErrInvalidKeyLength = errors.New("crypto: invalid key length")

	// ErrInvalidSignature 签名无效
	ErrInvalidSignature = errors.New("crypto: invalid signature")
)

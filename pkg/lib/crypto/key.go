// Package crypto 提供 WebRouter 密码学工具
package crypto

import (
	"crypto/rand"
	"io"
)

// ============================================================================
//                              密钥类型定义
// ============================================================================

// KeyType 密钥类型
type KeyType int

const (
	// KeyTypeUnspecified 未指定密钥类型
	KeyTypeUnspecified KeyType = 0
	// KeyTypeEd25519 Ed25519 密钥（默认推荐）
	KeyTypeEd25519 KeyType = 2
)

// String 返回密钥类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeUnspecified:
		return "Unspecified"
	case KeyTypeEd25519:
		return "Ed25519"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              密钥接口定义
// ============================================================================

// Key 基础密钥接口
type Key interface {
	// Raw 返回原始密钥字节
	Raw() ([]byte, error)

	// Type 返回密钥类型
	Type() KeyType

	// Equals 比较两个密钥是否相等
	Equals(Key) bool
}

// PublicKey 公钥接口
type PublicKey interface {
	Key

	// Verify 使用此公钥验证签名
	//
	// 返回:
	//   - bool: 签名是否有效
	//   - error: 验证过程中的错误
	Verify(data, sig []byte) (bool, error)
}

// PrivateKey 私钥接口
type PrivateKey interface {
	Key

	// Sign 使用此私钥签名数据
	Sign(data []byte) ([]byte, error)

	// GetPublic 返回对应的公钥
	GetPublic() PublicKey
}

// ============================================================================
//                              密钥工厂函数
// ============================================================================

// GenerateKeyPair 生成密钥对
//
// 使用系统默认的加密安全随机源。
func GenerateKeyPair(kt KeyType) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(kt, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定随机源生成密钥对
func GenerateKeyPairWithReader(kt KeyType, src io.Reader) (PrivateKey, PublicKey, error) {
	switch kt {
	case KeyTypeEd25519:
		return GenerateEd25519KeyPair(src)
	default:
		return nil, nil, ErrUnsupportedKeyType
	}
}

// KeyEqual 通用密钥比较
//
// 回退路径：按原始字节比较，仅用于不同实现类型之间的比较。
func KeyEqual(a, b Key) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}
	ar, err := a.Raw()
	if err != nil {
		return false
	}
	br, err := b.Raw()
	if err != nil {
		return false
	}
	if len(ar) != len(br) {
		return false
	}
	// 非常量时间比较仅用于跨实现回退；同实现比较在各自类型中完成
	for i := range ar {
		if ar[i] != br[i] {
			return false
		}
	}
	return true
}

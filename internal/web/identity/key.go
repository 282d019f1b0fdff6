// Package identity 提供四词身份的记录模型与解析缓存
//
// 本文件实现身份查找键派生。
package identity

import (
	"fmt"

	"github.com/minio/sha256-simd"
)

// KeyPrefix 身份记录查找键前缀
const KeyPrefix = "forward-identity"

// DeriveKey 派生身份的规范查找键
//
// 格式: forward-identity:<fourWords>
//
// 对任意非空输入都是纯函数且全函数；不校验字典成员资格
//（由外部身份生成系统负责）。
func DeriveKey(fourWords string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, fourWords)
}

// HashKey 计算查找键的 SHA256 哈希
//
// DHT 以哈希后的字节作为实际存储键，确保键空间均匀分布。
func HashKey(key string) []byte {
	h := sha256.Sum256([]byte(key))
	return h[:]
}

// DHTKey 派生身份在 DHT 中的存储键
//
// 等价于 HashKey(DeriveKey(fourWords))。
func DHTKey(fourWords string) []byte {
	return HashKey(DeriveKey(fourWords))
}

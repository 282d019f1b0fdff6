// Package identity 提供四词身份的记录模型与解析缓存
//
// 本文件定义 ForwardIdentityRecord：身份在 DHT 中发布的签名记录。
package identity

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
)

// RecordPayloadType 签名载荷类型标识
var RecordPayloadType = []byte("/dep2p/web/forward-identity/v1")

// DefaultFreshnessWindow 记录新鲜度窗口
//
// 缓存的记录超过此窗口后强制回源 DHT 重新验证。
const DefaultFreshnessWindow = 1 * time.Hour

// ForwardIdentityRecord 四词身份的签名记录
//
// 记录由注册者用身份私钥签名后发布到 DHT。后续更新产生新记录
// 替换旧记录（lastUpdated 递增），从不原地修改。记录不会被显式
// 删除（身份释放不在范围内），依靠新鲜度窗口过期强制重新验证。
type ForwardIdentityRecord struct {
	// FourWordAddress 四词地址（规范形式）
	FourWordAddress string

	// PublicKeyBytes 身份公钥原始字节（Ed25519）
	PublicKeyBytes []byte

	// DHTAddress DHT 地址指针
	DHTAddress string

	// WebManifestHash 内容清单哈希
	WebManifestHash string

	// LastUpdated 最后更新时间（Unix 纳秒）
	LastUpdated int64

	// Signature 对除签名外全部字段规范编码的签名
	Signature []byte
}

// ============================================================================
//                              规范编码
// ============================================================================

// canonicalBytes 返回除签名外全部字段的规范编码
//
// 格式:
//
//	[addr_len(2) | addr |
//	 pubkey_len(2) | pubkey |
//	 dht_len(2) | dht_addr |
//	 manifest_len(2) | manifest_hash |
//	 last_updated(8)]
func (r *ForwardIdentityRecord) canonicalBytes() []byte {
	addr := []byte(r.FourWordAddress)
	dhtAddr := []byte(r.DHTAddress)
	manifest := []byte(r.WebManifestHash)

	size := 2 + len(addr)
	size += 2 + len(r.PublicKeyBytes)
	size += 2 + len(dhtAddr)
	size += 2 + len(manifest)
	size += 8

	buf := make([]byte, size)
	offset := 0

	offset = putBytes(buf, offset, addr)
	offset = putBytes(buf, offset, r.PublicKeyBytes)
	offset = putBytes(buf, offset, dhtAddr)
	offset = putBytes(buf, offset, manifest)
	binary.BigEndian.PutUint64(buf[offset:], uint64(r.LastUpdated))

	return buf
}

// putBytes 写入长度前缀字节段，返回新偏移
func putBytes(buf []byte, offset int, b []byte) int {
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(b)))
	offset += 2
	copy(buf[offset:], b)
	return offset + len(b)
}

// ============================================================================
//                              序列化
// ============================================================================

// Marshal 序列化记录（含签名）
//
// 格式: [canonical | sig_len(2) | sig]
func (r *ForwardIdentityRecord) Marshal() ([]byte, error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	if r.FourWordAddress == "" {
		return nil, ErrEmptyAddress
	}

	canonical := r.canonicalBytes()
	buf := make([]byte, len(canonical)+2+len(r.Signature))
	copy(buf, canonical)
	putBytes(buf, len(canonical), r.Signature)
	return buf, nil
}

// Unmarshal 反序列化记录
func Unmarshal(data []byte) (*ForwardIdentityRecord, error) {
	r := &ForwardIdentityRecord{}
	offset := 0
	var err error

	var addr []byte
	if addr, offset, err = readBytes(data, offset); err != nil {
		return nil, fmt.Errorf("%w: address", ErrTruncatedRecord)
	}
	r.FourWordAddress = string(addr)

	if r.PublicKeyBytes, offset, err = readBytes(data, offset); err != nil {
		return nil, fmt.Errorf("%w: public key", ErrTruncatedRecord)
	}

	var dhtAddr []byte
	if dhtAddr, offset, err = readBytes(data, offset); err != nil {
		return nil, fmt.Errorf("%w: dht address", ErrTruncatedRecord)
	}
	r.DHTAddress = string(dhtAddr)

	var manifest []byte
	if manifest, offset, err = readBytes(data, offset); err != nil {
		return nil, fmt.Errorf("%w: manifest hash", ErrTruncatedRecord)
	}
	r.WebManifestHash = string(manifest)

	if offset+8 > len(data) {
		return nil, fmt.Errorf("%w: last updated", ErrTruncatedRecord)
	}
	r.LastUpdated = int64(binary.BigEndian.Uint64(data[offset:]))
	offset += 8

	if r.Signature, _, err = readBytes(data, offset); err != nil {
		return nil, fmt.Errorf("%w: signature", ErrTruncatedRecord)
	}

	if r.FourWordAddress == "" {
		return nil, ErrEmptyAddress
	}
	return r, nil
}

// readBytes 读取长度前缀字节段，返回数据副本与新偏移
func readBytes(data []byte, offset int) ([]byte, int, error) {
	if offset+2 > len(data) {
		return nil, offset, errors.New("short length")
	}
	n := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if offset+n > len(data) {
		return nil, offset, errors.New("short data")
	}
	b := make([]byte, n)
	copy(b, data[offset:offset+n])
	return b, offset + n, nil
}

// ============================================================================
//                              签名/验证
// ============================================================================

// Sign 使用私钥签名记录
//
// 签名覆盖载荷类型标识加规范编码，写入 r.Signature。
func (r *ForwardIdentityRecord) Sign(priv crypto.PrivateKey) error {
	if r == nil {
		return ErrNilRecord
	}
	if priv == nil {
		return errors.New("identity: nil private key")
	}

	toSign := append(append([]byte{}, RecordPayloadType...), r.canonicalBytes()...)
	sig, err := priv.Sign(toSign)
	if err != nil {
		return fmt.Errorf("identity: failed to sign record: %w", err)
	}
	r.Signature = sig
	return nil
}

// Verify 用记录内嵌公钥验证签名
//
// 验证失败的记录绝不进入身份缓存，对调用方与不存在等同。
func (r *ForwardIdentityRecord) Verify() error {
	if r == nil {
		return ErrNilRecord
	}
	if len(r.Signature) == 0 {
		return ErrInvalidSignature
	}

	pub, err := crypto.UnmarshalEd25519PublicKey(r.PublicKeyBytes)
	if err != nil {
		return fmt.Errorf("identity: bad public key: %w", err)
	}

	toVerify := append(append([]byte{}, RecordPayloadType...), r.canonicalBytes()...)
	valid, err := pub.Verify(toVerify, r.Signature)
	if err != nil {
		return fmt.Errorf("identity: verification error: %w", err)
	}
	if !valid {
		return ErrInvalidSignature
	}
	return nil
}

// ============================================================================
//                              辅助方法
// ============================================================================

// Age 返回记录距今的时长
func (r *ForwardIdentityRecord) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, r.LastUpdated))
}

// IsFresh 检查记录是否在新鲜度窗口内
func (r *ForwardIdentityRecord) IsFresh(now time.Time, window time.Duration) bool {
	if r == nil {
		return false
	}
	return r.Age(now) < window
}

// Package types - 身份记录公开视图
//
// 本文件定义路由器对外暴露的身份记录快照。内部的签名记录
// 携带 Unix 纳秒时间戳与编解码逻辑，对外只暴露取值。
package types

import "time"

// ForwardIdentityRecord 转发身份记录快照
//
// 列举身份时返回的完整记录视图，包含清单哈希与签名元数据。
// 值为快照：返回后不再更新，需要最新状态时重新获取。
type ForwardIdentityRecord struct {
	// FourWords 规范形式的四词地址
	FourWords string

	// PublicKey 身份公钥字节（Ed25519）
	PublicKey []byte

	// DHTAddress 身份在 DHT 网络中的地址
	DHTAddress string

	// WebManifestHash 内容清单哈希
	WebManifestHash string

	// LastUpdated 记录最后更新时间
	LastUpdated time.Time

	// Signature 记录规范编码的 Ed25519 签名
	Signature []byte
}

// Identity 返回记录对应的网络身份
func (r *ForwardIdentityRecord) Identity() NetworkIdentity {
	return NetworkIdentity{
		FourWords:  r.FourWords,
		PublicKey:  r.PublicKey,
		DHTAddress: r.DHTAddress,
	}
}

package server

import (
	"fmt"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
)

// KeystoreProvider 基于密钥库的私钥提供者
//
// 注册时生成或导入的身份私钥存入密钥库，
// 清单更新时由路由器通过本类型取回用于重新签名。
type KeystoreProvider struct {
	ks crypto.Keystore
}

// NewKeystoreProvider 创建密钥库私钥提供者
func NewKeystoreProvider(ks crypto.Keystore) *KeystoreProvider {
	return &KeystoreProvider{ks: ks}
}

// PrivateKeyFor 返回身份的 Ed25519 私钥原始字节
func (p *KeystoreProvider) PrivateKeyFor(fourWords string) ([]byte, error) {
	key, err := p.ks.Get(fourWords)
	if err != nil {
		return nil, fmt.Errorf("server: no key for %s: %w", fourWords, err)
	}
	return key.Raw()
}

// Store 保存身份私钥
func (p *KeystoreProvider) Store(fourWords string, key crypto.PrivateKey) error {
	return p.ks.Put(fourWords, key)
}

var _ interfaces.KeyProvider = (*KeystoreProvider)(nil)

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// ============================================================================
//                              密钥文件格式
// ============================================================================

// 密钥文件格式：
//
//   Magic:     "WEBR-KEY"  (8 bytes)
//   Version:   uint8
//   Type:      uint8 (KeyType)
//   Encrypted: uint8 (0=否, 1=是)
//   Data:      密钥数据或加密数据
//
// 加密数据格式：
//
//   Salt:       16 bytes
//   Nonce:      12 bytes
//   Ciphertext: 变长（AES-GCM 加密）

const (
	keyFileMagic   = "WEBR-KEY"
	keyFileVersion = 1

	// 加密参数
	saltSize  = 16
	nonceSize = 12

	// Argon2 参数
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
)

// ============================================================================
//                              Keystore 接口
// ============================================================================

// Keystore 密钥存储接口
type Keystore interface {
	// Has 检查是否存在指定 ID 的密钥
	Has(id string) (bool, error)

	// Put 存储密钥
	Put(id string, key PrivateKey) error

	// Get 获取密钥
	Get(id string) (PrivateKey, error)

	// Delete 删除密钥
	Delete(id string) error

	// List 列出所有密钥 ID
	List() ([]string, error)
}

// ============================================================================
//                              文件系统密钥存储
// ============================================================================

// FSKeystore 基于文件系统的密钥存储
type FSKeystore struct {
	dir      string
	password []byte // 可选：用于加密存储
}

// NewFSKeystore 创建文件系统密钥存储
//
// 参数：
//   - dir: 存储目录
//   - password: 加密密码（为空则不加密）
func NewFSKeystore(dir string, password []byte) (*FSKeystore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FSKeystore{
		dir:      dir,
		password: password,
	}, nil
}

// keyPath 返回密钥文件路径
//
// ID 经过哈希处理，避免路径注入。
func (ks *FSKeystore) keyPath(id string) string {
	h := sha256.Sum256([]byte(id))
	return filepath.Join(ks.dir, fmt.Sprintf("%x.key", h[:8]))
}

// Has 检查是否存在指定 ID 的密钥
func (ks *FSKeystore) Has(id string) (bool, error) {
	_, err := os.Stat(ks.keyPath(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Put 存储密钥
func (ks *FSKeystore) Put(id string, key PrivateKey) error {
	raw, err := key.Raw()
	if err != nil {
		return err
	}

	data := raw
	encrypted := byte(0)
	if len(ks.password) > 0 {
		data, err = encryptKeyData(raw, ks.password)
		if err != nil {
			return err
		}
		encrypted = 1
	}

	buf := &bytes.Buffer{}
	buf.WriteString(keyFileMagic)
	buf.WriteByte(keyFileVersion)
	buf.WriteByte(byte(key.Type()))
	buf.WriteByte(encrypted)
	buf.Write(data)

	return os.WriteFile(ks.keyPath(id), buf.Bytes(), 0o600)
}

// Get 获取密钥
func (ks *FSKeystore) Get(id string) (PrivateKey, error) {
	raw, err := os.ReadFile(ks.keyPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("crypto: key %q not found", id)
		}
		return nil, err
	}

	header := len(keyFileMagic) + 3
	if len(raw) < header || string(raw[:len(keyFileMagic)]) != keyFileMagic {
		return nil, fmt.Errorf("crypto: invalid key file for %q", id)
	}
	if raw[len(keyFileMagic)] != keyFileVersion {
		return nil, fmt.Errorf("crypto: unsupported key file version")
	}

	kt := KeyType(raw[len(keyFileMagic)+1])
	encrypted := raw[len(keyFileMagic)+2] == 1
	data := raw[header:]

	if encrypted {
		if len(ks.password) == 0 {
			return nil, fmt.Errorf("crypto: key %q is encrypted, password required", id)
		}
		data, err = decryptKeyData(data, ks.password)
		if err != nil {
			return nil, err
		}
	}

	return UnmarshalPrivateKey(kt, data)
}

// Delete 删除密钥
func (ks *FSKeystore) Delete(id string) error {
	err := os.Remove(ks.keyPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List 列出所有密钥 ID
//
// 文件名是 ID 的哈希，无法还原原始 ID，返回文件名作为标识。
func (ks *FSKeystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".key" {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// ============================================================================
//                              加密辅助
// ============================================================================

// encryptKeyData 用密码加密密钥数据（Argon2id + AES-GCM）
func encryptKeyData(data, password []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, data, nil)

	out := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// decryptKeyData 用密码解密密钥数据
func decryptKeyData(data, password []byte) ([]byte, error) {
	if len(data) < saltSize+nonceSize {
		return nil, fmt.Errorf("crypto: encrypted key data too short")
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	key := argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("crypto: key decryption failed (wrong password?)")
	}
	return plain, nil
}

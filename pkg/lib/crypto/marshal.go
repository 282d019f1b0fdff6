package crypto

// UnmarshalPublicKey 按密钥类型解析公钥
func UnmarshalPublicKey(kt KeyType, data []byte) (PublicKey, error) {
	switch kt {
	case KeyTypeEd25519:
		return UnmarshalEd25519PublicKey(data)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// UnmarshalPrivateKey 按密钥类型解析私钥
func UnmarshalPrivateKey(kt KeyType, data []byte) (PrivateKey, error) {
	switch kt {
	case KeyTypeEd25519:
		return UnmarshalEd25519PrivateKey(data)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

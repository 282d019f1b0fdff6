package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519_SignVerify(t *testing.T) {
	priv, pub, err := GenerateEd25519KeyPair(nil)
	require.NoError(t, err)

	msg := []byte("forward identity payload")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	ok, err := pub.Verify(msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pub.Verify([]byte("other payload"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEd25519_RawRoundTrip(t *testing.T) {
	priv, pub, err := GenerateEd25519KeyPair(nil)
	require.NoError(t, err)

	privRaw, err := priv.Raw()
	require.NoError(t, err)
	pubRaw, err := pub.Raw()
	require.NoError(t, err)

	priv2, err := UnmarshalEd25519PrivateKey(privRaw)
	require.NoError(t, err)
	pub2, err := UnmarshalEd25519PublicKey(pubRaw)
	require.NoError(t, err)

	assert.True(t, priv.Equals(priv2))
	assert.True(t, pub.Equals(pub2))

	// 反序列化的私钥派生出同一公钥
	assert.True(t, pub.Equals(priv2.GetPublic()))
}

func TestEd25519_UnmarshalRejectsBadLength(t *testing.T) {
	_, err := UnmarshalEd25519PublicKey(make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = UnmarshalEd25519PrivateKey(make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestGenerateKeyPair_ByType(t *testing.T) {
	priv, pub, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)
	assert.Equal(t, KeyTypeEd25519, priv.Type())
	assert.Equal(t, KeyTypeEd25519, pub.Type())

	_, _, err = GenerateKeyPair(KeyTypeUnspecified)
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
}

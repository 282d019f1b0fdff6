package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) PrivateKey {
	t.Helper()
	priv, _, err := GenerateEd25519KeyPair(nil)
	require.NoError(t, err)
	return priv
}

func TestFSKeystore_PutGet(t *testing.T) {
	ks, err := NewFSKeystore(t.TempDir(), nil)
	require.NoError(t, err)

	key := newTestKey(t)
	require.NoError(t, ks.Put("ocean-forest-moon-star", key))

	got, err := ks.Get("ocean-forest-moon-star")
	require.NoError(t, err)
	assert.True(t, key.Equals(got))

	has, err := ks.Has("ocean-forest-moon-star")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = ks.Has("never-stored-key-id")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestFSKeystore_Encrypted(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewFSKeystore(dir, []byte("hunter2"))
	require.NoError(t, err)

	key := newTestKey(t)
	require.NoError(t, ks.Put("id", key))

	// 同密码可读回
	ks2, err := NewFSKeystore(dir, []byte("hunter2"))
	require.NoError(t, err)
	got, err := ks2.Get("id")
	require.NoError(t, err)
	assert.True(t, key.Equals(got))

	// 错误密码无法解密
	ks3, err := NewFSKeystore(dir, []byte("wrong"))
	require.NoError(t, err)
	_, err = ks3.Get("id")
	assert.Error(t, err)
}

func TestFSKeystore_Delete(t *testing.T) {
	ks, err := NewFSKeystore(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, ks.Put("id", newTestKey(t)))
	require.NoError(t, ks.Delete("id"))

	has, err := ks.Has("id")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = ks.Get("id")
	assert.Error(t, err)
}

func TestFSKeystore_OverwriteReplaces(t *testing.T) {
	ks, err := NewFSKeystore(t.TempDir(), nil)
	require.NoError(t, err)

	first := newTestKey(t)
	second := newTestKey(t)
	require.NoError(t, ks.Put("id", first))
	require.NoError(t, ks.Put("id", second))

	got, err := ks.Get("id")
	require.NoError(t, err)
	assert.True(t, second.Equals(got))
	assert.False(t, first.Equals(got))
}

package content

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	cache := NewCache(0)

	entry := cache.Put("ocean-forest-moon-star", "home.md", "<h1>Hi</h1>", "text/html; charset=utf-8")
	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ETag)

	got, ok := cache.Get("ocean-forest-moon-star", "home.md")
	require.True(t, ok)
	assert.Equal(t, "<h1>Hi</h1>", got.Content)
	assert.Equal(t, "text/html; charset=utf-8", got.ContentType)
}

func TestCache_KeyIncludesIdentityAndPath(t *testing.T) {
	cache := NewCache(0)
	cache.Put("ocean-forest-moon-star", "home.md", "a", "text/html")

	_, ok := cache.Get("ocean-forest-moon-star", "about.md")
	assert.False(t, ok, "不同路径不应命中")

	_, ok = cache.Get("alpha-beta-gamma-delta", "home.md")
	assert.False(t, ok, "不同身份不应命中")
}

func TestCache_ETagDeterministic(t *testing.T) {
	e1 := ComputeETag([]byte("same bytes"))
	e2 := ComputeETag([]byte("same bytes"))
	e3 := ComputeETag([]byte("other bytes"))

	assert.Equal(t, e1, e2)
	assert.NotEqual(t, e1, e3)
}

func TestCache_ETagStableAcrossRewrite(t *testing.T) {
	cache := NewCache(0)

	first := cache.Put("ocean-forest-moon-star", "home.md", "content", "text/html")
	second := cache.Put("ocean-forest-moon-star", "home.md", "content", "text/html")

	// 相同内容重写产生相同 ETag
	assert.Equal(t, first.ETag, second.ETag)
}

func TestCache_ExpiredEntryIsMissButRetained(t *testing.T) {
	cache := NewCache(300 * time.Second)
	mock := clock.NewMock()
	mock.Set(time.Now())
	cache.SetClock(mock)

	cache.Put("ocean-forest-moon-star", "home.md", "stale soon", "text/html")

	mock.Add(301 * time.Second)

	_, ok := cache.Get("ocean-forest-moon-star", "home.md")
	assert.False(t, ok, "超时条目应按未命中处理")
	assert.Equal(t, 1, cache.Size(), "超时条目应保留到被覆盖")

	// 重写后重新命中
	cache.Put("ocean-forest-moon-star", "home.md", "fresh", "text/html")
	got, ok := cache.Get("ocean-forest-moon-star", "home.md")
	require.True(t, ok)
	assert.Equal(t, "fresh", got.Content)
}

func TestCache_InvalidateRemovesOnlyIdentity(t *testing.T) {
	cache := NewCache(0)
	cache.Put("ocean-forest-moon-star", "home.md", "a", "text/html")
	cache.Put("ocean-forest-moon-star", "about.md", "b", "text/html")
	cache.Put("alpha-beta-gamma-delta", "home.md", "c", "text/html")

	removed := cache.Invalidate("ocean-forest-moon-star")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Size())

	_, ok := cache.Get("alpha-beta-gamma-delta", "home.md")
	assert.True(t, ok, "其他身份的条目应保留")

	// 再次失效无条目可删
	assert.Equal(t, 0, cache.Invalidate("ocean-forest-moon-star"))
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache(0)
	cache.Put("ocean-forest-moon-star", "home.md", "a", "text/html")
	cache.Put("alpha-beta-gamma-delta", "home.md", "b", "text/html")

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

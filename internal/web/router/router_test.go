package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-webrouter/internal/dht"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
	"github.com/dep2p/go-webrouter/pkg/types"
)

// ============================================================================
//                              测试辅助
// ============================================================================

// fakePublisher 内存内容的发布器桩
type fakePublisher struct {
	mu       sync.Mutex
	files    map[string]string
	rawCalls int
	views    []string
	viewErr  error
}

func (p *fakePublisher) GetRawContent(_ context.Context, path string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rawCalls++
	content, ok := p.files[path]
	if !ok {
		return nil, interfaces.ErrContentMissing
	}
	return []byte(content), nil
}

func (p *fakePublisher) Render(_ context.Context, _ string, raw []byte) (string, error) {
	return "<article>" + string(raw) + "</article>", nil
}

func (p *fakePublisher) RecordPageView(_ context.Context, path, visitorID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.viewErr != nil {
		return p.viewErr
	}
	p.views = append(p.views, path+"|"+visitorID)
	return nil
}

// fakeFactory 记录构造参数的发布器工厂桩
type fakeFactory struct {
	mu         sync.Mutex
	publishers map[string]*fakePublisher
	manifests  []string
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{publishers: make(map[string]*fakePublisher)}
}

func (f *fakeFactory) setFiles(fourWords string, files map[string]string) *fakePublisher {
	f.mu.Lock()
	defer f.mu.Unlock()
	pub := &fakePublisher{files: files}
	f.publishers[fourWords] = pub
	return pub
}

func (f *fakeFactory) CreatePublisher(fourWords, webManifestHash string) (interfaces.Publisher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manifests = append(f.manifests, webManifestHash)
	if pub, ok := f.publishers[fourWords]; ok {
		return pub, nil
	}
	pub := &fakePublisher{files: map[string]string{}}
	f.publishers[fourWords] = pub
	return pub, nil
}

// mapKeys 测试用的私钥提供者
type mapKeys struct {
	keys map[string][]byte
}

func (m *mapKeys) PrivateKeyFor(fourWords string) ([]byte, error) {
	key, ok := m.keys[fourWords]
	if !ok {
		return nil, fmt.Errorf("no key for %s", fourWords)
	}
	return key, nil
}

// recordingObserver 记录事件的观察者
type recordingObserver struct {
	NopObserver
	mu         sync.Mutex
	registered []string
	updated    []string
	cleared    int
	errors     []string
}

func (o *recordingObserver) IdentityRegistered(fourWords, hash string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registered = append(o.registered, fourWords+"|"+hash)
}

func (o *recordingObserver) ManifestUpdated(fourWords, hash string, invalidated int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updated = append(o.updated, fmt.Sprintf("%s|%s|%d", fourWords, hash, invalidated))
}

func (o *recordingObserver) CacheCleared() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleared++
}

func (o *recordingObserver) ServeError(fourWords, path, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, fourWords+"|"+path)
}

// testEnv 组装好的测试环境
type testEnv struct {
	router  *Router
	dht     *dht.MemoryClient
	factory *fakeFactory
	keys    *mapKeys
}

func newTestEnv(t *testing.T, opts *Options) *testEnv {
	t.Helper()

	client := dht.NewMemoryClient()
	factory := newFakeFactory()
	keys := &mapKeys{keys: make(map[string][]byte)}

	if opts == nil {
		opts = &Options{}
	}
	if opts.Keys == nil {
		opts.Keys = keys
	}

	r, err := New(client, factory, opts)
	require.NoError(t, err)

	return &testEnv{router: r, dht: client, factory: factory, keys: keys}
}

// register 注册身份并登记私钥
func (e *testEnv) register(t *testing.T, fourWords, manifestHash string) {
	t.Helper()

	priv, _, err := crypto.GenerateEd25519KeyPair(nil)
	require.NoError(t, err)
	privRaw, err := priv.Raw()
	require.NoError(t, err)
	e.keys.keys[fourWords] = privRaw

	err = e.router.RegisterForwardIdentity(context.Background(), &interfaces.RegisterRequest{
		FourWords:       fourWords,
		DHTAddress:      "dht-" + fourWords,
		WebManifestHash: manifestHash,
		PrivateKeyBytes: privRaw,
	})
	require.NoError(t, err)
}

// ============================================================================
//                              路由测试
// ============================================================================

func TestRouter_RouteHome(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	assert.Equal(t, "ocean-forest-moon-star", match.Identity.FourWords)
	assert.Equal(t, "home.md", match.Path)
	assert.True(t, match.IsHome)
}

func TestRouter_RouteNormalizesIdentity(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")

	match, err := env.router.Route(context.Background(), "Ocean Forest Moon Star/about")
	require.NoError(t, err)
	assert.Equal(t, "ocean-forest-moon-star", match.Identity.FourWords)
	assert.Equal(t, "about.md", match.Path)
	assert.False(t, match.IsHome)
}

func TestRouter_RouteUnknownIdentity(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.router.Route(context.Background(), "no-such-identity-anywhere")
	assert.ErrorIs(t, err, types.ErrIdentityNotFound)
}

func TestRouter_RouteInvalidURL(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, input := range []string{"", "/", "not-four", "one two three four five"} {
		_, err := env.router.Route(context.Background(), input)
		assert.ErrorIs(t, err, types.ErrInvalidURL, "input=%q", input)
	}
}

// ============================================================================
//                              内容服务测试
// ============================================================================

func TestRouter_ServeHomeEndToEnd(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "# Welcome\n\n## Projects",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, resp.Content, "# Welcome")
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)

	assert.Equal(t, "ocean-forest-moon-star", resp.Headers[types.HeaderSource])
	assert.Equal(t, "home.md", resp.Headers[types.HeaderPath])
	assert.Equal(t, "true", resp.Headers[types.HeaderHome])
	assert.True(t, strings.HasPrefix(resp.Headers["ETag"], `"`))
	assert.NotEmpty(t, resp.Headers["Last-Modified"])
	assert.Contains(t, resp.Headers["Cache-Control"], "max-age=")
	assert.NotContains(t, resp.Headers, types.HeaderError)
}

func TestRouter_ServeFallsBackToHome(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "home content",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star/missing")
	require.NoError(t, err)
	require.Equal(t, "missing.md", match.Path)

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 回退后响应与 match 都反映实际提供的内容
	assert.Equal(t, "home.md", resp.Headers[types.HeaderPath])
	assert.Equal(t, "true", resp.Headers[types.HeaderHome])
	assert.Equal(t, "home.md", match.Path)
	assert.True(t, match.IsHome)
}

func TestRouter_ServeDoubleFailureIs404(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	// 发布器没有任何内容

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star/missing")
	require.NoError(t, err)

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, "true", resp.Headers[types.HeaderError])
	assert.Contains(t, resp.Content, "ocean-forest-moon-star")
	assert.Contains(t, resp.Content, "not found")
}

func TestRouter_FailureNotCached(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	callsAfterFirst := pub.rawCalls

	// 失败不进入缓存：补齐内容后下一次请求立即成功
	pub.mu.Lock()
	pub.files["home.md"] = "now present"
	pub.mu.Unlock()

	resp = env.router.ServeContent(context.Background(), match)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, pub.rawCalls, callsAfterFirst)
}

func TestRouter_ServeHitsCache(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "cached content",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	first := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, first.StatusCode)
	require.Equal(t, 1, pub.rawCalls)

	second := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, 1, pub.rawCalls, "第二次请求应命中缓存")
	assert.Equal(t, first.Headers["ETag"], second.Headers["ETag"])
}

func TestRouter_CacheExpiryRefetches(t *testing.T) {
	env := newTestEnv(t, &Options{CacheTimeout: 300 * time.Second})
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "v1",
	})

	mock := clock.NewMock()
	mock.Set(time.Now())
	env.router.ContentCache().SetClock(mock)

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	env.router.ServeContent(context.Background(), match)
	require.Equal(t, 1, pub.rawCalls)

	mock.Add(301 * time.Second)

	// 超时后回源发布器
	env.router.ServeContent(context.Background(), match)
	assert.Equal(t, 2, pub.rawCalls)
}

func TestRouter_NonMarkdownServedVerbatim(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"style.css": "body { color: red }",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star/style.css")
	require.NoError(t, err)

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body { color: red }", resp.Content)
	assert.Contains(t, resp.ContentType, "text/css")
}

func TestRouter_PageViewBestEffort(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "content",
	})
	pub.viewErr = errors.New("disk full")

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	// 访问记录失败不影响内容服务
	resp := env.router.ServeContent(context.Background(), match)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PageViewCarriesVisitorID(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "content",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)

	ctx := WithVisitorID(context.Background(), "visitor-42")
	env.router.ServeContent(ctx, match)

	require.Len(t, pub.views, 1)
	assert.Equal(t, "home.md|visitor-42", pub.views[0])
}

// ============================================================================
//                              注册与清单更新测试
// ============================================================================

func TestRouter_RegisterRejectsInvalidWords(t *testing.T) {
	env := newTestEnv(t, nil)

	priv, _, err := crypto.GenerateEd25519KeyPair(nil)
	require.NoError(t, err)
	privRaw, _ := priv.Raw()

	err = env.router.RegisterForwardIdentity(context.Background(), &interfaces.RegisterRequest{
		FourWords:       "only-three-words",
		PrivateKeyBytes: privRaw,
	})
	assert.ErrorIs(t, err, types.ErrInvalidFourWords)
}

// failingDHT Put 总是失败的 DHT 桩
type failingDHT struct{}

func (failingDHT) Get(context.Context, []byte) ([]byte, error) {
	return nil, interfaces.ErrKeyNotFound
}
func (failingDHT) Put(context.Context, []byte, []byte) error {
	return errors.New("network partition")
}

func TestRouter_RegisterPropagatesDHTError(t *testing.T) {
	r, err := New(failingDHT{}, newFakeFactory(), nil)
	require.NoError(t, err)

	priv, _, err := crypto.GenerateEd25519KeyPair(nil)
	require.NoError(t, err)
	privRaw, _ := priv.Raw()

	err = r.RegisterForwardIdentity(context.Background(), &interfaces.RegisterRequest{
		FourWords:       "ocean-forest-moon-star",
		PrivateKeyBytes: privRaw,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dht publish failed")

	// 发布失败不应污染身份缓存
	assert.Empty(t, r.ListForwardIdentities())
}

func TestRouter_UpdateManifestInvalidatesContent(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	pub := env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "old content",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)
	env.router.ServeContent(context.Background(), match)
	require.Equal(t, 1, env.router.GetCacheStats().ContentCacheSize)

	require.NoError(t, env.router.UpdateWebManifest(context.Background(), "ocean-forest-moon-star", "m2"))

	// 内容缓存被清空，记录携带新哈希
	assert.Equal(t, 0, env.router.GetCacheStats().ContentCacheSize)
	record, ok := env.router.IdentityStore().GetCached("ocean-forest-moon-star")
	require.True(t, ok)
	assert.Equal(t, "m2", record.WebManifestHash)

	// 下一次请求穿透缓存回源发布器
	pub.mu.Lock()
	pub.files["home.md"] = "new content"
	pub.mu.Unlock()

	resp := env.router.ServeContent(context.Background(), match)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Content, "new content")
}

func TestRouter_UpdateManifestRequiresRegistration(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.router.UpdateWebManifest(context.Background(), "never-registered-here-before", "m2")
	assert.ErrorIs(t, err, types.ErrNotRegistered)
}

func TestRouter_UpdateManifestSurvivesResolve(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	require.NoError(t, env.router.UpdateWebManifest(context.Background(), "ocean-forest-moon-star", "m2"))

	// 清空本地缓存后从 DHT 重新解析：新记录仍可验证
	env.router.IdentityStore().Clear()
	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)
	assert.Equal(t, "ocean-forest-moon-star", match.Identity.FourWords)

	record, ok := env.router.IdentityStore().GetCached("ocean-forest-moon-star")
	require.True(t, ok)
	assert.Equal(t, "m2", record.WebManifestHash)
}

// ============================================================================
//                              缓存管理测试
// ============================================================================

func TestRouter_CacheStatsAndClear(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	env.factory.setFiles("ocean-forest-moon-star", map[string]string{
		"home.md": "content",
	})

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)
	env.router.ServeContent(context.Background(), match)

	stats := env.router.GetCacheStats()
	assert.Equal(t, 1, stats.ContentCacheSize)
	assert.Equal(t, 1, stats.IdentityCacheSize)
	assert.Equal(t, 1, stats.PublisherCacheSize)

	env.router.ClearCache()

	stats = env.router.GetCacheStats()
	assert.Equal(t, 0, stats.ContentCacheSize)
	assert.Equal(t, 0, stats.IdentityCacheSize)
	assert.Equal(t, 0, stats.PublisherCacheSize)
}

func TestRouter_PreloadIdentity(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")
	env.router.IdentityStore().Clear()

	require.NoError(t, env.router.PreloadIdentity(context.Background(), "ocean-forest-moon-star"))
	assert.Equal(t, 1, env.router.GetCacheStats().IdentityCacheSize)

	err := env.router.PreloadIdentity(context.Background(), "does-not-exist-at-all")
	assert.ErrorIs(t, err, types.ErrIdentityNotFound)
}

func TestRouter_ListForwardIdentities(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "b-b-b-b", "m1")
	env.register(t, "a-a-a-a", "m2")

	list := env.router.ListForwardIdentities()
	require.Len(t, list, 2)
	assert.Equal(t, "a-a-a-a", list[0].FourWords)
	assert.Equal(t, "b-b-b-b", list[1].FourWords)

	// 记录快照完整：清单哈希、更新时间与签名都要携带
	assert.Equal(t, "m2", list[0].WebManifestHash)
	assert.Equal(t, "m1", list[1].WebManifestHash)
	for _, rec := range list {
		assert.NotEmpty(t, rec.PublicKey)
		assert.NotEmpty(t, rec.Signature)
		assert.False(t, rec.LastUpdated.IsZero())
		assert.WithinDuration(t, time.Now(), rec.LastUpdated, time.Minute)
	}
}

func TestRouter_WarmIdentityCache(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")

	// 同一 DHT 存储上构建第二个路由器，模拟进程重启后的冷缓存
	restarted, err := New(env.dht, env.factory, nil)
	require.NoError(t, err)
	require.Equal(t, 0, restarted.GetCacheStats().IdentityCacheSize)

	warmed := restarted.WarmIdentityCache(env.dht)
	assert.Equal(t, 1, warmed)
	assert.Equal(t, 1, restarted.GetCacheStats().IdentityCacheSize)

	list := restarted.ListForwardIdentities()
	require.Len(t, list, 1)
	assert.Equal(t, "ocean-forest-moon-star", list[0].FourWords)
	assert.Equal(t, "m1", list[0].WebManifestHash)
}

func TestRouter_WarmIdentityCacheSkipsInvalid(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ocean-forest-moon-star", "m1")

	// 存储中混入无法解码的值，预热必须跳过且不计数
	require.NoError(t, env.dht.Put(context.Background(),
		[]byte("junk-key"), []byte("not a record")))

	restarted, err := New(env.dht, env.factory, nil)
	require.NoError(t, err)
	warmed := restarted.WarmIdentityCache(env.dht)
	assert.Equal(t, 1, warmed)
	assert.Equal(t, 1, restarted.GetCacheStats().IdentityCacheSize)
}

// ============================================================================
//                              观察者测试
// ============================================================================

func TestRouter_ObserverNotifications(t *testing.T) {
	obs := &recordingObserver{}
	env := newTestEnv(t, &Options{Observers: []Observer{obs}})

	env.register(t, "ocean-forest-moon-star", "m1")
	require.Len(t, obs.registered, 1)
	assert.Equal(t, "ocean-forest-moon-star|m1", obs.registered[0])

	require.NoError(t, env.router.UpdateWebManifest(context.Background(), "ocean-forest-moon-star", "m2"))
	require.Len(t, obs.updated, 1)

	match, err := env.router.Route(context.Background(), "ocean-forest-moon-star")
	require.NoError(t, err)
	env.router.ServeContent(context.Background(), match)
	assert.NotEmpty(t, obs.errors, "无内容时应通知服务错误")

	env.router.ClearCache()
	assert.Equal(t, 1, obs.cleared)
}

// ============================================================================
//                              实例隔离测试
// ============================================================================

func TestRouter_InstancesAreIsolated(t *testing.T) {
	env1 := newTestEnv(t, nil)
	env2 := newTestEnv(t, nil)

	env1.register(t, "ocean-forest-moon-star", "m1")

	_, err := env2.router.Route(context.Background(), "ocean-forest-moon-star")
	assert.ErrorIs(t, err, types.ErrIdentityNotFound, "实例间不应共享任何状态")
}

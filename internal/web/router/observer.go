// Package router - 观察者通知
//
// 路由器通过构造时传入的观察者列表发出横切通知
// （身份注册、清单更新、缓存清空、服务错误），
// 取代隐式的事件发射，控制流保持显式。
package router

// Observer 路由器事件观察者
//
// 回调在触发操作的 goroutine 中同步执行，实现必须快速返回
// 且不得阻塞；需要重活的观察者自行异步化。
type Observer interface {
	// IdentityRegistered 身份注册（或重新注册）成功
	IdentityRegistered(fourWords string, webManifestHash string)

	// ManifestUpdated 清单哈希更新成功
	ManifestUpdated(fourWords string, newManifestHash string, invalidated int)

	// CacheCleared 全部缓存被清空
	CacheCleared()

	// ServeError 内容服务管线出现未恢复失败
	ServeError(fourWords string, path string, reason string)
}

// NopObserver 空实现，便于只关心部分事件的观察者嵌入
type NopObserver struct{}

// IdentityRegistered 实现 Observer 接口
func (NopObserver) IdentityRegistered(string, string) {}

// ManifestUpdated 实现 Observer 接口
func (NopObserver) ManifestUpdated(string, string, int) {}

// CacheCleared 实现 Observer 接口
func (NopObserver) CacheCleared() {}

// ServeError 实现 Observer 接口
func (NopObserver) ServeError(string, string, string) {}

// notifyIdentityRegistered 通知全部观察者
func (r *Router) notifyIdentityRegistered(fourWords, manifestHash string) {
	for _, o := range r.observers {
		o.IdentityRegistered(fourWords, manifestHash)
	}
}

func (r *Router) notifyManifestUpdated(fourWords, newHash string, invalidated int) {
	for _, o := range r.observers {
		o.ManifestUpdated(fourWords, newHash, invalidated)
	}
}

func (r *Router) notifyCacheCleared() {
	for _, o := range r.observers {
		o.CacheCleared()
	}
}

func (r *Router) notifyServeError(fourWords, path, reason string) {
	for _, o := range r.observers {
		o.ServeError(fourWords, path, reason)
	}
}

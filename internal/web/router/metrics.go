// Package router - Prometheus 指标
package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 路由器指标集合
type Metrics struct {
	// RequestsServed 成功服务的请求数
	RequestsServed prometheus.Counter

	// RequestsFailed 以 404 诊断页结束的请求数
	RequestsFailed prometheus.Counter

	// ContentCacheHits 内容缓存命中数
	ContentCacheHits prometheus.Counter

	// ContentCacheMisses 内容缓存未命中数
	ContentCacheMisses prometheus.Counter

	// HomeFallbacks 回退到默认入口页的次数
	HomeFallbacks prometheus.Counter
}

// NewMetrics 创建并注册路由器指标
//
// reg 为 nil 时只创建不注册（测试场景）。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webrouter",
			Name:      "requests_served_total",
			Help:      "Requests served with status 200.",
		}),
		RequestsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webrouter",
			Name:      "requests_failed_total",
			Help:      "Requests answered with the 404 diagnostic page.",
		}),
		ContentCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webrouter",
			Name:      "content_cache_hits_total",
			Help:      "Content cache hits.",
		}),
		ContentCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webrouter",
			Name:      "content_cache_misses_total",
			Help:      "Content cache misses.",
		}),
		HomeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webrouter",
			Name:      "home_fallbacks_total",
			Help:      "Serves that fell back to the default entry point.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RequestsServed,
			m.RequestsFailed,
			m.ContentCacheHits,
			m.ContentCacheMisses,
			m.HomeFallbacks,
		)
	}
	return m
}

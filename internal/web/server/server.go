// Package server 提供 WebRouter 的 HTTP 服务
//
// 路由布局：
//   - GET  /{fourwords}            身份入口页
//   - GET  /{fourwords}/*          身份内容路径
//   - /api/v1/*                    管理 API（注册、清单更新、缓存）
//   - GET  /metrics                Prometheus 指标
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-webrouter/config"
	"github.com/dep2p/go-webrouter/internal/web/router"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
	"github.com/dep2p/go-webrouter/pkg/types"
)

var logger = log.Logger("web/server")

// visitorCookie 访客标识 Cookie 名
const visitorCookie = "wr_visitor"

// Server WebRouter HTTP 服务
type Server struct {
	router     interfaces.Router
	keys       *KeystoreProvider
	registry   *prometheus.Registry
	entryPoint string

	httpServer *http.Server
}

// New 创建 HTTP 服务
func New(rt interfaces.Router, keys *KeystoreProvider, registry *prometheus.Registry, cfg *config.Config) *Server {
	s := &Server{
		router:     rt,
		keys:       keys,
		registry:   registry,
		entryPoint: cfg.Router.DefaultEntryPoint,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Post("/identities", s.handleRegister)
		r.Get("/identities", s.handleListIdentities)
		r.Put("/identities/{fourwords}/manifest", s.handleUpdateManifest)
		r.Post("/identities/{fourwords}/preload", s.handlePreload)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Delete("/cache", s.handleClearCache)
	})

	if registry != nil {
		mux.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	mux.Get("/{fourwords}", s.handleContent)
	mux.Get("/{fourwords}/*", s.handleContent)

	s.httpServer = &http.Server{
		Addr:         cfg.HTTP.Listen,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
	}
	return s
}

// Start 启动 HTTP 监听
//
// 监听失败通过 errCh 上报（非阻塞）。
func (s *Server) Start() {
	go func() {
		logger.Info("HTTP 服务启动", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP 服务异常退出", "error", err)
		}
	}()
}

// Stop 优雅停止 HTTP 服务
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ============================================================================
//                              内容服务
// ============================================================================

// handleContent 服务身份内容
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	fourWords := chi.URLParam(r, "fourwords")
	rest := chi.URLParam(r, "*")

	rawURL := fourWords
	if rest != "" {
		rawURL = fourWords + "/" + rest
	}

	match, err := s.router.Route(r.Context(), rawURL)
	if err != nil {
		s.writeRouteError(w, fourWords, err)
		return
	}

	ctx := router.WithVisitorID(r.Context(), s.visitorID(w, r))
	served := s.router.ServeContent(ctx, match)

	for k, v := range served.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", served.ContentType)
	w.WriteHeader(served.StatusCode)
	_, _ = w.Write([]byte(served.Content))
}

// writeRouteError 将路由错误转换为诊断页响应
func (s *Server) writeRouteError(w http.ResponseWriter, fourWords string, err error) {
	reason := "identity could not be resolved"
	status := http.StatusNotFound
	if errors.Is(err, types.ErrInvalidURL) {
		reason = "request does not name a valid four-word identity"
		status = http.StatusBadRequest
	}

	w.Header().Set(types.HeaderError, "true")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(router.GenerateErrorPage(reason, fourWords, s.entryPoint)))
}

// visitorID 返回访客标识，必要时下发 Cookie
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	return id
}

// ============================================================================
//                              管理 API
// ============================================================================

// registerPayload 身份注册请求体
type registerPayload struct {
	FourWords       string `json:"four_words"`
	DHTAddress      string `json:"dht_address"`
	WebManifestHash string `json:"web_manifest_hash"`

	// PrivateKey 十六进制编码的 Ed25519 私钥（可选，缺省时自动生成）
	PrivateKey string `json:"private_key,omitempty"`
}

// registerResponse 身份注册响应体
type registerResponse struct {
	FourWords string `json:"four_words"`
	PublicKey string `json:"public_key"`

	// PrivateKey 仅在服务端生成密钥时返回，调用方须立即保存
	PrivateKey string `json:"private_key,omitempty"`
}

// handleRegister 注册身份
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var (
		priv      crypto.PrivateKey
		generated bool
	)
	if payload.PrivateKey != "" {
		raw, err := hex.DecodeString(payload.PrivateKey)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "private_key must be hex encoded")
			return
		}
		priv, err = crypto.UnmarshalEd25519PrivateKey(raw)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		var err error
		priv, _, err = crypto.GenerateEd25519KeyPair(nil)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "key generation failed")
			return
		}
		generated = true
	}

	privRaw, err := priv.Raw()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	normalized, err := types.ParseFourWords(payload.FourWords)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &interfaces.RegisterRequest{
		FourWords:       normalized,
		DHTAddress:      payload.DHTAddress,
		WebManifestHash: payload.WebManifestHash,
		PrivateKeyBytes: privRaw,
	}
	if err := s.router.RegisterForwardIdentity(r.Context(), req); err != nil {
		s.writeRegisterError(w, err)
		return
	}

	// 注册成功后保存密钥，清单更新时用于重新签名
	if s.keys != nil {
		if err := s.keys.Store(normalized, priv); err != nil {
			logger.Warn("身份密钥保存失败", "fourWords", normalized, "error", err)
		}
	}

	pubRaw, _ := priv.GetPublic().Raw()
	resp := registerResponse{
		FourWords: normalized,
		PublicKey: hex.EncodeToString(pubRaw),
	}
	if generated {
		resp.PrivateKey = hex.EncodeToString(privRaw)
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

// writeRegisterError 映射注册错误到 HTTP 状态码
func (s *Server) writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrEmptyFourWords),
		errors.Is(err, types.ErrInvalidFourWords):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeJSONError(w, http.StatusBadGateway, err.Error())
	}
}

// manifestPayload 清单更新请求体
type manifestPayload struct {
	WebManifestHash string `json:"web_manifest_hash"`
}

// handleUpdateManifest 更新身份清单哈希
func (s *Server) handleUpdateManifest(w http.ResponseWriter, r *http.Request) {
	fourWords := chi.URLParam(r, "fourwords")

	var payload manifestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	err := s.router.UpdateWebManifest(r.Context(), fourWords, payload.WebManifestHash)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case errors.Is(err, types.ErrNotRegistered):
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrEmptyFourWords), errors.Is(err, types.ErrInvalidFourWords):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeJSONError(w, http.StatusBadGateway, err.Error())
	}
}

// identityView 身份列表项
type identityView struct {
	FourWords       string `json:"four_words"`
	PublicKey       string `json:"public_key"`
	DHTAddress      string `json:"dht_address"`
	WebManifestHash string `json:"web_manifest_hash"`
	LastUpdated     string `json:"last_updated"`
	Signature       string `json:"signature"`
}

// handleListIdentities 列出已缓存身份记录
func (s *Server) handleListIdentities(w http.ResponseWriter, _ *http.Request) {
	records := s.router.ListForwardIdentities()
	views := make([]identityView, 0, len(records))
	for _, rec := range records {
		views = append(views, identityView{
			FourWords:       rec.FourWords,
			PublicKey:       hex.EncodeToString(rec.PublicKey),
			DHTAddress:      rec.DHTAddress,
			WebManifestHash: rec.WebManifestHash,
			LastUpdated:     rec.LastUpdated.UTC().Format(time.RFC3339Nano),
			Signature:       hex.EncodeToString(rec.Signature),
		})
	}
	s.writeJSON(w, http.StatusOK, views)
}

// handlePreload 预热身份缓存
func (s *Server) handlePreload(w http.ResponseWriter, r *http.Request) {
	fourWords := chi.URLParam(r, "fourwords")

	err := s.router.PreloadIdentity(r.Context(), fourWords)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "preloaded"})
	case errors.Is(err, types.ErrIdentityNotFound):
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidURL):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeJSONError(w, http.StatusBadGateway, err.Error())
	}
}

// handleCacheStats 返回缓存统计
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.router.GetCacheStats()
	s.writeJSON(w, http.StatusOK, map[string]int{
		"content_cache_size":   stats.ContentCacheSize,
		"identity_cache_size":  stats.IdentityCacheSize,
		"publisher_cache_size": stats.PublisherCacheSize,
	})
}

// handleClearCache 清空全部缓存
func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.router.ClearCache()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ============================================================================
//                              响应辅助
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("JSON 响应编码失败", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

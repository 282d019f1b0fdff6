// Package router - 内容服务管线
//
// 状态机（每请求）:
//
//	Routing → IdentityResolved → ContentResolving →
//	    { ContentServed | FallbackHome → ContentServed | Failed }
//
// 终态为 ContentServed 或 Failed；唯一的重试是单次回退默认入口页。
package router

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dep2p/go-webrouter/internal/web/content"
	"github.com/dep2p/go-webrouter/pkg/types"
)

// visitorIDKey context 中的访问者 ID 键
type visitorIDKey struct{}

// WithVisitorID 在 context 中携带访问者 ID
//
// 供调用外壳（如 HTTP 服务）传入访问者标识，用于页面访问记录。
func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDKey{}, visitorID)
}

// visitorID 提取访问者 ID，缺省为 "anonymous"
func visitorID(ctx context.Context) string {
	if v, ok := ctx.Value(visitorIDKey{}).(string); ok && v != "" {
		return v
	}
	return "anonymous"
}

// ServeContent 为路由匹配提供内容
//
// 任何未恢复的失败都转换为带诊断页的 404 响应，
// 永远不会向调用方抛出未处理的故障。
func (r *Router) ServeContent(ctx context.Context, match *types.RouteMatch) *types.ServedContent {
	if match == nil || match.Identity.FourWords == "" {
		r.metrics.RequestsFailed.Inc()
		return r.failedResponse("", "", "invalid route match")
	}

	resp, err := r.serve(ctx, match)
	if err != nil {
		reason := err.Error()
		logger.Warn("内容服务失败",
			"fourWords", match.Identity.FourWords,
			"path", match.Path,
			"error", err)
		r.metrics.RequestsFailed.Inc()
		r.notifyServeError(match.Identity.FourWords, match.Path, reason)
		return r.failedResponse(match.Identity.FourWords, match.Path, reason)
	}

	r.metrics.RequestsServed.Inc()
	return resp
}

// serve 执行服务管线，返回错误表示未恢复失败
func (r *Router) serve(ctx context.Context, match *types.RouteMatch) (*types.ServedContent, error) {
	fourWords := match.Identity.FourWords

	// 1. 缓存探测
	if entry, hit := r.contents.Get(fourWords, match.Path); hit {
		r.metrics.ContentCacheHits.Inc()
		logger.Debug("内容缓存命中", "fourWords", fourWords, "path", match.Path)
		return r.servedResponse(match, entry), nil
	}
	r.metrics.ContentCacheMisses.Inc()

	// 2. 发布器取回，必要时单次回退默认入口页
	record, exists := r.identities.GetCached(fourWords)
	manifestHash := ""
	if exists {
		manifestHash = record.WebManifestHash
	}

	pub, err := r.publishers.Get(fourWords, manifestHash)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}

	raw, err := pub.GetRawContent(ctx, match.Path)
	if err != nil {
		entryPoint := r.resolver.EntryPoint()
		if match.Path == entryPoint {
			return nil, types.ErrContentNotFound
		}

		// FallbackHome：更新 match 反映实际提供的内容
		raw, err = pub.GetRawContent(ctx, entryPoint)
		if err != nil {
			return nil, types.ErrContentNotFound
		}
		logger.Debug("回退到默认入口页",
			"fourWords", fourWords,
			"requested", match.Path)
		r.metrics.HomeFallbacks.Inc()
		match.Path = entryPoint
		match.IsHome = true
	}

	// 3. Markdown 渲染，内容类型相应提升
	body := string(raw)
	contentType := contentTypeFor(match.Path)
	if isMarkdown(contentType) {
		rendered, err := pub.Render(ctx, match.Path, raw)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		body = rendered
		contentType = "text/html; charset=utf-8"
	}

	// 4. 填充内容缓存
	entry := r.contents.Put(fourWords, match.Path, body, contentType)

	// 5. 尽力而为的页面访问记录，失败不影响请求
	if err := pub.RecordPageView(ctx, match.Path, visitorID(ctx)); err != nil {
		logger.Debug("页面访问记录失败（已忽略）",
			"fourWords", fourWords,
			"path", match.Path,
			"error", err)
	}

	return r.servedResponse(match, entry), nil
}

// servedResponse 构造 200 响应
func (r *Router) servedResponse(match *types.RouteMatch, entry *content.CachedContent) *types.ServedContent {
	headers := r.diagnosticHeaders(match.Identity.FourWords, match.Path, match.IsHome)
	headers["ETag"] = `"` + entry.ETag + `"`
	headers["Last-Modified"] = entry.LastModified.UTC().Format(http.TimeFormat)
	headers["Cache-Control"] = fmt.Sprintf("public, max-age=%d", int(r.contents.Timeout()/time.Second))

	return &types.ServedContent{
		Content:     entry.Content,
		ContentType: entry.ContentType,
		Headers:     headers,
		StatusCode:  http.StatusOK,
	}
}

// failedResponse 构造 404 诊断响应
func (r *Router) failedResponse(fourWords, path, reason string) *types.ServedContent {
	headers := r.diagnosticHeaders(fourWords, path, false)
	headers[types.HeaderError] = "true"

	return &types.ServedContent{
		Content:     GenerateErrorPage(reason, fourWords, r.resolver.EntryPoint()),
		ContentType: "text/html; charset=utf-8",
		Headers:     headers,
		StatusCode:  http.StatusNotFound,
	}
}

// diagnosticHeaders 构造诊断头
func (r *Router) diagnosticHeaders(fourWords, path string, isHome bool) map[string]string {
	return map[string]string{
		types.HeaderSource: fourWords,
		types.HeaderPath:   path,
		types.HeaderHome:   fmt.Sprintf("%t", isHome),
	}
}

// contentTypeFor 按扩展名确定内容类型
func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8"
	case "":
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// isMarkdown 检查内容类型是否为 Markdown
func isMarkdown(contentType string) bool {
	return strings.HasPrefix(contentType, "text/markdown")
}

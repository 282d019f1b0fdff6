// Package router 实现 DHT Web 路由器
//
// 本文件实现路径解析：把请求片段规范化为内容路径，
// 应用默认入口页约定。
package router

import (
	"strings"

	"github.com/dep2p/go-webrouter/pkg/types"
)

// DefaultEntryPoint 默认入口页
const DefaultEntryPoint = "home.md"

// MarkdownExtension 默认补全的扩展名（Markdown 优先约定）
const MarkdownExtension = ".md"

// PathResolver 路径解析器
type PathResolver struct {
	// entryPoint 默认入口页（如 home.md）
	entryPoint string
}

// NewPathResolver 创建路径解析器
func NewPathResolver(entryPoint string) *PathResolver {
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	return &PathResolver{entryPoint: entryPoint}
}

// EntryPoint 返回默认入口页
func (r *PathResolver) EntryPoint() string {
	return r.entryPoint
}

// SplitRequest 从原始请求中提取身份标识与原始路径
//
// 接受 "identity/path"、"identity"、"/identity/path"，
// 以及带 scheme/host 前缀的完整 URL。
// 无法提取身份标识时返回 types.ErrInvalidURL。
func SplitRequest(rawURL string) (token string, rawPath string, err error) {
	s := strings.TrimSpace(rawURL)

	// 剥离 scheme 前缀
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
		// host 形式的 URL 只保留路径部分
		if slash := strings.Index(s, "/"); slash >= 0 {
			s = s[slash+1:]
		} else {
			s = ""
		}
	}

	s = strings.TrimPrefix(s, "/")
	if s == "" {
		return "", "", types.ErrInvalidURL
	}

	parts := strings.SplitN(s, "/", 2)
	token = parts[0]
	if token == "" {
		return "", "", types.ErrInvalidURL
	}
	if len(parts) == 2 {
		rawPath = parts[1]
	}
	return token, rawPath, nil
}

// Resolve 把原始路径片段规范化为内容路径
//
// 规则:
//   - 空路径或 "/" 解析为默认入口页
//   - 目录形式（尾部 "/"）在目录内应用默认入口页
//   - 无扩展名且不是默认入口页的路径补全 ".md"
//
// 输出永不为空；isHome 为 true 当且仅当解析结果等于默认入口页。
func (r *PathResolver) Resolve(rawPath string) (path string, isHome bool) {
	p := strings.TrimPrefix(strings.TrimSpace(rawPath), "/")

	if p == "" {
		return r.entryPoint, true
	}

	// 目录请求：在目录内应用默认入口页
	if strings.HasSuffix(p, "/") {
		p = p + r.entryPoint
		return p, p == r.entryPoint
	}

	// Markdown 优先：无扩展名的路径补全 .md
	last := p[strings.LastIndex(p, "/")+1:]
	if !strings.Contains(last, ".") && p != r.entryPoint {
		p += MarkdownExtension
	}

	return p, p == r.entryPoint
}

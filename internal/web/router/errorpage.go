// Package router - 诊断错误页生成
package router

import (
	"fmt"
	"html"
)

// errorPageTemplate 诊断页骨架
//
// 自包含文档，不引用外部资源，保证离线可渲染。
const errorPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Content Unavailable</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 4em auto; color: #333; }
h1 { font-size: 1.4em; }
code { background: #f4f4f4; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>Content Unavailable</h1>
<p>%s</p>
<p><a href="/%s">Back to %s</a></p>
</body>
</html>
`

// GenerateErrorPage 生成确定性的诊断页
//
// 纯函数，对任意输入都不会失败。reason 为失败原因，
// fourWords/entryPoint 用于生成返回默认入口页的链接。
func GenerateErrorPage(reason, fourWords, entryPoint string) string {
	if reason == "" {
		reason = "unknown error"
	}
	home := html.EscapeString(fourWords)
	return fmt.Sprintf(errorPageTemplate,
		html.EscapeString(reason),
		home,
		home+"/"+html.EscapeString(entryPoint))
}

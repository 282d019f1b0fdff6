// Package publisher 提供目录存储的内容发布器
//
// LocalPublisher 从本地目录提供某个身份的内容文件，将 Markdown
// 渲染为 HTML，并把页面访问记录追加到访问日志。实现
// pkg/interfaces.Publisher，是 webrouterd 单节点部署的默认发布器；
// 分布式场景由调用方提供自己的实现。
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/log"
)

var logger = log.Logger("web/publisher")

// LocalPublisher 本地目录发布器
type LocalPublisher struct {
	// fourWords 所属身份
	fourWords string

	// root 内容根目录
	root string

	// md Markdown 渲染器
	md goldmark.Markdown

	// viewMu 串行化访问日志追加
	viewMu sync.Mutex
}

// New 创建本地目录发布器
//
// root 必须是已存在的目录。
func New(fourWords, root string) (*LocalPublisher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("publisher: content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("publisher: content root %q is not a directory", root)
	}

	return &LocalPublisher{
		fourWords: fourWords,
		root:      root,
		md:        goldmark.New(),
	}, nil
}

// Factory 返回以 baseDir/<fourWords> 为根目录的发布器工厂
//
// 供 webrouterd 在构造 Router 时注入。
func Factory(baseDir string) interfaces.PublisherFactory {
	return interfaces.PublisherFactoryFunc(func(fourWords, _ string) (interfaces.Publisher, error) {
		return New(fourWords, filepath.Join(baseDir, fourWords))
	})
}

// contentPath 将请求路径映射到根目录下的文件路径
//
// 拒绝逃逸根目录的路径。
func (p *LocalPublisher) contentPath(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	full := filepath.Join(p.root, cleaned)
	if !strings.HasPrefix(full, filepath.Clean(p.root)+string(os.PathSeparator)) {
		return "", interfaces.ErrContentMissing
	}
	return full, nil
}

// GetRawContent 获取指定路径的原始内容字节
func (p *LocalPublisher) GetRawContent(_ context.Context, path string) ([]byte, error) {
	full, err := p.contentPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrContentMissing
		}
		return nil, fmt.Errorf("publisher: read %s: %w", path, err)
	}
	return data, nil
}

// Render 将 Markdown 渲染为 HTML
func (p *LocalPublisher) Render(_ context.Context, path string, raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert(raw, &buf); err != nil {
		return "", fmt.Errorf("publisher: render %s: %w", path, err)
	}
	return buf.String(), nil
}

// RecordPageView 追加一条页面访问记录
//
// 尽力而为：失败由调用方记录日志并忽略。
func (p *LocalPublisher) RecordPageView(_ context.Context, path string, visitorID string) error {
	p.viewMu.Lock()
	defer p.viewMu.Unlock()

	f, err := os.OpenFile(filepath.Join(p.root, ".pageviews.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("publisher: open view log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n",
		time.Now().UTC().Format(time.RFC3339), path, visitorID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("publisher: append view log: %w", err)
	}
	return nil
}

var _ interfaces.Publisher = (*LocalPublisher)(nil)

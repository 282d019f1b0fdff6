// Package interfaces - Publisher 发布器接口
//
// 本文件定义每个身份的内容发布器接口。发布器负责提供原始文件
// 字节、渲染 Markdown，以及尽力而为的页面访问记录。
package interfaces

import (
	"context"
	"errors"
)

// ErrContentMissing 发布器中不存在指定路径的内容
var ErrContentMissing = errors.New("publisher: content missing")

// Publisher 身份内容发布器
//
// 每个已解析的身份对应一个发布器实例。实例的构造可能不便宜
// （需要定位清单、打开存储），因此 Router 会按身份缓存实例。
//
// 线程安全：实现必须保证所有方法的线程安全性。
type Publisher interface {
	// GetRawContent 获取指定路径的原始内容字节
	//
	// 返回:
	//   - []byte: 原始内容
	//   - error: ErrContentMissing 如果路径不存在
	GetRawContent(ctx context.Context, path string) ([]byte, error)

	// Render 将原始字节渲染为可展示的输出
	//
	// 用于 Markdown 内容。非 Markdown 内容不经过渲染。
	Render(ctx context.Context, path string, raw []byte) (string, error)

	// RecordPageView 记录一次页面访问（尽力而为）
	//
	// 失败不得影响请求本身，调用方只记录日志并继续。
	RecordPageView(ctx context.Context, path string, visitorID string) error
}

// PublisherFactory 发布器工厂
//
// 由调用方在构造 Router 时提供，使 Router 与发布器的实际构造
// 方式解耦。record 参数为已通过签名验证的身份记录。
type PublisherFactory interface {
	// CreatePublisher 为身份记录创建发布器实例
	CreatePublisher(fourWords string, webManifestHash string) (Publisher, error)
}

// PublisherFactoryFunc 函数形式的 PublisherFactory
type PublisherFactoryFunc func(fourWords string, webManifestHash string) (Publisher, error)

// CreatePublisher 实现 PublisherFactory 接口
func (f PublisherFactoryFunc) CreatePublisher(fourWords string, webManifestHash string) (Publisher, error) {
	return f(fourWords, webManifestHash)
}

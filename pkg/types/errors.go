// Package types 定义 WebRouter 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              身份相关错误
// ============================================================================

var (
	// ErrEmptyFourWords 空四词地址
	ErrEmptyFourWords = errors.New("webrouter: empty four-word address")

	// ErrInvalidFourWords 无效的四词地址
	ErrInvalidFourWords = errors.New("webrouter: four-word address must contain exactly 4 words")
)

// ============================================================================
//                              路由相关错误
// ============================================================================

var (
	// ErrInvalidURL 无法从请求中提取身份标识
	ErrInvalidURL = errors.New("webrouter: invalid url: no identity token")

	// ErrIdentityNotFound 身份记录不存在
	//
	// 注意：签名验证失败同样返回此错误。两种情况对调用方不可区分，
	// 这是有意的反枚举设计，不是遗漏。
	ErrIdentityNotFound = errors.New("webrouter: identity not found")

	// ErrContentNotFound 请求路径与默认入口页均无法获取
	ErrContentNotFound = errors.New("webrouter: content not found")

	// ErrNotRegistered 身份未注册（更新清单前必须存在记录）
	ErrNotRegistered = errors.New("webrouter: identity not registered")
)

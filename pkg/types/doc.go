// Package types 定义 WebRouter 的公共基础类型
//
// 本包不依赖任何其他 WebRouter 包，供公共接口和内部实现共同使用。
//
// # 主要类型
//
//   - NetworkIdentity: 四词网络身份
//   - RouteMatch: 路由匹配结果
//   - ServedContent: 内容服务结果
//   - CacheStats: 缓存统计
//
// # 错误约定
//
// 所有公共错误使用 "webrouter: " 前缀，调用方通过 errors.Is 判断。
package types

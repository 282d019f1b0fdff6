// Package interfaces 定义 WebRouter 的公共接口
//
// 本包只包含接口与少量请求/错误类型，不包含实现。
// 实现位于 internal/ 下对应的包中：
//
//   - Router:    internal/web/router
//   - DHT:       internal/dht
//   - Publisher: internal/web/publisher（及调用方自定义实现）
//   - Engine:    internal/core/storage/engine/badger
//
// 接口按"接受接口、返回结构体"的约定设计，
// 所有阻塞操作接受 context.Context。
package interfaces

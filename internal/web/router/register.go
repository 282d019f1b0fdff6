// Package router - 身份注册与清单更新
package router

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-webrouter/internal/web/identity"
	"github.com/dep2p/go-webrouter/pkg/interfaces"
	"github.com/dep2p/go-webrouter/pkg/lib/crypto"
	"github.com/dep2p/go-webrouter/pkg/types"
)

// RegisterForwardIdentity 注册（或重新注册）身份记录
//
// 流程:
//  1. 构造 ForwardIdentityRecord 并用私钥签名（密钥材料不持久化）
//  2. 序列化后写入 DHT
//  3. 更新本地身份缓存，避免立即回源
//
// DHT 写入失败向调用方传播——发布方需要知道发布未生效。
func (r *Router) RegisterForwardIdentity(ctx context.Context, req *interfaces.RegisterRequest) error {
	if req == nil {
		return fmt.Errorf("router: nil register request")
	}

	fourWords, err := types.ParseFourWords(req.FourWords)
	if err != nil {
		return err
	}

	priv, err := crypto.UnmarshalEd25519PrivateKey(req.PrivateKeyBytes)
	if err != nil {
		return fmt.Errorf("router: bad private key: %w", err)
	}

	pubBytes, err := priv.GetPublic().Raw()
	if err != nil {
		return fmt.Errorf("router: extract public key: %w", err)
	}

	record := &identity.ForwardIdentityRecord{
		FourWordAddress: fourWords,
		PublicKeyBytes:  pubBytes,
		DHTAddress:      req.DHTAddress,
		WebManifestHash: req.WebManifestHash,
		LastUpdated:     time.Now().UnixNano(),
	}

	if err := record.Sign(priv); err != nil {
		return err
	}

	data, err := record.Marshal()
	if err != nil {
		return err
	}

	if err := r.dht.Put(ctx, identity.DHTKey(fourWords), data); err != nil {
		return fmt.Errorf("router: dht publish failed: %w", err)
	}

	r.identities.PutCached(record)

	logger.Info("身份已注册",
		"fourWords", fourWords,
		"manifestHash", req.WebManifestHash)
	r.notifyIdentityRegistered(fourWords, req.WebManifestHash)
	return nil
}

// UpdateWebManifest 更新身份的内容清单哈希
//
// 要求身份已有缓存记录（否则返回 types.ErrNotRegistered）。
// 用 KeyProvider 取得身份私钥后以新哈希重新注册，
// 然后失效该身份的全部内容缓存条目——新清单下绝不提供旧内容。
func (r *Router) UpdateWebManifest(ctx context.Context, fourWords string, newManifestHash string) error {
	normalized, err := types.ParseFourWords(fourWords)
	if err != nil {
		return err
	}

	existing, exists := r.identities.GetCached(normalized)
	if !exists {
		return types.ErrNotRegistered
	}

	if r.keys == nil {
		return fmt.Errorf("router: no key provider configured")
	}
	privBytes, err := r.keys.PrivateKeyFor(normalized)
	if err != nil {
		return fmt.Errorf("router: private key unavailable: %w", err)
	}

	if err := r.RegisterForwardIdentity(ctx, &interfaces.RegisterRequest{
		FourWords:       normalized,
		DHTAddress:      existing.DHTAddress,
		WebManifestHash: newManifestHash,
		PrivateKeyBytes: privBytes,
	}); err != nil {
		return err
	}

	invalidated := r.contents.Invalidate(normalized)
	r.publishers.Remove(normalized)

	logger.Info("清单已更新",
		"fourWords", normalized,
		"newManifestHash", newManifestHash,
		"invalidatedEntries", invalidated)
	r.notifyManifestUpdated(normalized, newManifestHash, invalidated)
	return nil
}

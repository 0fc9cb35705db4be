// Package remote 通过远程推理后端实现多模态编码器
package remote

import (
	"context"
	"fmt"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"clip-embed/configs"
	"clip-embed/internal/domain/services"
	"clip-embed/pkg/logger"
)

// NewEncoder 根据配置创建远程编码器。
// 模型本身是不透明的外部依赖：后端（如 infinity 部署的 CLIP）
// 暴露 OpenAI 兼容的 embeddings 接口，此处仅负责接入。
// 参数 ctx: 上下文对象。
// 参数 cfg: 编码器配置，包含提供商类型、API 密钥、模型名称等。
// 返回: 初始化后的 Encoder 实例，如果提供商不支持或初始化失败则返回错误。
func NewEncoder(ctx context.Context, cfg *configs.EncoderConfig, log logger.Logger) (services.Encoder, error) {
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "远程编码器初始化成功",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"device", cfg.Device,
		"dimensions", cfg.Dimensions)

	return &Encoder{
		embedder:  embedder,
		model:     cfg.Model,
		device:    cfg.Device,
		dimension: cfg.Dimensions,
		logger:    log,
	}, nil
}

// newEmbedder 根据提供商创建底层 Embedder
func newEmbedder(ctx context.Context, cfg *configs.EncoderConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIEmbedder(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported encoder provider: %s", cfg.Provider)
	}
}

// newOpenAIEmbedder 创建 OpenAI 兼容的 Embedder
func newOpenAIEmbedder(ctx context.Context, cfg *configs.EncoderConfig) (embedding.Embedder, error) {
	embedCfg := &openaiembed.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}

	// 设置 BaseURL（如果提供）
	if cfg.BaseURL != "" {
		embedCfg.BaseURL = cfg.BaseURL
	}

	// Azure OpenAI 配置
	if cfg.ByAzure {
		embedCfg.ByAzure = true
		embedCfg.APIVersion = cfg.APIVersion
	}

	return openaiembed.NewEmbedder(ctx, embedCfg)
}

package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"clip-embed/internal/domain/models"
	"clip-embed/pkg/logger"
)

// Encoder 远程多模态编码器实现
// 文本直接提交给后端；图片按多模态推理服务的约定
// 以 data URL 字符串形式提交到同一 embeddings 接口。
// 单次调用只处理一个输入，同步阻塞直至后端返回。
type Encoder struct {
	embedder  embedding.Embedder
	model     string
	device    string
	dimension int
	logger    logger.Logger
}

// EncodeText 对文本进行编码
func (e *Encoder) EncodeText(ctx context.Context, text string) (*models.Vector, error) {
	return e.embed(ctx, text, "text")
}

// EncodeImage 对图片进行编码
// 图片字节重新编码为 data URL 后提交，后端完成像素级预处理与推理
func (e *Encoder) EncodeImage(ctx context.Context, img *models.ImagePayload) (*models.Vector, error) {
	dataURL := fmt.Sprintf("data:image/%s;base64,%s",
		img.Format, base64.StdEncoding.EncodeToString(img.Data))
	return e.embed(ctx, dataURL, "image")
}

// embed 调用后端生成向量
// 所有后端错误均包装为推理错误返回
func (e *Encoder) embed(ctx context.Context, input, modality string) (*models.Vector, error) {
	startTime := time.Now()

	vectors, err := e.embedder.EmbedStrings(ctx, []string{input})
	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		e.logger.ErrorContext(ctx, "向量生成失败",
			"modality", modality,
			"model", e.model,
			"duration_ms", duration,
			"error", err.Error())
		return nil, models.NewInferenceError("encode "+modality, err)
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.ErrorContext(ctx, "后端返回空向量",
			"modality", modality,
			"model", e.model,
			"duration_ms", duration)
		return nil, models.NewInferenceError("encode "+modality,
			fmt.Errorf("no embedding data in response"))
	}

	// 转换向量数据
	values := make([]float32, len(vectors[0]))
	for i, val := range vectors[0] {
		values[i] = float32(val)
	}

	e.logger.InfoContext(ctx, "向量生成成功",
		"modality", modality,
		"model", e.model,
		"dimension", len(values),
		"duration_ms", duration)

	return models.NewVector(values, e.model), nil
}

// ModelName 模型名称
func (e *Encoder) ModelName() string {
	return e.model
}

// Device 推理设备标识
func (e *Encoder) Device() string {
	return e.device
}

// Dimension 输出向量的固定维度
func (e *Encoder) Dimension() int {
	return e.dimension
}

// Close 关闭编码器，清理资源
func (e *Encoder) Close() error {
	e.logger.Info("远程编码器关闭")
	// 底层客户端不需要显式关闭
	return nil
}

package services

import (
	"context"

	"clip-embed/internal/domain/models"
)

// Encoder 多模态嵌入模型句柄
// 进程启动时创建一次，运行期间只读共享；
// 以接口形式注入处理器，便于在测试中替换为桩实现
type Encoder interface {
	// EncodeText 对文本进行编码，返回定长向量
	EncodeText(ctx context.Context, text string) (*models.Vector, error)

	// EncodeImage 对已解码的图片进行编码，返回定长向量
	EncodeImage(ctx context.Context, image *models.ImagePayload) (*models.Vector, error)

	// ModelName 模型名称
	ModelName() string

	// Device 推理设备标识（cuda、cpu等，由后端部署决定）
	Device() string

	// Dimension 输出向量的固定维度
	Dimension() int

	// Close 释放资源（可选）
	Close() error
}

package preprocessing

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	// 注册常见图片格式的解码器
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"clip-embed/internal/domain/models"
)

// dataURLMarker data URL前缀中Base64数据的起始标记
const dataURLMarker = "base64,"

// decodeBase64Image 解码Base64图片字符串
// 允许携带可选的data URL前缀（"data:image/png;base64,..."），
// 解码前会先剥离该前缀；非法Base64包装为输入错误返回
func decodeBase64Image(input string) ([]byte, error) {
	if idx := strings.Index(input, dataURLMarker); idx >= 0 {
		input = input[idx+len(dataURLMarker):]
	}

	data, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return nil, models.NewInputError("decode base64", err)
	}

	return data, nil
}

// decodeImage 嗅探图片格式并读取尺寸信息
// 只解析图片头部完成校验，不展开完整像素缓冲；
// 像素级预处理（缩放、归一化）由模型后端按自身要求完成
func (s *Service) decodeImage(data []byte) (*models.ImagePayload, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewInputError("decode image", err)
	}

	return &models.ImagePayload{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

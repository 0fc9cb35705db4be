// Package preprocessing 将三种请求形态规范化为统一的输入载荷
package preprocessing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"clip-embed/configs"
	"clip-embed/internal/domain/models"
	"clip-embed/pkg/logger"
)

// Service 输入规范化服务
// 文本原样透传；图片输入统一收敛为已解码的图片字节
type Service struct {
	config *configs.FetcherConfig
	client *http.Client
	logger logger.Logger
}

// NewService 创建输入规范化服务
func NewService(config *configs.FetcherConfig, log logger.Logger) *Service {
	return &Service{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log,
	}
}

// Normalize 将嵌入请求规范化为统一输入
// 所有失败均以输入错误的形式返回，由HTTP层统一映射状态码
func (s *Service) Normalize(ctx context.Context, req *models.EmbeddingRequest) (*models.CanonicalInput, error) {
	startTime := time.Now()

	var (
		input *models.CanonicalInput
		err   error
	)

	switch req.Type {
	case models.InputTypeText:
		// 文本不做任何改写，分词由模型后端完成
		input = &models.CanonicalInput{Kind: models.InputTypeText, Text: req.Input}

	case models.InputTypeImageURL:
		input, err = s.normalizeImageURL(ctx, req.Input)

	case models.InputTypeImageBase64:
		input, err = s.normalizeImageBase64(req.Input)

	default:
		err = models.NewInvalidParamError("normalize input",
			fmt.Errorf("unsupported input type: %q", string(req.Type)))
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "输入规范化失败",
			"input_type", string(req.Type),
			"duration_ms", time.Since(startTime).Milliseconds(),
			"error", err.Error())
		return nil, err
	}

	s.logger.DebugContext(ctx, "输入规范化完成",
		"input_type", string(req.Type),
		"duration_ms", time.Since(startTime).Milliseconds())

	return input, nil
}

// normalizeImageURL 下载远程图片并完成解码校验
func (s *Service) normalizeImageURL(ctx context.Context, url string) (*models.CanonicalInput, error) {
	data, err := s.downloadImage(ctx, url)
	if err != nil {
		return nil, err
	}

	payload, err := s.decodeImage(data)
	if err != nil {
		return nil, err
	}

	return &models.CanonicalInput{Kind: models.InputTypeImageURL, Image: payload}, nil
}

// normalizeImageBase64 解码Base64图片并完成解码校验
func (s *Service) normalizeImageBase64(input string) (*models.CanonicalInput, error) {
	data, err := decodeBase64Image(input)
	if err != nil {
		return nil, err
	}

	payload, err := s.decodeImage(data)
	if err != nil {
		return nil, err
	}

	return &models.CanonicalInput{Kind: models.InputTypeImageBase64, Image: payload}, nil
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clip-embed/internal/app/middleware"
	"clip-embed/internal/domain/models"
	"clip-embed/internal/domain/services"
	"clip-embed/internal/infrastructure/preprocessing"
	"clip-embed/pkg/logger"
)

// EmbeddingHandler 嵌入处理器
// 持有输入规范化服务与只读的编码器句柄，请求之间无共享状态
type EmbeddingHandler struct {
	preprocessor *preprocessing.Service
	encoder      services.Encoder
	logger       logger.Logger
}

// NewEmbeddingHandler 创建嵌入处理器
func NewEmbeddingHandler(
	preprocessor *preprocessing.Service,
	encoder services.Encoder,
	log logger.Logger,
) *EmbeddingHandler {
	return &EmbeddingHandler{
		preprocessor: preprocessor,
		encoder:      encoder,
		logger:       log,
	}
}

// CreateEmbedding 生成嵌入向量
// POST /embeddings
func (h *EmbeddingHandler) CreateEmbedding(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := middleware.GetRequestID(c)

	// 解析请求参数
	var req models.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.ErrorContext(ctx, "嵌入请求参数解析失败",
			"request_id", requestID,
			"error", err.Error())
		h.respondWithError(c, models.NewInvalidParamError("parse request", err))
		return
	}

	// 参数验证
	if err := req.Validate(); err != nil {
		h.logger.ErrorContext(ctx, "嵌入请求参数验证失败",
			"request_id", requestID,
			"input_type", string(req.Type),
			"error", err.Error())
		h.respondWithError(c, err)
		return
	}

	// 输入规范化（文本透传、URL下载、Base64解码）
	input, err := h.preprocessor.Normalize(ctx, &req)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	// 调用编码器
	startTime := time.Now()
	var vector *models.Vector

	switch input.Kind {
	case models.InputTypeText:
		vector, err = h.encoder.EncodeText(ctx, input.Text)
	default:
		vector, err = h.encoder.EncodeImage(ctx, input.Image)
	}

	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		h.logger.ErrorContext(ctx, "编码器调用失败",
			"request_id", requestID,
			"input_type", string(req.Type),
			"status", models.ErrorCode(err).String(),
			"duration_ms", duration,
			"error", err.Error())
		h.respondWithError(c, err)
		return
	}

	h.logger.InfoContext(ctx, "嵌入请求处理完成",
		"request_id", requestID,
		"input_type", string(req.Type),
		"dimension", vector.Dimension,
		"duration_ms", duration)

	c.JSON(http.StatusOK, models.NewEmbeddingResponse(vector))
}

// HealthCheck 健康检查
// GET /health
// 无副作用，始终返回200
func (h *EmbeddingHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"device": h.encoder.Device(),
		"model":  h.encoder.ModelName(),
	})
}

// Examples 返回每种输入类型的示例请求
// GET /examples
func (h *EmbeddingHandler) Examples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"text_example": models.EmbeddingRequest{
			Type:  models.InputTypeText,
			Input: "a photo of a cat",
		},
		"image_url_example": models.EmbeddingRequest{
			Type:  models.InputTypeImageURL,
			Input: "https://example.com/cat.jpg",
		},
		"image_base64_example": models.EmbeddingRequest{
			Type:  models.InputTypeImageBase64,
			Input: "base64_encoded_image_string",
		},
	})
}

// respondWithError 返回错误响应
// 状态码由错误携带的业务状态码统一映射（当前全部为422）
func (h *EmbeddingHandler) respondWithError(c *gin.Context, err error) {
	code := models.ErrorCode(err)
	c.JSON(code.HTTPStatus(), models.ErrorResponse{Detail: err.Error()})
}

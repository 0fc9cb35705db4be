package models

import (
	"fmt"
	"strings"
)

// InputType 嵌入请求的输入类型
type InputType string

const (
	// InputTypeText 纯文本输入
	InputTypeText InputType = "text"
	// InputTypeImageURL 图片链接输入，服务端负责下载
	InputTypeImageURL InputType = "image_url"
	// InputTypeImageBase64 Base64编码的图片输入，允许携带data URL前缀
	InputTypeImageBase64 InputType = "image_base64"
)

// Valid 检查输入类型是否受支持
func (t InputType) Valid() bool {
	switch t {
	case InputTypeText, InputTypeImageURL, InputTypeImageBase64:
		return true
	default:
		return false
	}
}

// EmbeddingRequest 嵌入请求
// Input 字段的含义完全由 Type 决定
type EmbeddingRequest struct {
	// Type 输入类型：text、image_url、image_base64
	Type InputType `json:"type" binding:"required"`

	// Input 输入内容（文本、图片URL或Base64字符串）
	Input string `json:"input" binding:"required"`
}

// Validate 验证请求参数的有效性
func (r *EmbeddingRequest) Validate() error {
	if !r.Type.Valid() {
		return NewInvalidParamError("validate request",
			fmt.Errorf("unsupported input type: %q", string(r.Type)))
	}

	if strings.TrimSpace(r.Input) == "" {
		return NewInvalidParamError("validate request",
			fmt.Errorf("input cannot be empty"))
	}

	return nil
}

// EmbeddingResponse 嵌入响应
// 字段名与既有 API 保持兼容（status/embeddings/embedding_dimension）
type EmbeddingResponse struct {
	// Status 处理状态
	Status string `json:"status"`

	// Embeddings 嵌入向量值
	Embeddings []float32 `json:"embeddings"`

	// EmbeddingDimension 向量维度，恒等于 len(Embeddings)
	EmbeddingDimension int `json:"embedding_dimension"`
}

// NewEmbeddingResponse 由向量构造响应，保证维度字段与向量长度一致
func NewEmbeddingResponse(v *Vector) *EmbeddingResponse {
	return &EmbeddingResponse{
		Status:             "success",
		Embeddings:         v.Values,
		EmbeddingDimension: len(v.Values),
	}
}

// ErrorResponse 错误响应（与既有 API 的 detail 字段兼容）
type ErrorResponse struct {
	// Detail 错误描述
	Detail string `json:"detail"`
}

// ImagePayload 解码后的图片数据
type ImagePayload struct {
	// Data 原始图片字节
	Data []byte

	// Format 嗅探出的图片格式（jpeg、png等）
	Format string

	// Width 图片宽度（像素）
	Width int

	// Height 图片高度（像素）
	Height int
}

// CanonicalInput 规范化后的输入
// 三种请求形态统一收敛为文本或已解码的图片
type CanonicalInput struct {
	// Kind 原始输入类型
	Kind InputType

	// Text 文本内容（Kind为text时有效）
	Text string

	// Image 图片数据（Kind为image_url或image_base64时有效）
	Image *ImagePayload
}

package models

import (
	"errors"
	"fmt"

	"clip-embed/pkg/status"
)

// ProcessingError 处理过程错误
// 携带业务状态码，用于区分参数错误、输入处理错误与推理错误；
// HTTP层通过 status.StatusCode.HTTPStatus 统一完成状态码映射
type ProcessingError struct {
	// Code 业务状态码
	Code status.StatusCode

	// Stage 出错阶段（如 download image、decode base64、encode text）
	Stage string

	// Err 底层错误
	Err error
}

// Error 实现error接口
func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return e.Stage
}

// Unwrap 返回底层错误，支持errors.Is/As链式判断
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewInvalidParamError 创建参数错误
func NewInvalidParamError(stage string, err error) *ProcessingError {
	return &ProcessingError{Code: status.ErrCodeInvalidParam, Stage: stage, Err: err}
}

// NewInputError 创建输入处理错误（下载失败、解码失败等客户端可修正的错误）
func NewInputError(stage string, err error) *ProcessingError {
	return &ProcessingError{Code: status.ErrCodeInput, Stage: stage, Err: err}
}

// NewInferenceError 创建推理错误（模型后端故障）
func NewInferenceError(stage string, err error) *ProcessingError {
	return &ProcessingError{Code: status.ErrCodeInference, Stage: stage, Err: err}
}

// ErrorCode 提取错误对应的业务状态码
// 未携带状态码的错误一律归为推理错误
func ErrorCode(err error) status.StatusCode {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return status.ErrCodeInference
}

package status

import "net/http"

// StatusCode 统一的业务状态码类型
// 说明：尽量保持简单以满足当前项目使用场景
// 0 表示成功，其余为错误状态

type StatusCode int

const (
	// CodeOK 成功
	CodeOK StatusCode = 0

	// ErrCodeInvalidParam 参数错误
	ErrCodeInvalidParam StatusCode = 1001
	// ErrCodeInput 输入处理错误（下载失败、解码失败等客户端可修正的错误）
	ErrCodeInput StatusCode = 1002
	// ErrCodeInference 推理错误（模型后端故障）
	ErrCodeInference StatusCode = 1003
)

// String 将状态码转换为字符串标识
func (c StatusCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case ErrCodeInvalidParam:
		return "INVALID_PARAM"
	case ErrCodeInput:
		return "INPUT_ERROR"
	case ErrCodeInference:
		return "INFERENCE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus 将业务状态码映射为 HTTP 状态码。
// 为保持与既有 API 的行为兼容，所有错误（包括推理错误）统一映射为 422。
// 若将来需要区分 4xx/5xx，只需修改此处的映射关系。
func (c StatusCode) HTTPStatus() int {
	if c == CodeOK {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

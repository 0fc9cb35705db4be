package models

import (
	"fmt"
	"math"
)

// Vector 向量数据结构
type Vector struct {
	// Values 向量值数组
	Values []float32 `json:"values"`

	// Dimension 向量维度
	Dimension int `json:"dimension"`

	// Normalized 是否已归一化
	Normalized bool `json:"normalized"`

	// ModelName 生成向量的模型名称
	ModelName string `json:"model_name"`
}

// NewVector 创建新的向量
func NewVector(values []float32, modelName string) *Vector {
	return &Vector{
		Values:     values,
		Dimension:  len(values),
		Normalized: false,
		ModelName:  modelName,
	}
}

// Validate 验证向量数据的有效性
func (v *Vector) Validate() error {
	if len(v.Values) == 0 {
		return fmt.Errorf("vector values cannot be empty")
	}

	if v.Dimension != len(v.Values) {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", v.Dimension, len(v.Values))
	}

	// 检查是否包含无效值
	for i, val := range v.Values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("invalid value at index %d: %f", i, val)
		}
	}

	return nil
}

// Normalize 向量归一化（L2范数）
func (v *Vector) Normalize() {
	norm := v.L2Norm()
	if norm == 0 {
		return // 零向量不进行归一化
	}

	for i := range v.Values {
		v.Values[i] /= norm
	}
	v.Normalized = true
}

// L2Norm 计算L2范数
func (v *Vector) L2Norm() float32 {
	var sum float32
	for _, val := range v.Values {
		sum += val * val
	}
	return float32(math.Sqrt(float64(sum)))
}

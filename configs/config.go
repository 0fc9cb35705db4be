package configs

import (
	"fmt"
	"time"
)

// Config 主配置结构体，定义了应用程序的所有配置项。
// 包含服务器、编码器、图片下载和日志等模块的配置信息。
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Encoder EncoderConfig `yaml:"encoder"`
	Fetcher FetcherConfig `yaml:"fetcher"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig 定义服务器相关的配置参数。
// 包含监听地址、端口和超时设置等。
type ServerConfig struct {
	Host                    string        `yaml:"host"`
	Port                    int           `yaml:"port"`
	ReadTimeout             time.Duration `yaml:"read_timeout"`
	WriteTimeout            time.Duration `yaml:"write_timeout"`
	IdleTimeout             time.Duration `yaml:"idle_timeout"`
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// EncoderConfig 定义嵌入模型后端的配置参数。
// 模型以远程推理服务的形式接入，走 OpenAI 兼容的 embeddings 接口。
type EncoderConfig struct {
	Provider   string        `yaml:"provider"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	Device     string        `yaml:"device"`
	Timeout    time.Duration `yaml:"timeout"`
	ByAzure    bool          `yaml:"by_azure"`
	APIVersion string        `yaml:"api_version"`
}

// FetcherConfig 定义图片下载的配置参数。
// 下载超时是整个服务中唯一的硬超时。
type FetcherConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
}

// LoggingConfig 定义日志系统的配置参数。
// 包含日志级别、输出目标（stdout/file）和格式（text/json）等。
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Output   string `yaml:"output"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Validate 检查 Config 配置结构体的有效性。
// 依次调用各个子配置项的 Validate 方法，如果发现无效配置，返回相应的错误。
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Encoder.Validate(); err != nil {
		return fmt.Errorf("encoder config validation failed: %w", err)
	}

	if err := c.Fetcher.Validate(); err != nil {
		return fmt.Errorf("fetcher config validation failed: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

// Validate 检查 ServerConfig 配置的有效性。
// 确保端口号在有效范围内，且超时设置为正数。
func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}

	if s.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if s.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	return nil
}

// Validate 检查 EncoderConfig 配置的有效性。
// 确保提供商受支持，模型名称与向量维度已正确设置。
func (e *EncoderConfig) Validate() error {
	if e.Provider == "" {
		return fmt.Errorf("encoder provider is required")
	}

	if e.Provider != "openai" {
		return fmt.Errorf("unsupported encoder provider: %s", e.Provider)
	}

	if e.Model == "" {
		return fmt.Errorf("encoder model is required")
	}

	if e.Dimensions <= 0 {
		return fmt.Errorf("encoder dimensions must be positive")
	}

	if e.Timeout <= 0 {
		e.Timeout = 30 * time.Second // 默认超时时间
	}

	if e.Device == "" {
		e.Device = "cpu"
	}

	return nil
}

// Validate 检查 FetcherConfig 配置的有效性。
// 确保下载超时与图片大小上限为正数。
func (f *FetcherConfig) Validate() error {
	if f.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive")
	}

	if f.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be positive")
	}

	return nil
}

// Validate 检查 LoggingConfig 配置的有效性。
// 确保日志级别、输出目标和格式有效，如果输出到文件，确保文件路径已指定。
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}

	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	validOutputs := map[string]bool{
		"stdout": true, "stderr": true, "file": true,
	}

	if !validOutputs[l.Output] {
		return fmt.Errorf("invalid log output: %s", l.Output)
	}

	if l.Output == "file" && l.FilePath == "" {
		return fmt.Errorf("file path is required when output is file")
	}

	// 验证日志格式，空值默认为 text
	validFormats := map[string]bool{
		"text": true, "json": true, "": true,
	}

	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s", l.Format)
	}

	return nil
}

// GetAddr 获取服务器的完整监听地址。
// 返回格式为 "Host:Port" 的字符串。
func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

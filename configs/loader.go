package configs

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load 加载并验证应用程序配置。
// 它按照以下优先级顺序加载配置：
// 1. 默认配置
// 2. 配置文件（config.yaml，支持多个搜索路径）
// 3. 环境变量（覆盖配置文件中的值）
//
// 参数 ctx: 上下文对象。
// 返回加载并验证后的 Config 指针，如果出错则返回 error。
func Load(ctx context.Context) (*Config, error) {
	// 加载 .env 文件（如果存在）
	// 忽略错误，因为 .env 文件是可选的
	_ = godotenv.Load()

	config := DefaultConfig()

	// 尝试加载配置文件
	configPaths := []string{
		"configs/config.yaml",
		"config.yaml",
		"/etc/clip-embed/config.yaml",
	}

	for _, path := range configPaths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, err
			}
			break
		}
	}

	// 从环境变量覆盖配置
	loadFromEnv(config)

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig 创建并返回一个包含默认值的 Config 对象。
// 默认值覆盖了服务器、编码器、图片下载和日志的常用配置。
// 端口与图片下载超时沿用既有服务的取值（5002 / 10秒）。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                    "0.0.0.0",
			Port:                    5002,
			ReadTimeout:             30 * time.Second,
			WriteTimeout:            5 * time.Minute,
			IdleTimeout:             60 * time.Second,
			GracefulShutdownTimeout: 30 * time.Second,
		},
		Encoder: EncoderConfig{
			Provider:   "openai",
			BaseURL:    "http://localhost:7997",
			Model:      "ViT-B/32",
			Dimensions: 512,
			Device:     "cpu",
			Timeout:    30 * time.Second,
		},
		Fetcher: FetcherConfig{
			Timeout:       10 * time.Second,
			MaxImageBytes: 20 << 20, // 20MB
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
		},
	}
}

// loadFromEnv 从环境变量中读取配置并覆盖 Config 中的值。
// 支持 CLIP_EMBED_PORT, CLIP_EMBED_MODEL, OPENAI_API_KEY 等环境变量。
func loadFromEnv(config *Config) {
	// Server 配置
	if port := os.Getenv("CLIP_EMBED_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			config.Server.Port = p
		}
	}

	// Encoder 配置
	if model := os.Getenv("CLIP_EMBED_MODEL"); model != "" {
		config.Encoder.Model = model
	}

	if device := os.Getenv("CLIP_EMBED_DEVICE"); device != "" {
		config.Encoder.Device = device
	}

	// OpenAI 兼容后端配置
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Encoder.APIKey = apiKey
	}

	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.Encoder.BaseURL = baseURL
	}
}

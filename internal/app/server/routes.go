package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clip-embed/internal/app/handlers"
	"clip-embed/internal/app/middleware"
	"clip-embed/pkg/logger"
)

// SetupRoutes 配置并注册 HTTP 服务器的所有路由规则。
// 路由保持在根路径下，与既有服务的 API 路径完全一致。
// 参数 engine: Gin 引擎实例。
// 参数 embeddingHandler: 业务逻辑处理器。
// 参数 log: 日志记录器。
func SetupRoutes(engine *gin.Engine, embeddingHandler *handlers.EmbeddingHandler, log logger.Logger) {
	// 应用全局中间件
	setupMiddleware(engine, log)

	// 生成嵌入向量
	engine.POST("/embeddings", embeddingHandler.CreateEmbedding)
	// 健康检查 - 返回设备与模型信息
	engine.GET("/health", embeddingHandler.HealthCheck)
	// 每种输入类型的示例请求
	engine.GET("/examples", embeddingHandler.Examples)
}

// setupMiddleware 设置全局中间件
func setupMiddleware(engine *gin.Engine, log logger.Logger) {
	// 设置恢复中间件 - 捕获panic并返回500错误
	engine.Use(gin.Recovery())

	// 跨域中间件 - 与既有服务一致，放开所有来源、方法与请求头
	corsConfig := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}
	engine.Use(cors.New(corsConfig))

	// 设置日志中间件 - 记录请求日志并生成请求ID
	loggingConfig := &middleware.LoggingConfig{
		// 跳过健康检查路径的日志记录，减少日志噪音
		SkipPaths: []string{
			"/health",
		},
		Logger: log,
	}
	engine.Use(middleware.LoggingMiddleware(loggingConfig))
}

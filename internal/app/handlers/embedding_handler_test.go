package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"clip-embed/configs"
	"clip-embed/internal/app/handlers"
	"clip-embed/internal/app/server"
	"clip-embed/internal/domain/models"
	"clip-embed/internal/infrastructure/preprocessing"
	"clip-embed/pkg/logger"
)

// stubEncoder 测试用编码器桩实现
// 输出由输入内容确定性导出，便于验证维度与一致性
type stubEncoder struct {
	dimension int
	failWith  error
}

func (s *stubEncoder) encode(seed []byte) *models.Vector {
	values := make([]float32, s.dimension)
	for i := range values {
		values[i] = float32((int(seed[i%len(seed)]) + i) % 13)
	}
	return models.NewVector(values, s.ModelName())
}

func (s *stubEncoder) EncodeText(ctx context.Context, text string) (*models.Vector, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.encode([]byte(text)), nil
}

func (s *stubEncoder) EncodeImage(ctx context.Context, img *models.ImagePayload) (*models.Vector, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.encode(img.Data), nil
}

func (s *stubEncoder) ModelName() string { return "ViT-B/32" }
func (s *stubEncoder) Device() string    { return "cpu" }
func (s *stubEncoder) Dimension() int    { return s.dimension }
func (s *stubEncoder) Close() error      { return nil }

// newTestEngine 构建带完整路由与中间件的测试引擎
func newTestEngine(t *testing.T, enc *stubEncoder) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	preprocessor := preprocessing.NewService(&configs.FetcherConfig{
		Timeout:       500 * time.Millisecond,
		MaxImageBytes: 1 << 20,
	}, logger.GetDefault())

	handler := handlers.NewEmbeddingHandler(preprocessor, enc, logger.GetDefault())

	engine := gin.New()
	server.SetupRoutes(engine, handler, logger.GetDefault())
	return engine
}

// postEmbeddings 发送嵌入请求并返回记录器
func postEmbeddings(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/embeddings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// testPNGBase64 生成1x1 PNG测试图片的Base64编码
func testPNGBase64(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCreateEmbeddingText(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 512})

	w := postEmbeddings(t, engine, `{"type":"text","input":"a photo of a cat"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.EmbeddingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}

	// 维度字段必须等于模型的固定输出宽度，且与向量长度一致
	if resp.EmbeddingDimension != 512 {
		t.Errorf("expected dimension 512, got %d", resp.EmbeddingDimension)
	}

	if len(resp.Embeddings) != resp.EmbeddingDimension {
		t.Errorf("embeddings length %d does not match dimension %d",
			len(resp.Embeddings), resp.EmbeddingDimension)
	}
}

func TestCreateEmbeddingTextDeterministic(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	body := `{"type":"text","input":"a photo of a cat"}`
	first := postEmbeddings(t, engine, body)
	second := postEmbeddings(t, engine, body)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected both calls to succeed, got %d and %d", first.Code, second.Code)
	}

	// 同一输入两次调用必须返回相同向量
	if first.Body.String() != second.Body.String() {
		t.Error("two calls with the same input returned different embeddings")
	}
}

func TestCreateEmbeddingBase64PrefixEquivalence(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	encoded := testPNGBase64(t)

	bare := postEmbeddings(t, engine,
		fmt.Sprintf(`{"type":"image_base64","input":"%s"}`, encoded))
	prefixed := postEmbeddings(t, engine,
		fmt.Sprintf(`{"type":"image_base64","input":"data:image/png;base64,%s"}`, encoded))

	if bare.Code != http.StatusOK || prefixed.Code != http.StatusOK {
		t.Fatalf("expected both calls to succeed, got %d and %d", bare.Code, prefixed.Code)
	}

	// 带data URL前缀与不带前缀的同一图片必须产生相同的向量
	if bare.Body.String() != prefixed.Body.String() {
		t.Error("prefixed and bare base64 of the same image yielded different embeddings")
	}
}

func TestCreateEmbeddingErrors(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed base64",
			body: `{"type":"image_base64","input":"not-valid-base64!!"}`,
		},
		{
			name: "unsupported type",
			body: `{"type":"audio","input":"something"}`,
		},
		{
			name: "missing input",
			body: `{"type":"text"}`,
		},
		{
			name: "invalid json",
			body: `{`,
		},
		{
			name: "unreachable image url",
			body: `{"type":"image_url","input":"http://127.0.0.1:1/cat.jpg"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEmbeddings(t, engine, tt.body)

			// 所有失败路径统一返回422，不允许500或panic
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if resp.Detail == "" {
				t.Error("expected non-empty error detail")
			}
		})
	}
}

func TestCreateEmbeddingInferenceFailure(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{
		dimension: 16,
		failWith:  models.NewInferenceError("encode text", fmt.Errorf("backend unavailable")),
	})

	w := postEmbeddings(t, engine, `{"type":"text","input":"a photo of a cat"}`)

	// 推理错误与输入错误在当前 API 中同样映射为422
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	// 先制造一次失败请求，健康检查不应受其影响
	_ = postEmbeddings(t, engine, `{"type":"image_base64","input":"!!!"}`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("expected status healthy, got %q", resp["status"])
	}

	if resp["device"] != "cpu" {
		t.Errorf("expected device cpu, got %q", resp["device"])
	}

	if resp["model"] != "ViT-B/32" {
		t.Errorf("expected model ViT-B/32, got %q", resp["model"])
	}
}

func TestExamples(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	req := httptest.NewRequest(http.MethodGet, "/examples", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]models.EmbeddingRequest
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	for _, key := range []string{"text_example", "image_url_example", "image_base64_example"} {
		example, ok := resp[key]
		if !ok {
			t.Errorf("missing example %q", key)
			continue
		}

		if !example.Type.Valid() {
			t.Errorf("example %q has invalid type %q", key, example.Type)
		}
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	engine := newTestEngine(t, &stubEncoder{dimension: 16})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// httptest.NewRequest 默认 Host 为 example.com，与 Origin 相同会被视为同源请求而跳过 CORS
	req.Host = "clip-embed.local"
	req.Header.Set("Origin", "https://example.com")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %q", got)
	}
}

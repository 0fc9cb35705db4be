package preprocessing

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
	"time"

	"clip-embed/configs"
	"clip-embed/internal/domain/models"
	"clip-embed/pkg/logger"
	"clip-embed/pkg/status"
)

// encodeTestPNG 生成一张1x1的PNG测试图片
func encodeTestPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	return NewService(&configs.FetcherConfig{
		Timeout:       time.Second,
		MaxImageBytes: 1 << 20,
	}, logger.GetDefault())
}

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte("hello image bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "bare base64 decodes",
			input: encoded,
			want:  raw,
		},
		{
			name:  "data URL prefix is stripped",
			input: "data:image/png;base64," + encoded,
			want:  raw,
		},
		{
			name:    "malformed base64 fails",
			input:   "not-valid-base64!!",
			wantErr: true,
		},
		{
			name:    "truncated base64 fails",
			input:   encoded[:5],
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBase64Image(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeBase64Image() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				// 解码失败必须是输入错误，HTTP层据此返回422
				if code := models.ErrorCode(err); code != status.ErrCodeInput {
					t.Errorf("expected input error code, got %v", code)
				}
				return
			}

			if !bytes.Equal(got, tt.want) {
				t.Errorf("decoded bytes mismatch: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeBase64ImagePrefixEquivalence(t *testing.T) {
	// 带data URL前缀与不带前缀的同一payload必须解码出相同的字节
	pngData := encodeTestPNG(t)
	encoded := base64.StdEncoding.EncodeToString(pngData)

	bare, err := decodeBase64Image(encoded)
	if err != nil {
		t.Fatalf("unexpected error for bare base64: %v", err)
	}

	prefixed, err := decodeBase64Image("data:image/png;base64," + encoded)
	if err != nil {
		t.Fatalf("unexpected error for prefixed base64: %v", err)
	}

	if !bytes.Equal(bare, prefixed) {
		t.Error("prefixed and bare base64 decoded to different bytes")
	}
}

func TestDecodeImage(t *testing.T) {
	svc := newTestService(t)

	t.Run("valid png decodes", func(t *testing.T) {
		payload, err := svc.decodeImage(encodeTestPNG(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if payload.Format != "png" {
			t.Errorf("expected format png, got %q", payload.Format)
		}

		if payload.Width != 1 || payload.Height != 1 {
			t.Errorf("expected 1x1 image, got %dx%d", payload.Width, payload.Height)
		}
	})

	t.Run("garbage bytes fail", func(t *testing.T) {
		_, err := svc.decodeImage([]byte("definitely not an image"))
		if err == nil {
			t.Fatal("expected error for unparseable image bytes")
		}

		if code := models.ErrorCode(err); code != status.ErrCodeInput {
			t.Errorf("expected input error code, got %v", code)
		}
	})
}

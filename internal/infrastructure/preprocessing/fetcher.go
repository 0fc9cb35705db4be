package preprocessing

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"clip-embed/internal/domain/models"
)

// downloadImage 通过HTTP GET获取图片字节
// 超时由客户端的Timeout控制（默认10秒）；
// 网络错误、超时与非2xx响应均包装为输入错误返回
func (s *Service) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewInputError("download image", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, models.NewInputError("download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewInputError("download image",
			fmt.Errorf("unexpected status %s from %s", resp.Status, url))
	}

	// 多读一个字节以区分“恰好达到上限”与“超出上限”
	limited := io.LimitReader(resp.Body, s.config.MaxImageBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, models.NewInputError("download image", err)
	}

	if int64(len(data)) > s.config.MaxImageBytes {
		return nil, models.NewInputError("download image",
			fmt.Errorf("image exceeds size limit of %d bytes", s.config.MaxImageBytes))
	}

	return data, nil
}

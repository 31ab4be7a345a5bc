package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

const maxBodyBytes = 32 << 20

var bodyLimit int64 = maxBodyBytes

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// fetch performs a GET and returns the body. Transport failures, statuses
// >= 400 and bodies larger than bodyLimit are reported as ErrFetch.
func fetch(ctx context.Context, client *http.Client, url, userAgent, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: GET %s: %s", domain.ErrFetch, url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	if int64(len(body)) > bodyLimit {
		return nil, fmt.Errorf("%w: GET %s: body exceeds %d bytes", domain.ErrFetch, url, bodyLimit)
	}
	return body, nil
}

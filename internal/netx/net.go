// Package netx contains small HTTP helpers shared by client components.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchURL downloads the body behind url (typically a signed model
// download URL) and returns it as a byte slice. Non-200 responses are
// reported as errors including the response body for diagnostics.
func FetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.ReadAll(resp.Body)
}

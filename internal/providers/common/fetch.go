package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 4 * 1024 * 1024

// Fetch issues a GET and returns the body of a 200 response.
func Fetch(ctx context.Context, client *http.Client, source, uri, userAgent, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, Unavailable(source, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return Do(client, source, req)
}

// Do sends req and returns the body of a 200 response. Every failure is
// reported as an unavailable SourceError.
func Do(client *http.Client, source string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, Unavailable(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, Unavailable(source, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, Unavailable(source, err)
	}
	return payload, nil
}

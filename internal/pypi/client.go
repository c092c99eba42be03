// Package pypi queries the PyPI package index for release versions and
// downloadable source artifacts.
package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public package index
const DefaultBaseURL = "https://pypi.org"

var (
	// errStatusNotFound marks a 404 from the index
	errStatusNotFound = errors.New("not found")
)

// NotFoundError is returned when a package is unknown upstream.
// It is not fatal; the orchestrator reports the package as unmatched
// and moves on.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %q not found on the index", e.Name)
}

// Index is a client for one package index.
// Every operation is attempted exactly once; there is no retry layer.
type Index struct {
	baseURL string
	client  *http.Client
}

// NewIndex creates an index client. An empty baseURL selects the
// public index.
func NewIndex(baseURL string) *Index {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Index{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// getJSON fetches url and decodes the response body into v
func (idx *Index) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errStatusNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index returned status %d for %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode index response: %w", err)
	}

	return nil
}

// getBody fetches url and returns the raw response body
func (idx *Index) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errStatusNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index returned status %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

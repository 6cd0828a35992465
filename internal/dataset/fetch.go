package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uehara-kazuya/leadlens/pkg/version"
)

// Source produces a full header list + record sequence. Implementations must
// return both or neither so a snapshot is never assembled from mixed fetches.
type Source interface {
	Fetch(ctx context.Context) (headers []string, rows []Record, err error)
	Name() string
}

// CSVFetcher downloads the published CSV export over plain HTTP GET. Any 2xx
// response is a success; everything else is a fetch failure. No automatic
// retries: retry is a manual re-invocation by the caller.
type CSVFetcher struct {
	url    string
	client *http.Client
}

// NewCSVFetcher constructs a fetcher for the given export URL.
func NewCSVFetcher(url string, timeout time.Duration) *CSVFetcher {
	return &CSVFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in snapshots and logs.
func (f *CSVFetcher) Name() string { return "csv:" + f.url }

// Fetch downloads and parses the CSV export.
func (f *CSVFetcher) Fetch(ctx context.Context) ([]string, []Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("csv fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("csv fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("csv fetch: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("csv fetch: read body: %w", err)
	}

	headers, rows := ParseCSV(string(body))
	return headers, rows, nil
}

package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
)

type HTTPPresetStorage struct {
	url    string
	client *http.Client
}

type HTTPPresetStorageOpts struct {
	URL    string
	Client *http.Client
}

func NewHTTPPresetStorage(opts HTTPPresetStorageOpts) (*HTTPPresetStorage, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: empty url", common.ErrUnsupportedLocation)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPPresetStorage{
		url:    opts.URL,
		client: client,
	}, nil
}

// ReadPreset requests only the preset range. Servers that ignore the Range
// header and answer 200 with the whole body are accepted as well.
func (s *HTTPPresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	start := time.Now()

	data, err := s.read(ctx)
	metrics.RecordSourceRead(string(s.Mode()), int64(len(data)), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *HTTPPresetStorage) read(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Range", presetRange)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, s.url)
	}

	data, err := readPreset(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.url, err)
	}

	return data, nil
}

func (s *HTTPPresetStorage) Location() string {
	return s.url
}

func (s *HTTPPresetStorage) Mode() common.StorageMode {
	return common.StorageModeHTTP
}

func (s *HTTPPresetStorage) Cleanup() error {
	s.client.CloseIdleConnections()
	return nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
)

type LocalPresetStorage struct {
	path string
}

type LocalPresetStorageOpts struct {
	Path string
}

func NewLocalPresetStorage(opts LocalPresetStorageOpts) (*LocalPresetStorage, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: empty path", common.ErrUnsupportedLocation)
	}

	return &LocalPresetStorage{path: opts.Path}, nil
}

func (s *LocalPresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	start := time.Now()

	data, err := readLocal(s.path)
	metrics.RecordSourceRead(string(s.Mode()), int64(len(data)), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func readLocal(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for read: %w", path, err)
	}
	defer f.Close()

	data, err := readPreset(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d bytes from %s: %w", common.PresetSize, path, err)
	}

	return data, nil
}

func (s *LocalPresetStorage) Location() string {
	return s.path
}

func (s *LocalPresetStorage) Mode() common.StorageMode {
	return common.StorageModeLocal
}

func (s *LocalPresetStorage) Cleanup() error {
	return nil
}

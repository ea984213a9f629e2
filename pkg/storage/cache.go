package storage

import (
	"context"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/beam-cloud/ristretto"
	"github.com/rs/zerolog/log"
)

// NewPresetCache creates an in-memory cache sized for roughly maxPresets presets.
func NewPresetCache(maxPresets int64) (*ristretto.Cache[string, []byte], error) {
	return ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxPresets * 10,
		MaxCost:     maxPresets * common.PresetSize,
		BufferItems: 64,
	})
}

// CachedPresetStorage serves repeated reads of the same location from memory.
type CachedPresetStorage struct {
	source PresetStorageInterface
	cache  *ristretto.Cache[string, []byte]
}

func NewCachedPresetStorage(source PresetStorageInterface, cache *ristretto.Cache[string, []byte]) *CachedPresetStorage {
	return &CachedPresetStorage{
		source: source,
		cache:  cache,
	}
}

func (s *CachedPresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	key := s.source.Location()

	if data, found := s.cache.Get(key); found {
		metrics.RecordCacheOperation(true)
		log.Debug().Str("location", key).Msg("preset cache hit")
		return clone(data), nil
	}
	metrics.RecordCacheOperation(false)

	data, err := s.source.ReadPreset(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, clone(data), int64(len(data)))
	s.cache.Wait()

	return data, nil
}

func (s *CachedPresetStorage) Location() string {
	return s.source.Location()
}

func (s *CachedPresetStorage) Mode() common.StorageMode {
	return s.source.Mode()
}

func (s *CachedPresetStorage) Cleanup() error {
	return s.source.Cleanup()
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

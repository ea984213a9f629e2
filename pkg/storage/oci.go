package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/beam-cloud/h5e/pkg/registryauth"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	log "github.com/rs/zerolog/log"
)

// OCIPresetStorage reads a preset pushed to a registry as an artifact whose
// first layer blob is the raw preset.
type OCIPresetStorage struct {
	ref      name.Reference
	keychain authn.Keychain
}

type OCIPresetStorageOpts struct {
	Reference string
	Insecure  bool
	Keychain  authn.Keychain // defaults to registryauth.DefaultProvider()
}

func NewOCIPresetStorage(opts OCIPresetStorageOpts) (*OCIPresetStorage, error) {
	var nameOpts []name.Option
	if opts.Insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}

	ref, err := name.ParseReference(opts.Reference, nameOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnsupportedLocation, err)
	}

	keychain := opts.Keychain
	if keychain == nil {
		keychain = registryauth.NewKeychain(registryauth.DefaultProvider())
	}

	return &OCIPresetStorage{
		ref:      ref,
		keychain: keychain,
	}, nil
}

func (s *OCIPresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	start := time.Now()

	data, err := s.read(ctx)
	metrics.RecordSourceRead(string(s.Mode()), int64(len(data)), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *OCIPresetStorage) read(ctx context.Context) ([]byte, error) {
	img, err := remote.Image(s.ref, remote.WithAuthFromKeychain(s.keychain), remote.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.ref, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, fmt.Errorf("failed to list layers of %s: %w", s.ref, err)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: %s has no layers", common.ErrPresetNotFound, s.ref)
	}

	if len(layers) > 1 {
		log.Debug().Str("ref", s.ref.String()).Int("layers", len(layers)).Msg("using first layer as preset")
	}

	rc, err := layers[0].Compressed()
	if err != nil {
		return nil, fmt.Errorf("failed to open preset blob of %s: %w", s.ref, err)
	}
	defer rc.Close()

	data, err := readPreset(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset blob of %s: %w", s.ref, err)
	}

	return data, nil
}

func (s *OCIPresetStorage) Location() string {
	return "oci://" + s.ref.String()
}

func (s *OCIPresetStorage) Mode() common.StorageMode {
	return common.StorageModeOCI
}

func (s *OCIPresetStorage) Cleanup() error {
	return nil
}

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/google/go-containerregistry/pkg/v1/layout"
	"github.com/rs/zerolog/log"
)

const (
	defaultLayoutTag  = "latest"
	refNameAnnotation = "org.opencontainers.image.ref.name"
)

// OCILayoutPresetStorage reads a preset from a local OCI layout directory, as
// written by skopeo or buildah. The manifest is picked by its ref name
// annotation; the preset is its first layer blob.
type OCILayoutPresetStorage struct {
	layoutPath string
	tag        string
}

type OCILayoutPresetStorageOpts struct {
	LayoutPath string
	Tag        string
}

func NewOCILayoutPresetStorage(opts OCILayoutPresetStorageOpts) (*OCILayoutPresetStorage, error) {
	if opts.LayoutPath == "" {
		return nil, fmt.Errorf("%w: empty layout path", common.ErrUnsupportedLocation)
	}

	tag := opts.Tag
	if tag == "" {
		tag = defaultLayoutTag
	}

	return &OCILayoutPresetStorage{
		layoutPath: opts.LayoutPath,
		tag:        tag,
	}, nil
}

// splitLayoutTag splits "dir:tag" on the last colon after the final path
// separator. A missing tag is returned empty.
func splitLayoutTag(target string) (string, string) {
	slash := strings.LastIndex(target, "/")
	colon := strings.LastIndex(target, ":")
	if colon <= slash {
		return target, ""
	}
	return target[:colon], target[colon+1:]
}

func (s *OCILayoutPresetStorage) ReadPreset(ctx context.Context) ([]byte, error) {
	start := time.Now()

	data, err := s.read()
	metrics.RecordSourceRead(string(s.Mode()), int64(len(data)), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *OCILayoutPresetStorage) read() ([]byte, error) {
	p, err := layout.FromPath(s.layoutPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCI layout %s: %w", s.layoutPath, err)
	}

	index, err := p.ImageIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read index of %s: %w", s.layoutPath, err)
	}

	manifest, err := index.IndexManifest()
	if err != nil {
		return nil, fmt.Errorf("failed to parse index of %s: %w", s.layoutPath, err)
	}

	for _, desc := range manifest.Manifests {
		if desc.Annotations[refNameAnnotation] != s.tag {
			continue
		}

		log.Debug().Str("layout", s.layoutPath).Str("tag", s.tag).Str("digest", desc.Digest.String()).Msg("found preset manifest")

		img, err := index.Image(desc.Digest)
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", desc.Digest, err)
		}

		layers, err := img.Layers()
		if err != nil {
			return nil, fmt.Errorf("failed to list layers of %s: %w", desc.Digest, err)
		}
		if len(layers) == 0 {
			return nil, fmt.Errorf("%w: %s has no layers", common.ErrPresetNotFound, s.Location())
		}

		rc, err := layers[0].Compressed()
		if err != nil {
			return nil, fmt.Errorf("failed to open preset blob of %s: %w", s.Location(), err)
		}
		defer rc.Close()

		data, err := readPreset(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read preset blob of %s: %w", s.Location(), err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: tag %q not found in %s", common.ErrPresetNotFound, s.tag, s.layoutPath)
}

func (s *OCILayoutPresetStorage) Location() string {
	return fmt.Sprintf("oci-layout://%s:%s", s.layoutPath, s.tag)
}

func (s *OCILayoutPresetStorage) Mode() common.StorageMode {
	return common.StorageModeOCILayout
}

func (s *OCILayoutPresetStorage) Cleanup() error {
	return nil
}

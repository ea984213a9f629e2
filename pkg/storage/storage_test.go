package storage

import (
	"context"
	"testing"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		mode     common.StorageMode
		target   string
		wantErr  bool
	}{
		{"plain path", "/tmp/clean.h5e", common.StorageModeLocal, "/tmp/clean.h5e", false},
		{"relative path", "presets/clean.h5e", common.StorageModeLocal, "presets/clean.h5e", false},
		{"file scheme", "file:///tmp/clean.h5e", common.StorageModeLocal, "/tmp/clean.h5e", false},
		{"s3", "s3://bucket/presets/clean.h5e", common.StorageModeS3, "bucket/presets/clean.h5e", false},
		{"http", "http://cdn.example.com/clean.h5e", common.StorageModeHTTP, "http://cdn.example.com/clean.h5e", false},
		{"https uppercase", "HTTPS://cdn.example.com/clean.h5e", common.StorageModeHTTP, "HTTPS://cdn.example.com/clean.h5e", false},
		{"oci", "oci://ghcr.io/user/presets:clean", common.StorageModeOCI, "ghcr.io/user/presets:clean", false},
		{"oci layout", "oci-layout:///var/lib/presets:v1", common.StorageModeOCILayout, "/var/lib/presets:v1", false},
		{"empty", "", "", "", true},
		{"unknown scheme", "ftp://host/clean.h5e", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, target, err := parseLocation(tt.location)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrUnsupportedLocation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.mode, mode)
			assert.Equal(t, tt.target, target)
		})
	}
}

func TestNewPresetStorageLocal(t *testing.T) {
	path := writePresetFile(t, t.TempDir(), "clean.h5e", presetBytes("Clean"))

	s, err := NewPresetStorage(PresetStorageOpts{Location: path})
	require.NoError(t, err)
	defer s.Cleanup()

	assert.Equal(t, common.StorageModeLocal, s.Mode())
	assert.Equal(t, path, s.Location())

	data, err := s.ReadPreset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, presetBytes("Clean"), data)
}

func TestNewPresetStorageRejectsBadS3Location(t *testing.T) {
	for _, location := range []string{"s3://bucket", "s3://bucket/", "s3:///key"} {
		_, err := NewPresetStorage(PresetStorageOpts{Location: location})
		require.ErrorIs(t, err, common.ErrUnsupportedLocation, location)
	}
}

func TestNewPresetStorageHTTPAndOCI(t *testing.T) {
	s, err := NewPresetStorage(PresetStorageOpts{Location: "https://cdn.example.com/clean.h5e"})
	require.NoError(t, err)
	assert.Equal(t, common.StorageModeHTTP, s.Mode())
	assert.Equal(t, "https://cdn.example.com/clean.h5e", s.Location())

	s, err = NewPresetStorage(PresetStorageOpts{Location: "oci://ghcr.io/user/presets:clean"})
	require.NoError(t, err)
	assert.Equal(t, common.StorageModeOCI, s.Mode())
	assert.Equal(t, "oci://ghcr.io/user/presets:clean", s.Location())

	_, err = NewPresetStorage(PresetStorageOpts{Location: "oci://Invalid Reference"})
	require.ErrorIs(t, err, common.ErrUnsupportedLocation)
}

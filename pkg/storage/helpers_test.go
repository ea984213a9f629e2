package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/stretchr/testify/require"
)

func presetBytes(name string) []byte {
	data := make([]byte, common.PresetSize)
	copy(data[common.PresetNameOffset:common.PresetNameOffset+common.PresetNameSize], name)
	data[common.AmpEnableOffset(0)] = 1
	data[common.AmpModelOffset(0)] = 0x05
	return data
}

func writePresetFile(t *testing.T, dir, file string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

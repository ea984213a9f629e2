package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownAmpCodes = []uint8{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E,
	0x10, 0x11, 0x12, 0x14, 0x15, 0x17, 0x19, 0x52, 0x55, 0x58, 0x5B, 0x5E, 0x61, 0x64,
	0x67, 0x6A,
	0x1B, 0x1C, 0x1D, 0x1E, 0x1F, 0x20, 0x21, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29,
	0x2B, 0x2C, 0x2D, 0x2F, 0x30, 0x32, 0x34, 0x53, 0x56, 0x59, 0x5C, 0x5F, 0x62, 0x65,
	0x68, 0x6B,
}

var knownFxTypes = map[uint8]string{
	0x0: "Dyn",
	0x2: "Delay",
	0x3: "Mod",
	0x4: "Reverb",
	0x5: "Dist",
	0x6: "Wah",
	0x7: "VolPan",
	0x8: "FXLoop",
	0x9: "Pitch",
	0xa: "Filter",
	0xc: "Pre+EQ",
}

func TestAmpModelNameIsTotal(t *testing.T) {
	require.Len(t, knownAmpCodes, 60)

	known := make(map[uint8]bool, len(knownAmpCodes))
	for _, code := range knownAmpCodes {
		known[code] = true
	}

	for i := 0; i < 256; i++ {
		code := uint8(i)
		name := AmpModelName(code)
		require.NotEmpty(t, name, "code 0x%02x", code)

		if known[code] {
			assert.NotEqual(t, Unknown, name, "code 0x%02x", code)
			assert.True(t, IsKnownAmp(code))
		} else {
			assert.Equal(t, Unknown, name, "code 0x%02x", code)
			assert.False(t, IsKnownAmp(code))
		}
	}
}

func TestAmpModelName(t *testing.T) {
	tests := []struct {
		code     uint8
		expected string
	}{
		{0x05, "Blackface Dbl Nrm"},
		{0x20, "Blackface Dbl Nrm Pre"},
		{0x00, "PhD Motorway"},
		{0x1B, "PhD Motorway Pre"},
		{0x52, "Line 6 Elektrik"},
		{0x53, "Line 6 Elektrik"},
		{0x62, "Solo-100 Chrunch Pre"},
		{0x65, "Solo-100 Overdive Pre"},
		{0x07, Unknown},
		{0xFF, Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AmpModelName(tt.code), "code 0x%02x", tt.code)
	}
}

func TestCabModelName(t *testing.T) {
	assert.Equal(t, "2x12 PhD Ported", CabModelName(0x00))
	assert.Equal(t, "4x12 Blackback 30", CabModelName(0x11))
	assert.Equal(t, "4x12 Flip Top", CabModelName(0x12))
	assert.Equal(t, Unknown, CabModelName(0x07))
	assert.Equal(t, Unknown, CabModelName(0x0D))
	assert.Equal(t, Unknown, CabModelName(0x13))

	count := 0
	for i := 0; i < 256; i++ {
		name := CabModelName(uint8(i))
		require.NotEmpty(t, name)
		if name != Unknown {
			count++
		}
	}
	assert.Equal(t, 17, count)
}

func TestFxTypeName(t *testing.T) {
	for i := 0; i < 256; i++ {
		code := uint8(i)
		expected, ok := knownFxTypes[code]
		if !ok {
			expected = Unknown
		}
		assert.Equal(t, expected, FxTypeName(code), "type 0x%02x", code)
		assert.Equal(t, ok, IsKnownFxType(code))
	}
}

func TestFxModelNameUnknownTypeSkipsModelLookup(t *testing.T) {
	for i := 0; i < 256; i++ {
		typeCode := uint8(i)
		if _, ok := knownFxTypes[typeCode]; ok {
			continue
		}

		for j := 0; j < 256; j++ {
			require.Equal(t, Unknown, FxModelName(typeCode, uint8(j)))
			require.False(t, IsKnownFx(typeCode, uint8(j)))
		}
	}
}

func TestFxModelName(t *testing.T) {
	tests := []struct {
		name     string
		fxType   FxType
		model    uint8
		expected string
	}{
		{"dynamics", FxTypeDynamics, 0x11, "Noise Gate"},
		{"distortion", FxTypeDistortion, 0x16, "Heavy Distorion"},
		{"modulation", FxTypeModulation, 0x27, "Rotary Dum & Horn"},
		{"filter", FxTypeFilter, 0x26, "Vocoder"},
		{"pitch", FxTypePitch, 0x03, "Smart Harmony"},
		{"preamp eq", FxTypePreampEQ, 0x0E, "Vintage Pre"},
		{"delay", FxTypeDelay, 0x12, "Digital Delay w/Mod"},
		{"reverb", FxTypeReverb, 0x1C, "'63 Spring"},
		{"volume pan", FxTypeVolumePan, 0x05, "Pan"},
		{"wah", FxTypeWah, 0x0C, "Fassel"},
		{"loop", FxTypeLoop, 0x00, "FXLoop"},
		{"wah with reverb code", FxTypeWah, 0x1E, Unknown},
		{"loop with nonzero code", FxTypeLoop, 0x01, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FxModelName(uint8(tt.fxType), tt.model))
		})
	}
}

func TestFxModelTableSizes(t *testing.T) {
	expected := map[FxType]int{
		FxTypeDynamics:   9,
		FxTypeDistortion: 15,
		FxTypeModulation: 22,
		FxTypeFilter:     17,
		FxTypePitch:      3,
		FxTypePreampEQ:   6,
		FxTypeDelay:      19,
		FxTypeReverb:     12,
		FxTypeVolumePan:  2,
		FxTypeWah:        8,
		FxTypeLoop:       1,
	}

	require.Len(t, fxCategories, len(expected))
	for fxType, size := range expected {
		count := 0
		for i := 0; i < 256; i++ {
			if IsKnownFx(uint8(fxType), uint8(i)) {
				count++
			}
		}
		assert.Equal(t, size, count, "type %s", FxTypeName(uint8(fxType)))
	}
}

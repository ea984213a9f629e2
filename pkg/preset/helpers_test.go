package preset

import (
	"github.com/beam-cloud/h5e/pkg/common"
)

type blobBuilder struct {
	data []byte
}

func newBlob() *blobBuilder {
	return &blobBuilder{data: make([]byte, common.PresetSize)}
}

func (b *blobBuilder) name(name string) *blobBuilder {
	copy(b.data[common.PresetNameOffset:common.PresetNameOffset+common.PresetNameSize], name)
	return b
}

func (b *blobBuilder) amp(idx int, enabled bool, model uint8) *blobBuilder {
	b.data[common.AmpEnableOffset(idx)] = boolByte(enabled)
	b.data[common.AmpModelOffset(idx)] = model
	return b
}

func (b *blobBuilder) cab(idx int, enabled bool, model uint8) *blobBuilder {
	b.data[common.CabEnableOffset(idx)] = boolByte(enabled)
	b.data[common.CabModelOffset(idx)] = model
	return b
}

func (b *blobBuilder) fx(idx int, enabled bool, fxType, model uint8) *blobBuilder {
	b.data[common.FxEnableOffset(idx)] = boolByte(enabled)
	b.data[common.FxTypeOffset(idx)] = fxType
	b.data[common.FxModelOffset(idx)] = model
	return b
}

func (b *blobBuilder) bytes() []byte {
	return b.data
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

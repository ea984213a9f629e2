package preset

import (
	"bytes"
	"fmt"

	"github.com/beam-cloud/h5e/pkg/common"
)

// Name returns the preset name. The field is a fixed 16 bytes and is cut at the
// first NUL; other bytes are returned as stored.
func (c *Context) Name() (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}

	raw := c.data[common.PresetNameOffset : common.PresetNameOffset+common.PresetNameSize]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}

	return string(raw), nil
}

func (c *Context) Amp(idx int) (common.AmpSlot, error) {
	if err := c.checkSlot(common.CategoryAmp, idx); err != nil {
		return common.AmpSlot{}, err
	}

	return common.AmpSlot{
		Enabled: c.flag(common.AmpEnableOffset(idx)),
		Model:   c.data[common.AmpModelOffset(idx)],
	}, nil
}

func (c *Context) Cab(idx int) (common.CabSlot, error) {
	if err := c.checkSlot(common.CategoryCab, idx); err != nil {
		return common.CabSlot{}, err
	}

	return common.CabSlot{
		Enabled: c.flag(common.CabEnableOffset(idx)),
		Model:   c.data[common.CabModelOffset(idx)],
	}, nil
}

func (c *Context) Fx(idx int) (common.FxSlot, error) {
	if err := c.checkSlot(common.CategoryFx, idx); err != nil {
		return common.FxSlot{}, err
	}

	return common.FxSlot{
		Enabled: c.flag(common.FxEnableOffset(idx)),
		Type:    c.data[common.FxTypeOffset(idx)],
		Model:   c.data[common.FxModelOffset(idx)],
	}, nil
}

func (c *Context) checkSlot(category common.SlotCategory, idx int) error {
	if err := c.check(); err != nil {
		return err
	}

	if idx < 0 || idx >= category.MaxSlots() {
		return fmt.Errorf("%w: %s slot %d out of range [0, %d)", common.ErrInvalidArgument, category, idx, category.MaxSlots())
	}
	return nil
}

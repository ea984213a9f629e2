package preset

import (
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/beam-cloud/h5e/pkg/models"
	"github.com/rs/zerolog/log"
)

const unknownFxTypeCategory = "fx_type"

// Decode reads every slot of the preset and resolves all model codes.
func Decode(c *Context) (*common.DecodedPreset, error) {
	start := time.Now()

	p, err := decode(c)
	metrics.RecordDecode(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("name", p.Name).
		Dur("duration", time.Since(start)).
		Msg("preset decoded")

	return p, nil
}

// Load decodes a raw preset buffer without keeping a Context around.
func Load(data []byte) (*common.DecodedPreset, error) {
	c, err := New(data)
	if err != nil {
		metrics.RecordDecode(0, err)
		return nil, err
	}
	defer c.Close()

	return Decode(c)
}

func decode(c *Context) (*common.DecodedPreset, error) {
	name, err := c.Name()
	if err != nil {
		return nil, err
	}

	p := &common.DecodedPreset{
		Name:    name,
		Amps:    make([]common.DecodedAmp, 0, common.MaxAmpSlots),
		Cabs:    make([]common.DecodedCab, 0, common.MaxCabSlots),
		Effects: make([]common.DecodedFx, 0, common.MaxFxSlots),
	}

	for i := 0; i < common.MaxAmpSlots; i++ {
		amp, err := c.Amp(i)
		if err != nil {
			return nil, err
		}
		if amp.Enabled && !models.IsKnownAmp(amp.Model) {
			metrics.RecordUnknownCode(string(common.CategoryAmp), amp.Model)
		}

		p.Amps = append(p.Amps, common.DecodedAmp{
			Slot:      i,
			Enabled:   amp.Enabled,
			ModelCode: amp.Model,
			Model:     models.AmpModelName(amp.Model),
		})
	}

	for i := 0; i < common.MaxCabSlots; i++ {
		cab, err := c.Cab(i)
		if err != nil {
			return nil, err
		}
		if cab.Enabled && !models.IsKnownCab(cab.Model) {
			metrics.RecordUnknownCode(string(common.CategoryCab), cab.Model)
		}

		p.Cabs = append(p.Cabs, common.DecodedCab{
			Slot:      i,
			Enabled:   cab.Enabled,
			ModelCode: cab.Model,
			Model:     models.CabModelName(cab.Model),
		})
	}

	for i := 0; i < common.MaxFxSlots; i++ {
		fx, err := c.Fx(i)
		if err != nil {
			return nil, err
		}
		if fx.Enabled {
			recordUnknownFx(fx)
		}

		p.Effects = append(p.Effects, common.DecodedFx{
			Slot:      i,
			Enabled:   fx.Enabled,
			TypeCode:  fx.Type,
			Type:      models.FxTypeName(fx.Type),
			ModelCode: fx.Model,
			Model:     models.FxModelName(fx.Type, fx.Model),
		})
	}

	return p, nil
}

// Disabled slots are skipped by the unknown-code counters; an empty slot reads
// as type 0, model 0 which is not a real effect.
func recordUnknownFx(fx common.FxSlot) {
	switch {
	case !models.IsKnownFxType(fx.Type):
		metrics.RecordUnknownCode(unknownFxTypeCategory, fx.Type)
	case !models.IsKnownFx(fx.Type, fx.Model):
		metrics.RecordUnknownCode(string(common.CategoryFx), fx.Model)
	}
}

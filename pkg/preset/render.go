package preset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/beam-cloud/h5e/pkg/common"
)

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// WriteText prints one line per slot state and, for enabled slots, one line per
// resolved name. With showAll the names of disabled slots are printed as well.
func WriteText(w io.Writer, p *common.DecodedPreset, showAll bool) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", p.Name); err != nil {
		return err
	}

	for _, amp := range p.Amps {
		if _, err := fmt.Fprintf(w, "Amp %d: %s\n", amp.Slot, onOff(amp.Enabled)); err != nil {
			return err
		}
		if !amp.Enabled && !showAll {
			continue
		}
		if _, err := fmt.Fprintf(w, "Amp %d model: %s\n", amp.Slot, amp.Model); err != nil {
			return err
		}
	}

	for _, cab := range p.Cabs {
		if _, err := fmt.Fprintf(w, "Cab %d: %s\n", cab.Slot, onOff(cab.Enabled)); err != nil {
			return err
		}
		if !cab.Enabled && !showAll {
			continue
		}
		if _, err := fmt.Fprintf(w, "Cab %d model: %s\n", cab.Slot, cab.Model); err != nil {
			return err
		}
	}

	for _, fx := range p.Effects {
		if _, err := fmt.Fprintf(w, "FX %d: %s\n", fx.Slot, onOff(fx.Enabled)); err != nil {
			return err
		}
		if !fx.Enabled && !showAll {
			continue
		}
		if _, err := fmt.Fprintf(w, "FX %d type: %s\nFX %d model: %s\n", fx.Slot, fx.Type, fx.Slot, fx.Model); err != nil {
			return err
		}
	}

	return nil
}

func WriteJSON(w io.Writer, p *common.DecodedPreset) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p)
}

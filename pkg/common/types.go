package common

type AmpSlot struct {
	Enabled bool
	Model   uint8
}

type CabSlot struct {
	Enabled bool
	Model   uint8
}

type FxSlot struct {
	Enabled bool
	Type    uint8
	Model   uint8
}

type StorageMode string

const (
	StorageModeLocal StorageMode = "local"
	StorageModeS3    StorageMode = "s3"
	StorageModeHTTP  StorageMode = "http"
	StorageModeOCI   StorageMode = "oci"

	StorageModeOCILayout StorageMode = "oci-layout"
)

// DecodedAmp is an amp slot with its model code resolved to a display name.
type DecodedAmp struct {
	Slot      int    `json:"slot"`
	Enabled   bool   `json:"enabled"`
	ModelCode uint8  `json:"model_code"`
	Model     string `json:"model"`
}

type DecodedCab struct {
	Slot      int    `json:"slot"`
	Enabled   bool   `json:"enabled"`
	ModelCode uint8  `json:"model_code"`
	Model     string `json:"model"`
}

type DecodedFx struct {
	Slot      int    `json:"slot"`
	Enabled   bool   `json:"enabled"`
	TypeCode  uint8  `json:"type_code"`
	Type      string `json:"type"`
	ModelCode uint8  `json:"model_code"`
	Model     string `json:"model"`
}

// DecodedPreset is a snapshot of every decoded field of a preset.
type DecodedPreset struct {
	Name    string       `json:"name"`
	Amps    []DecodedAmp `json:"amps"`
	Cabs    []DecodedCab `json:"cabs"`
	Effects []DecodedFx  `json:"effects"`
}

// HasAmp returns true if an enabled amp slot uses the named model.
func (p *DecodedPreset) HasAmp(model string) bool {
	for _, a := range p.Amps {
		if a.Enabled && a.Model == model {
			return true
		}
	}
	return false
}

// HasEffectType returns true if an enabled effect slot is of the named type.
func (p *DecodedPreset) HasEffectType(typeName string) bool {
	for _, fx := range p.Effects {
		if fx.Enabled && fx.Type == typeName {
			return true
		}
	}
	return false
}

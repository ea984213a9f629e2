package models

// FxType is the effect category stored in an effect slot. It decides which
// model table the slot's model code is looked up in.
type FxType uint8

const (
	FxTypeDynamics   FxType = 0x0
	FxTypeDelay      FxType = 0x2
	FxTypeModulation FxType = 0x3
	FxTypeReverb     FxType = 0x4
	FxTypeDistortion FxType = 0x5
	FxTypeWah        FxType = 0x6
	FxTypeVolumePan  FxType = 0x7
	FxTypeLoop       FxType = 0x8
	FxTypePitch      FxType = 0x9
	FxTypeFilter     FxType = 0xa
	FxTypePreampEQ   FxType = 0xc
)

type fxCategory struct {
	name   string
	models table
}

var fxCategories = map[FxType]fxCategory{
	FxTypeDynamics:   {name: "Dyn", models: dynamicsModels},
	FxTypeDistortion: {name: "Dist", models: distortionModels},
	FxTypeModulation: {name: "Mod", models: modulationModels},
	FxTypeFilter:     {name: "Filter", models: filterModels},
	FxTypePitch:      {name: "Pitch", models: pitchModels},
	FxTypePreampEQ:   {name: "Pre+EQ", models: preampEQModels},
	FxTypeDelay:      {name: "Delay", models: delayModels},
	FxTypeReverb:     {name: "Reverb", models: reverbModels},
	FxTypeVolumePan:  {name: "VolPan", models: volumePanModels},
	FxTypeWah:        {name: "Wah", models: wahModels},
	FxTypeLoop:       {name: "FXLoop", models: loopModels},
}

// FxTypeName returns the display name of an effect type code.
func FxTypeName(typeCode uint8) string {
	c, ok := fxCategories[FxType(typeCode)]
	if !ok {
		return Unknown
	}
	return c.name
}

// FxModelName resolves an effect model code within the table selected by the
// effect type. An unknown type resolves to Unknown without any model lookup.
func FxModelName(typeCode, modelCode uint8) string {
	c, ok := fxCategories[FxType(typeCode)]
	if !ok {
		return Unknown
	}
	return c.models.name(modelCode)
}

func IsKnownFxType(typeCode uint8) bool {
	_, ok := fxCategories[FxType(typeCode)]
	return ok
}

func IsKnownFx(typeCode, modelCode uint8) bool {
	c, ok := fxCategories[FxType(typeCode)]
	return ok && c.models.known(modelCode)
}

var dynamicsModels = table{
	0x0B: "Red Comp",
	0x0C: "Blue Comp",
	0x0D: "Blue Comp Treb",
	0x0E: "Tube Comp",
	0x0F: "Vetta Comp",
	0x10: "Vetta Juice",
	0x11: "Noise Gate",
	0x12: "Boost Comp",
	0x13: "Hard Gate",
}

var distortionModels = table{
	0x0A: "Jet Fuzz",
	0x0B: "Classic Distortion",
	0x0C: "Octave Fuzz",
	0x0D: "Tube Drive",
	0x0E: "Screamer",
	0x0F: "Fuzz Pi",
	0x10: "Overdrive",
	0x11: "Facial Fuzz",
	0x12: "Line 6 Distortion",
	0x13: "Line 6 Drive",
	0x14: "Sub Octave Fuzz",
	0x15: "Buzz Saw",
	0x16: "Heavy Distorion",
	0x17: "Jumbo Fuzz",
	0x18: "Color Drive",
}

var modulationModels = table{
	0x20: "Opto Tremolo",
	0x21: "Bias Tremolo",
	0x22: "Phaser",
	0x23: "Dual Phaser",
	0x24: "Panned Phaser",
	0x25: "U-Vibe",
	0x26: "Rotary Drum",
	0x27: "Rotary Dum & Horn",
	0x28: "Analog Flanger",
	0x29: "Jet Flanger",
	0x2A: "Analog Chorus",
	0x2B: "Dimension",
	0x2C: "Tri Chorus",
	0x2D: "Pitch Vibrato",
	0x2E: "Ring Modulator",
	0x2F: "Panner",
	0x40: "Barberpole Phaser",
	0x42: "Frequency Shifter",
	0x43: "Pattern Tremolo",
	0x45: "Script Phase",
	0x47: "AC Flanger",
	0x49: "80A Flanger",
}

var filterModels = table{
	0x0F: "Tron Up",
	0x10: "Tron Down",
	0x11: "Seeker",
	0x12: "Obi Wah",
	0x13: "Slow Filter",
	0x14: "Q-Filter",
	0x15: "Throbber",
	0x16: "Spin Cycle",
	0x17: "Comet Trails",
	0x18: "Octisynth",
	0x19: "Growler",
	0x1A: "Synth-O-Matic",
	0x1B: "Attack Synth",
	0x1C: "Synth String",
	0x1D: "Voice Box",
	0x1E: "V-Tron",
	0x26: "Vocoder",
}

var pitchModels = table{
	0x02: "Pitch Glide",
	0x03: "Smart Harmony",
	0x04: "Bass Octaver",
}

var preampEQModels = table{
	0x09: "Graphic EQ",
	0x0A: "Studio EQ",
	0x0B: "Parametric EQ",
	0x0C: "4-Band Shift EQ",
	0x0D: "Mid Focus EQ",
	0x0E: "Vintage Pre",
}

var delayModels = table{
	0x11: "Digital Delay",
	0x12: "Digital Delay w/Mod",
	0x13: "Stereo Delay",
	0x14: "Analog Echo",
	0x15: "Analog Delay w/Mod",
	0x1A: "Multi-Head Delay",
	0x1D: "Lo Res Delay",
	0x20: "Ping Pong",
	0x21: "Reverse Delay",
	0x22: "Dynamic Delay",
	0x23: "Auto-Volume",
	0x2A: "Tube Echo",
	0x2B: "Tube Echo Dry",
	0x2C: "Tape Echo",
	0x2D: "Tape Echo Dry",
	0x2E: "Sweep Echo",
	0x2F: "Sweep Echo Dry",
	0x30: "Echo Platter",
	0x31: "Echo Platter Dry",
}

var reverbModels = table{
	0x1C: "'63 Spring",
	0x1D: "Spring",
	0x1E: "Plate",
	0x1F: "Room",
	0x20: "Chamber",
	0x21: "Hall",
	0x22: "Ducking",
	0x23: "Octo",
	0x24: "Cave",
	0x25: "Tile",
	0x26: "Echo",
	0x27: "Particle Verb",
}

var volumePanModels = table{
	0x04: "Volume Pedal",
	0x05: "Pan",
}

var wahModels = table{
	0x0B: "Vetta Wah",
	0x0C: "Fassel",
	0x0D: "Wheeper",
	0x0E: "Chrome",
	0x0F: "Chrome Custom",
	0x10: "Throaty",
	0x11: "Conductor",
	0x12: "Colorful",
}

var loopModels = table{
	0x00: "FXLoop",
}

package common

// PresetFileExtension is the extension the editor software saves presets with.
const PresetFileExtension = ".h5e"

const (
	PresetSize       = 4136
	PresetNameOffset = 0x28
	PresetNameSize   = 16

	// SlotStride is the distance between two consecutive slots of the same category.
	SlotStride = 0x100

	MaxAmpSlots = 2
	MaxCabSlots = 2
	MaxFxSlots  = 8
)

/*

Each slot category is a run of SlotStride-sized records. Only the bytes below
are decoded, everything else in a record is opaque:

	Amp[x]  model 0x053  enable 0x058
	Cab[x]  model 0x253  enable 0x25b
	Fx[x]   type  0x451  model  0x453  enable 0x45b

*/

const (
	ampModelBase  = 0x53
	ampEnableBase = 0x58

	cabModelBase  = 0x253
	cabEnableBase = 0x25b

	fxTypeBase   = 0x451
	fxModelBase  = 0x453
	fxEnableBase = 0x45b
)

type SlotCategory string

const (
	CategoryAmp SlotCategory = "amp"
	CategoryCab SlotCategory = "cab"
	CategoryFx  SlotCategory = "fx"
)

// MaxSlots returns the number of slots a preset carries for the category.
func (c SlotCategory) MaxSlots() int {
	switch c {
	case CategoryAmp:
		return MaxAmpSlots
	case CategoryCab:
		return MaxCabSlots
	case CategoryFx:
		return MaxFxSlots
	default:
		return 0
	}
}

func slotOffset(base, x int) int {
	return base + x*SlotStride
}

func AmpModelOffset(x int) int  { return slotOffset(ampModelBase, x) }
func AmpEnableOffset(x int) int { return slotOffset(ampEnableBase, x) }

func CabModelOffset(x int) int  { return slotOffset(cabModelBase, x) }
func CabEnableOffset(x int) int { return slotOffset(cabEnableBase, x) }

func FxTypeOffset(x int) int   { return slotOffset(fxTypeBase, x) }
func FxModelOffset(x int) int  { return slotOffset(fxModelBase, x) }
func FxEnableOffset(x int) int { return slotOffset(fxEnableBase, x) }

package models

var cabModels = table{
	0x00: "2x12 PhD Ported",
	0x01: "1x(6x9)Super O",
	0x02: "1x12 Celest 12-H",
	0x03: "1x12 Blackface 'Lux",
	0x04: "1x12 Gibtone F-Coil",
	0x05: "1x12 Blue Bell",
	0x06: "2x12 Blackface Dbl",
	0x08: "2x12 Silver Bell",
	0x09: "4x10 Tweed B-Man",
	0x0A: "4x12 Uber",
	0x0B: "4x12 XXL V-30",
	0x0C: "4x12 Hiway",
	0x0E: "4x12 Greenback 25",
	0x0F: "4x12 Brit T-75",
	0x10: "4x12 Tread V-30",
	0x11: "4x12 Blackback 30",
	0x12: "4x12 Flip Top",
}

// CabModelName returns the display name of a cabinet model code.
func CabModelName(code uint8) string {
	return cabModels.name(code)
}

func IsKnownCab(code uint8) bool {
	return cabModels.known(code)
}

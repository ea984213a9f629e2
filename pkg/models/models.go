// Package models resolves the single-byte model codes stored in a preset to the
// names the device shows for them. Every lookup is total: codes missing from a
// table resolve to Unknown, since newer firmware keeps adding models.
package models

const Unknown = "Unknown"

type table map[uint8]string

func (t table) name(code uint8) string {
	if name, ok := t[code]; ok {
		return name
	}
	return Unknown
}

// Known reports whether the code has an entry in the table.
func (t table) known(code uint8) bool {
	_, ok := t[code]
	return ok
}

// Package preset decodes POD HD preset blobs.
//
// A Context owns a private copy of one blob and exposes typed reads of the
// preset name and of every amp, cab and effect slot. Model codes returned by
// the slot readers are resolved to names with the models package, or all at
// once with Decode.
package preset

import (
	"fmt"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/rs/zerolog/log"
)

// Context holds a copy of a single preset blob. Its read methods never mutate
// it and may be called concurrently; Close must not race with them.
type Context struct {
	data []byte
}

// New copies the first PresetSize bytes of data into a new Context. Anything
// past PresetSize is ignored; anything shorter is rejected.
func New(data []byte) (*Context, error) {
	if len(data) < common.PresetSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", common.ErrTruncatedInput, len(data), common.PresetSize)
	}

	buf := make([]byte, common.PresetSize)
	copy(buf, data)

	if len(data) > common.PresetSize {
		log.Debug().Int("size", len(data)).Msg("ignoring bytes past end of preset")
	}

	return &Context{data: buf}, nil
}

// Close releases the blob. Any read after Close fails with ErrInvalidArgument.
func (c *Context) Close() {
	if c == nil {
		return
	}
	c.data = nil
}

func (c *Context) check() error {
	if c == nil || c.data == nil {
		return fmt.Errorf("%w: no preset loaded", common.ErrInvalidArgument)
	}
	return nil
}

func (c *Context) flag(offset int) bool {
	return c.data[offset] != 0
}

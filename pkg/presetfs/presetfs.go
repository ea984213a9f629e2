// Package presetfs exposes a preset library as a read-only FUSE filesystem.
// Every preset shows up twice in the mount root: <name>.txt holds the text
// rendering and <name>.json the JSON document.
package presetfs

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/beam-cloud/h5e/pkg/library"
	"github.com/beam-cloud/h5e/pkg/preset"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	textSuffix = ".txt"
	jsonSuffix = ".json"

	rootIno  = 1
	fileMode = fuse.S_IFREG | 0444
	dirMode  = fuse.S_IFDIR | 0555
)

// PresetLister is the part of a library the filesystem needs.
type PresetLister interface {
	List() []*library.Entry
}

type PresetFileSystemOpts struct {
	// ShowAll renders model names of disabled slots in the text files.
	ShowAll bool
}

type PresetFileSystem struct {
	root  *DirNode
	files map[string]*fileEntry
	names []string
}

type fileEntry struct {
	name    string
	source  string
	content []byte
	attr    fuse.Attr
}

// NewFileSystem renders every entry of l up front; the filesystem does not
// follow later changes to the library.
func NewFileSystem(l PresetLister, opts PresetFileSystemOpts) (*PresetFileSystem, error) {
	pfs := &PresetFileSystem{
		files: make(map[string]*fileEntry),
	}

	ino := uint64(rootIno)

	taken := make(map[string]int)
	for _, e := range l.List() {
		base := uniqueName(taken, fileBaseName(e.Preset.Name))

		var text bytes.Buffer
		if err := preset.WriteText(&text, e.Preset, opts.ShowAll); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", e.Path, err)
		}

		var doc bytes.Buffer
		if err := preset.WriteJSON(&doc, e.Preset); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", e.Path, err)
		}

		ino++
		pfs.add(base+textSuffix, e.Path, text.Bytes(), ino)
		ino++
		pfs.add(base+jsonSuffix, e.Path, doc.Bytes(), ino)
	}

	sort.Strings(pfs.names)

	pfs.root = &DirNode{
		filesystem: pfs,
		attr: fuse.Attr{
			Ino:   rootIno,
			Mode:  dirMode,
			Nlink: 2,
		},
	}

	return pfs, nil
}

func (pfs *PresetFileSystem) add(name, source string, content []byte, ino uint64) {
	pfs.files[name] = &fileEntry{
		name:    name,
		source:  source,
		content: content,
		attr: fuse.Attr{
			Ino:    ino,
			Size:   uint64(len(content)),
			Blocks: (uint64(len(content)) + 511) / 512,
			Mode:   fileMode,
			Nlink:  1,
		},
	}
	pfs.names = append(pfs.names, name)
}

func (pfs *PresetFileSystem) Root() (fs.InodeEmbedder, error) {
	if pfs.root == nil {
		return nil, fmt.Errorf("root not initialized")
	}
	return pfs.root, nil
}

// Names returns the file names in the mount root, sorted.
func (pfs *PresetFileSystem) Names() []string {
	return append([]string(nil), pfs.names...)
}

// fileBaseName makes a preset name usable as a single path element.
func fileBaseName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == 0:
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, name)

	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

// uniqueName appends -2, -3, ... to names seen before.
func uniqueName(taken map[string]int, base string) string {
	taken[base]++
	if taken[base] == 1 {
		return base
	}

	for {
		candidate := fmt.Sprintf("%s-%d", base, taken[base])
		if _, exists := taken[candidate]; !exists {
			taken[candidate] = 1
			return candidate
		}
		taken[base]++
	}
}

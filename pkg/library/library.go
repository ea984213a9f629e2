// Package library indexes a directory tree of preset files.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/beam-cloud/h5e/pkg/preset"
	"github.com/beam-cloud/h5e/pkg/storage"
	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"
)

// Entry is a decoded preset together with the file it was read from.
type Entry struct {
	Path   string
	Preset *common.DecodedPreset
}

type LibraryOpts struct {
	// Concurrency bounds the number of files decoded at once. Defaults to GOMAXPROCS.
	Concurrency int
}

type Library struct {
	opts  LibraryOpts
	index *btree.BTreeG[*Entry]

	mu      sync.Mutex
	skipped []string
}

func entryLess(a, b *Entry) bool {
	if a.Preset.Name != b.Preset.Name {
		return a.Preset.Name < b.Preset.Name
	}
	return a.Path < b.Path
}

func NewLibrary(opts LibraryOpts) *Library {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}

	return &Library{
		opts:  opts,
		index: btree.NewBTreeGOptions(entryLess, btree.Options{NoLocks: false}),
	}
}

// Scan walks root for preset files and adds every one that decodes to the
// library. Files that cannot be read or decoded are logged and skipped.
func (l *Library) Scan(ctx context.Context, root string) error {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat library root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: library root %s is not a directory", common.ErrInvalidArgument, root)
	}

	paths, err := findPresets(root)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	added := 0
	skipped := 0
	var countMu sync.Mutex

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			p, err := loadPreset(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("path", path).Msg("skipping preset")
				l.skip(path)

				countMu.Lock()
				skipped++
				countMu.Unlock()
				return nil
			}

			l.index.Set(&Entry{Path: path, Preset: p})

			countMu.Lock()
			added++
			countMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	metrics.RecordLibraryScan(added, skipped, time.Since(start))
	return nil
}

func findPresets(root string) ([]string, error) {
	var paths []string

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), common.PresetFileExtension) {
				return nil
			}

			paths = append(paths, path)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			log.Warn().Err(err).Str("path", path).Msg("unable to walk path")
			return godirwalk.SkipNode
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library root %s: %w", root, err)
	}

	return paths, nil
}

func loadPreset(ctx context.Context, path string) (*common.DecodedPreset, error) {
	s, err := storage.NewLocalPresetStorage(storage.LocalPresetStorageOpts{Path: path})
	if err != nil {
		return nil, err
	}
	defer s.Cleanup()

	data, err := s.ReadPreset(ctx)
	if err != nil {
		return nil, err
	}

	return preset.Load(data)
}

func (l *Library) skip(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped = append(l.skipped, path)
}

// Skipped returns the paths that were found but could not be decoded.
func (l *Library) Skipped() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.skipped...)
}

// Get returns the first entry, by path, whose preset name is name.
func (l *Library) Get(name string) (*Entry, bool) {
	var found *Entry
	l.index.Ascend(&Entry{Preset: &common.DecodedPreset{Name: name}}, func(e *Entry) bool {
		if e.Preset.Name == name {
			found = e
		}
		return false
	})
	return found, found != nil
}

// List returns all entries ordered by name, then path.
func (l *Library) List() []*Entry {
	return l.index.Items()
}

// FilterByAmp returns entries with an enabled amp of the given model name.
func (l *Library) FilterByAmp(model string) []*Entry {
	return l.filter(func(p *common.DecodedPreset) bool {
		return p.HasAmp(model)
	})
}

// FilterByEffect returns entries with an enabled effect of the given type name.
func (l *Library) FilterByEffect(typeName string) []*Entry {
	return l.filter(func(p *common.DecodedPreset) bool {
		return p.HasEffectType(typeName)
	})
}

func (l *Library) filter(match func(*common.DecodedPreset) bool) []*Entry {
	var entries []*Entry
	l.index.Scan(func(e *Entry) bool {
		if match(e.Preset) {
			entries = append(entries, e)
		}
		return true
	})
	return entries
}

func (l *Library) Len() int {
	return l.index.Len()
}

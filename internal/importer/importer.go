// Package importer builds the spell reference table from an external source.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Importer orchestrates spell import from a Source to a spell table file.
type Importer struct {
	source Source
	merge  bool
	logger *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithMerge keeps entries already present in the output file unless the
// source supplies a spell with the same name.
func WithMerge(merge bool) Option {
	return func(imp *Importer) { imp.merge = merge }
}

// WithLogger sets the importer's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(imp *Importer) {
		if logger != nil {
			imp.logger = logger
		}
	}
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, opts ...Option) *Importer {
	imp := &Importer{source: source, logger: zap.NewNop()}
	for _, o := range opts {
		o(imp)
	}
	return imp
}

// Run fetches spells from the source, normalizes them, validates the rendered
// table with the same loader the generator uses, and writes it to outPath.
//
// Precondition: outPath's directory must exist or be creatable.
// Postcondition: on success outPath holds a loadable spell table and the
// number of spells written is returned; on failure outPath is untouched.
func (imp *Importer) Run(ctx context.Context, outPath string) (int, error) {
	overall := time.Now()

	t0 := time.Now()
	spells, err := imp.source.Spells(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("spells fetched",
		zap.Int("count", len(spells)),
		zap.Duration("elapsed", time.Since(t0).Round(time.Millisecond)),
	)

	if imp.merge {
		existing, err := ruleset.LoadSpells(outPath)
		switch {
		case err == nil:
			imp.logger.Info("merging with existing table", zap.Int("existing", len(existing)))
			spells = Merge(existing, spells)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return 0, fmt.Errorf("reading existing table: %w", err)
		}
	}
	spells = Normalize(spells)

	data, err := Render(spells)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("replacing %s: %w", outPath, err)
	}

	imp.logger.Info("spell table written",
		zap.String("path", outPath),
		zap.Int("count", len(spells)),
		zap.Duration("total", time.Since(overall).Round(time.Millisecond)),
	)
	return len(spells), nil
}

// Render marshals spells as a spell table document and checks that it loads.
//
// Postcondition: returned bytes satisfy ruleset.LoadSpellsFromBytes.
func Render(spells []*ruleset.Spell) ([]byte, error) {
	data, err := yaml.Marshal(ruleset.SpellList{Spells: spells})
	if err != nil {
		return nil, fmt.Errorf("serialising spells: %w", err)
	}
	if _, err := ruleset.LoadSpellsFromBytes(data); err != nil {
		return nil, fmt.Errorf("spell table failed validation: %w", err)
	}
	return data, nil
}

// Package srd imports spells from the D&D 5e SRD API.
package srd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
	"github.com/cory-johannsen/npcforge/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// DefaultConcurrency bounds in-flight spell detail requests.
const DefaultConcurrency = 8

// SpellAPI is the subset of the SRD client used by Source.
type SpellAPI interface {
	ListSpells(input *dnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error)
	GetSpell(key string) (*entities.Spell, error)
}

// Filter narrows which spells are imported. Zero value imports everything.
type Filter struct {
	// Names restricts the import to these spells; other filters are ignored.
	Names []string
	// Class restricts listing to one class index, e.g. "wizard".
	Class string
	// Level restricts listing to one spell level.
	Level *int
}

// Source implements importer.Source over the SRD API.
type Source struct {
	api         SpellAPI
	filter      Filter
	concurrency int
	logger      *zap.Logger
}

// NewClient builds an SRD API client. An empty baseURL selects the library default.
func NewClient(baseURL string, timeout time.Duration) (SpellAPI, error) {
	client, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating SRD API client: %w", err)
	}
	return client, nil
}

// NewSource wraps api. A nil logger is replaced by a no-op logger.
//
// Precondition: api must be non-nil.
func NewSource(api SpellAPI, filter Filter, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{api: api, filter: filter, concurrency: DefaultConcurrency, logger: logger}
}

// Spells implements importer.Source. Details are fetched concurrently and
// returned in listing order.
func (s *Source) Spells(ctx context.Context) ([]*ruleset.Spell, error) {
	keys, err := s.keys()
	if err != nil {
		return nil, err
	}

	out := make([]*ruleset.Spell, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			spell, err := s.api.GetSpell(key)
			if err != nil {
				return fmt.Errorf("getting spell %s: %w", key, err)
			}
			if spell == nil {
				return fmt.Errorf("getting spell %s: empty response", key)
			}
			out[i] = Convert(spell)
			s.logger.Debug("spell fetched", zap.String("key", key))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Source) keys() ([]string, error) {
	if len(s.filter.Names) > 0 {
		keys := make([]string, 0, len(s.filter.Names))
		for _, n := range s.filter.Names {
			if k := importer.NameToIndex(n); k != "" {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}

	var input *dnd5e.ListSpellsInput
	if s.filter.Class != "" || s.filter.Level != nil {
		input = &dnd5e.ListSpellsInput{Class: s.filter.Class, Level: s.filter.Level}
	}
	refs, err := s.api.ListSpells(input)
	if err != nil {
		return nil, fmt.Errorf("listing spells: %w", err)
	}
	keys := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != nil && r.Key != "" {
			keys = append(keys, r.Key)
		}
	}
	s.logger.Info("spells listed", zap.Int("count", len(keys)))
	return keys, nil
}

// Convert maps an SRD spell onto a reference entry. The SRD client carries no
// prose, so the description is assembled from the mechanical fields.
func Convert(spell *entities.Spell) *ruleset.Spell {
	out := &ruleset.Spell{
		Name:        spell.Name,
		Level:       spell.SpellLevel,
		CastingTime: spell.CastingTime,
		Range:       spell.Range,
		Duration:    spell.Duration,
		Description: Describe(spell),
	}
	if spell.SpellSchool != nil {
		out.School = spell.SpellSchool.Name
	}
	return out
}

// Describe renders the mechanical summary used as a spell's description.
// Damage dice appear verbatim so roll links can be derived from the text.
func Describe(spell *entities.Spell) string {
	var parts []string

	if spell.SpellDamage != nil {
		dmg := ""
		if spell.SpellDamage.SpellDamageAtSlotLevel != nil {
			dmg = baseDamage(spell.SpellLevel, spell.SpellDamage.SpellDamageAtSlotLevel)
		}
		kind := ""
		if spell.SpellDamage.SpellDamageType != nil {
			kind = strings.ToLower(spell.SpellDamage.SpellDamageType.Name)
		}
		switch {
		case dmg != "" && kind != "":
			parts = append(parts, fmt.Sprintf("Deals %s %s damage", dmg, kind))
		case dmg != "":
			parts = append(parts, fmt.Sprintf("Deals %s damage", dmg))
		case kind != "":
			parts = append(parts, fmt.Sprintf("Deals %s damage", kind))
		}
	}

	if spell.DC != nil {
		save := "Saving throw"
		if spell.DC.DCType != nil && spell.DC.DCType.Name != "" {
			save = spell.DC.DCType.Name + " saving throw"
		}
		if spell.DC.DCSuccess != "" && spell.DC.DCSuccess != "none" {
			save += " for " + spell.DC.DCSuccess
		}
		parts = append(parts, save)
	}

	var props []string
	if spell.Concentration {
		props = append(props, "concentration")
	}
	if spell.Ritual {
		props = append(props, "ritual")
	}
	if len(props) > 0 {
		parts = append(parts, "Requires "+strings.Join(props, " and "))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s spell.", levelLabel(spell.SpellLevel))
	}
	return strings.Join(parts, ". ") + "."
}

func levelLabel(level int) string {
	if level == 0 {
		return "Cantrip"
	}
	return fmt.Sprintf("Level %d", level)
}

func baseDamage(level int, at *entities.SpellDamageAtSlotLevel) string {
	switch level {
	case 0, 1:
		return at.FirstLevel
	case 2:
		return at.SecondLevel
	case 3:
		return at.ThirdLevel
	case 4:
		return at.FourthLevel
	case 5:
		return at.FifthLevel
	case 6:
		return at.SixthLevel
	case 7:
		return at.SeventhLevel
	case 8:
		return at.EighthLevel
	case 9:
		return at.NinthLevel
	default:
		return ""
	}
}

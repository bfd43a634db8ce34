// Package reference cross-links free text against the spell and condition
// tables and derives spell actions for a stat block.
package reference

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cory-johannsen/npcforge/internal/game/ruleset"
)

// Kind distinguishes what a reference points at.
type Kind string

// Reference kinds.
const (
	KindSpell     Kind = "spell"
	KindCondition Kind = "condition"
)

// Ref identifies one referenced table entry.
type Ref struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Match is a located reference within scanned text. Start and End are byte
// offsets of the matched span.
type Match struct {
	Ref
	Start int
	End   int
}

// Segment is a run of display text, linked when Ref is non-nil.
type Segment struct {
	Text string `json:"text"`
	Ref  *Ref   `json:"ref,omitempty"`
}

// Linker holds a case-insensitive name index over spells and conditions.
// It is immutable after construction and safe for concurrent use.
type Linker struct {
	index  []Ref // longest name first
	spells map[string]*ruleset.Spell
}

// NewLinker builds the name index. When a spell and a condition share a name
// the spell wins.
//
// Postcondition: index entries are ordered by descending name length.
func NewLinker(spells []*ruleset.Spell, conditions []*ruleset.Condition) *Linker {
	l := &Linker{spells: make(map[string]*ruleset.Spell, len(spells))}
	seen := make(map[string]bool)
	for _, s := range spells {
		key := ruleset.NormalizeKey(s.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		l.spells[key] = s
		l.index = append(l.index, Ref{Kind: KindSpell, Name: s.Name, Key: key})
	}
	for _, c := range conditions {
		key := ruleset.NormalizeKey(c.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		l.index = append(l.index, Ref{Kind: KindCondition, Name: c.Name, Key: key})
	}
	sort.SliceStable(l.index, func(i, j int) bool {
		return len(l.index[i].Name) > len(l.index[j].Name)
	})
	return l
}

// NewLinkerFromTables builds a Linker over the reference tables in t.
func NewLinkerFromTables(t *ruleset.Tables) *Linker {
	return NewLinker(t.Spells, t.Conditions)
}

// Spell returns the spell with the given normalized key.
func (l *Linker) Spell(key string) (*ruleset.Spell, bool) {
	s, ok := l.spells[ruleset.NormalizeKey(key)]
	return s, ok
}

// Scan returns every whole-word, case-insensitive occurrence of an indexed
// name in text, left to right without overlaps. At each position the longest
// matching name wins.
func (l *Linker) Scan(text string) []Match {
	var out []Match
	for i := 0; i < len(text); {
		if !wordStart(text, i) {
			i += runeLen(text, i)
			continue
		}
		m, ok := l.matchAt(text, i)
		if !ok {
			i += runeLen(text, i)
			continue
		}
		out = append(out, m)
		i = m.End
	}
	return out
}

func (l *Linker) matchAt(text string, i int) (Match, bool) {
	for _, ref := range l.index {
		end := i + len(ref.Name)
		if end > len(text) {
			continue
		}
		if strings.EqualFold(text[i:end], ref.Name) && wordEnd(text, end) {
			return Match{Ref: ref, Start: i, End: end}, true
		}
	}
	return Match{}, false
}

// References returns the distinct references found in text, in order of
// first appearance.
func (l *Linker) References(text string) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, m := range l.Scan(text) {
		id := string(m.Kind) + ":" + m.Key
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, m.Ref)
	}
	return out
}

// Segments splits text into plain and linked runs.
//
// Postcondition: concatenating every Segment.Text reproduces text exactly.
func (l *Linker) Segments(text string) []Segment {
	var out []Segment
	pos := 0
	for _, m := range l.Scan(text) {
		if m.Start > pos {
			out = append(out, Segment{Text: text[pos:m.Start]})
		}
		ref := m.Ref
		out = append(out, Segment{Text: text[m.Start:m.End], Ref: &ref})
		pos = m.End
	}
	if pos < len(text) {
		out = append(out, Segment{Text: text[pos:]})
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func wordEnd(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func runeLen(text string, i int) int {
	_, n := utf8.DecodeRuneInString(text[i:])
	if n == 0 {
		return 1
	}
	return n
}

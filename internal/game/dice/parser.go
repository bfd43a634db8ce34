package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDicePerTerm bounds the die count of a single NdM term.
const MaxDicePerTerm = 1000

// Term is one signed addend of a dice expression: either NdM or a literal.
type Term struct {
	Sign  int // +1 or -1
	Count int // number of dice; 0 for a literal term
	Sides int // faces per die; 0 for a literal term
	Flat  int // literal value; 0 for a dice term
}

// IsDice reports whether the term rolls dice.
func (t Term) IsDice() bool {
	return t.Count > 0
}

// String renders the term without its sign.
func (t Term) String() string {
	if t.IsDice() {
		return fmt.Sprintf("%dd%d", t.Count, t.Sides)
	}
	return strconv.Itoa(t.Flat)
}

// Expression represents a parsed dice expression ready to be rolled: a sum of
// signed terms such as "2d6+1d4+3" or "1d8-1".
type Expression struct {
	Raw     string   // original input string
	Terms   []Term   // successfully parsed terms, in input order
	Invalid []string // raw terms that could not be parsed
}

// Modifier returns the signed sum of all literal terms.
func (e Expression) Modifier() int {
	mod := 0
	for _, t := range e.Terms {
		if !t.IsDice() {
			mod += t.Sign * t.Flat
		}
	}
	return mod
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "1d8+1d6+2", "7".
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns an Expression with no Invalid terms, or a descriptive
// error naming the first term that failed to parse.
func Parse(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	e := ParseLenient(expr)
	if len(e.Invalid) > 0 {
		return Expression{}, fmt.Errorf("dice: invalid term %q in expression %q", e.Invalid[0], expr)
	}
	return e, nil
}

// ParseLenient parses expr, collecting unparseable terms in Invalid instead of
// failing. Invalid terms contribute nothing when the expression is rolled.
//
// Postcondition: Raw == expr; every entry of Terms satisfies Count >= 1 and
// Sides >= 1, or is a literal.
func ParseLenient(expr string) Expression {
	e := Expression{Raw: expr}
	compact := strings.Join(strings.Fields(strings.ToLower(expr)), "")
	if compact == "" {
		return e
	}

	sign := 1
	start := 0
	flush := func(end int) {
		raw := compact[start:end]
		t, ok := parseTerm(raw)
		if !ok {
			e.Invalid = append(e.Invalid, raw)
			return
		}
		t.Sign = sign
		e.Terms = append(e.Terms, t)
	}

	for i := 0; i < len(compact); i++ {
		c := compact[i]
		if c != '+' && c != '-' {
			continue
		}
		// A sign in leading position applies to the first term.
		if i > 0 {
			flush(i)
		}
		sign = 1
		if c == '-' {
			sign = -1
		}
		start = i + 1
	}
	flush(len(compact))
	return e
}

func parseTerm(raw string) (Term, bool) {
	if raw == "" {
		return Term{}, false
	}
	dIdx := strings.IndexByte(raw, 'd')
	if dIdx < 0 {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Term{}, false
		}
		return Term{Flat: n}, true
	}

	// Count defaults to 1 when omitted ("d20").
	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(raw[:dIdx])
		if err != nil || n < 1 || n > MaxDicePerTerm {
			return Term{}, false
		}
		count = n
	}
	sides, err := strconv.Atoi(raw[dIdx+1:])
	if err != nil || sides < 1 {
		return Term{}, false
	}
	return Term{Count: count, Sides: sides}, true
}

// String renders the parsed terms back to canonical form, e.g. "2d6+1d4-1".
// Invalid terms are omitted; an expression with no terms renders as "0".
func (e Expression) String() string {
	if len(e.Terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range e.Terms {
		switch {
		case t.Sign < 0:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

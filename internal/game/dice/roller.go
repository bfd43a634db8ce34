package dice

import "fmt"

// Roll evaluates an Expression using the given Source and returns a RollResult.
// Dice from subtracted terms are recorded as negative values; literal terms
// accumulate into Modifier.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == sum of Count over dice terms;
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	var rolled []int
	for _, t := range expr.Terms {
		if !t.IsDice() {
			continue
		}
		for i := 0; i < t.Count; i++ {
			rolled = append(rolled, t.Sign*(src.Intn(t.Sides)+1))
		}
	}
	label := expr.Raw
	if label == "" {
		label = "0"
	}
	return RollResult{
		Expression: label,
		Dice:       rolled,
		Modifier:   expr.Modifier(),
	}
}

// RollExpr parses expr strictly and rolls it using src in a single call.
//
// Precondition: expr must be a valid dice expression string; src must be non-nil.
// Postcondition: Returns a RollResult or a parse error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// RollLenient rolls expr, silently dropping any term that fails to parse.
// An empty or wholly invalid expression totals 0.
func RollLenient(expr string, src Source) RollResult {
	return Roll(ParseLenient(expr), src)
}

// RollD20 rolls a single d20 and adds bonus.
//
// Postcondition: result.Total() in [1+bonus, 20+bonus].
func RollD20(src Source, bonus int) RollResult {
	return RollResult{
		Expression: fmt.Sprintf("1d20%+d", bonus),
		Dice:       []int{src.Intn(20) + 1},
		Modifier:   bonus,
	}
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
// A nil logger is replaced with zap.NewNop().
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the randomness source backing the roller.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.log(result)
	return result
}

// RollLenient rolls expr leniently and logs the result. Dropped terms are
// logged alongside the roll.
func (r *Roller) RollLenient(expr string) RollResult {
	e := ParseLenient(expr)
	if len(e.Invalid) > 0 {
		r.logger.Debug("dice terms dropped",
			zap.String("expression", expr),
			zap.Strings("invalid", e.Invalid),
		)
	}
	return r.Roll(e)
}

// RollD20 rolls a d20 with bonus and logs the result.
func (r *Roller) RollD20(bonus int) RollResult {
	result := RollD20(r.src, bonus)
	r.log(result)
	return result
}

func (r *Roller) log(result RollResult) {
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
}

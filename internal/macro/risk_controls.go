package macro

// CorrelationGuard blocks stacking exposure across assets configured as
// correlated
type CorrelationGuard struct {
	groups [][]string
}

// NewCorrelationGuard creates a guard from configured asset groups
func NewCorrelationGuard(groups [][]string) *CorrelationGuard {
	return &CorrelationGuard{groups: groups}
}

// CheckCorrelationBlock returns blocked=true iff at least two already
// open positions are in the candidate's correlated group
func (g *CorrelationGuard) CheckCorrelationBlock(openSymbols []string, candidate string) (bool, string) {
	group := g.groupOf(candidate)
	if group == nil {
		return false, ""
	}

	correlated := 0
	for _, sym := range openSymbols {
		if sym == candidate {
			correlated++
			continue
		}
		for _, member := range group {
			if sym == member {
				correlated++
				break
			}
		}
	}

	if correlated >= 2 {
		return true, "2+ correlated positions already open"
	}
	return false, ""
}

func (g *CorrelationGuard) groupOf(symbol string) []string {
	for _, group := range g.groups {
		for _, member := range group {
			if member == symbol {
				return group
			}
		}
	}
	return nil
}

// VolatilityAdjustedSize scales a base position size down as ATR-as-%
// -of-price rises. Step bands: full size under 1%, zero above 8%.
func VolatilityAdjustedSize(size, atrPct float64) float64 {
	switch {
	case atrPct < 1:
		return size
	case atrPct < 3:
		return size * 0.8
	case atrPct < 5:
		return size * 0.5
	case atrPct <= 8:
		return size * 0.25
	default:
		return 0
	}
}

package patterns

import (
	"quant-engine/internal/market"
)

// Detector classifies the trailing 1-3 candles by body-to-range and
// shadow ratios
type Detector struct {
	dojiBodyRatio float64 // Max body/range ratio to count as a doji
}

// NewDetector creates a detector with standard thresholds
func NewDetector() *Detector {
	return &Detector{dojiBodyRatio: 0.1}
}

// DetectCandlestick scans the last candles for all supported
// formations. A window may yield zero or many patterns.
func (d *Detector) DetectCandlestick(candles []market.Candle) []Pattern {
	var found []Pattern
	n := len(candles)
	if n == 0 {
		return found
	}

	last := candles[n-1]

	if d.isDoji(last) {
		found = append(found, Pattern{Name: "doji", Type: Neutral, Strength: 1})
	}
	if d.isHammer(last) {
		found = append(found, Pattern{Name: "hammer", Type: Bullish, Strength: 2})
	}
	if d.isShootingStar(last) {
		found = append(found, Pattern{Name: "shooting_star", Type: Bearish, Strength: 2})
	}

	if n >= 2 {
		c1, c2 := candles[n-2], candles[n-1]
		if d.isBullishEngulfing(c1, c2) {
			found = append(found, Pattern{Name: "bullish_engulfing", Type: Bullish, Strength: 2})
		}
		if d.isBearishEngulfing(c1, c2) {
			found = append(found, Pattern{Name: "bearish_engulfing", Type: Bearish, Strength: 2})
		}
	}

	if n >= 3 {
		c1, c2, c3 := candles[n-3], candles[n-2], candles[n-1]
		if d.isMorningStar(c1, c2, c3) {
			found = append(found, Pattern{Name: "morning_star", Type: Bullish, Strength: 3})
		}
		if d.isEveningStar(c1, c2, c3) {
			found = append(found, Pattern{Name: "evening_star", Type: Bearish, Strength: 3})
		}
		if d.isThreeWhiteSoldiers(c1, c2, c3) {
			found = append(found, Pattern{Name: "three_white_soldiers", Type: Bullish, Strength: 3})
		}
		if d.isThreeBlackCrows(c1, c2, c3) {
			found = append(found, Pattern{Name: "three_black_crows", Type: Bearish, Strength: 3})
		}
		if d.isBullishAbandonedBaby(c1, c2, c3) {
			found = append(found, Pattern{Name: "bullish_abandoned_baby", Type: Bullish, Strength: 3})
		}
		if d.isBearishAbandonedBaby(c1, c2, c3) {
			found = append(found, Pattern{Name: "bearish_abandoned_baby", Type: Bearish, Strength: 3})
		}
	}

	return found
}

// isDoji checks for a near-zero body relative to range
func (d *Detector) isDoji(c market.Candle) bool {
	r := c.Range()
	if r == 0 {
		return false
	}
	return c.Body()/r <= d.dojiBodyRatio
}

// isHammer checks for a long lower shadow with a small upper shadow
func (d *Detector) isHammer(c market.Candle) bool {
	body := c.Body()
	if body == 0 {
		return false
	}
	return c.LowerShadow() >= body*2 && c.UpperShadow() <= body*0.3
}

// isShootingStar checks for a long upper shadow with a small lower shadow
func (d *Detector) isShootingStar(c market.Candle) bool {
	body := c.Body()
	if body == 0 {
		return false
	}
	return c.UpperShadow() >= body*2 && c.LowerShadow() <= body*0.3
}

// isBullishEngulfing checks that a bullish body fully engulfs the prior
// bearish body
func (d *Detector) isBullishEngulfing(c1, c2 market.Candle) bool {
	if c1.IsBullish() || !c2.IsBullish() {
		return false
	}
	return c2.Open <= c1.Close && c2.Close >= c1.Open
}

// isBearishEngulfing checks that a bearish body fully engulfs the prior
// bullish body
func (d *Detector) isBearishEngulfing(c1, c2 market.Candle) bool {
	if !c1.IsBullish() || c2.IsBullish() {
		return false
	}
	return c2.Open >= c1.Close && c2.Close <= c1.Open
}

// isMorningStar checks long bearish / small indecision / long bullish
// closing above the first candle's midpoint
func (d *Detector) isMorningStar(c1, c2, c3 market.Candle) bool {
	if c1.IsBullish() || c1.Range() == 0 || c1.Body() < c1.Range()*0.6 {
		return false
	}
	if c2.Body() > c1.Body()*0.4 {
		return false
	}
	if !c3.IsBullish() || c3.Range() == 0 || c3.Body() < c3.Range()*0.6 {
		return false
	}
	return c3.Close >= (c1.Open+c1.Close)/2
}

// isEveningStar is the bearish mirror of the morning star
func (d *Detector) isEveningStar(c1, c2, c3 market.Candle) bool {
	if !c1.IsBullish() || c1.Range() == 0 || c1.Body() < c1.Range()*0.6 {
		return false
	}
	if c2.Body() > c1.Body()*0.4 {
		return false
	}
	if c3.IsBullish() || c3.Range() == 0 || c3.Body() < c3.Range()*0.6 {
		return false
	}
	return c3.Close <= (c1.Open+c1.Close)/2
}

// isThreeWhiteSoldiers checks three consecutive solid bullish candles
// with rising closes
func (d *Detector) isThreeWhiteSoldiers(c1, c2, c3 market.Candle) bool {
	for _, c := range []market.Candle{c1, c2, c3} {
		if !c.IsBullish() || c.Range() == 0 || c.Body() < c.Range()*0.5 {
			return false
		}
	}
	return c2.Close > c1.Close && c3.Close > c2.Close
}

// isThreeBlackCrows checks three consecutive solid bearish candles with
// falling closes
func (d *Detector) isThreeBlackCrows(c1, c2, c3 market.Candle) bool {
	for _, c := range []market.Candle{c1, c2, c3} {
		if c.IsBullish() || c.Range() == 0 || c.Body() < c.Range()*0.5 {
			return false
		}
	}
	return c2.Close < c1.Close && c3.Close < c2.Close
}

// isBullishAbandonedBaby checks for a doji gapping below both neighbors
// after a bearish candle and before a bullish one
func (d *Detector) isBullishAbandonedBaby(c1, c2, c3 market.Candle) bool {
	if c1.IsBullish() || !c3.IsBullish() || !d.isDoji(c2) {
		return false
	}
	return c2.High < c1.Low && c2.High < c3.Low
}

// isBearishAbandonedBaby checks for a doji gapping above both neighbors
// after a bullish candle and before a bearish one
func (d *Detector) isBearishAbandonedBaby(c1, c2, c3 market.Candle) bool {
	if !c1.IsBullish() || c3.IsBullish() || !d.isDoji(c2) {
		return false
	}
	return c2.Low > c1.High && c2.Low > c3.High
}

package news

import (
	"testing"

	"quant-engine/internal/market"
)

func TestScoreHeadlineBullish(t *testing.T) {
	s := ScoreHeadline("Bitcoin surges to record high")
	if s.Score <= 0 || s.Label != LabelBullish {
		t.Errorf("two strong bullish phrases should score bullish, got %+v", s)
	}
}

func TestScoreHeadlineBearish(t *testing.T) {
	s := ScoreHeadline("Exchange hack triggers sell-off")
	if s.Score >= 0 || s.Label != LabelBearish {
		t.Errorf("hack plus sell-off should score bearish, got %+v", s)
	}
}

func TestScoreHeadlineNegation(t *testing.T) {
	s := ScoreHeadline("No breakout for bitcoin")
	if s.Score >= 0 {
		t.Errorf("negated bullish phrase should flip negative, got %+v", s)
	}
}

func TestScoreHeadlineQuestionDamp(t *testing.T) {
	plain := ScoreHeadline("A bitcoin rally is here")
	question := ScoreHeadline("Is a bitcoin rally coming?")
	if question.Score >= plain.Score {
		t.Errorf("trailing question mark should dampen the score: %v vs %v", question.Score, plain.Score)
	}
	if question.Label != LabelNeutral {
		t.Errorf("dampened single phrase should fall under the label threshold, got %s", question.Label)
	}
}

func TestScoreHeadlineNeutral(t *testing.T) {
	s := ScoreHeadline("Bitcoin trades sideways ahead of the weekend")
	if s.Score != 0 || s.Label != LabelNeutral {
		t.Errorf("headline without polarity phrases should be neutral, got %+v", s)
	}

	if got := ScoreHeadline(""); got.Label != LabelNeutral {
		t.Errorf("empty headline should be neutral, got %+v", got)
	}
}

func TestAggregateScore(t *testing.T) {
	if got := AggregateScore(nil, 15); got.Label != LabelNeutral {
		t.Errorf("no headlines should aggregate to neutral, got %+v", got)
	}

	agg := AggregateScore([]string{
		"Bitcoin surges to record high",
		"Exchange hack triggers sell-off",
		"Bitcoin trades sideways ahead of the weekend",
	}, 15)
	if agg.Label != LabelBullish && agg.Label != LabelNeutral && agg.Label != LabelBearish {
		t.Errorf("aggregate must carry a label, got %+v", agg)
	}
	if agg.Score < -100 || agg.Score > 100 {
		t.Errorf("aggregate score must stay in -100..100, got %v", agg.Score)
	}
}

func TestClassify(t *testing.T) {
	s := Classify("BTC", []string{"Bitcoin surges to record high", "ETF approval sparks rally"})
	if s.Signal != market.Buy {
		t.Errorf("strongly bullish headlines should map to BUY, got %+v", s)
	}
	if s.Headlines != 2 {
		t.Errorf("expected 2 headlines counted, got %d", s.Headlines)
	}

	neutral := Classify("BTC", nil)
	if neutral.Signal != market.Hold {
		t.Errorf("no headlines should map to HOLD, got %+v", neutral)
	}
}

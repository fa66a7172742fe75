package rating

import (
	"math"
	"testing"
)

func TestUpdateMatchWinnerGains(t *testing.T) {
	g := New(nil)
	a, b := g.NewContender(), g.NewContender()

	g.UpdateMatch(a, b, Win)

	if a.Rating <= defaultInitialRating {
		t.Errorf("winner rating = %f, want above %f", a.Rating, defaultInitialRating)
	}
	if b.Rating >= defaultInitialRating {
		t.Errorf("loser rating = %f, want below %f", b.Rating, defaultInitialRating)
	}
	if math.Abs((a.Rating-defaultInitialRating)+(b.Rating-defaultInitialRating)) > 1e-6 {
		t.Errorf("symmetric match not zero-sum: %f vs %f", a.Rating, b.Rating)
	}
	if a.RD >= defaultInitialRD || b.RD >= defaultInitialRD {
		t.Errorf("deviation did not shrink: %f, %f", a.RD, b.RD)
	}
}

func TestUpdateMatchDrawBetweenEquals(t *testing.T) {
	g := New(nil)
	a, b := g.NewContender(), g.NewContender()

	g.UpdateMatch(a, b, Draw)

	if math.Abs(a.Rating-defaultInitialRating) > 1e-9 || math.Abs(b.Rating-defaultInitialRating) > 1e-9 {
		t.Errorf("draw moved ratings: %f, %f", a.Rating, b.Rating)
	}
}

func TestUpdateMatchClampsOutcome(t *testing.T) {
	g := New(nil)
	a, b := g.NewContender(), g.NewContender()
	c, d := g.NewContender(), g.NewContender()

	g.UpdateMatch(a, b, 7)
	g.UpdateMatch(c, d, Win)

	if a.Rating != c.Rating || b.Rating != d.Rating {
		t.Errorf("outcome 7 not clamped to a win: %f vs %f", a.Rating, c.Rating)
	}
}

func TestUpdateMatchUpsetMovesMore(t *testing.T) {
	g := New(nil)
	strong := &Contender{Rating: 1800, RD: 100, Volatility: defaultInitialVol}
	weak := &Contender{Rating: 1400, RD: 100, Volatility: defaultInitialVol}
	expectedStrong, expectedWeak := *strong, *weak

	g.UpdateMatch(&expectedStrong, &expectedWeak, Win)
	g.UpdateMatch(strong, weak, Loss)

	gainExpected := expectedStrong.Rating - 1800
	lossUpset := 1800 - strong.Rating
	if lossUpset <= gainExpected {
		t.Errorf("upset loss %f should exceed expected win gain %f", lossUpset, gainExpected)
	}
}

func TestVolatilityStaysFinite(t *testing.T) {
	g := New(nil)
	a, b := g.NewContender(), g.NewContender()
	for i := 0; i < 50; i++ {
		g.UpdateMatch(a, b, Win)
	}
	for _, c := range []*Contender{a, b} {
		if math.IsNaN(c.Volatility) || c.Volatility <= 0 || math.IsNaN(c.Rating) || c.RD <= 0 {
			t.Fatalf("contender degenerated: %+v", *c)
		}
	}
	if a.Rating <= b.Rating {
		t.Errorf("repeated winner rated %f below loser %f", a.Rating, b.Rating)
	}
}

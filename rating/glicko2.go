// Package rating implements Glicko-2 ratings for agents that meet in judged
// discourses.
package rating

import (
	"math"
)

const (
	scale                = 173.7178
	defaultInitialRating = 1500.0
	defaultInitialRD     = 350.0
	defaultInitialVol    = 0.06
	defaultTau           = 0.5
	convergenceTolerance = 0.000001
	maxIterations        = 100
)

// Match outcomes from the first contender's point of view.
const (
	Loss = 0.0
	Draw = 0.5
	Win  = 1.0
)

// Contender is a rated participant.
type Contender struct {
	Rating     float64 `bson:"rating" json:"rating"`
	RD         float64 `bson:"rd" json:"rd"`
	Volatility float64 `bson:"volatility" json:"volatility"`
}

// Config holds system parameters
type Config struct {
	InitialRating float64 `json:"initial_rating"`
	InitialRD     float64 `json:"initial_rd"`
	InitialVol    float64 `json:"initial_vol"`
	Tau           float64 `json:"tau"`
}

// DefaultConfig returns recommended default parameters
func DefaultConfig() *Config {
	return &Config{
		InitialRating: defaultInitialRating,
		InitialRD:     defaultInitialRD,
		InitialVol:    defaultInitialVol,
		Tau:           defaultTau,
	}
}

// Glicko2 implements the rating system
type Glicko2 struct {
	Config *Config
}

// New creates a Glicko-2 rating system with configuration
func New(config *Config) *Glicko2 {
	if config == nil {
		config = DefaultConfig()
	}
	return &Glicko2{Config: config}
}

// NewContender returns an unrated contender.
func (g *Glicko2) NewContender() *Contender {
	return &Contender{
		Rating:     g.Config.InitialRating,
		RD:         g.Config.InitialRD,
		Volatility: g.Config.InitialVol,
	}
}

// UpdateMatch updates both contenders after one match.
// outcome: Win = a wins, Loss = b wins, Draw = draw
func (g *Glicko2) UpdateMatch(a, b *Contender, outcome float64) {
	outcome = math.Max(0, math.Min(1, outcome))
	beforeA, beforeB := *a, *b

	muA, phiA := g.scaleToGlicko2(a.Rating, a.RD)
	muB, phiB := g.scaleToGlicko2(b.Rating, b.RD)

	newMuA, newPhiA, newSigmaA := g.calculateUpdate(muA, phiA, a.Volatility, muB, phiB, outcome)
	newMuB, newPhiB, newSigmaB := g.calculateUpdate(muB, phiB, b.Volatility, muA, phiA, 1-outcome)

	a.Rating, a.RD = g.scaleFromGlicko2(newMuA, newPhiA)
	b.Rating, b.RD = g.scaleFromGlicko2(newMuB, newPhiB)
	a.Volatility = newSigmaA
	b.Volatility = newSigmaB

	g.sanitize(a, beforeA)
	g.sanitize(b, beforeB)
}

// sanitize restores the previous values when the update produced NaN, Inf
// or non-positive deviation.
func (g *Glicko2) sanitize(c *Contender, before Contender) {
	if math.IsNaN(c.Rating) || math.IsInf(c.Rating, 0) {
		c.Rating = before.Rating
	}
	if math.IsNaN(c.RD) || math.IsInf(c.RD, 0) || c.RD <= 0 {
		c.RD = before.RD
	}
	if math.IsNaN(c.Volatility) || math.IsInf(c.Volatility, 0) || c.Volatility <= 0 {
		c.Volatility = before.Volatility
	}
}

// scaleToGlicko2 converts to internal Glicko-2 scale
func (g *Glicko2) scaleToGlicko2(rating, rd float64) (float64, float64) {
	return (rating - g.Config.InitialRating) / scale, rd / scale
}

// scaleFromGlicko2 converts from internal scale to original
func (g *Glicko2) scaleFromGlicko2(mu, phi float64) (float64, float64) {
	return mu*scale + g.Config.InitialRating, phi * scale
}

// calculateUpdate performs one rating period with a single opponent.
func (g *Glicko2) calculateUpdate(mu, phi, sigma, oppMu, oppPhi, outcome float64) (newMu, newPhi, newSigma float64) {
	gVal := gFunc(oppPhi)
	e := eFunc(mu, oppMu, oppPhi)

	v := 1.0 / (gVal * gVal * e * (1 - e))
	delta := v * gVal * (outcome - e)

	newSigma = g.updateVolatility(sigma, phi, v, delta)

	phiStar := math.Sqrt(phi*phi + newSigma*newSigma)
	newPhi = 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	newMu = mu + newPhi*newPhi*gVal*(outcome-e)
	return newMu, newPhi, newSigma
}

// updateVolatility solves for the new volatility with the Illinois variant of
// regula falsi.
func (g *Glicko2) updateVolatility(sigma, phi, v, delta float64) float64 {
	a := math.Log(sigma * sigma)
	deltaSq := delta * delta
	phiSq := phi * phi
	tauSq := g.Config.Tau * g.Config.Tau

	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (deltaSq - phiSq - v - ex)
		denom := 2 * math.Pow(phiSq+v+ex, 2)
		return num/denom - (x-a)/tauSq
	}

	lo := a
	var hi float64
	if deltaSq > phiSq+v {
		hi = math.Log(deltaSq - phiSq - v)
	} else {
		k := 1.0
		for f(a-k*g.Config.Tau) < 0 && k < maxIterations {
			k++
		}
		hi = a - k*g.Config.Tau
	}

	fLo, fHi := f(lo), f(hi)
	for i := 0; i < maxIterations && math.Abs(hi-lo) > convergenceTolerance; i++ {
		c := lo + (lo-hi)*fLo/(fHi-fLo)
		fC := f(c)
		if fC*fHi <= 0 {
			lo, fLo = hi, fHi
		} else {
			fLo /= 2
		}
		hi, fHi = c, fC
	}
	return math.Exp(lo / 2)
}

// gFunc calculates the Glicko-2 g(phi) function
func gFunc(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/(math.Pi*math.Pi))
}

// eFunc calculates expected outcome
func eFunc(mu, oppMu, oppPhi float64) float64 {
	return 1.0 / (1.0 + math.Exp(-gFunc(oppPhi)*(mu-oppMu)))
}

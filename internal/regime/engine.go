package regime

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ValidationError reports a snapshot field the engine cannot work with.
// Analysis is refused outright rather than scored on garbage inputs.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("snapshot field %s is missing or out of range", e.Field)
}

// Engine scores snapshots against the regime catalog. The catalog is
// read-only; every Analyze call works on copies, so the engine is safe for
// concurrent use.
type Engine struct {
	Catalog *Catalog
	Logger  *zap.Logger

	// Rand is factored for deterministic tests. Nil falls back to the
	// package-level source. rand.Rand is not goroutine-safe, so draws are
	// serialized through mu.
	Rand *rand.Rand

	mu sync.Mutex
}

// New builds an engine over the default catalog with a time-seeded source.
func New(logger *zap.Logger, seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		Catalog: DefaultCatalog(),
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

func (e *Engine) random() float64 {
	if e == nil || e.Rand == nil {
		return rand.Float64()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Rand.Float64()
}

// Regimes returns the catalog's regime definitions in catalog order.
func (e *Engine) Regimes() []Regime {
	out := make([]Regime, len(e.Catalog.Regimes))
	copy(out, e.Catalog.Regimes)
	return out
}

// Strategies returns every strategy playbook in catalog order.
func (e *Engine) Strategies() []Strategy {
	out := make([]Strategy, len(e.Catalog.Strategies))
	copy(out, e.Catalog.Strategies)
	return out
}

// Strategy looks up one playbook by id, nil when unknown.
func (e *Engine) Strategy(id string) *Strategy {
	for i := range e.Catalog.Strategies {
		if e.Catalog.Strategies[i].ID == id {
			s := e.Catalog.Strategies[i]
			return &s
		}
	}
	return nil
}

// StrategiesForRegime returns the playbooks tied to one regime, in catalog
// order. Unknown regime ids yield an empty slice, not an error.
func (e *Engine) StrategiesForRegime(regimeID string) []Strategy {
	var out []Strategy
	for _, s := range e.Catalog.Strategies {
		if s.RegimeID == regimeID {
			out = append(out, s)
		}
	}
	return out
}

// Analyze scores the snapshot against every regime and assembles the full
// read-out: winning regime, ranked alternatives, recommended playbooks, and
// risk warnings. The input snapshot is the only market state consulted.
func (e *Engine) Analyze(snap Snapshot) (Analysis, error) {
	if err := validateSnapshot(snap); err != nil {
		return Analysis{}, err
	}

	scored := make([]Regime, len(e.Catalog.Regimes))
	for i, def := range e.Catalog.Regimes {
		r, err := e.score(def, snap)
		if err != nil {
			return Analysis{}, err
		}
		scored[i] = r
	}

	// Strictly-greater comparison keeps the earliest catalog entry on ties.
	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].Probability > scored[best].Probability {
			best = i
		}
	}
	current := scored[best]

	analysis := Analysis{
		CurrentRegime: current,
		Confidence:    current.Probability,
		TimeInRegime:  e.timeInRegime(current.Volatility),
		NextRegimes:   nextRegimes(scored, best),
		Strategies:    e.StrategiesForRegime(current.ID),
		Warnings:      warnings(current, snap),
	}

	if e.Logger != nil {
		e.Logger.Info("regime analysis",
			zap.String("regime", current.ID),
			zap.Float64("probability", current.Probability),
			zap.Int("warnings", len(analysis.Warnings)),
		)
	}
	return analysis, nil
}

// score evaluates one regime definition against the snapshot on a copy.
// Probability is the matched weight share, clamped to [0, 1].
func (e *Engine) score(def Regime, snap Snapshot) (Regime, error) {
	r := def
	r.Indicators = make([]Indicator, len(def.Indicators))
	copy(r.Indicators, def.Indicators)

	var matched, total float64
	for i := range r.Indicators {
		ind := &r.Indicators[i]
		value, sig, err := compute(ind.Kind, ind.Threshold, r.ID, snap)
		if err != nil {
			return Regime{}, err
		}
		ind.Value = value
		ind.Signal = sig
		total += ind.Weight
		if matches(sig, r.Trend) {
			matched += ind.Weight
		}
	}
	if total > 0 {
		r.Probability = round4(math.Min(1, math.Max(0, matched/total)))
	}
	return r, nil
}

// timeInRegime estimates days spent in the regime so far. The base draw is
// uniform on [10, 40) days, halved for high-volatility regimes and stretched
// for low-volatility ones.
func (e *Engine) timeInRegime(vol Volatility) float64 {
	base := 10 + e.random()*30
	switch vol {
	case VolatilityHigh:
		base *= 0.5
	case VolatilityLow:
		base *= 1.5
	}
	return math.Round(base)
}

func nextRegimes(scored []Regime, best int) []Score {
	var rest []Score
	for i, r := range scored {
		if i == best {
			continue
		}
		rest = append(rest, Score{RegimeID: r.ID, Name: r.Name, Probability: r.Probability})
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Probability > rest[j].Probability })
	if len(rest) > 2 {
		rest = rest[:2]
	}
	return rest
}

// warnings assembles the risk notes in a fixed order so responses are stable.
func warnings(current Regime, snap Snapshot) []string {
	var out []string
	if current.Volatility == VolatilityHigh {
		out = append(out, "High volatility detected - use smaller position sizes")
	}
	if snap.VIX > 30 {
		out = append(out, "Extreme fear in market - consider protective strategies")
	}
	if snap.RSI > 80 {
		out = append(out, "Market may be overbought - consider taking profits")
	} else if snap.RSI < 20 {
		out = append(out, "Market may be oversold - potential buying opportunity")
	}
	// Volume arrives as a raw share count but is compared against a ratio
	// threshold. The mismatch ships as-is: the pricing of the warning has
	// always been "any real volume during a downtrend".
	if current.ID == RegimeBearTrending && snap.Volume > 1.5 {
		out = append(out, "High volume selling - trend may accelerate")
	}
	return out
}

func validateSnapshot(snap Snapshot) error {
	switch {
	case !(snap.Price > 0):
		return &ValidationError{Field: "price"}
	case !(snap.MovingAverages.SMA200 > 0):
		return &ValidationError{Field: "moving_averages.sma200"}
	case snap.RSI < 0 || snap.RSI > 100:
		return &ValidationError{Field: "rsi"}
	case !(snap.VIX > 0):
		return &ValidationError{Field: "vix"}
	case snap.Volume < 0:
		return &ValidationError{Field: "volume"}
	case snap.Timestamp.IsZero():
		return &ValidationError{Field: "timestamp"}
	}
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

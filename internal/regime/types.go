package regime

import "time"

type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

type Timeframe string

const (
	TimeframeShort  Timeframe = "short"
	TimeframeMedium Timeframe = "medium"
	TimeframeLong   Timeframe = "long"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BollingerBands carries the three band levels from the most recent bar.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// MovingAverages carries the simple moving averages the indicators read.
type MovingAverages struct {
	SMA20  float64 `json:"sma20"`
	SMA50  float64 `json:"sma50"`
	SMA200 float64 `json:"sma200"`
}

// Snapshot is one observation of the market, supplied by the caller.
// It is the only input to Analyze; the engine keeps no market state.
type Snapshot struct {
	Price          float64        `json:"price"`
	Volume         float64        `json:"volume"`
	Volatility     float64        `json:"volatility"`
	RSI            float64        `json:"rsi"`
	MACD           float64        `json:"macd"`
	BollingerBands BollingerBands `json:"bollinger_bands"`
	MovingAverages MovingAverages `json:"moving_averages"`
	VIX            float64        `json:"vix"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Indicator is one weighted signal inside a regime definition. Value and
// Signal are computed per analysis call on a working copy; Threshold and
// Weight come from the catalog.
type Indicator struct {
	Kind      IndicatorKind `json:"kind"`
	Name      string        `json:"name"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	Signal    Signal        `json:"signal"`
	Weight    float64       `json:"weight"`
}

// Regime is a named characterization of overall market behavior.
// Probability is recomputed on every analysis call.
type Regime struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Characteristics []string    `json:"characteristics"`
	Indicators      []Indicator `json:"indicators"`
	Volatility      Volatility  `json:"volatility"`
	Trend           Trend       `json:"trend"`
	Duration        string      `json:"duration"`
	Probability     float64     `json:"probability"`
}

// Instruction is one ordered step of a strategy playbook.
type Instruction struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

// Example is a worked trade illustrating a strategy.
type Example struct {
	Scenario string `json:"scenario"`
	Setup    string `json:"setup"`
	Outcome  string `json:"outcome"`
}

// Strategy is an options playbook tied to one regime.
type Strategy struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	RegimeID       string        `json:"regime_id"`
	Timeframe      Timeframe     `json:"timeframe"`
	RiskLevel      RiskLevel     `json:"risk_level"`
	ExpectedReturn string        `json:"expected_return"`
	MaxDrawdown    string        `json:"max_drawdown"`
	WinRate        float64       `json:"win_rate"`
	Instructions   []Instruction `json:"instructions"`
	Examples       []Example     `json:"examples"`
	Risks          []string      `json:"risks"`
	Benefits       []string      `json:"benefits"`
}

// Score is a regime's probability in ranking context.
type Score struct {
	RegimeID    string  `json:"regime_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// Analysis is the transient result of one Analyze call.
type Analysis struct {
	CurrentRegime Regime     `json:"current_regime"`
	Confidence    float64    `json:"confidence"`
	TimeInRegime  float64    `json:"time_in_regime_days"`
	NextRegimes   []Score    `json:"next_regime_probabilities"`
	Strategies    []Strategy `json:"recommended_strategies"`
	Warnings      []string   `json:"warnings"`
}

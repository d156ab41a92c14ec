package regime

import "fmt"

// IndicatorKind selects the computation rule for an indicator. Rules are
// dispatched on the kind, never on display names.
type IndicatorKind string

const (
	KindPriceVsSMA200 IndicatorKind = "price_vs_sma200"
	KindRSI           IndicatorKind = "rsi"
	KindMACD          IndicatorKind = "macd"
	KindVIX           IndicatorKind = "vix"
	KindDailyRange    IndicatorKind = "daily_range"
	KindVolume        IndicatorKind = "volume"
)

// compute fills in the indicator's value and signal for one snapshot. RSI and
// VIX read differently depending on which regime the indicator belongs to, so
// the owning regime's id is part of the dispatch.
func compute(kind IndicatorKind, threshold float64, regimeID string, snap Snapshot) (float64, Signal, error) {
	switch kind {
	case KindPriceVsSMA200:
		value := snap.Price / snap.MovingAverages.SMA200
		if value > threshold {
			return value, SignalBullish, nil
		}
		return value, SignalBearish, nil

	case KindRSI:
		value := snap.RSI
		switch regimeID {
		case RegimeBullTrending:
			if value > threshold {
				return value, SignalBullish, nil
			}
			return value, SignalBearish, nil
		case RegimeBearTrending:
			if value < threshold {
				return value, SignalBearish, nil
			}
			return value, SignalBullish, nil
		default:
			if value > 30 && value < 70 {
				return value, SignalNeutral, nil
			}
			return value, SignalBearish, nil
		}

	case KindMACD:
		if snap.MACD > threshold {
			return snap.MACD, SignalBullish, nil
		}
		return snap.MACD, SignalBearish, nil

	case KindVIX:
		value := snap.VIX
		switch regimeID {
		case RegimeBullTrending, RegimeLowVolatility:
			if value < threshold {
				return value, SignalBullish, nil
			}
			return value, SignalBearish, nil
		case RegimeBearTrending, RegimeHighVolatility:
			if value > threshold {
				return value, SignalBearish, nil
			}
			return value, SignalBullish, nil
		default:
			return value, SignalNeutral, nil
		}

	case KindDailyRange:
		// Intraday range is not part of the snapshot yet; the annualized
		// volatility figure stands in and the signal stays neutral.
		return snap.Volatility, SignalNeutral, nil

	case KindVolume:
		return snap.Volume, SignalNeutral, nil

	default:
		return 0, SignalNeutral, fmt.Errorf("unknown indicator kind %q", kind)
	}
}

// matches reports whether an indicator signal agrees with the regime's trend.
func matches(sig Signal, trend Trend) bool {
	switch trend {
	case TrendBullish:
		return sig == SignalBullish
	case TrendBearish:
		return sig == SignalBearish
	default:
		return sig == SignalNeutral
	}
}

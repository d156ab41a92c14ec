package regime

const (
	RegimeBullTrending   = "bull_trending"
	RegimeBearTrending   = "bear_trending"
	RegimeSidewaysRange  = "sideways_range"
	RegimeHighVolatility = "high_volatility"
	RegimeLowVolatility  = "low_volatility"
)

// Catalog holds the regime definitions and strategy playbooks. The default
// catalog is compiled in; Analyze never mutates it, working on copies.
type Catalog struct {
	Regimes    []Regime
	Strategies []Strategy
}

// DefaultCatalog returns the built-in regimes and strategies. Order matters:
// when two regimes score the same probability, the earlier one wins.
func DefaultCatalog() *Catalog {
	return &Catalog{Regimes: defaultRegimes(), Strategies: defaultStrategies()}
}

func defaultRegimes() []Regime {
	return []Regime{
		{
			ID:          RegimeBullTrending,
			Name:        "Bull Trending",
			Description: "Sustained uptrend with healthy momentum and contained volatility",
			Characteristics: []string{
				"Price above long-term moving averages",
				"Higher highs and higher lows",
				"VIX below its long-run median",
			},
			Indicators: []Indicator{
				{Kind: KindPriceVsSMA200, Name: "Price vs 200-day SMA", Threshold: 1.0, Weight: 0.3},
				{Kind: KindRSI, Name: "RSI (14)", Threshold: 50, Weight: 0.2},
				{Kind: KindMACD, Name: "MACD", Threshold: 0, Weight: 0.25},
				{Kind: KindVIX, Name: "VIX", Threshold: 20, Weight: 0.25},
			},
			Volatility: VolatilityMedium,
			Trend:      TrendBullish,
			Duration:   "3-12 months",
		},
		{
			ID:          RegimeBearTrending,
			Name:        "Bear Trending",
			Description: "Sustained downtrend with elevated fear and rising volatility",
			Characteristics: []string{
				"Price below long-term moving averages",
				"Lower highs and lower lows",
				"VIX elevated and rising",
			},
			Indicators: []Indicator{
				{Kind: KindPriceVsSMA200, Name: "Price vs 200-day SMA", Threshold: 1.0, Weight: 0.3},
				{Kind: KindRSI, Name: "RSI (14)", Threshold: 45, Weight: 0.2},
				{Kind: KindMACD, Name: "MACD", Threshold: 0, Weight: 0.25},
				{Kind: KindVIX, Name: "VIX", Threshold: 25, Weight: 0.25},
			},
			Volatility: VolatilityHigh,
			Trend:      TrendBearish,
			Duration:   "2-9 months",
		},
		{
			ID:          RegimeSidewaysRange,
			Name:        "Sideways Range",
			Description: "Price oscillating inside a band with no directional conviction",
			Characteristics: []string{
				"Price chopping around flat moving averages",
				"RSI cycling between 30 and 70",
				"Narrow daily ranges",
			},
			Indicators: []Indicator{
				{Kind: KindRSI, Name: "RSI (14)", Threshold: 50, Weight: 0.3},
				{Kind: KindDailyRange, Name: "Average daily range", Threshold: 1.5, Weight: 0.35},
				{Kind: KindVolume, Name: "Relative volume", Threshold: 1.0, Weight: 0.35},
			},
			Volatility: VolatilityLow,
			Trend:      TrendSideways,
			Duration:   "1-6 months",
		},
		{
			ID:          RegimeHighVolatility,
			Name:        "High Volatility",
			Description: "Large swings in both directions, typically around macro shocks",
			Characteristics: []string{
				"VIX above 30",
				"Gap opens and wide intraday ranges",
				"Correlations spiking across sectors",
			},
			Indicators: []Indicator{
				{Kind: KindVIX, Name: "VIX", Threshold: 30, Weight: 0.5},
				{Kind: KindRSI, Name: "RSI (14)", Threshold: 50, Weight: 0.2},
				{Kind: KindDailyRange, Name: "Average daily range", Threshold: 2.5, Weight: 0.3},
			},
			Volatility: VolatilityHigh,
			Trend:      TrendBearish,
			Duration:   "2-8 weeks",
		},
		{
			ID:          RegimeLowVolatility,
			Name:        "Low Volatility",
			Description: "Quiet grind with compressed ranges and complacent positioning",
			Characteristics: []string{
				"VIX in the low teens",
				"Tight Bollinger Bands",
				"Slow upward drift",
			},
			Indicators: []Indicator{
				{Kind: KindVIX, Name: "VIX", Threshold: 15, Weight: 0.4},
				{Kind: KindPriceVsSMA200, Name: "Price vs 200-day SMA", Threshold: 1.0, Weight: 0.2},
				{Kind: KindMACD, Name: "MACD", Threshold: 0, Weight: 0.2},
				{Kind: KindRSI, Name: "RSI (14)", Threshold: 50, Weight: 0.2},
			},
			Volatility: VolatilityLow,
			Trend:      TrendBullish,
			Duration:   "2-10 months",
		},
	}
}

func defaultStrategies() []Strategy {
	return []Strategy{
		{
			ID:             "bull-call-spread",
			Name:           "Bull Call Spread",
			Description:    "Buy a call near the money, sell a higher-strike call to cap cost",
			RegimeID:       RegimeBullTrending,
			Timeframe:      TimeframeMedium,
			RiskLevel:      RiskMedium,
			ExpectedReturn: "15-40% on risk",
			MaxDrawdown:    "100% of debit paid",
			WinRate:        58,
			Instructions: []Instruction{
				{Step: 1, Action: "Pick the underlying", Detail: "Choose a liquid name trading above its 200-day SMA with rising momentum."},
				{Step: 2, Action: "Buy the long call", Detail: "Buy a call at or slightly above the money, 30-60 days to expiration."},
				{Step: 3, Action: "Sell the short call", Detail: "Sell a call one or two strikes higher in the same expiration to reduce the debit."},
				{Step: 4, Action: "Manage the trade", Detail: "Take profits at 50-75% of max value or exit if the trend breaks below the 50-day SMA."},
			},
			Examples: []Example{
				{
					Scenario: "SPY at 580 in a steady uptrend",
					Setup:    "Buy the 580 call for 8.00, sell the 590 call for 4.00, net debit 4.00",
					Outcome:  "SPY closes above 590 at expiration, spread worth 10.00, profit 6.00 per spread",
				},
			},
			Risks: []string{
				"Full debit lost if price finishes below the long strike",
				"Upside capped at the short strike",
			},
			Benefits: []string{
				"Defined maximum loss",
				"Cheaper than an outright call",
			},
		},
		{
			ID:             "cash-secured-put",
			Name:           "Cash-Secured Put",
			Description:    "Sell a put below the market, fully backed by cash, to buy dips or collect premium",
			RegimeID:       RegimeBullTrending,
			Timeframe:      TimeframeShort,
			RiskLevel:      RiskMedium,
			ExpectedReturn: "1-3% per month on collateral",
			MaxDrawdown:    "Strike minus premium if the underlying goes to zero",
			WinRate:        72,
			Instructions: []Instruction{
				{Step: 1, Action: "Reserve collateral", Detail: "Set aside cash equal to 100 shares at the strike you intend to sell."},
				{Step: 2, Action: "Sell the put", Detail: "Sell a put 3-7% below the market, 30-45 days out, at a strike where you would happily own shares."},
				{Step: 3, Action: "Manage or roll", Detail: "Buy back at 50% of premium collected, or roll down and out if the strike is breached."},
			},
			Examples: []Example{
				{
					Scenario: "Quality stock at 105 after a pullback in a bull market",
					Setup:    "Sell the 100 put for 2.50 with 35 days to expiration",
					Outcome:  "Stock holds above 100, put expires worthless, keep 2.50 per share",
				},
			},
			Risks: []string{
				"Assignment during a sharp selloff means buying above market",
				"Premium does not cover a large decline",
			},
			Benefits: []string{
				"Paid to wait for a better entry",
				"High win rate in rising markets",
			},
		},
		{
			ID:             "bear-put-spread",
			Name:           "Bear Put Spread",
			Description:    "Buy a put near the money, sell a lower-strike put to finance it",
			RegimeID:       RegimeBearTrending,
			Timeframe:      TimeframeMedium,
			RiskLevel:      RiskMedium,
			ExpectedReturn: "15-40% on risk",
			MaxDrawdown:    "100% of debit paid",
			WinRate:        55,
			Instructions: []Instruction{
				{Step: 1, Action: "Confirm the downtrend", Detail: "Underlying below its 200-day SMA with MACD negative."},
				{Step: 2, Action: "Buy the long put", Detail: "Buy a put at or slightly below the money, 30-60 days out."},
				{Step: 3, Action: "Sell the short put", Detail: "Sell a put one or two strikes lower in the same expiration."},
				{Step: 4, Action: "Manage the trade", Detail: "Take profits into sharp down moves; bear rallies reclaim value quickly."},
			},
			Examples: []Example{
				{
					Scenario: "Index at 480 breaking down through support",
					Setup:    "Buy the 480 put for 9.00, sell the 470 put for 5.00, net debit 4.00",
					Outcome:  "Index closes below 470, spread worth 10.00, profit 6.00 per spread",
				},
			},
			Risks: []string{
				"Bear-market rallies are violent and can wipe out the position",
				"Debit decays if price stalls",
			},
			Benefits: []string{
				"Defined risk way to express a bearish view",
				"Short put offsets elevated put premiums",
			},
		},
		{
			ID:             "protective-put",
			Name:           "Protective Put",
			Description:    "Hold the shares, buy a put underneath as portfolio insurance",
			RegimeID:       RegimeBearTrending,
			Timeframe:      TimeframeMedium,
			RiskLevel:      RiskLow,
			ExpectedReturn: "Limits losses rather than generating return",
			MaxDrawdown:    "Distance to the strike plus the premium paid",
			WinRate:        0,
			Instructions: []Instruction{
				{Step: 1, Action: "Size the hedge", Detail: "One put per 100 shares you want to protect."},
				{Step: 2, Action: "Choose the strike", Detail: "5-10% below the market balances cost against protection."},
				{Step: 3, Action: "Pick the expiration", Detail: "60-90 days out; roll before the last month of decay."},
			},
			Examples: []Example{
				{
					Scenario: "Long 100 shares at 150 into a deteriorating tape",
					Setup:    "Buy the 140 put for 3.50, 75 days to expiration",
					Outcome:  "Stock drops to 120; the put caps the loss near 13.50 per share instead of 30",
				},
			},
			Risks: []string{
				"Premium is a recurring drag if the decline never comes",
				"Protection below the strike only",
			},
			Benefits: []string{
				"Hard floor under the position",
				"Keeps upside exposure intact",
			},
		},
		{
			ID:             "iron-condor",
			Name:           "Iron Condor",
			Description:    "Sell an out-of-the-money put spread and call spread around the range",
			RegimeID:       RegimeSidewaysRange,
			Timeframe:      TimeframeShort,
			RiskLevel:      RiskMedium,
			ExpectedReturn: "5-15% on risk per cycle",
			MaxDrawdown:    "Spread width minus credit received",
			WinRate:        68,
			Instructions: []Instruction{
				{Step: 1, Action: "Map the range", Detail: "Identify support and resistance that have held for several weeks."},
				{Step: 2, Action: "Sell the wings", Detail: "Sell a put spread below support and a call spread above resistance, 30-45 days out."},
				{Step: 3, Action: "Manage early", Detail: "Close at 50% of the credit; adjust the threatened side if price tests a short strike."},
			},
			Examples: []Example{
				{
					Scenario: "Index pinned between 470 and 500 for six weeks",
					Setup:    "Sell the 465/460 put spread and the 505/510 call spread for a combined 1.60 credit",
					Outcome:  "Index stays inside the range, both spreads expire worthless, keep 1.60",
				},
			},
			Risks: []string{
				"A range break threatens one side for the full width",
				"Two commissions-heavy spreads to manage",
			},
			Benefits: []string{
				"Profits from time decay without picking a direction",
				"Defined risk on both sides",
			},
		},
		{
			ID:             "short-strangle",
			Name:           "Short Strangle",
			Description:    "Sell an out-of-the-money call and put to harvest premium in a quiet range",
			RegimeID:       RegimeSidewaysRange,
			Timeframe:      TimeframeShort,
			RiskLevel:      RiskHigh,
			ExpectedReturn: "10-20% on margin per cycle",
			MaxDrawdown:    "Unlimited beyond the strikes",
			WinRate:        75,
			Instructions: []Instruction{
				{Step: 1, Action: "Check the regime", Detail: "Only in established ranges with falling implied volatility."},
				{Step: 2, Action: "Sell both sides", Detail: "Sell a call and a put each around the 16-delta, 30-45 days out."},
				{Step: 3, Action: "Defend mechanically", Detail: "Close at 50% profit; roll the untested side toward the market if one strike is challenged."},
			},
			Examples: []Example{
				{
					Scenario: "ETF drifting around 100 with implied volatility bleeding lower",
					Setup:    "Sell the 108 call for 0.90 and the 92 put for 1.00, total credit 1.90",
					Outcome:  "Price closes at 101 at expiration, both legs expire worthless",
				},
			},
			Risks: []string{
				"Losses are open-ended on a breakout",
				"Margin expansion forces exits at the worst time",
			},
			Benefits: []string{
				"Highest premium capture of the range strategies",
				"Wide profit zone",
			},
		},
		{
			ID:             "long-straddle",
			Name:           "Long Straddle",
			Description:    "Buy the call and the put at the same strike to own the move, either way",
			RegimeID:       RegimeHighVolatility,
			Timeframe:      TimeframeShort,
			RiskLevel:      RiskHigh,
			ExpectedReturn: "50-200% on a large move",
			MaxDrawdown:    "100% of the combined debit",
			WinRate:        40,
			Instructions: []Instruction{
				{Step: 1, Action: "Find the catalyst", Detail: "Earnings, macro prints, or a coiling chart with implied volatility still reasonable."},
				{Step: 2, Action: "Buy both legs", Detail: "Buy the at-the-money call and put in the same expiration, 30+ days out."},
				{Step: 3, Action: "Exit with the move", Detail: "Sell into the expansion; do not hold through the volatility crush afterwards."},
			},
			Examples: []Example{
				{
					Scenario: "Stock at 200 ahead of a binary event",
					Setup:    "Buy the 200 call for 6.00 and the 200 put for 5.50, total debit 11.50",
					Outcome:  "Stock gaps to 225; the call alone is worth 25.00",
				},
			},
			Risks: []string{
				"Both legs decay daily while you wait",
				"Implied volatility collapse after the event can erase gains",
			},
			Benefits: []string{
				"Direction does not matter, only magnitude",
				"Loss capped at the debit",
			},
		},
		{
			ID:             "covered-call",
			Name:           "Covered Call",
			Description:    "Own the shares, sell calls against them to turn a quiet tape into income",
			RegimeID:       RegimeLowVolatility,
			Timeframe:      TimeframeShort,
			RiskLevel:      RiskLow,
			ExpectedReturn: "1-2% per month",
			MaxDrawdown:    "Share price minus premium collected",
			WinRate:        80,
			Instructions: []Instruction{
				{Step: 1, Action: "Hold the shares", Detail: "100 shares per contract, in a name you are content to sell at the strike."},
				{Step: 2, Action: "Sell the call", Detail: "Sell a call 3-5% above the market, 30-45 days out."},
				{Step: 3, Action: "Roll or release", Detail: "Roll up and out if the stock rallies through the strike; otherwise let it expire and repeat."},
			},
			Examples: []Example{
				{
					Scenario: "Blue chip drifting around 95 with low implied volatility",
					Setup:    "Sell the 100 call for 1.20 against 100 shares",
					Outcome:  "Stock ends the cycle at 97, keep the shares and the 1.20 premium",
				},
			},
			Risks: []string{
				"Upside surrendered above the strike",
				"Premium barely cushions a real decline",
			},
			Benefits: []string{
				"Steady income on existing holdings",
				"Lowers the effective cost basis every cycle",
			},
		},
		{
			ID:             "calendar-spread",
			Name:           "Calendar Spread",
			Description:    "Sell a near-dated option, buy a longer-dated one at the same strike",
			RegimeID:       RegimeLowVolatility,
			Timeframe:      TimeframeMedium,
			RiskLevel:      RiskMedium,
			ExpectedReturn: "10-30% on debit",
			MaxDrawdown:    "100% of the net debit",
			WinRate:        60,
			Instructions: []Instruction{
				{Step: 1, Action: "Pick the strike", Detail: "At the money where time decay differential is largest."},
				{Step: 2, Action: "Open the spread", Detail: "Sell the 30-day option, buy the 60-90 day option at the same strike."},
				{Step: 3, Action: "Manage at front expiry", Detail: "Close or roll the short leg as it decays; a volatility pickup helps the long leg."},
			},
			Examples: []Example{
				{
					Scenario: "Index calm at 500 with cheap longer-dated volatility",
					Setup:    "Sell the 30-day 500 call for 5.00, buy the 90-day 500 call for 9.50, debit 4.50",
					Outcome:  "Index sits near 500 at front expiry; spread marks at 6.80",
				},
			},
			Risks: []string{
				"A fast move away from the strike hurts both legs",
				"Sensitive to shifts in the volatility term structure",
			},
			Benefits: []string{
				"Positive time decay with limited risk",
				"Long volatility exposure for a small debit",
			},
		},
	}
}

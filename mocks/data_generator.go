package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-breakout/internal/types"
)

// DataGenerator generates intraday session bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "NIFTY", "RELIANCE")
	Symbol string
	// Location is the exchange time zone
	Location *time.Location
	// StartDate is the first trading day; only its date part is used
	StartDate time.Time
	// Days is the number of trading days; weekends are skipped
	Days int
	// SessionOpenHour and SessionOpenMinute give the time of the first bar of each day
	SessionOpenHour   int
	SessionOpenMinute int
	// BarsPerDay is the number of bars in one session
	BarsPerDay int
	// Interval is the duration between each bar
	Interval time.Duration
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the drift factor across the whole series
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// IST is the Indian Standard Time zone, fixed at UTC+05:30.
var IST = time.FixedZone("IST", 5*3600+30*60)

// DefaultConfig returns a 5-minute NSE-like session: 75 bars from 09:15 IST.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:            "TEST",
		Location:          IST,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, IST),
		Days:              20,
		SessionOpenHour:   9,
		SessionOpenMinute: 15,
		BarsPerDay:        75,
		Interval:          5 * time.Minute,
		InitialPrice:      100.0,
		Volatility:        0.002, // 0.2% per bar
		Trend:             0.0,   // neutral
		VolumeBase:        10000,
		VolumeVariance:    0.3,
	}
}

// Generate creates session bars following a geometric Brownian motion. Each day opens at
// the previous day's last close.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}

	total := config.Days * config.BarsPerDay
	data := make([]types.Bar, 0, total)
	currentPrice := config.InitialPrice
	day := time.Date(config.StartDate.Year(), config.StartDate.Month(), config.StartDate.Day(),
		config.SessionOpenHour, config.SessionOpenMinute, 0, 0, loc)

	for d := 0; d < config.Days; d++ {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}

		currentTime := day

		for i := 0; i < config.BarsPerDay; i++ {
			bar := g.nextBar(config, currentPrice)
			bar.Symbol = config.Symbol
			bar.Time = currentTime
			data = append(data, bar)

			currentPrice = bar.Close
			currentTime = currentTime.Add(config.Interval)
		}

		day = day.AddDate(0, 0, 1)
	}

	return data
}

// GenerateSeries is Generate in column form.
func (g *DataGenerator) GenerateSeries(config GeneratorConfig) types.BarSeries {
	return types.NewBarSeries(config.Symbol, g.Generate(config))
}

func (g *DataGenerator) nextBar(config GeneratorConfig, open float64) types.Bar {
	// Box-Muller transform for a normal draw
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	priceChange := config.Volatility * z

	drift := 0.0
	if n := config.Days * config.BarsPerDay; n > 0 {
		drift = config.Trend / float64(n)
	}

	close := open * (1 + priceChange + drift)
	if close <= 0 {
		close = open * 0.99
	}

	highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
	lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

	high := math.Max(open, close) + highExtension
	low := math.Min(open, close) - lowExtension

	if low <= 0 {
		low = math.Min(open, close) * 0.99
	}

	volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance

	volume := config.VolumeBase * volumeVariation
	if volume < 0 {
		volume = config.VolumeBase * 0.1
	}

	return types.Bar{
		Open:   roundToDecimals(open, 4),
		High:   roundToDecimals(high, 4),
		Low:    roundToDecimals(low, 4),
		Close:  roundToDecimals(close, 4),
		Volume: roundToDecimals(volume, 2),
	}
}

// GenerateMultiSymbol generates one series per symbol with slightly varied price and volatility.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.BarSeries {
	out := make([]types.BarSeries, 0, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		out = append(out, g.GenerateSeries(config))
	}

	return out
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}

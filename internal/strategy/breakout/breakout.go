// Package breakout implements the intraday opening range breakout strategy.
//
// Each trading day the first bars form the opening range. A later bar that breaks the range,
// confirmed by the trend and volume filters, opens one position with an ATR based stop and
// target. The position is closed at the target, the stop, or the session end cutoff.
package breakout

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/series"
	"github.com/rxtech-lab/argo-breakout/internal/indicator"
	"github.com/rxtech-lab/argo-breakout/internal/runtime"
	"github.com/rxtech-lab/argo-breakout/internal/trading"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/internal/version"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const strategyName = "opening_range_breakout"

// Summary is the account level outcome of a run.
type Summary struct {
	NetPL float64 `yaml:"net_pl" json:"net_pl"`
	// WinPct is wins*100/trades, 0 when there were no trades.
	WinPct float64 `yaml:"win_pct" json:"win_pct"`
	Trades int     `yaml:"trades" json:"trades"`
	Wins   int     `yaml:"wins" json:"wins"`
	Days   int     `yaml:"days" json:"days"`
	// DailyPL holds one entry per trading day seen, in date order.
	DailyPL     []float64 `yaml:"daily_pl" json:"daily_pl"`
	FinalMargin float64   `yaml:"final_margin" json:"final_margin"`
}

// Strategy is the opening range breakout state machine.
type Strategy struct {
	config Config
	clock  sessionClock

	ema       *series.Window
	slope     *series.Window
	volumeEMA *series.Window
	atr       *series.Window

	session *DaySession
	margin  decimal.Decimal
	netPL   decimal.Decimal
	dailyPL []float64
	trades  int
	wins    int
}

var (
	_ runtime.Strategy     = (*Strategy)(nil)
	_ runtime.Finisher     = (*Strategy)(nil)
	_ runtime.Versioned    = (*Strategy)(nil)
	_ runtime.Configurable = (*Strategy)(nil)
)

// NewStrategy validates config and returns a strategy ready for a run.
func NewStrategy(config Config) (*Strategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clock, err := config.session()
	if err != nil {
		return nil, err
	}

	return &Strategy{
		config: config,
		clock:  clock,
	}, nil
}

// Name implements runtime.Strategy.
func (s *Strategy) Name() string {
	return strategyName
}

// RuntimeVersion implements runtime.Versioned.
func (s *Strategy) RuntimeVersion() string {
	if s.config.RuntimeVersion == "" {
		return version.GetVersion()
	}

	return s.config.RuntimeVersion
}

// Initialize implements runtime.Configurable.
func (s *Strategy) Initialize(config string) error {
	cfg, err := ParseConfig(config)
	if err != nil {
		return err
	}

	clock, err := cfg.session()
	if err != nil {
		return err
	}

	s.config = cfg
	s.clock = clock

	return nil
}

// GetConfigSchema implements runtime.Configurable.
func (s *Strategy) GetConfigSchema() (string, error) {
	return s.config.GenerateSchemaJSON()
}

// Config returns the active configuration.
func (s *Strategy) Config() Config {
	return s.config
}

// Setup implements runtime.Strategy. It resets the account and registers the indicators.
func (s *Strategy) Setup(ctx *runtime.RuntimeContext) error {
	s.session = nil
	s.margin = decimal.NewFromFloat(ctx.InitialCapital)
	s.netPL = decimal.Zero
	s.dailyPL = []float64{}
	s.trades = 0
	s.wins = 0

	var err error

	s.ema, err = ctx.Indicator(types.IndicatorTypeEMA,
		[]*series.Window{ctx.Bars.Close},
		indicator.Params{"period": s.config.EMAPeriod})
	if err != nil {
		return err
	}

	s.slope, err = ctx.Indicator(types.IndicatorTypeEMASlope,
		[]*series.Window{s.ema},
		indicator.Params{"lookback": s.config.SlopeLookback, "method": s.config.SlopeMethod})
	if err != nil {
		return err
	}

	s.volumeEMA, err = ctx.Indicator(types.IndicatorTypeEMA,
		[]*series.Window{ctx.Bars.Volume},
		indicator.Params{"period": s.config.VolumeEMAPeriod})
	if err != nil {
		return err
	}

	s.atr, err = ctx.Indicator(types.IndicatorTypeATR,
		[]*series.Window{ctx.Bars.High, ctx.Bars.Low, ctx.Bars.Close},
		indicator.Params{"period": s.config.ATRPeriod})
	if err != nil {
		return err
	}

	return nil
}

// OnBar implements runtime.Strategy.
func (s *Strategy) OnBar(ctx *runtime.RuntimeContext) error {
	bar := ctx.Bars.Current()
	index := ctx.Bars.Index()
	local := bar.Time.In(s.clock.location)
	date := local.Format(time.DateOnly)

	if s.session == nil || s.session.Date != date {
		if err := s.closeDay(ctx, optional.Some(bar), index); err != nil {
			return err
		}

		s.session = newDaySession(date)
	}

	day := s.session

	switch day.State {
	case StateOpeningRange:
		if day.addRangeBar(bar.High, bar.Low, s.config.OpeningRangeBars) {
			day.State = StateScanning
		}

		return nil
	case StateDone:
		return nil
	}

	minute := minuteOfDay(local)

	if day.IsOpen() {
		if minute >= s.clock.end {
			return s.forceClose(ctx, bar, index)
		}

		return s.manage(ctx, bar, index)
	}

	if minute >= s.clock.midCutoff {
		day.State = StateDone

		return nil
	}

	return s.scan(ctx, bar, index)
}

// Finish implements runtime.Finisher. It books the last day.
func (s *Strategy) Finish(ctx *runtime.RuntimeContext) error {
	return s.closeDay(ctx, optional.None[types.Bar](), ctx.Bars.Index())
}

// Summary returns the outcome of the last run.
func (s *Strategy) Summary() Summary {
	winPct := 0.0
	if s.trades > 0 {
		winPct = float64(s.wins) * 100 / float64(s.trades)
	}

	daily := make([]float64, len(s.dailyPL))
	copy(daily, s.dailyPL)

	return Summary{
		NetPL:       s.netPL.InexactFloat64(),
		WinPct:      winPct,
		Trades:      s.trades,
		Wins:        s.wins,
		Days:        len(s.dailyPL),
		DailyPL:     daily,
		FinalMargin: s.margin.InexactFloat64(),
	}
}

func (s *Strategy) scan(ctx *runtime.RuntimeContext, bar types.Bar, index int) error {
	day := s.session

	prevClose, err := ctx.Bars.Close.Get(-2)
	if err != nil {
		return err
	}

	ema, err := s.ema.Get(-2)
	if err != nil {
		return err
	}

	slope, err := s.slope.Get(-2)
	if err != nil {
		return err
	}

	volumeEMA, err := s.volumeEMA.Get(-2)
	if err != nil {
		return err
	}

	long := bar.High > day.OpeningRangeHigh
	short := bar.Low < day.OpeningRangeLow

	if s.config.EMAFilter {
		long = long && prevClose > ema && slope > 0
		short = short && prevClose < ema && slope < 0
	}

	if s.config.VolumeFilter {
		volumeOK := bar.Volume > s.config.VolumeMultiplier*volumeEMA
		long = long && volumeOK
		short = short && volumeOK
	}

	switch {
	case long:
		return s.enter(ctx, bar, index, types.PositionTypeLong, day.OpeningRangeHigh)
	case short:
		return s.enter(ctx, bar, index, types.PositionTypeShort, day.OpeningRangeLow)
	}

	return nil
}

func (s *Strategy) enter(ctx *runtime.RuntimeContext, bar types.Bar, index int, side types.PositionType, level float64) error {
	day := s.session

	atr, err := s.atr.Get(-2)
	if err != nil {
		return err
	}

	stopDistance := s.config.SLMultiplier * atr
	targetDistance := s.config.TPMultiplier * atr

	// NaN distances fail these comparisons as well
	if !(stopDistance >= s.config.MinDistance) || !(targetDistance >= s.config.MinDistance) {
		ctx.Logger.Debug("Breakout rejected: stop or target too close",
			zap.String("date", day.Date),
			zap.Int("bar", index),
			zap.String("side", string(side)),
			zap.Float64("stop_distance", stopDistance),
			zap.Float64("target_distance", targetDistance),
		)

		return nil
	}

	entry := ctx.FillModel.Uniform(level, (level+bar.Close)/2)
	size := trading.PositionSize(s.margin.InexactFloat64(), stopDistance, entry, s.config.RiskFraction)
	if size <= 0 {
		ctx.Logger.Debug("Breakout rejected: position size is zero",
			zap.String("date", day.Date),
			zap.Int("bar", index),
			zap.Float64("entry", entry),
		)

		return nil
	}

	position := ActivePosition{
		Position: types.Position{
			Side:       side,
			EntryPrice: entry,
			Size:       float64(size),
			EntryIndex: index,
		},
	}

	if side == types.PositionTypeLong {
		position.Stop = entry - stopDistance
		position.Target = entry + targetDistance
		err = ctx.Ledger.Open(entry, float64(size), index)
		day.State = StateLong
	} else {
		position.Stop = entry + stopDistance
		position.Target = entry - targetDistance
		err = ctx.Ledger.OpenShort(entry, float64(size), index)
		day.State = StateShort
	}

	if err != nil {
		return err
	}

	day.Position = optional.Some(position)

	ctx.Logger.Debug("Position opened",
		zap.String("date", day.Date),
		zap.Int("bar", index),
		zap.String("side", string(side)),
		zap.Float64("entry", entry),
		zap.Int("size", size),
		zap.Float64("stop", position.Stop),
		zap.Float64("target", position.Target),
	)

	return nil
}

// manage checks the target and the stop of the open position.
func (s *Strategy) manage(ctx *runtime.RuntimeContext, bar types.Bar, index int) error {
	day := s.session
	pos := day.Position.Unwrap()

	atr, err := s.atr.Get(-2)
	if err != nil {
		return err
	}

	if pos.Side == types.PositionTypeLong {
		if bar.High >= pos.Target {
			if !s.config.Trailing {
				return s.exit(ctx, index, ctx.FillModel.Slippage(pos.Target), true, "target")
			}

			if stop := bar.High - s.config.TrailMultiplier*atr; stop > pos.Stop {
				pos.Stop = stop
				pos.Trailed = true
				day.Position = optional.Some(pos)
			}
		}

		if bar.Low <= pos.Stop {
			win := s.config.Trailing && pos.Stop > pos.EntryPrice
			return s.exit(ctx, index, ctx.FillModel.Slippage(pos.Stop), win, "stop")
		}

		return nil
	}

	if bar.Low <= pos.Target {
		if !s.config.Trailing {
			return s.exit(ctx, index, ctx.FillModel.Slippage(pos.Target), true, "target")
		}

		if stop := bar.Low + s.config.TrailMultiplier*atr; stop < pos.Stop {
			pos.Stop = stop
			pos.Trailed = true
			day.Position = optional.Some(pos)
		}
	}

	if bar.High >= pos.Stop {
		win := s.config.Trailing && pos.Stop < pos.EntryPrice
		return s.exit(ctx, index, ctx.FillModel.Slippage(pos.Stop), win, "stop")
	}

	return nil
}

// forceClose exits at the session end cutoff somewhere inside the bar, between the halfway
// points towards the stop and the target.
func (s *Strategy) forceClose(ctx *runtime.RuntimeContext, bar types.Bar, index int) error {
	pos := s.session.Position.Unwrap()

	var lo, hi float64
	if pos.Side == types.PositionTypeLong {
		lo = max(bar.Low, (pos.EntryPrice+pos.Stop)/2)
		hi = min(bar.High, (pos.Target+pos.EntryPrice)/2)
	} else {
		lo = max(bar.Low, (pos.EntryPrice+pos.Target)/2)
		hi = min(bar.High, (pos.EntryPrice+pos.Stop)/2)
	}

	if err := s.exit(ctx, index, ctx.FillModel.Uniform(lo, hi), false, "session_end"); err != nil {
		return err
	}

	s.session.State = StateDone

	return nil
}

func (s *Strategy) exit(ctx *runtime.RuntimeContext, index int, price float64, win bool, reason string) error {
	day := s.session
	pos := day.Position.Unwrap()

	if _, err := ctx.Ledger.Close(price, index); err != nil {
		return err
	}

	pl := s.profit(ctx.CommissionFee, pos.Position, price)
	day.DailyPL = day.DailyPL.Add(pl)
	day.Position = optional.None[ActivePosition]()
	day.Trades++
	if win {
		day.Wins++
		s.wins++
	}
	s.trades++

	if day.Trades >= s.config.MaxTradesPerDay {
		day.State = StateDone
	} else {
		day.State = StateScanning
	}

	ctx.Logger.Debug("Position closed",
		zap.String("date", day.Date),
		zap.Int("bar", index),
		zap.String("reason", reason),
		zap.String("side", string(pos.Side)),
		zap.Float64("entry", pos.EntryPrice),
		zap.Float64("exit", price),
		zap.Bool("win", win),
		zap.String("pl", pl.StringFixed(2)),
	)

	return nil
}

// profit is the P&L of closing pos at price, net of the round trip commission.
func (s *Strategy) profit(fee commission_fee.CommissionFee, pos types.Position, price float64) decimal.Decimal {
	move := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(pos.EntryPrice))
	if pos.Side == types.PositionTypeShort {
		move = move.Neg()
	}

	gross := move.Mul(decimal.NewFromFloat(pos.Size))
	if fee == nil {
		return gross
	}

	return gross.Sub(decimal.NewFromFloat(commission_fee.RoundTrip(fee, pos.Size, pos.EntryPrice, price)))
}

// closeDay books the current session into the account. A position still open when the next
// day starts is liquidated at that day's first open; one still open at the end of the series
// is dropped.
func (s *Strategy) closeDay(ctx *runtime.RuntimeContext, next optional.Option[types.Bar], index int) error {
	day := s.session
	if day == nil {
		return nil
	}

	if day.IsOpen() {
		if next.IsSome() {
			ctx.Logger.Info("Liquidating position carried past its session",
				zap.String("date", day.Date),
				zap.Int("bar", index),
			)

			if err := s.exit(ctx, index, next.Unwrap().Open, false, "carried_over"); err != nil {
				return err
			}
		} else {
			pos := day.Position.Unwrap()
			ctx.Logger.Warn("Discarding position still open at the end of the series",
				zap.String("date", day.Date),
				zap.String("side", string(pos.Side)),
				zap.Float64("entry", pos.EntryPrice),
				zap.Int("entry_bar", pos.EntryIndex),
			)
			day.Position = optional.None[ActivePosition]()
		}
	}

	s.margin = s.margin.Add(day.DailyPL)
	s.netPL = s.netPL.Add(day.DailyPL)
	s.dailyPL = append(s.dailyPL, day.DailyPL.InexactFloat64())
	day.State = StateDone

	ctx.Logger.Debug("Day closed",
		zap.String("date", day.Date),
		zap.Int("trades", day.Trades),
		zap.String("daily_pl", day.DailyPL.StringFixed(2)),
		zap.String("margin", s.margin.StringFixed(2)),
	)

	return nil
}

package breakout

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-breakout/internal/indicator"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone         = "Asia/Kolkata"
	DefaultMidSessionCutoff = "12:30"
	DefaultSessionEnd       = "15:10"
	// DefaultMinDistance is the smallest stop or target distance, in price units, worth trading.
	DefaultMinDistance = 0.5
)

// Config parameterises the opening-range breakout strategy.
type Config struct {
	// Timezone in which bar timestamps are read to find trading days and cutoffs.
	Timezone         string `yaml:"timezone" json:"timezone" jsonschema:"title=Timezone,description=IANA timezone of the trading session,default=Asia/Kolkata" validate:"required"`
	MidSessionCutoff string `yaml:"mid_session_cutoff" json:"mid_session_cutoff" jsonschema:"title=Mid Session Cutoff,description=No new entries at or after this HH:MM,default=12:30" validate:"required"`
	SessionEnd       string `yaml:"session_end" json:"session_end" jsonschema:"title=Session End,description=Open positions are closed at or after this HH:MM,default=15:10" validate:"required"`
	OpeningRangeBars int    `yaml:"opening_range_bars" json:"opening_range_bars" jsonschema:"title=Opening Range Bars,description=Number of bars forming the opening range,minimum=1,default=3" validate:"gte=1"`

	EMAPeriod       int    `yaml:"ema_period" json:"ema_period" jsonschema:"title=EMA Period,minimum=1,default=20" validate:"gte=1"`
	SlopeLookback   int    `yaml:"slope_lookback" json:"slope_lookback" jsonschema:"title=EMA Slope Lookback,minimum=1,default=15" validate:"gte=1"`
	SlopeMethod     string `yaml:"slope_method" json:"slope_method" jsonschema:"title=EMA Slope Method,enum=simple,enum=linreg,default=simple" validate:"oneof=simple linreg"`
	VolumeEMAPeriod int    `yaml:"volume_ema_period" json:"volume_ema_period" jsonschema:"title=Volume EMA Period,minimum=1,default=20" validate:"gte=1"`
	ATRPeriod       int    `yaml:"atr_period" json:"atr_period" jsonschema:"title=ATR Period,minimum=1,default=14" validate:"gte=1"`

	SLMultiplier     float64 `yaml:"sl_multiplier" json:"sl_multiplier" jsonschema:"title=Stop Loss Multiplier,description=Stop distance in ATRs,default=2.5" validate:"gt=0"`
	TPMultiplier     float64 `yaml:"tp_multiplier" json:"tp_multiplier" jsonschema:"title=Take Profit Multiplier,description=Target distance in ATRs,default=3" validate:"gt=0"`
	TrailMultiplier  float64 `yaml:"trail_multiplier" json:"trail_multiplier" jsonschema:"title=Trailing Multiplier,description=Trailing stop distance in ATRs,default=0.5" validate:"gt=0"`
	VolumeMultiplier float64 `yaml:"volume_multiplier" json:"volume_multiplier" jsonschema:"title=Volume Multiplier,description=Breakout volume must exceed this multiple of the volume EMA,default=1.5" validate:"gte=0"`
	RiskFraction     float64 `yaml:"risk_fraction" json:"risk_fraction" jsonschema:"title=Risk Fraction,description=Share of margin risked per trade,default=0.02" validate:"gt=0,lte=1"`
	MinDistance      float64 `yaml:"min_distance" json:"min_distance" jsonschema:"title=Minimum Distance,description=Smallest stop or target distance that is traded,default=0.5" validate:"gte=0"`

	EMAFilter       bool `yaml:"ema_filter" json:"ema_filter" jsonschema:"title=EMA Filter,default=true"`
	VolumeFilter    bool `yaml:"volume_filter" json:"volume_filter" jsonschema:"title=Volume Filter,default=true"`
	Trailing        bool `yaml:"trailing" json:"trailing" jsonschema:"title=Trailing Stop,default=false"`
	MaxTradesPerDay int  `yaml:"max_trades_per_day" json:"max_trades_per_day" jsonschema:"title=Max Trades Per Day,minimum=1,default=1" validate:"gte=1"`

	// RuntimeVersion is the engine version the configuration was written for. Empty skips the check.
	RuntimeVersion string `yaml:"runtime_version" json:"runtime_version,omitempty" jsonschema:"title=Runtime Version"`
}

// DefaultConfig returns the configuration the strategy was tuned with.
func DefaultConfig() Config {
	return Config{
		Timezone:         DefaultTimezone,
		MidSessionCutoff: DefaultMidSessionCutoff,
		SessionEnd:       DefaultSessionEnd,
		OpeningRangeBars: 3,
		EMAPeriod:        20,
		SlopeLookback:    15,
		SlopeMethod:      indicator.SlopeMethodSimple,
		VolumeEMAPeriod:  20,
		ATRPeriod:        14,
		SLMultiplier:     2.5,
		TPMultiplier:     3.0,
		TrailMultiplier:  0.5,
		VolumeMultiplier: 1.5,
		RiskFraction:     0.02,
		MinDistance:      DefaultMinDistance,
		EMAFilter:        true,
		VolumeFilter:     true,
		Trailing:         false,
		MaxTradesPerDay:  1,
	}
}

// ParseConfig reads a YAML (or JSON) document on top of DefaultConfig and validates it.
func ParseConfig(doc string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(doc) == "" {
		return cfg, nil
	}

	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse breakout config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field ranges, the timezone and the session clock.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid breakout config", err)
	}

	if _, err := c.session(); err != nil {
		return err
	}

	return nil
}

// sessionClock holds the resolved session times in minutes after local midnight.
type sessionClock struct {
	location  *time.Location
	midCutoff int
	end       int
}

func (c Config) session() (sessionClock, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return sessionClock{}, errors.Wrapf(errors.ErrCodeInvalidSessionTime, err, "unknown timezone %q", c.Timezone)
	}

	mid, err := parseClock(c.MidSessionCutoff)
	if err != nil {
		return sessionClock{}, err
	}

	end, err := parseClock(c.SessionEnd)
	if err != nil {
		return sessionClock{}, err
	}

	if mid > end {
		return sessionClock{}, errors.Newf(errors.ErrCodeInvalidSessionTime,
			"mid session cutoff %s is after session end %s", c.MidSessionCutoff, c.SessionEnd)
	}

	return sessionClock{location: loc, midCutoff: mid, end: end}, nil
}

// parseClock turns "HH:MM" into minutes after midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidSessionTime, err, "session time %q is not HH:MM", s)
	}

	return t.Hour()*60 + t.Minute(), nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// GenerateSchemaJSON returns the JSON schema of Config.
func (c Config) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(&c)
	schema.Title = "breakout-strategy-config"
	schema.Description = "Configuration schema for the opening range breakout strategy"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(out), nil
}

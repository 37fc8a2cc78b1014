package breakout

import (
	"testing"

	"github.com/rxtech-lab/argo-breakout/internal/version"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	cfg := DefaultConfig()
	suite.NoError(cfg.Validate())

	clock, err := cfg.session()
	suite.Require().NoError(err)
	suite.Equal(12*60+30, clock.midCutoff)
	suite.Equal(15*60+10, clock.end)
	suite.Equal("Asia/Kolkata", clock.location.String())
}

func (suite *ConfigTestSuite) TestParseConfigKeepsDefaults() {
	cfg, err := ParseConfig(`
ema_period: 10
trailing: true
volume_filter: false
session_end: "15:00"
`)
	suite.Require().NoError(err)

	suite.Equal(10, cfg.EMAPeriod)
	suite.True(cfg.Trailing)
	suite.False(cfg.VolumeFilter)
	suite.True(cfg.EMAFilter)
	suite.Equal("15:00", cfg.SessionEnd)
	suite.Equal(14, cfg.ATRPeriod)
	suite.Equal(2.5, cfg.SLMultiplier)

	empty, err := ParseConfig("")
	suite.Require().NoError(err)
	suite.Equal(DefaultConfig(), empty)
}

func (suite *ConfigTestSuite) TestInvalidConfigs() {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.ErrorCode
	}{
		{"zero opening range", func(c *Config) { c.OpeningRangeBars = 0 }, errors.ErrCodeStrategyConfigError},
		{"unknown slope method", func(c *Config) { c.SlopeMethod = "quadratic" }, errors.ErrCodeStrategyConfigError},
		{"risk above one", func(c *Config) { c.RiskFraction = 1.5 }, errors.ErrCodeStrategyConfigError},
		{"bad clock", func(c *Config) { c.MidSessionCutoff = "25:99" }, errors.ErrCodeInvalidSessionTime},
		{"mid after end", func(c *Config) { c.MidSessionCutoff = "15:30" }, errors.ErrCodeInvalidSessionTime},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, errors.ErrCodeInvalidSessionTime},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tt.code), "got %v", err)

			_, err = NewStrategy(cfg)
			suite.Error(err)
		})
	}
}

func (suite *ConfigTestSuite) TestParseConfigRejectsGarbage() {
	_, err := ParseConfig("ema_period: [1, 2")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := DefaultConfig().GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, "breakout-strategy-config")
	suite.Contains(schema, "opening_range_bars")
	suite.Contains(schema, "slope_method")
}

func (suite *ConfigTestSuite) TestInitializeAndVersion() {
	s, err := NewStrategy(DefaultConfig())
	suite.Require().NoError(err)
	suite.Equal(strategyName, s.Name())
	suite.Equal(version.GetVersion(), s.RuntimeVersion())

	suite.Require().NoError(s.Initialize("max_trades_per_day: 2\nruntime_version: v9.0.0\n"))
	suite.Equal(2, s.Config().MaxTradesPerDay)
	suite.Equal("v9.0.0", s.RuntimeVersion())

	suite.Error(s.Initialize("opening_range_bars: -1"))
	suite.Equal(2, s.Config().MaxTradesPerDay)

	schema, err := s.GetConfigSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "max_trades_per_day")
}

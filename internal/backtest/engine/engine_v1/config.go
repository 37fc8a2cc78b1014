package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-breakout/internal/trading"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// DefaultInitialCapital is the starting account value when none is configured.
const DefaultInitialCapital = 100000.0

type BacktestEngineV1Config struct {
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest,minimum=0" validate:"gt=0"`
	Broker         commission_fee.Broker      `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations" validate:"required"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time of the replayed bars"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time of the replayed bars"`
	// Seed pins every random fill of a run.
	Seed          optional.Option[uint64] `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Optional seed of the fill model"`
	SlippageBound float64                 `yaml:"slippage_bound" json:"slippage_bound" jsonschema:"title=Slippage Bound,description=Largest absolute price slippage applied to stop and target fills,minimum=0" validate:"gte=0"`
	LogLevel      string                  `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"omitempty,oneof=debug info warn error"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Absent fields keep the EmptyConfig defaults.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital *float64              `yaml:"initial_capital"`
		Broker         commission_fee.Broker `yaml:"broker"`
		StartTime      *time.Time            `yaml:"start_time"`
		EndTime        *time.Time            `yaml:"end_time"`
		Seed           *uint64               `yaml:"seed"`
		SlippageBound  *float64              `yaml:"slippage_bound"`
		LogLevel       string                `yaml:"log_level"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = EmptyConfig()

	if config.InitialCapital != nil {
		c.InitialCapital = *config.InitialCapital
	}

	if config.Broker != "" {
		c.Broker = config.Broker
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	if config.Seed != nil {
		c.Seed = optional.Some(*config.Seed)
	}

	if config.SlippageBound != nil {
		c.SlippageBound = *config.SlippageBound
	}

	if config.LogLevel != "" {
		c.LogLevel = config.LogLevel
	}

	return nil
}

// MarshalYAML writes unset optional fields as absent keys, so the output reads back through UnmarshalYAML.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	type Config struct {
		InitialCapital float64               `yaml:"initial_capital"`
		Broker         commission_fee.Broker `yaml:"broker"`
		StartTime      *time.Time            `yaml:"start_time,omitempty"`
		EndTime        *time.Time            `yaml:"end_time,omitempty"`
		Seed           *uint64               `yaml:"seed,omitempty"`
		SlippageBound  float64               `yaml:"slippage_bound"`
		LogLevel       string                `yaml:"log_level,omitempty"`
	}

	out := Config{
		InitialCapital: c.InitialCapital,
		Broker:         c.Broker,
		SlippageBound:  c.SlippageBound,
		LogLevel:       c.LogLevel,
	}

	if c.StartTime.IsSome() {
		t := c.StartTime.Unwrap()
		out.StartTime = &t
	}

	if c.EndTime.IsSome() {
		t := c.EndTime.Unwrap()
		out.EndTime = &t
	}

	if c.Seed.IsSome() {
		s := c.Seed.Unwrap()
		out.Seed = &s
	}

	return out, nil
}

// Validate validates the configuration.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest engine config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time is before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t.String() == "optional.Option[uint64]":
				return &jsonschema.Schema{
					Type: "integer",
				}
			case strings.Contains(t.String(), "commission_fee.Broker"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a reproducible configuration: seeded fills and no slippage.
func TestConfig(seed uint64, broker commission_fee.Broker) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: DefaultInitialCapital,
		Broker:         broker,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
		Seed:           optional.Some(seed),
		SlippageBound:  0,
		LogLevel:       "error",
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: DefaultInitialCapital,
		Broker:         commission_fee.BrokerZero,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
		Seed:           optional.None[uint64](),
		SlippageBound:  trading.DefaultSlippageBound,
		LogLevel:       "info",
	}
}

package types

// IndicatorType is the stable identifier of an indicator function.
// It is the function-identity part of an indicator cache fingerprint.
type IndicatorType string

const (
	IndicatorTypeEMA      IndicatorType = "ema"
	IndicatorTypeMA       IndicatorType = "ma"
	IndicatorTypeATR      IndicatorType = "atr"
	IndicatorTypeEMASlope IndicatorType = "ema_slope"
	IndicatorTypeRSI      IndicatorType = "rsi"
	IndicatorTypeMACD     IndicatorType = "macd"
)

package datasource

import (
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

func getIntervalMinutes(interval Interval) (int, error) {
	var intervalMinutes int

	switch interval {
	case Interval1m:
		intervalMinutes = 1
	case Interval3m:
		intervalMinutes = 3
	case Interval5m:
		intervalMinutes = 5
	case Interval10m:
		intervalMinutes = 10
	case Interval15m:
		intervalMinutes = 15
	case Interval30m:
		intervalMinutes = 30
	case Interval1h:
		intervalMinutes = 60
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval: %s", interval)
	}

	return intervalMinutes, nil
}

// readerFor returns the DuckDB table function that reads path, chosen by file extension.
func readerFor(path string) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet(" + quoted + ")", nil
	case ".csv":
		return "read_csv_auto(" + quoted + ", header = true)", nil
	default:
		return "", errors.Newf(errors.ErrCodeDataSourceUnavailable,
			"unsupported market data file %q: expected .parquet or .csv", path)
	}
}

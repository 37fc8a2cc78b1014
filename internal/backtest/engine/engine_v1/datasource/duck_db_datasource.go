package datasource

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-breakout/internal/logger"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBDataSource serves bars from a parquet or CSV file through an in-process DuckDB.
// The file must have the columns time, symbol, open, high, low, close and volume.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewDataSource opens a DuckDB database at dbPath; an empty path or ":memory:" keeps it in memory.
// Call Initialize to attach a market data file.
func NewDataSource(dbPath string, log *logger.Logger) (*DuckDBDataSource, error) {
	if dbPath == ":memory:" {
		dbPath = ""
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if _, err := db.Exec(`SET threads=4;`); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to configure duckdb", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Open is NewDataSource on an in-memory database followed by Initialize(path).
func Open(path string, log *logger.Logger) (*DuckDBDataSource, error) {
	ds, err := NewDataSource("", log)
	if err != nil {
		return nil, err
	}

	if err := ds.Initialize(path); err != nil {
		ds.Close()

		return nil, err
	}

	return ds, nil
}

// Initialize exposes the file at path as the market_data view, replacing any previous file.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	reader, err := readerFor(path)
	if err != nil {
		return err
	}

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// squirrel has no CREATE VIEW
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s;`, reader)
	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read %s", path)
	}

	d.path = path

	return nil
}

// Symbols implements DataSource.
func (d *DuckDBDataSource) Symbols() ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return symbols, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(q Query) (int, error) {
	query, args, err := d.sq.
		Select("COUNT(*)").
		From("market_data").
		Where(d.conditions(q)).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// Load implements DataSource.
func (d *DuckDBDataSource) Load(q Query) (types.BarSeries, error) {
	query, args, err := d.buildLoadQuery(q)
	if err != nil {
		return types.BarSeries{}, err
	}

	d.logger.Debug("Loading bars",
		zap.String("symbol", q.Symbol),
		zap.String("query", query),
	)

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	bars := make([]types.Bar, 0, 1024)

	for rows.Next() {
		var (
			timestamp                      time.Time
			open, high, low, close, volume float64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &close, &volume); err != nil {
			return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		bars = append(bars, types.Bar{
			Symbol: q.Symbol,
			Time:   timestamp,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for symbol %q", q.Symbol)
	}

	series := types.NewBarSeries(q.Symbol, bars)
	if err := series.Validate(); err != nil {
		return types.BarSeries{}, err
	}

	return series, nil
}

func (d *DuckDBDataSource) conditions(q Query) squirrel.And {
	where := squirrel.And{squirrel.Eq{"symbol": q.Symbol}}

	if q.Start.IsSome() {
		where = append(where, squirrel.GtOrEq{"time": q.Start.Unwrap()})
	}

	if q.End.IsSome() {
		where = append(where, squirrel.LtOrEq{"time": q.End.Unwrap()})
	}

	return where
}

func (d *DuckDBDataSource) buildLoadQuery(q Query) (string, []interface{}, error) {
	if q.Symbol == "" {
		return "", nil, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	builder := d.sq.
		Select(
			"time",
			"CAST(open AS DOUBLE) AS open",
			"CAST(high AS DOUBLE) AS high",
			"CAST(low AS DOUBLE) AS low",
			"CAST(close AS DOUBLE) AS close",
			"CAST(volume AS DOUBLE) AS volume",
		).
		From("market_data").
		Where(d.conditions(q)).
		OrderBy("time ASC")

	if q.Interval.IsSome() {
		minutes, err := getIntervalMinutes(q.Interval.Unwrap())
		if err != nil {
			return "", nil, err
		}

		bucket := fmt.Sprintf("time_bucket(INTERVAL '%d minutes', time)", minutes)
		builder = d.sq.
			Select(
				bucket+" AS bucket",
				"CAST(arg_min(open, time) AS DOUBLE) AS open",
				"CAST(max(high) AS DOUBLE) AS high",
				"CAST(min(low) AS DOUBLE) AS low",
				"CAST(arg_max(close, time) AS DOUBLE) AS close",
				"CAST(sum(volume) AS DOUBLE) AS volume",
			).
			From("market_data").
			Where(d.conditions(q)).
			GroupBy("bucket").
			OrderBy("bucket ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	return query, args, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

// Path returns the market data file attached by Initialize.
func (d *DuckDBDataSource) Path() string {
	return d.path
}

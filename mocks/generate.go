package mocks

//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-breakout/internal/indicator Indicator
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-breakout/internal/runtime Strategy
//go:generate mockgen -destination=./mock_fill_model.go -package=mocks github.com/rxtech-lab/argo-breakout/internal/trading FillModel
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/datasource DataSource

package engine

import (
	"testing"

	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) TestOnProcessDataCallbackWithProgress() {
	var progress []int

	callback := OnProcessDataCallback(func(current int, total int) error {
		progress = append(progress, current)

		return nil
	})

	for i := 1; i <= 3; i++ {
		suite.NoError(callback(i, 3))
	}

	suite.Equal([]int{1, 2, 3}, progress)
}

func (suite *EngineTestSuite) TestLifecycleCallbacksDefaultToNil() {
	callbacks := LifecycleCallbacks{}

	suite.Nil(callbacks.OnBacktestStart)
	suite.Nil(callbacks.OnBacktestEnd)
	suite.Nil(callbacks.OnRunStart)
	suite.Nil(callbacks.OnRunEnd)
	suite.Nil(callbacks.OnProcessData)
}

func (suite *EngineTestSuite) TestOnRunEndReceivesResult() {
	var got types.RunResult

	onRunEnd := OnRunEndCallback(func(_ string, _ string, result types.RunResult) {
		got = result
	})
	callbacks := LifecycleCallbacks{OnRunEnd: &onRunEnd}

	(*callbacks.OnRunEnd)("id", "NIFTY", types.RunResult{Symbol: "NIFTY", TradeCount: 2})
	suite.Equal(2, got.TradeCount)
}

package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
)

// DevelopmentVersion marks a build without a release version. It is compatible with everything.
const DevelopmentVersion = "main"

// CheckVersionCompatibility checks that a strategy built against strategyVersion can run on
// an engine at engineVersion. Major and minor must match; patch may differ.
//
//   - Engine 1.2.1, strategy 1.2.0 -> OK
//   - Engine 1.3.0, strategy 1.2.0 -> minor version mismatch
//   - Engine main,  strategy 1.2.0 -> OK
func CheckVersionCompatibility(engineVersion, strategyVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	strategyVersion = strings.TrimPrefix(strategyVersion, "v")

	if engineVersion == DevelopmentVersion || strategyVersion == DevelopmentVersion {
		return nil
	}

	engine, err := parse("engine", engineVersion)
	if err != nil {
		return err
	}

	strategy, err := parse("strategy", strategyVersion)
	if err != nil {
		return err
	}

	if engine.Major() != strategy.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: engine is %d.x.x but strategy requires %d.x.x",
			engine.Major(), strategy.Major())
	}

	if engine.Minor() != strategy.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: engine is %d.%d.x but strategy requires %d.%d.x",
			engine.Major(), engine.Minor(), strategy.Major(), strategy.Minor())
	}

	return nil
}

func parse(label, v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid %s version '%s'", label, v)
	}

	return parsed, nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/fburn/internal/estimator"
)

// VehicleSettings resolves the effective settings for a vehicle: the
// [vehicles.<name>] table (matched case-insensitively) layered over [vehicle].
func VehicleSettings(cfg Config, vehicle string) VehicleConfig {
	vc := cfg.Vehicle
	for name, override := range cfg.Vehicles {
		if !strings.EqualFold(name, vehicle) {
			continue
		}
		if override.TankCapacityL > 0 {
			vc.TankCapacityL = override.TankCapacityL
		}
		if override.DefaultEfficiency > 0 {
			vc.DefaultEfficiency = override.DefaultEfficiency
		}
		if override.Weighting != "" {
			vc.Weighting = override.Weighting
		}
		if override.RecentIntervals > 0 {
			vc.RecentIntervals = override.RecentIntervals
		}
		break
	}
	return vc
}

// EstimatorParams builds estimator parameters for a vehicle, falling back to
// the stock values for anything left unset.
func EstimatorParams(cfg Config, vehicle string) estimator.Params {
	vc := VehicleSettings(cfg, vehicle)
	p := estimator.DefaultParams()
	if vc.TankCapacityL > 0 {
		p.TankCapacity = vc.TankCapacityL
	}
	if vc.DefaultEfficiency > 0 {
		p.DefaultEfficiency = vc.DefaultEfficiency
	}
	p.Weighting = estimator.ParseWeighting(vc.Weighting)
	if vc.RecentIntervals > 0 {
		p.RecentIntervals = vc.RecentIntervals
	}
	return p
}

// ParamsFunc adapts a config to the per-vehicle lookup used by the pipeline.
func ParamsFunc(cfg Config) func(vehicle string) estimator.Params {
	return func(vehicle string) estimator.Params {
		return EstimatorParams(cfg, vehicle)
	}
}

// DataDir returns the configured log directory, or ~/.fburn when unset.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fburn")
}

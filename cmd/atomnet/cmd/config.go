package cmd

import (
	"os"

	"github.com/dl7eng/atomnet/xform"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// PipelineConfig is the optional config file's schema. `atomnet emit`
// applies its Sweep toggles; LogLevel is decoded but not applied (the log
// level comes from the --log-level flag).
type PipelineConfig struct {
	LogLevel string       `yaml:"log_level"`
	Sweep    SweepToggles `yaml:"sweep"`
}

// SweepToggles mirrors xform.SweepOptions in the config file's own field
// names.
type SweepToggles struct {
	Inputs          bool `yaml:"inputs"`
	Outputs         bool `yaml:"outputs"`
	Blocks          bool `yaml:"blocks"`
	Nets            bool `yaml:"nets"`
	ConstantOutputs bool `yaml:"constant_outputs"`
}

func defaultConfig() PipelineConfig {
	return PipelineConfig{
		LogLevel: "info",
		Sweep: SweepToggles{
			Inputs:          true,
			Outputs:         true,
			Blocks:          true,
			Nets:            true,
			ConstantOutputs: true,
		},
	}
}

// loadConfig reads a YAML pipeline config from path, falling back to
// defaultConfig() when path is empty.
func loadConfig(path string) (PipelineConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (s SweepToggles) toOptions() xform.SweepOptions {
	return xform.SweepOptions{
		Inputs:          s.Inputs,
		Outputs:         s.Outputs,
		Blocks:          s.Blocks,
		Nets:            s.Nets,
		ConstantOutputs: s.ConstantOutputs,
	}
}

package cmd

import (
	"os"

	"github.com/dl7eng/atomnet/blif"
	"github.com/dl7eng/atomnet/cluster"
	"github.com/dl7eng/atomnet/xform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	emitScenarioPath string
	emitOutPath      string
	emitModelName    string
	emitValidate     bool
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Run the full pipeline and write the result as gate-level BLIF",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		sc, store, arch, doc, err := loadScenario(emitScenarioPath)
		if err != nil {
			return err
		}

		clusters, err := cluster.Ingest(doc, arch, store)
		if err != nil {
			return errors.Wrap(err, "ingest")
		}
		if err := cluster.ExtractNets(clusters, sc.CircuitClocks, store); err != nil {
			return errors.Wrap(err, "extract nets")
		}
		if err := cluster.MarkConstantGenerators(clusters, store); err != nil {
			return errors.Wrap(err, "mark constant generators")
		}

		absorbed := xform.AbsorbBufferLUTs(store)
		logrus.WithField("count", absorbed).Info("absorbed buffer LUTs")

		swept := xform.SweepIterative(store, cfg.Sweep.toOptions())
		logrus.WithField("count", swept).Info("swept dangling elements")

		if emitValidate {
			if err := store.Validate(); err != nil {
				return errors.Wrap(err, "validate")
			}
		}

		st := store.Stats()
		logrus.WithFields(logrus.Fields{
			"blocks": st.Blocks,
			"ports":  st.Ports,
			"pins":   st.Pins,
			"nets":   st.Nets,
		}).Debug("post-pipeline store stats")

		out := os.Stdout
		if emitOutPath != "" {
			f, err := os.Create(emitOutPath)
			if err != nil {
				return errors.Wrapf(err, "create output %s", emitOutPath)
			}
			defer f.Close()
			out = f
		}

		if err := blif.Write(out, store, emitModelName); err != nil {
			return errors.Wrap(err, "emit blif")
		}
		return nil
	},
}

func init() {
	emitCmd.Flags().StringVar(&emitScenarioPath, "scenario", "", "path to a scenario YAML file")
	emitCmd.Flags().StringVar(&emitOutPath, "out", "", "output .blif path (default stdout)")
	emitCmd.Flags().StringVar(&emitModelName, "model-name", "top", "name of the emitted .model")
	emitCmd.Flags().BoolVar(&emitValidate, "validate", false, "re-check store invariants after the transform stage")
	if err := emitCmd.MarkFlagRequired("scenario"); err != nil {
		logrus.WithError(err).Fatal("register --scenario flag")
	}
	rootCmd.AddCommand(emitCmd)
}

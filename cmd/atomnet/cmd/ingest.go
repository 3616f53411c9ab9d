package cmd

import (
	"os"

	an "github.com/dl7eng/atomnet"
	"github.com/dl7eng/atomnet/cluster"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	ingestScenarioPath string
	ingestValidate     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Validate a scenario file by running C1-C5 without transforming or emitting",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, store, arch, doc, err := loadScenario(ingestScenarioPath)
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

		if ingestValidate {
			if err := store.Validate(); err != nil {
				return errors.Wrap(err, "validate")
			}
		}

		st := store.Stats()
		logrus.WithFields(logrus.Fields{
			"clusters": len(clusters),
			"blocks":   st.Blocks,
			"ports":    st.Ports,
			"pins":     st.Pins,
			"nets":     st.Nets,
		}).Info("scenario ingested cleanly")
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestScenarioPath, "scenario", "", "path to a scenario YAML file")
	ingestCmd.Flags().BoolVar(&ingestValidate, "validate", false, "re-check store invariants after ingest")
	if err := ingestCmd.MarkFlagRequired("scenario"); err != nil {
		logrus.WithError(err).Fatal("register --scenario flag")
	}
	rootCmd.AddCommand(ingestCmd)
}

// loadScenario reads and decodes a scenario file, then builds the store,
// architecture catalog and packed-netlist document it describes.
func loadScenario(path string) (*Scenario, *an.Store, cluster.ArchTypes, *cluster.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "read scenario %s", path)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "parse scenario %s", path)
	}

	store, err := buildStore(&sc)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "build atom netlist")
	}
	arch, err := buildArchTypes(&sc)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "build architecture catalog")
	}
	doc := buildDocument(&sc)

	return &sc, store, arch, doc, nil
}

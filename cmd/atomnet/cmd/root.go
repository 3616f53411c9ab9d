// Package cmd implements atomnet's command-line tool: a thin wrapper
// that loads a scenario file, runs the atom-netlist pipeline
// (ingest -> transform -> emit) and reports the result. All of the
// domain logic lives in the importable atomnet/cluster/xform/blif
// packages; this package only wires cobra/viper/yaml.v2 around them.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "atomnet",
	Short: "Atom-netlist ingestion and transformation pipeline",
	Long: `atomnet ingests a packed, clustered netlist against an architecture's
pb-type catalog, extracts its external net table, marks constant
generators, absorbs buffer LUTs, sweeps dangling elements to fixpoint,
and emits the result as gate-level BLIF.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("atomnet failed")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML pipeline config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level (trace/debug/info/warn/error)")
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		logrus.WithError(err).Fatal("bind --log-level flag")
	}
	viper.SetEnvPrefix("atomnet")
	viper.AutomaticEnv()
	if v := viper.GetString("log-level"); v != "" {
		logLevel = v
	}
}

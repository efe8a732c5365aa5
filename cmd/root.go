package cmd

import (
	"fmt"
	"os"

	"github.com/oasprobe/oasprobe/lib"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var logFile string
var debugLogging bool
var prettyLogs bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oasprobe",
	Short: "Specification-driven error-based SQL injection probe",
	Long: `oasprobe discovers the operation surface of an HTTP API from its
Swagger 2.0 or OpenAPI 3.x document, synthesizes plausible request values
from the declared schemas, injects SQL metacharacters one field at a time
and reports responses that look like unhandled server errors.

Findings are streamed to stdout as one JSON object per line; logs go to
stderr.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.oasprobe.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Mirror logs into a file in addition to stderr")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Use debug level logging")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", true, "Use pretty logging instead JSON")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case logFile != "":
			lib.ZeroConsoleAndFileLog(logFile)
		case prettyLogs:
			lib.ZeroConsoleLog()
		default:
			lib.ZeroJSONLog()
		}
		if debugLogging {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		return nil
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".oasprobe" (without
		// extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".oasprobe")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-uart"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uartctl",
	Short: "Talk to serial devices from the command line",
	Long: `uartctl opens a serial device in raw 8-N-1 mode and exchanges bytes with it.

Every command opens the device, applies the line settings once and releases
the device on exit. Reads wait at most --timeout (100ms steps) per window.

Settings can come from flags, UARTCTL_* environment variables or a config
file ($HOME/.uartctl.yaml by default):

  baud: 115200
  timeout: 200ms
  log:
    level: debug
    file: /var/log/uartctl.log`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
			File:   viper.GetString("log.file"),
		})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.uartctl.yaml)")
	flags.IntP("baud", "b", 9600, "Baud rate")
	flags.DurationP("timeout", "t", 500*time.Millisecond, "Read timeout per window (multiple of 100ms, 100ms to 25.5s)")
	flags.Int("buffer", 256, "Maximum bytes returned by one read")
	flags.Bool("strict", false, "Fail when the device rejects the line settings")
	flags.Bool("no-sync", false, "Open without O_SYNC")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console, json")
	flags.String("log-file", "", "Also write logs to this file (rotated)")

	cobra.CheckErr(viper.BindPFlag("baud", flags.Lookup("baud")))
	cobra.CheckErr(viper.BindPFlag("timeout", flags.Lookup("timeout")))
	cobra.CheckErr(viper.BindPFlag("buffer", flags.Lookup("buffer")))
	cobra.CheckErr(viper.BindPFlag("strict", flags.Lookup("strict")))
	cobra.CheckErr(viper.BindPFlag("no-sync", flags.Lookup("no-sync")))
	cobra.CheckErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log.format", flags.Lookup("log-format")))
	cobra.CheckErr(viper.BindPFlag("log.file", flags.Lookup("log-file")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".uartctl")
	}

	viper.SetEnvPrefix("UARTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// sessionOptions turns the resolved settings into session options
func sessionOptions() []uart.Option {
	opts := []uart.Option{
		uart.WithReadTimeout(viper.GetDuration("timeout")),
		uart.WithBufferSize(viper.GetInt("buffer")),
		uart.WithSyncWrite(!viper.GetBool("no-sync")),
		uart.WithLogger(logger),
	}
	if viper.GetBool("strict") {
		opts = append(opts, uart.WithStrictConfig())
	}
	return opts
}

// newSession builds a closed session for portPath from the resolved settings
func newSession(portPath string) (*uart.Session, error) {
	return uart.NewSession(portPath, viper.GetInt("baud"), sessionOptions()...)
}

// withSession opens portPath, runs fn and always closes the device
func withSession(portPath string, fn func(*uart.Session) error) error {
	return uart.Use(portPath, viper.GetInt("baud"), fn, sessionOptions()...)
}

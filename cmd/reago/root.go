package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leofalp/reago/patterns/react"
	"github.com/leofalp/reago/providers/reasoning"
)

const (
	flagConfig           = "config"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
	flagMetricsAddr      = "metrics-addr"
	flagMetricsLinger    = "metrics-linger"
	flagOTLPEndpoint     = "otlp-endpoint"
	flagOTLPInsecure     = "otlp-insecure"
	flagMaxCycles        = "max-cycles"
	flagMaxMalformed     = "max-malformed-retries"
	flagReasoningTimeout = "reasoning-timeout"
	flagToolTimeout      = "tool-timeout"
	flagJSON             = "json"
	flagNoColor          = "no-color"
)

// app carries the state shared by all commands.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "reago",
		Short:         "Run scripted ReAct agent episodes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.String(flagConfig, "", "config file (default ./reago.yaml or $XDG_CONFIG_HOME/reago/reago.yaml)")
	f.String(flagLogLevel, "warn", "log level: trace, debug, info, warn, error")
	f.String(flagLogFormat, "compact", "log format: compact, pretty, json")
	f.String(flagMetricsAddr, "", "serve Prometheus metrics on this address, e.g. :9090")
	f.Duration(flagMetricsLinger, 0, "keep serving metrics this long after the episodes finish")
	f.String(flagOTLPEndpoint, "", "export spans to this OTLP/HTTP collector, e.g. localhost:4318")
	f.Bool(flagOTLPInsecure, false, "disable TLS for the OTLP exporter")
	f.Int(flagMaxCycles, 0, "cycle budget (overrides the scenario)")
	f.Int(flagMaxMalformed, 0, "consecutive malformed thoughts tolerated, 0 for none (overrides the scenario)")
	f.Duration(flagReasoningTimeout, 0, "deadline per reasoning call (overrides the scenario)")
	f.Duration(flagToolTimeout, 0, "deadline per tool call (overrides the scenario)")
	f.Bool(flagJSON, false, "print episode reports as JSON")
	f.Bool(flagNoColor, false, "disable colored output")

	root.AddCommand(a.newRunCmd(), a.newBatchCmd(), a.newToolsCmd(), a.newPromptCmd())
	return root
}

// loadConfig binds flags, REAGO_* variables and the config file, in
// increasing order of precedence from file to flag.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("REAGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := v.GetString(flagConfig)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("reago")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "reago"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// episodeConfig starts from the scenario's budgets and applies any value
// set explicitly by flag, environment or config file.
func (a *app) episodeConfig(sc *reasoning.Scenario) react.Config {
	cfg := react.Config{
		MaxCycles:           sc.Config.MaxCycles,
		MaxMalformedRetries: sc.Config.MaxMalformedRetries,
		ReasoningTimeout:    sc.Config.ReasoningTimeout,
		ToolTimeout:         sc.Config.ToolTimeout,
	}
	if a.v.IsSet(flagMaxCycles) {
		cfg.MaxCycles = a.v.GetInt(flagMaxCycles)
	}
	if a.v.IsSet(flagMaxMalformed) {
		cfg.MaxMalformedRetries = a.v.GetInt(flagMaxMalformed)
		if cfg.MaxMalformedRetries == 0 {
			cfg.MaxMalformedRetries = react.NoMalformedRetries
		}
	}
	if a.v.IsSet(flagReasoningTimeout) {
		cfg.ReasoningTimeout = a.v.GetDuration(flagReasoningTimeout)
	}
	if a.v.IsSet(flagToolTimeout) {
		cfg.ToolTimeout = a.v.GetDuration(flagToolTimeout)
	}
	return cfg
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clarete/pas"
	"github.com/clarete/pas/ascii"
	"github.com/clarete/pas/cmd/internal/env"
)

// globals holds the persistent flags and what's built from them
// before any subcommand runs
type globals struct {
	configFile       string
	logLevel         string
	noColor          bool
	maxDepth         int
	noRecursionGuard bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdin: stdin, stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	defaults := pas.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "pas",
		Short:         "pas - match texts against grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = g.logger.Sync()
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configFile, "config", "", "Path to a YAML configuration file")
	flags.StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable terminal colors")
	flags.IntVar(&g.maxDepth, "max-depth", defaults.GetInt("match.max_depth"), "Maximum rule nesting while matching, 0 disables the limit")
	flags.BoolVar(&g.noRecursionGuard, "no-recursion-guard", false, "Disable left recursion detection")

	rootCmd.AddCommand(
		newMatchCmd(g),
		newRulesCmd(g),
		newAstCmd(g),
		newReplCmd(g),
		newServeCmd(g),
		newRemoteCmd(g),
	)
	return rootCmd
}

// setup fills the flags that weren't given from the environment and
// then from the configuration file, and builds the logger
func (g *globals) setup(cmd *cobra.Command) error {
	if err := env.CheckEnvironmentVariables(cmd); err != nil {
		return err
	}
	if g.configFile != "" {
		v := viper.New()
		v.SetConfigFile(g.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("can't read config file: %w", err)
		}
		if err := env.CheckConfigFile(cmd, v); err != nil {
			return err
		}
	}
	logger, err := newLogger(g.logLevel, g.stderr)
	if err != nil {
		return err
	}
	g.logger = logger
	return nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// engineConfig is the matching configuration built from the flags
func (g *globals) engineConfig() *pas.Config {
	cfg := pas.NewConfig()
	cfg.SetInt("match.max_depth", g.maxDepth)
	cfg.SetBool("match.recursion_guard", !g.noRecursionGuard)
	return cfg
}

func (g *globals) format() pas.FormatFunc[pas.FormatToken] {
	if g.noColor {
		return pas.ThemeFormat(ascii.NoColor)
	}
	return pas.ThemeFormat(ascii.DefaultTheme)
}

func (g *globals) color(color, format string, args ...any) string {
	if g.noColor {
		color = ""
	}
	return ascii.Color(color, format, args...)
}

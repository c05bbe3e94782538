package main

import (
	goerrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/chrisvm/chris/syntax"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli carries the configuration shared by every subcommand of one root
// command.
type cli struct {
	v            *viper.Viper
	logger       zerolog.Logger
	syntaxConfig syntax.SyntaxConfig
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "chris [file]",
		Short: "Compile s-expressions to bytecode and run them",
		Long: `Chris compiles a single s-expression such as (- (* 10 3) 10) to
bytecode and evaluates it on a stack virtual machine.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initConfig,
		RunE:              c.evalHandler,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./chris.yaml)")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	pf.Int64("max-heap-bytes", 0, "heap budget per run in bytes, 0 for unlimited")
	pf.String("output", "", "output format: json, text")
	pf.String("syntax", "full", "syntax preset: full, numeric, arithmetic")
	pf.Bool("fold", false, "fold constant arithmetic before compiling")
	if err := c.v.BindPFlags(pf); err != nil {
		panic(err)
	}

	addInputFlags(root)
	root.Flags().Bool("stats", false, "print run statistics to stderr")

	root.AddCommand(
		c.evalCmd(),
		c.disCmd(),
		c.compileCmd(),
		c.runCmd(),
		c.testCmd(),
		c.benchCmd(),
		c.versionCmd(),
	)
	return root
}

// initConfig layers config file, CHRIS_* environment variables and flags,
// then applies the global settings.
func (c *cli) initConfig(cmd *cobra.Command, args []string) error {
	c.v.SetEnvPrefix("CHRIS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if path := c.v.GetString("config"); path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		c.v.SetConfigName("chris")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		if err := c.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !goerrors.As(err, &notFound) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if c.v.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	config, ok := syntax.Preset(c.v.GetString("syntax"))
	if !ok {
		return fmt.Errorf("unknown syntax preset %q", c.v.GetString("syntax"))
	}
	c.syntaxConfig = config

	level, err := zerolog.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", c.v.GetString("log-level"))
	}
	c.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	return nil
}

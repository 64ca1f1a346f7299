package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-fit/internal/config"
	"github.com/jonathan/resume-fit/internal/observability"
)

// app carries state shared by subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "resume_fit",
		Short: "Score how well a resume fits a job description",
		Long: "resume_fit compares a resume with a job description using embedding similarity " +
			"and an LLM assessment, and fuses both into a single fit score.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("log-json", false, "Write logs as JSON")
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))
	_ = a.v.BindPFlag("json", flags.Lookup("log-json"))

	root.AddCommand(
		newAnalyzeCmd(a),
		newFetchJobCmd(a),
		newExtractResumeCmd(a),
		newServeCmd(a),
	)
	return root
}

// load reads the configuration and builds the logger. Local commands do not
// require provider credentials.
func (a *app) load(local bool) (*config.Config, *zap.Logger, error) {
	loader := config.Load
	if local {
		loader = config.LoadLocal
	}
	cfg, err := loader(a.v, a.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := observability.NewLogger(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

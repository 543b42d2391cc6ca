// Package cli implements the foodlens command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timmy/foodlens/internal/app"
	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/ingredient"
	"github.com/timmy/foodlens/internal/logger"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Pipeline is the part of the analysis service the commands drive.
type Pipeline interface {
	Recognize(ctx context.Context, image []byte) (*domain.Recognition, error)
	Analyze(ctx context.Context, selection []string) (*domain.AnalysisResult, error)
	Keywords() ingredient.KeywordSet
}

// PipelineFactory builds a Pipeline from loaded configuration. withModel is
// false for commands that stop after recognition.
type PipelineFactory func(cfg *config.Config, withModel bool) (Pipeline, error)

// DefaultPipeline wires the real OCR engine, plus the chat client when
// withModel is set.
func DefaultPipeline(cfg *config.Config, withModel bool) (Pipeline, error) {
	build := app.NewRecognitionService
	if withModel {
		build = app.NewAnalysisService
	}
	svc, err := build(cfg, nil)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	cfg     *config.Config
	factory PipelineFactory
}

// pipeline builds the pipeline lazily so that keywords needs no engine and
// recognize needs no model credentials.
func (o *RootOptions) pipeline(withModel bool) (Pipeline, error) {
	return o.factory(o.cfg, withModel)
}

// NewRootCmd creates the root command. A nil factory uses DefaultPipeline.
func NewRootCmd(factory PipelineFactory) *cobra.Command {
	if factory == nil {
		factory = DefaultPipeline
	}
	opts := &RootOptions{factory: factory}

	cmd := &cobra.Command{
		Use:   "foodlens",
		Short: "Food label additive analysis",
		Long: `foodlens reads the ingredient list on a food package photo, lets you pick
additive phrases and asks a language model how they affect children's health.`,
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("config initialization failed: %w", err)
			}
			opts.cfg = cfg

			logger.SetDefaultLogger(logger.New(&logger.Config{
				Level:       opts.LogLevel,
				Format:      "text",
				Output:      cmd.ErrOrStderr(),
				ServiceName: "foodlens-cli",
			}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./configs/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRecognizeCmd(opts),
		newAnalyzeCmd(opts),
		newKeywordsCmd(opts),
	)
	return cmd
}

// Execute runs the CLI with the real pipeline.
func Execute() error {
	return NewRootCmd(nil).Execute()
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timmy/foodlens/internal/prompts"
	"github.com/timmy/foodlens/internal/service"
)

func newAnalyzeCmd(opts *RootOptions) *cobra.Command {
	var (
		imagePath string
		all       bool
		selectRaw string
		pickRaw   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Recognize a label and analyze the selected additives",
		Long: `Runs the whole pipeline once. Choose phrases with --all, --select (comma
separated phrases) or --pick (comma separated 1-based positions). Without any
of them the first phrases are used, as in the web interface.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline(true)
			if err != nil {
				return err
			}
			rec, err := recognizeFile(cmd, opts, p, imagePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rec.Phrases) == 0 {
				fmt.Fprintln(out, "未识别到成分")
				return nil
			}

			var selection []string
			switch {
			case all:
				selection = rec.Phrases
			case selectRaw != "":
				selection = splitList(selectRaw)
			case pickRaw != "":
				selection, err = pick(rec.Phrases, pickRaw)
				if err != nil {
					return err
				}
			default:
				selection = rec.DefaultSelection
			}

			result, err := p.Analyze(cmd.Context(), selection)
			if err != nil {
				if pe, ok := service.AsPipelineError(err); ok && !errors.Is(err, service.ErrModelCallFailure) {
					return errors.New(pe.Message)
				}
				return err
			}

			fmt.Fprintln(out, "分析成分："+strings.Join(result.Phrases, ", "))
			fmt.Fprintln(out)
			fmt.Fprintln(out, result.CleanedText)
			fmt.Fprintln(out)
			fmt.Fprintln(out, prompts.Disclaimer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "label image (png, jpg, jpeg)")
	cmd.Flags().BoolVar(&all, "all", false, "select every recognized phrase")
	cmd.Flags().StringVar(&selectRaw, "select", "", "phrases to analyze, comma separated")
	cmd.Flags().StringVar(&pickRaw, "pick", "", "1-based phrase positions, comma separated")
	cmd.MarkFlagsMutuallyExclusive("all", "select", "pick")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '，' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pick resolves 1-based positions against phrases.
func pick(phrases []string, raw string) ([]string, error) {
	var out []string
	for _, part := range splitList(raw) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", part)
		}
		if n < 1 || n > len(phrases) {
			return nil, fmt.Errorf("position %d out of range 1-%d", n, len(phrases))
		}
		out = append(out, phrases[n-1])
	}
	return out, nil
}

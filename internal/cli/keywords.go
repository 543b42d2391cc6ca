package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timmy/foodlens/internal/ingredient"
	"github.com/timmy/foodlens/internal/prompts"
)

func newKeywordsCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "Print the additive keywords used by the selection check",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, kw := range ingredient.NewKeywordSet(opts.cfg.Additives.Keywords).Words() {
				fmt.Fprintln(out, kw)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, prompts.UsageHint)
			return nil
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/timmy/foodlens/internal/domain"
	"github.com/timmy/foodlens/internal/ocr"
)

func newRecognizeCmd(opts *RootOptions) *cobra.Command {
	var (
		imagePath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "Recognize a label and list its phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline(false)
			if err != nil {
				return err
			}
			rec, err := recognizeFile(cmd, opts, p, imagePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			printRecognition(out, rec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "label image (png, jpg, jpeg)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func recognizeFile(cmd *cobra.Command, opts *RootOptions, p Pipeline, path string) (*domain.Recognition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, err := ocr.PrepareImage(data, opts.cfg.OCR.AcceptedFormats)
	if err != nil {
		return nil, err
	}
	return p.Recognize(cmd.Context(), img.Data)
}

func printRecognition(out io.Writer, rec *domain.Recognition) {
	fmt.Fprintln(out, "识别文本：")
	fmt.Fprintln(out, rec.FullText)
	fmt.Fprintln(out)
	if len(rec.Phrases) == 0 {
		fmt.Fprintln(out, "未识别到成分")
		return
	}
	fmt.Fprintln(out, "成分：")
	for i, p := range rec.Phrases {
		fmt.Fprintf(out, "%3d. %s\n", i+1, p)
	}
}

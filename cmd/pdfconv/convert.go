package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfconv"
	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/internal/config"
	"github.com/tsawler/pdfconv/internal/history"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>...",
	Short: "Convert PDF files to another format",
	Long: `Convert extracts each PDF once and writes it in the target format to the
output directory, named after the source with the target's extension.

A file that cannot be converted leaves no output behind. Images a target
cannot embed are skipped and reported; they do not fail the conversion.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("to", "t", "", "target format: text, docx, pptx, rtf, doc or html")
	convertCmd.Flags().StringP("out", "o", "", "output directory")
	convertCmd.Flags().String("pages", "", "pages to convert, e.g. 1-3,7")
	convertCmd.Flags().Bool("ocr", false, "recognize text on pages that only hold images")
	convertCmd.Flags().String("ocr-lang", "", "OCR languages, e.g. eng+deu")
	convertCmd.Flags().String("title", "", "title for targets that carry one")
	convertCmd.Flags().Bool("report", false, "print a YAML report of each conversion")
	convertCmd.Flags().Bool("history", false, "record conversions in the history database")

	viper.BindPFlag("target", convertCmd.Flags().Lookup("to"))
	viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("out"))
	viper.BindPFlag("ocr.enabled", convertCmd.Flags().Lookup("ocr"))
	viper.BindPFlag("ocr.language", convertCmd.Flags().Lookup("ocr-lang"))
	viper.BindPFlag("history.enabled", convertCmd.Flags().Lookup("history"))

	rootCmd.AddCommand(convertCmd)
}

// report is one entry of the --report output.
type report struct {
	pdfconv.Result `yaml:",inline"`
	Error          string `yaml:"error,omitempty"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target, err := cfg.TargetFormat()
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	pageSpec, _ := cmd.Flags().GetString("pages")
	pages, err := parsePages(pageSpec)
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")
	withReport, _ := cmd.Flags().GetBool("report")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	open := func(src string) *pdfconv.Converter {
		c := pdfconv.Open(src).
			Logger(logger).
			Layout(cfg.Layout.LeftMargin, cfg.Layout.Top, cfg.Layout.LineAdvance).
			Title(title)
		if len(pages) > 0 {
			c = c.Pages(pages...)
		}
		if cfg.OCR.Enabled {
			c = c.OCR(cfg.OCR.Language)
		}
		return c
	}

	ctx := cmd.Context()
	var reports []report
	failed := 0
	for _, src := range args {
		res, err := convertOne(ctx, open(src), src, target, cfg, store, logger)
		if err != nil {
			failed++
			logger.Error("conversion failed", "source", src, "error", err)
		} else if !withReport {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src, res.Output)
		}
		if withReport {
			r := report{Result: *res}
			if err != nil {
				r.Error = err.Error()
			}
			reports = append(reports, r)
		}
	}

	if withReport {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversion(s) failed", failed, len(args))
	}
	return nil
}

// convertOne converts src, recording the request when store is set.
func convertOne(ctx context.Context, c *pdfconv.Converter, src string, target format.Target,
	cfg config.Config, store *history.Store, logger *slog.Logger) (*pdfconv.Result, error) {
	defer c.Close()

	var id int64
	if store != nil {
		var err error
		if id, err = store.Begin(ctx, src, target); err != nil {
			logger.Warn("history unavailable", "error", err)
		}
	}

	res, err := c.ConvertFile(ctx, target, cfg.OutputDir)

	if store != nil && id != 0 {
		// Record the outcome even when ctx was cancelled.
		if herr := store.Finish(context.WithoutCancel(ctx), id, res); herr != nil {
			logger.Warn("history unavailable", "error", herr)
		}
	}
	return res, err
}

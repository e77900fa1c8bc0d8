// Package main is the entry point for the pdfconv CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pdfconv/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfconv CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfconv",
	Short: "Convert PDF documents to text, Word, PowerPoint, RTF and HTML",
	Long: `pdfconv reads the text and images of PDF documents and writes them as
plain text, .docx, .pptx, .rtf, Word 97 .doc or HTML.

Settings are read from pdfconv.yaml in the current directory or in
~/.config/pdfconv/, from PDFCONV_* environment variables, and from flags.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfconv.yaml or ~/.config/pdfconv/pdfconv.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().String("history-db", "", "conversion history database")

	viper.BindPFlag("history.path", rootCmd.PersistentFlags().Lookup("history-db"))
	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfconv"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged settings.
func loadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// newLogger writes text records to stderr at the configured level, or
// at debug level with --verbose.
func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

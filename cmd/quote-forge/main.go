// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the quote-forge CLI. Each pipeline
// stage is a subcommand: extract and scrape build datasets, validate checks
// them, and finetune hands them to the fine-tuning API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/quote-forge/internal/logging"
	"github.com/pdiddy/quote-forge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration, loaded before any subcommand runs.
	cfg types.PipelineConfig

	logger    *logrus.Logger
	logCloser io.Closer
)

// rootCmd is the base command for the quote-forge CLI.
var rootCmd = &cobra.Command{
	Use:   "quote-forge",
	Short: "Turn letters and speeches into a chat fine-tuning dataset",
	Long: `quote-forge extracts quotable sentences from a document (PDF or text) and
from web pages, writes them as a chat-format JSONL training set with CSV,
listing and system prompt companions, validates the result, and drives a
fine-tuning job through the API.

Typical flow: extract, scrape (merging with the extract listing), validate,
then finetune run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		l, closer, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./quote-forge.yaml or ~/.config/quote-forge/quote-forge.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file, rotated by size")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for generated dataset files")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("dataset.output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("quote-forge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "quote-forge"))
		}
	}

	viper.SetEnvPrefix("QUOTE_FORGE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

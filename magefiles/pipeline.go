//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// cli runs the freshly built binary with args, streaming its output.
func cli(args ...string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), args...)
}

// Extract builds the document dataset. DOCUMENT overrides the source file.
func Extract() error {
	args := []string{"extract"}
	if doc := os.Getenv("DOCUMENT"); doc != "" {
		args = append(args, "--document", doc)
	}
	return cli(args...)
}

// Scrape builds the combined dataset from the configured speech pages,
// merging with the Extract listing.
func Scrape() error {
	return cli("scrape")
}

// Dataset runs Extract then Scrape.
func Dataset() {
	mg.SerialDeps(Extract, Scrape)
}

// Validate checks the training file named by finetune.training_file.
func Validate() error {
	return cli("validate")
}

// FineTune validates the training file and runs a fine-tuning job.
func FineTune() error {
	mg.Deps(Validate)
	return cli("finetune", "run")
}

//go:build mage

// Package main contains Mage build targets for pdfconv developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pdfconv"
	cmdPkg  = "./cmd/pdfconv"
	// coverFile is written by Cover.
	coverFile = "coverage.out"
)

// Default target to run when none is specified.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// BuildOCR compiles the CLI with Tesseract OCR support. It needs the
// tesseract and leptonica development libraries.
func BuildOCR() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName+"-ocr")
	return sh.RunV("go", "build", "-tags", "ocr", "-o", out, cmdPkg)
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the test suite.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "./...")
}

// TestOCR runs the test suite with OCR support compiled in.
func TestOCR() error {
	return sh.RunV("go", "test", "-tags", "ocr", "./...")
}

// Cover runs the tests with coverage and prints the per-function summary.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverFile)
}

// Clean removes build output.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return err
	}
	return sh.Rm(coverFile)
}

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Test

var commands = []string{"ipaggregate", "iprand", "leeloo-build"}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet on every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Build compiles the commands into bin/.
func Build() error {
	mg.Deps(Vet)
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	for _, name := range commands {
		out := filepath.Join("bin", name)
		if err := sh.RunV("go", "build", "-o", out, "./cmd/"+name); err != nil {
			return err
		}
	}
	return nil
}

// Package builds the native module from LEELOO_SOURCE (default ".") and
// assembles the Python package into tmp/.
func Package() error {
	mg.Deps(Build)
	src := os.Getenv("LEELOO_SOURCE")
	if src == "" {
		src = "."
	}
	return sh.RunV(filepath.Join("bin", "leeloo-build"), "--source", src, "--package-dir", "tmp", "--smoke")
}

// Clean removes build outputs.
func Clean() error {
	for _, dir := range []string{"bin", "tmp"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

//go:build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "inventory"

// Default target to run when none is specified
var Default = Build

// Build builds the binary
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", binary, "./cmd/inventory")
}

// Test runs all unit tests with coverage
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-race", "-coverprofile=coverage.out", "./...")
}

// TestIntegration runs the tests that scan real directories into real stores
func TestIntegration() error {
	fmt.Println("Running integration tests...")
	return run(context.Background(), "go", "test", "-race", "-tags=integration", "./internal/session/...")
}

// TestForFail runs the unit tests purely to find out whether any fail
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return run(context.Background(), "go", "test", "-timeout=30s", "./...", "-failfast", "-shuffle=on", "-race")
}

// Lint lints the codebase
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "./...")
}

// CheckNils checks for nils
func CheckNils() error {
	fmt.Println("Running check for nils...")
	return run(context.Background(), "nilaway", "./...")
}

// Check runs every check: tests, lint and nil analysis
func Check() error {
	mg.SerialDeps(Test, Lint, CheckNils)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	for _, path := range []string{binary, "coverage.out", "coverage.html"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Install installs the binary
func Install() error {
	fmt.Println("Installing...")
	return sh.Run("go", "install", "./cmd/inventory")
}

// Coverage writes an HTML coverage report
func Coverage() error {
	mg.Deps(Test)
	fmt.Println("Generating coverage report...")
	return sh.Run("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Helper function to run commands with context
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

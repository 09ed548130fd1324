// Package main builds the smv binary into bin/, stamping the version from git.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/swagger-mock-validator/internal/app.Version"

func main() {
	ctx := context.Background()

	binaryName := "smv"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := gitVersion(ctx)
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	// Ensure bin directory exists
	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building smv %s...\n", version)

	cmd := exec.CommandContext(ctx, "go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/smv")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// gitVersion describes HEAD, or returns "dev" outside a git checkout.
func gitVersion(ctx context.Context) string {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}

// Package main removes smv build output, logs and coverage profiles.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// artefacts are glob patterns relative to the repository root.
var artefacts = []string{
	"bin",
	".smv.log",
	"*/*/.smv.log",
	"coverage*",
	"*.out",
	"*.test",
	"*.coverprofile",
}

func main() {
	failed := false
	for _, pattern := range artefacts {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Bad pattern %s: %v\n", pattern, err)
			failed = true
			continue
		}
		for _, m := range matches {
			if err := os.RemoveAll(m); err != nil {
				_, _ = fmt.Printf("❌ Failed to remove %s: %v\n", m, err)
				failed = true
				continue
			}
			_, _ = fmt.Printf("✅ Removed %s\n", m)
		}
	}
	if failed {
		os.Exit(1)
	}
}

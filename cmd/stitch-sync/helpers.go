package main

import (
	"path/filepath"
	"strings"

	"stitchsync/internal/catalog"
)

// defaultWatchDir is where browsers drop purchased designs.
func defaultWatchDir(home string) string {
	return filepath.Join(home, "Downloads")
}

func formatCodes(formats []catalog.Format) string {
	codes := make([]string, len(formats))
	for i, f := range formats {
		codes[i] = f.Code
	}
	return strings.Join(codes, ", ")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func joinComma(values []string) string {
	return strings.Join(values, ", ")
}

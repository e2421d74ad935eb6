package volumes

import (
	"bufio"
	"strings"
)

// diskutilInfo is the subset of `diskutil info` output the locator cares
// about.
type diskutilInfo struct {
	Removable bool
	USB       bool
}

// parseDiskutilInfo reads `diskutil info <path>` output, which is a table
// of "   Key:   Value" lines, and extracts removable-media and bus-protocol
// facts.
func parseDiskutilInfo(output string) diskutilInfo {
	var info diskutilInfo
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Removable Media":
			info.Removable = value == "Yes" || value == "Removable"
		case "Protocol":
			info.USB = value == "USB"
		}
	}
	return info
}

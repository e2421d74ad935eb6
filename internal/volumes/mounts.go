package volumes

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// mountEntry is one row of a /proc/mounts style table.
type mountEntry struct {
	Device string
	Point  string
}

// parseMountTable reads a /proc/mounts style table and keeps entries whose
// mount point lives under one of the given roots, preserving table order.
func parseMountTable(r io.Reader, roots []string) []mountEntry {
	var out []mountEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		device := unescapeMountPath(fields[0])
		point := unescapeMountPath(fields[1])
		for _, root := range roots {
			if strings.HasPrefix(point, root+"/") {
				out = append(out, mountEntry{Device: device, Point: point})
				break
			}
		}
	}
	return out
}

// unescapeMountPath decodes the octal escapes the kernel uses in
// /proc/mounts, such as \040 for a space in a volume label.
func unescapeMountPath(path string) string {
	if !strings.Contains(path, `\`) {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '\\' && i+3 < len(path) {
			if code, err := strconv.ParseUint(path[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(code))
				i += 3
				continue
			}
		}
		b.WriteByte(path[i])
	}
	return b.String()
}

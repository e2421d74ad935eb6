package inkscape

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DownloadURL points users at the Inkscape installer.
const DownloadURL = "https://inkscape.org/release/"

// ExtensionInstallURL points users at the Ink/Stitch install guide.
const ExtensionInstallURL = "https://inkstitch.org/docs/install/"

// Availability is the probe result for the external toolchain.
type Availability struct {
	// Path is the inkscape executable, empty when not found.
	Path string
	// HasExtension reports whether the Ink/Stitch extension is installed.
	HasExtension bool
}

// Usable reports whether conversions can be attempted at all.
func (a Availability) Usable() bool {
	return a.Path != "" && a.HasExtension
}

// Probe searches PATH and the platform's well-known install locations for
// Inkscape, then checks the Ink/Stitch extension directories. The result
// is cached by the session; Probe itself performs no caching.
func Probe() Availability {
	path := findExecutable()
	if path == "" {
		return Availability{}
	}
	return Availability{
		Path:         path,
		HasExtension: findExtension(path),
	}
}

func findExecutable() string {
	if path, err := exec.LookPath("inkscape"); err == nil {
		return path
	}

	var locations []string
	switch runtime.GOOS {
	case "darwin":
		locations = []string{"/Applications/Inkscape.app/Contents/MacOS/inkscape"}
	case "windows":
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if base := os.Getenv(env); base != "" {
				locations = append(locations, filepath.Join(base, "Inkscape", "bin", "inkscape.exe"))
			}
		}
	default:
		locations = []string{
			"/usr/bin/inkscape",
			"/usr/local/bin/inkscape",
			"/opt/inkscape/bin/inkscape",
		}
	}

	for _, candidate := range locations {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func findExtension(inkscapePath string) bool {
	for _, dir := range extensionDirs(inkscapePath) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func extensionDirs(inkscapePath string) []string {
	var dirs []string
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Application Support",
				"org.inkscape.Inkscape", "config", "inkscape", "extensions", "inkstitch"))
		}
		// Extension bundled inside the application itself.
		if bundle := filepath.Dir(filepath.Dir(inkscapePath)); bundle != "" {
			dirs = append(dirs, filepath.Join(bundle, "Resources", "share", "inkscape", "extensions", "inkstitch"))
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "inkscape", "extensions", "inkstitch"))
		}
	default:
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".config", "inkscape", "extensions", "inkstitch"))
		}
		dirs = append(dirs,
			"/usr/share/inkscape/extensions/inkstitch",
			"/usr/local/share/inkscape/extensions/inkstitch",
		)
	}
	return dirs
}

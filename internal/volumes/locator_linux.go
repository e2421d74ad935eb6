//go:build linux

package volumes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pilebones/go-udev/crawler"
	"github.com/pilebones/go-udev/netlink"

	"stitchsync/internal/logging"
)

// listCandidates enumerates per-user media mounts and keeps the ones whose
// block device sits under a USB controller in the sysfs device tree.
func (l *Locator) listCandidates(ctx context.Context) []Candidate {
	roots := mediaRoots()
	if len(roots) == 0 {
		return nil
	}

	mountsFile, err := os.Open("/proc/mounts")
	if err != nil {
		l.logger.Warn("cannot read mount table", logging.Error(err))
		return nil
	}
	mounts := parseMountTable(mountsFile, roots)
	mountsFile.Close()
	if len(mounts) == 0 {
		return nil
	}

	sysfs := l.crawlBlockDevices(ctx)

	var out []Candidate
	for _, mount := range mounts {
		devname := strings.TrimPrefix(mount.Device, "/dev/")
		kobj, ok := sysfs[devname]
		if !ok {
			l.logger.Warn("no sysfs entry for mounted device; skipping",
				logging.String("device", mount.Device),
				logging.String(logging.FieldVolume, mount.Point),
			)
			continue
		}
		// A USB-attached block device has a usb controller in its sysfs
		// parent chain, e.g. .../usb1/1-2/.../block/sdb/sdb1.
		if !strings.Contains(kobj, "/usb") {
			continue
		}
		out = append(out, Candidate{Root: mount.Point, Name: filepath.Base(mount.Point)})
	}
	return out
}

// crawlBlockDevices walks existing block devices through the udev sysfs
// crawler and maps device names (sdb1) to their sysfs object paths.
func (l *Locator) crawlBlockDevices(ctx context.Context) map[string]string {
	queue := make(chan crawler.Device)
	errs := make(chan error)

	rules := new(netlink.RuleDefinitions)
	rules.AddRule(netlink.RuleDefinition{
		Env: map[string]string{"DEVTYPE": "partition|disk"},
	})

	quit := crawler.ExistingDevices(queue, errs, rules)
	defer close(quit)

	devices := make(map[string]string)
	deadline := time.After(l.queryTimeout)
	for {
		select {
		case <-ctx.Done():
			return devices
		case <-deadline:
			l.logger.Warn("sysfs crawl timed out; continuing with partial device list")
			return devices
		case device, ok := <-queue:
			if !ok {
				return devices
			}
			if name := device.Env["DEVNAME"]; name != "" {
				devices[name] = device.KObj
			}
		case err, ok := <-errs:
			if !ok {
				return devices
			}
			// One unreadable device does not fail the crawl.
			l.logger.Warn("sysfs device query failed; skipping", logging.Error(err))
		}
	}
}

// mediaRoots returns the per-user mount roots used by desktop automounters.
func mediaRoots() []string {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("LOGNAME")
	}
	if user == "" {
		return nil
	}
	var roots []string
	for _, base := range []string{"/media", "/run/media"} {
		root := filepath.Join(base, user)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			roots = append(roots, root)
		}
	}
	return roots
}

// Package volumes discovers removable USB storage and resolves the copy
// destination on it.
//
// Discovery is platform specific: macOS asks diskutil about each /Volumes
// entry, Windows probes drive letters through the Win32 drive-type API, and
// Linux walks mounted media against the udev sysfs tree. All backends share
// the same contract: a failure to interrogate one device skips that device
// and never aborts enumeration. Candidates are re-enumerated on every call
// because media is hot-pluggable.
package volumes

// Package config loads and persists the stitch-sync configuration file.
//
// The file lives at the platform config dir (for example
// ~/.config/stitch-sync/config.toml) and stores the defaults the watch
// command falls back to when flags are absent: the watch directory, the
// default machine, and the preferred output format. Command-line flags
// always take precedence over file values.
package config

// Package policy turns session settings into the format policy the
// pipeline enforces: which formats pass through untouched and which format
// conversions target.
package policy

import (
	"stitchsync/internal/catalog"
)

// Settings carries the fully resolved session inputs. Precedence between
// command-line flags, the config file, and defaults is the caller's
// responsibility; by the time a Settings value reaches Resolve it is final.
type Settings struct {
	WatchDir     string
	Machine      string
	OutputFormat string
}

// Resolved is the per-session format policy. It is computed once and never
// mutated afterwards.
type Resolved struct {
	// Accepted formats pass through without conversion. Never empty.
	Accepted []catalog.Format
	// Preferred is the conversion target for everything else.
	Preferred catalog.Format
	// Machine is the active profile, nil when none was configured.
	Machine *catalog.Machine
}

// Accepts reports whether the given extension code is in the accepted set.
func (r *Resolved) Accepts(code string) bool {
	for _, f := range r.Accepted {
		if f.Code == code {
			return true
		}
	}
	return false
}

// AcceptedCodes returns the accepted format codes in order.
func (r *Resolved) AcceptedCodes() []string {
	codes := make([]string, len(r.Accepted))
	for i, f := range r.Accepted {
		codes[i] = f.Code
	}
	return codes
}

// Resolve computes the session policy from settings and the machine
// registry:
//
//   - no machine, no output format: accept only DST, prefer DST
//   - no machine, explicit format F: accept only F, prefer F
//   - machine M, no output format: accept M's formats, prefer the first
//   - machine M, explicit format F: accept M's formats, prefer F, even
//     when F is outside M's accepted set
//
// An unknown machine or format is fatal; the session never starts.
func Resolve(settings Settings, registry *catalog.Registry) (*Resolved, error) {
	var machine *catalog.Machine
	if settings.Machine != "" {
		m, err := registry.Find(settings.Machine)
		if err != nil {
			return nil, err
		}
		machine = m
	}

	var explicit *catalog.Format
	if settings.OutputFormat != "" {
		f, err := catalog.LookupFormat(settings.OutputFormat)
		if err != nil {
			return nil, err
		}
		explicit = &f
	}

	resolved := &Resolved{Machine: machine}
	switch {
	case machine == nil && explicit == nil:
		resolved.Accepted = []catalog.Format{catalog.DefaultFormat}
		resolved.Preferred = catalog.DefaultFormat
	case machine == nil:
		resolved.Accepted = []catalog.Format{*explicit}
		resolved.Preferred = *explicit
	default:
		resolved.Accepted = append(resolved.Accepted, machine.Formats...)
		if explicit != nil {
			resolved.Preferred = *explicit
		} else {
			resolved.Preferred = machine.Preferred()
		}
	}
	return resolved, nil
}

package catalog

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"stitchsync/internal/textutil"
)

//go:embed machines.csv
var machinesCSV string

// Machine describes one embroidery machine profile.
type Machine struct {
	Name          string
	Synonyms      []string
	Formats       []Format // ordered; first entry is the machine's preferred format
	USBPath       string   // destination subpath on the removable volume, if any
	Notes         string
	DesignSize    string
	SanitizeNames bool
}

// Preferred returns the machine's primary format.
func (m *Machine) Preferred() Format {
	return m.Formats[0]
}

// Accepts reports whether the machine reads the given format code.
func (m *Machine) Accepts(code string) bool {
	for _, f := range m.Formats {
		if f.Code == code {
			return true
		}
	}
	return false
}

// FormatCodes returns the machine's format codes in order.
func (m *Machine) FormatCodes() []string {
	codes := make([]string, len(m.Formats))
	for i, f := range m.Formats {
		codes[i] = f.Code
	}
	return codes
}

// ErrUnknownMachine reports a machine name that resolves to nothing in the
// registry, even after fuzzy matching.
var ErrUnknownMachine = errors.New("unknown machine")

// UnknownMachineError wraps ErrUnknownMachine with nearest-name suggestions.
type UnknownMachineError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownMachineError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown machine %q", e.Name)
	}
	return fmt.Sprintf("unknown machine %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownMachineError) Unwrap() error { return ErrUnknownMachine }

// similarityThreshold is the minimum fingerprint cosine score for a fuzzy
// machine-name match.
const similarityThreshold = 0.5

// Registry is the immutable machine table shared by the resolver and the
// command surface.
type Registry struct {
	machines []Machine
	byKey    map[string]int // normalized name or synonym -> machines index
}

type machineEntry struct {
	machine *Machine
	print   *textutil.Fingerprint
}

// LoadRegistry parses the embedded machine table. It is called once at
// startup; a parse failure is a programming error in the asset.
func LoadRegistry() (*Registry, error) {
	return ParseRegistry(strings.NewReader(machinesCSV))
}

// ParseRegistry reads a machine table in the machines.csv column layout.
func ParseRegistry(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read machine table header: %w", err)
	}
	cols, err := columnIndex(header, "Machine Name", "Synonyms", "File Formats", "USB Path", "Notes", "Design Size", "Sanitize Names")
	if err != nil {
		return nil, err
	}

	var machines []Machine
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read machine table: %w", err)
		}

		name := strings.TrimSpace(record[cols["Machine Name"]])
		if name == "" {
			continue
		}

		var fmts []Format
		for _, code := range strings.Split(record[cols["File Formats"]], ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			f, err := LookupFormat(code)
			if err != nil {
				return nil, fmt.Errorf("machine %s: %w", name, err)
			}
			fmts = append(fmts, f)
		}
		if len(fmts) == 0 {
			return nil, fmt.Errorf("machine %s: no file formats", name)
		}

		var synonyms []string
		for _, syn := range strings.Split(record[cols["Synonyms"]], ";") {
			if syn = strings.TrimSpace(syn); syn != "" {
				synonyms = append(synonyms, syn)
			}
		}

		machines = append(machines, Machine{
			Name:          name,
			Synonyms:      synonyms,
			Formats:       fmts,
			USBPath:       strings.TrimSpace(record[cols["USB Path"]]),
			Notes:         strings.TrimSpace(record[cols["Notes"]]),
			DesignSize:    strings.TrimSpace(record[cols["Design Size"]]),
			SanitizeNames: parseSanitizeFlag(record[cols["Sanitize Names"]]),
		})
	}

	byKey := make(map[string]int, len(machines))
	for i := range machines {
		byKey[normalizeMachineName(machines[i].Name)] = i
		for _, syn := range machines[i].Synonyms {
			key := normalizeMachineName(syn)
			if _, taken := byKey[key]; !taken {
				byKey[key] = i
			}
		}
	}

	return &Registry{machines: machines, byKey: byKey}, nil
}

// Machines returns all profiles in table order.
func (r *Registry) Machines() []Machine {
	out := make([]Machine, len(r.machines))
	copy(out, r.machines)
	return out
}

// MachinesSupporting returns the profiles that accept the given format code.
func (r *Registry) MachinesSupporting(code string) []Machine {
	code = strings.ToLower(strings.TrimSpace(code))
	var out []Machine
	for _, m := range r.machines {
		if m.Accepts(code) {
			out = append(out, m)
		}
	}
	return out
}

// Find resolves a machine by name. The lookup is case-insensitive and
// punctuation-insensitive; a near-miss resolves to the most similar profile
// above the similarity threshold. Failure yields an UnknownMachineError
// carrying the closest names as suggestions.
func (r *Registry) Find(name string) (*Machine, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &UnknownMachineError{Name: name}
	}

	if i, ok := r.byKey[normalizeMachineName(trimmed)]; ok {
		return &r.machines[i], nil
	}

	query := textutil.NewFingerprint(trimmed)
	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(r.machines))
	for i := range r.machines {
		best := textutil.CosineSimilarity(query, textutil.NewFingerprint(r.machines[i].Name))
		for _, syn := range r.machines[i].Synonyms {
			if s := textutil.CosineSimilarity(query, textutil.NewFingerprint(syn)); s > best {
				best = s
			}
		}
		if best > 0 {
			ranked = append(ranked, scored{index: i, score: best})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > 0 && ranked[0].score >= similarityThreshold {
		return &r.machines[ranked[0].index], nil
	}

	suggestions := make([]string, 0, 3)
	for _, s := range ranked {
		suggestions = append(suggestions, r.machines[s.index].Name)
		if len(suggestions) == 3 {
			break
		}
	}
	return nil, &UnknownMachineError{Name: trimmed, Suggestions: suggestions}
}

var foldCaser = cases.Fold()

// normalizeMachineName case-folds a name and strips everything that is not
// a letter or digit, so "Janome MC-9900" and "janome mc9900" collide.
func normalizeMachineName(name string) string {
	folded := foldCaser.String(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseSanitizeFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no", "false", "0":
		return false
	default:
		// Sanitization is on unless a profile opts out.
		return true
	}
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	cols := make(map[string]int, len(names))
	for _, want := range names {
		found := -1
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("machine table missing column %q", want)
		}
		cols[want] = found
	}
	return cols, nil
}

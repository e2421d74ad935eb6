package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"stitchsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp watch directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Watch.Dir = filepath.Join(base, "designs")
	if err := os.MkdirAll(cfgVal.Watch.Dir, 0o755); err != nil {
		t.Fatalf("mkdir watch dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMachine sets the machine profile name on the test config.
func WithMachine(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.Machine = name
	}
}

// WithOutputFormat sets the explicit output format on the test config.
func WithOutputFormat(code string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.OutputFormat = code
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Watch.Dir)
}

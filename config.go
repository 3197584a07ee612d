package texlens

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/texlens/texlens/internal/assets"
	"github.com/texlens/texlens/internal/logging"
	"github.com/texlens/texlens/internal/tomlutil"
)

// Config holds every knob named in jlconfig.toml, plus the logger every
// stage writes through.
type Config struct {
	TexEngine        string   `toml:"tex_engine"`
	TexArgs          []string `toml:"tex_args"`
	DvisvgmPath      string   `toml:"dvisvgm_path"`
	DvisvgmArgs      []string `toml:"dvisvgm_args"`
	// TexTimeoutSec and DvisvgmTimeoutSec are wall-clock budgets for the
	// two subprocess invocations, in seconds. Zero means no budget.
	TexTimeoutSec     float64 `toml:"tex_timeout_sec"`
	DvisvgmTimeoutSec float64 `toml:"dvisvgm_timeout_sec"`
	Preamble         string   `toml:"preamble"`
	Postamble        string   `toml:"postamble"`
	WorkDir          string   `toml:"work_dir"`
	KeepWorkDir      bool     `toml:"keep_work_dir"`
	LzmaLoaderURL    string   `toml:"lzma_loader_url"`
	SvgClass         string   `toml:"svg_class"`
	MaxPages         int      `toml:"max_pages"`
	RefinerEpsilonPt float64  `toml:"refiner_epsilon_pt"`
	BaselineAlign    bool     `toml:"baseline_align"`

	// Logger is not a TOML field; it is attached after loading via
	// WithLogger or defaulted by Load.
	Logger zerolog.Logger `toml:"-"`
}

// Option customizes a Config after it has been loaded from disk and
// defaults have been applied.
type Option func(*Config)

// WithLogger overrides the default stderr logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithVerbose is a shorthand for WithLogger(logging.New(true)).
func WithVerbose() Option {
	return func(c *Config) { c.Logger = logging.New(true) }
}

// WithQuiet is a shorthand for WithLogger(logging.NewQuiet()).
func WithQuiet() Option {
	return func(c *Config) { c.Logger = logging.NewQuiet() }
}

// DefaultConfig returns the default configuration: pdflatex on PATH,
// dvisvgm on PATH, a single page, baseline alignment on, and the built-in
// preamble/postamble.
func DefaultConfig() (Config, error) {
	preamble, err := assets.DefaultPreamble()
	if err != nil {
		return Config{}, fmt.Errorf("%w: loading default preamble: %w", ErrConfig, err)
	}
	postamble, err := assets.DefaultPostamble()
	if err != nil {
		return Config{}, fmt.Errorf("%w: loading default postamble: %w", ErrConfig, err)
	}

	return Config{
		TexEngine:        "pdflatex",
		DvisvgmPath:      "dvisvgm",
		Preamble:         preamble,
		Postamble:        postamble,
		LzmaLoaderURL:    assets.DefaultLzmaScriptTag,
		SvgClass:         "svg-math",
		MaxPages:         1,
		RefinerEpsilonPt: 0.1,
		BaselineAlign:    true,
		Logger:           logging.New(false),
	}, nil
}

// configFileName is the well-known jlconfig.toml file name.
const configFileName = "jlconfig.toml"

// Load builds a Config by starting from DefaultConfig, then overlaying
// jlconfig.toml found alongside the running executable, then overlaying
// jlconfig.toml found in the working directory (later wins): a
// two-location, later-overrides-earlier search order. Either file may be
// absent; only a malformed file is a ConfigError.
func Load(opts ...Option) (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	searched := make([]string, 0, 2)

	if exe, err := os.Executable(); err == nil {
		exeConfig := filepath.Join(filepath.Dir(exe), configFileName)
		searched = append(searched, exeConfig)
		if err := overlayFile(&cfg, exeConfig); err != nil {
			return Config{}, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, configFileName)
		searched = append(searched, cwdConfig)
		if err := overlayFile(&cfg, cwdConfig); err != nil {
			return Config{}, err
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, nil
}

// OverlayFile loads path into cfg, the same way Load's two fixed search
// locations do, for a caller that needs to honor an explicit --config
// override on top of the normal search path (cmd/texlens/main.go). Like
// Load's own search locations, a missing file is not an error.
func OverlayFile(cfg *Config, path string) error {
	return overlayFile(cfg, path)
}

// overlayFile decodes path into cfg if it exists, leaving cfg untouched
// when the file is simply absent.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is a fixed, well-known location
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %w", ErrConfig, path, err)
	}

	if err := tomlutil.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrConfig, path, err)
	}
	return nil
}

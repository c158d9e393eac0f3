// Package config is for run-wide settings unmarshalled from Viper. Values
// are layered defaults → config file → ISPCR_* environment → flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ispcr/core/align"
	"ispcr/core/amplicon"
)

// ErrInvalid marks a configuration that must be fixed before any work starts.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is prepended to every environment override, e.g. ISPCR_MAX_SIZE.
const EnvPrefix = "ISPCR"

// Config is the root-level settings struct for one run.
type Config struct {
	// primer input: a TSV/FASTA panel, or one literal pair
	Primers string `mapstructure:"primers"`
	Forward string `mapstructure:"forward"`
	Reverse string `mapstructure:"reverse"`
	Self    bool   `mapstructure:"self"`

	Assemblies []string `mapstructure:"assemblies"`
	Reference  string   `mapstructure:"reference"`
	Reads      []string `mapstructure:"reads"`
	SAM        []string `mapstructure:"sam"`

	MinSize    int     `mapstructure:"min-size"`
	MaxSize    int     `mapstructure:"max-size"`
	MinQuality float64 `mapstructure:"min-quality"`
	FullLength bool    `mapstructure:"full-length"`

	Match    int `mapstructure:"match"`
	Mismatch int `mapstructure:"mismatch"`
	Gap      int `mapstructure:"gap"`

	Backend        string `mapstructure:"backend"`
	Blastn         string `mapstructure:"blastn"`
	WordSize       int    `mapstructure:"word-size"`
	Mismatches     int    `mapstructure:"mismatches"`
	TerminalWindow int    `mapstructure:"terminal-window"`
	HitCap         int    `mapstructure:"hit-cap"`
	Minimap2       string `mapstructure:"minimap2"`
	TempDir        string `mapstructure:"tmp-dir"`

	Threads         int    `mapstructure:"threads"`
	Output          string `mapstructure:"output"`
	Header          bool   `mapstructure:"header"`
	AlignWidth      int    `mapstructure:"align-width"`
	IncludeInvalid  bool   `mapstructure:"include-invalid"`
	NoOrient        bool   `mapstructure:"no-orient"`
	Quiet           bool   `mapstructure:"quiet"`
	Verbose         bool   `mapstructure:"verbose"`
	NoMatchExitCode int    `mapstructure:"no-match-exit-code"`
}

// Window is the run-wide amplicon size window.
func (c Config) Window() amplicon.SizeWindow {
	return amplicon.SizeWindow{Min: c.MinSize, Max: c.MaxSize}
}

// Scoring is the alignment scoring for anchor orientation and region checks.
func (c Config) Scoring() align.Scoring {
	return align.Scoring{Match: c.Match, Mismatch: c.Mismatch, Gap: c.Gap}
}

// Load layers the optional env file, config file, environment and the
// already-parsed flags into a Config. Flags left at their defaults do not
// shadow file or environment values.
func Load(flags *pflag.FlagSet, configFile, envFile string) (Config, error) {
	var c Config
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return c, fmt.Errorf("%w: env file: %v", ErrInvalid, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return c, err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("%w: unable to decode: %v", ErrInvalid, err)
	}
	return c, nil
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	if err := c.Window().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Scoring().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.MinQuality < 0 || c.MinQuality > 100 {
		return fmt.Errorf("%w: --min-quality %g outside 0..100", ErrInvalid, c.MinQuality)
	}
	if c.Primers == "" && c.Forward == "" {
		return fmt.Errorf("%w: need --primers or --forward", ErrInvalid)
	}
	if c.Primers != "" && c.Forward != "" {
		return fmt.Errorf("%w: --primers and --forward are mutually exclusive", ErrInvalid)
	}
	if len(c.Assemblies) == 0 && c.Reference == "" {
		return fmt.Errorf("%w: nothing to search; give assemblies or --reference", ErrInvalid)
	}
	if (len(c.Reads) > 0 || len(c.SAM) > 0) && c.Reference == "" {
		return fmt.Errorf("%w: --reads and --sam need --reference", ErrInvalid)
	}
	switch c.Backend {
	case "blastn", "scan":
	default:
		return fmt.Errorf("%w: unknown --backend %q", ErrInvalid, c.Backend)
	}
	if c.Mismatches < 0 || c.HitCap < 0 {
		return fmt.Errorf("%w: --mismatches and --hit-cap must be >= 0", ErrInvalid)
	}
	return nil
}

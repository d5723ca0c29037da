// Package config provides functionality for managing configuration options
// for the client using command-line flags, environment variables, a .env
// file and an optional JSON config file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the client.
type Options struct {
	// BaseURL is the API origin including the /api prefix.
	BaseURL string `json:"base_url"`

	// Store selects the session store backend: "file" or "sqlite".
	Store string `json:"store"`

	// StorePath is the file (or SQLite database) holding the session.
	StorePath string `json:"store_path"`

	// CAFile is an optional PEM bundle trusted for HTTPS backends.
	CAFile string `json:"ca_file"`

	// Timeout bounds each HTTP request.
	Timeout Duration `json:"timeout"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// TimeLayout formats post timestamps.
	TimeLayout string `json:"time_layout"`

	// Locale names the language of month and day names in post timestamps,
	// e.g. "de_DE". Empty falls back to LC_ALL, LC_TIME and LANG.
	Locale string `json:"locale"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`

	// Version requests build info instead of running the shell.
	Version bool `json:"-"`
}

// Duration is a time.Duration that reads "10s" style strings from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Defaults for every option.
const (
	DefaultBaseURL    = "http://127.0.0.1:8000/api"
	DefaultStore      = "file"
	DefaultStorePath  = "session.json"
	DefaultTimeout    = 0
	DefaultLogLevel   = "warn"
	DefaultTimeLayout = "Jan 2, 2006 3:04 PM"
	DefaultConfig     = "postboard.json"
)

func newFlagSet(o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("postboard", flag.ContinueOnError)
	fs.StringVar(&o.BaseURL, "url", DefaultBaseURL, "API base URL")
	fs.StringVar(&o.Store, "store", DefaultStore, "session store: file | sqlite")
	fs.StringVar(&o.StorePath, "store-path", DefaultStorePath, "session store location")
	fs.StringVar(&o.CAFile, "ca", "", "path to CA bundle for HTTPS")
	fs.DurationVar((*time.Duration)(&o.Timeout), "timeout", DefaultTimeout, "HTTP request timeout, 0 for none")
	fs.StringVar(&o.LogLevel, "log-level", DefaultLogLevel, "log level")
	fs.StringVar(&o.TimeLayout, "time-layout", DefaultTimeLayout, "layout for post timestamps")
	fs.StringVar(&o.Locale, "locale", "", "locale for post timestamps, e.g. de_DE")
	fs.StringVar(&o.Config, "config", DefaultConfig, "path to config file")
	fs.StringVar(&o.Config, "c", DefaultConfig, "path to config file (shorthand)")
	fs.BoolVar(&o.Version, "version", false, "show build version and date")
	return fs
}

// Parse builds Options from args. Values are layered as
// defaults < config file < flags < environment. A .env file in the working
// directory is loaded into the environment first when present.
func Parse(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error while loading .env: %w", err)
	}

	options := &Options{}
	fs := newFlagSet(options)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := applyFile(fs, options); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("POSTBOARD_URL"); v != "" {
		options.BaseURL = v
	}
	if v := os.Getenv("POSTBOARD_STORE"); v != "" {
		options.Store = v
	}
	if v := os.Getenv("POSTBOARD_STORE_PATH"); v != "" {
		options.StorePath = v
	}
	if v := os.Getenv("POSTBOARD_LOCALE"); v != "" {
		options.Locale = v
	}
	if options.Locale == "" {
		options.Locale = systemLocale()
	}

	return options, nil
}

// systemLocale follows the POSIX precedence for LC_TIME.
func systemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// applyFile loads the JSON config over options and then restores every flag
// given explicitly on the command line.
func applyFile(fs *flag.FlagSet, options *Options) error {
	data, err := os.ReadFile(options.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error while reading config file: %w", err)
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	configPath := options.Config
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	options.Config = configPath

	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("reapply flag %s: %w", name, err)
		}
	}
	return nil
}

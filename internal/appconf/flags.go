package appconf

import (
	"flag"
	"time"
)

// Flags holds the command-line overrides shared by the binaries.
type Flags struct {
	ConfigPath string
	Port       int
	Env        string
	BaseURL    string
	Interval   time.Duration
}

// Register binds f to fs with the defaults shown in -help.
func (f *Flags) Register(fs *flag.FlagSet) {
	defaults := Default()
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&f.Port, "port", defaults.Port, "API server port")
	fs.StringVar(&f.Env, "env", defaults.Env.String(), "Environment (development|test|production)")
	fs.StringVar(&f.BaseURL, "oasa-url", defaults.Upstream.BaseURL, "Base URL of the upstream telematics API")
	fs.DurationVar(&f.Interval, "interval", defaults.Tracking.Interval, "Live tracking refresh interval")
}

// Apply copies the flags that were set explicitly on fs into c.
func (f *Flags) Apply(fs *flag.FlagSet, c *Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			c.Port = f.Port
		case "env":
			var env Environment
			if env, err = ParseEnvironment(f.Env); err == nil {
				c.Env = env
			}
		case "oasa-url":
			c.Upstream.BaseURL = f.BaseURL
		case "interval":
			c.Tracking.Interval = f.Interval
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

// Parse parses args on fs, which must have f registered, and builds the
// Config: defaults, the -config file, the environment, then explicit flags.
func (f *Flags) Parse(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, error) {
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := Load(f.ConfigPath, lookup)
	if err != nil {
		return Config{}, err
	}
	if err := f.Apply(fs, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

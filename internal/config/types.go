package config

// Config is the git-trans configuration, assembled from the system, user and
// project layers.
type Config struct {
	Version     int         `yaml:"version"`
	TransDir    string      `yaml:"trans_dir,omitempty"`
	RecordsFile string      `yaml:"records_file,omitempty"`
	DefaultLang string      `yaml:"default_lang,omitempty"`
	DefaultTag  string      `yaml:"default_tag,omitempty"`
	LogLimit    int         `yaml:"log_limit,omitempty"`
	Cover       CoverConfig `yaml:"cover,omitempty"`
}

// CoverConfig controls which mirrored files cover and reset touch.
type CoverConfig struct {
	// Exclude holds path.Match globs matched against the mirrored key. A glob
	// without a slash also matches the base name.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Defaults for unset fields.
const (
	DefaultVersion     = 1
	DefaultTransDir    = ".trans"
	DefaultRecordsFile = "records.toml"
	DefaultTag         = "HEAD"
	DefaultLogLimit    = 20
)

// Default returns a Config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.TransDir == "" {
		c.TransDir = DefaultTransDir
	}
	if c.RecordsFile == "" {
		c.RecordsFile = DefaultRecordsFile
	}
	if c.DefaultTag == "" {
		c.DefaultTag = DefaultTag
	}
	if c.LogLimit == 0 {
		c.LogLimit = DefaultLogLimit
	}
}

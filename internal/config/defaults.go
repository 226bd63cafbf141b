package config

// Default configuration values.
const (
	DefaultMode             = ModeDevelopment
	DefaultDevtool          = DevtoolSourceMap
	DefaultOutputPath       = "dist"
	DefaultESVersion        = "esnext"
	DefaultPublicPath       = "/"
	DefaultInlineLimit      = 10000
	DefaultConcurrency      = 8
	DefaultManifestFileName = "asset-manifest.json"
)

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	ApplyDefaults(c)
	return c
}

// ApplyDefaults fills unset values of c.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.Devtool == "" {
		c.Devtool = DefaultDevtool
	}
	if c.UMD == "" {
		c.UMD = UMDNone
	}
	if c.PublicPath == "" {
		c.PublicPath = DefaultPublicPath
	}
	if c.InlineLimit == 0 {
		c.InlineLimit = DefaultInlineLimit
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Output.ESVersion == "" {
		c.Output.ESVersion = DefaultESVersion
	}
	if c.Manifest != nil && c.Manifest.FileName == "" {
		c.Manifest.FileName = DefaultManifestFileName
	}
}

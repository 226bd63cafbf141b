package config

import (
	"fmt"
	"slices"
	"strings"
)

// ESVersions lists the accepted output.es_version values, oldest first.
// es5 is absent: esbuild cannot lower let, const or class to it.
var ESVersions = []string{
	"es2015", "es2016", "es2017", "es2018", "es2019",
	"es2020", "es2021", "es2022", "es2023", "es2024", "esnext",
}

// InvalidOptionError is returned when an option has an unsupported value.
type InvalidOptionError struct {
	Key     string
	Value   string
	Allowed []string
	Reason  string // optional
}

func (e *InvalidOptionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid value %q for %s: %s\nAllowed values: %s", e.Value, e.Key, e.Reason, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid value %q for %s\nAllowed values: %s", e.Value, e.Key, strings.Join(e.Allowed, ", "))
}

// Validate checks that every option holds a supported value.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return &InvalidOptionError{Key: "mode", Value: string(c.Mode), Allowed: []string{string(ModeDevelopment), string(ModeProduction)}}
	}

	switch c.Devtool {
	case DevtoolNone, DevtoolSourceMap, DevtoolInlineSourceMap:
	default:
		return &InvalidOptionError{Key: "devtool", Value: string(c.Devtool), Allowed: []string{string(DevtoolNone), string(DevtoolSourceMap), string(DevtoolInlineSourceMap)}}
	}

	if strings.EqualFold(c.Output.ESVersion, "es5") {
		return &InvalidOptionError{
			Key:     "output.es_version",
			Value:   c.Output.ESVersion,
			Allowed: ESVersions,
			Reason:  "es5 output is not supported, the oldest target is es2015",
		}
	}
	if !slices.Contains(ESVersions, strings.ToLower(c.Output.ESVersion)) {
		return &InvalidOptionError{Key: "output.es_version", Value: c.Output.ESVersion, Allowed: ESVersions}
	}

	if c.InlineLimit < 0 {
		return fmt.Errorf("inline_limit must not be negative, got %d", c.InlineLimit)
	}

	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

const appName = "tui-flamegraph"

// defaultConfigPath is $XDG_CONFIG_HOME/tui-flamegraph/config.yaml, or the
// platform equivalent.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// loadYAMLConfig is a kong.ConfigurationLoader for flat YAML files whose
// keys are flag names:
//
//	log-file: /tmp/flamegraph.log
//	cell_width: 6
//	refresh: 5s
//
// Command-line flags override config file values.
func loadYAMLConfig(r io.Reader) (kong.Resolver, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := make(yamlConfig, len(values))
	for k, v := range values {
		cfg[k] = flagValue(v)
	}
	return cfg, nil
}

// flagValue converts decoded YAML scalars into what kong expects: bools as
// is, everything else as the string a user would type.
func flagValue(v any) any {
	switch v := v.(type) {
	case bool, string, nil:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(flagValue(item)))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// yamlConfig implements kong.Resolver.
type yamlConfig map[string]any

func (c yamlConfig) Validate(*kong.Application) error {
	return nil
}

func (c yamlConfig) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}
	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}
	return nil, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quote-forge/pkg/types"
)

// envKeyReplacer maps nested keys to variables, e.g. finetune.model ->
// QUOTE_FORGE_FINETUNE_MODEL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig overlays viper values (config file, environment, bound flags)
// on the built-in defaults and validates the result.
func loadConfig() (types.PipelineConfig, error) {
	return loadConfigFrom(viper.GetViper())
}

func loadConfigFrom(v *viper.Viper) (types.PipelineConfig, error) {
	if err := registerDefaults(v, types.DefaultConfig()); err != nil {
		return types.PipelineConfig{}, err
	}
	// Every key now has a default, so decoding starts from the zero value
	// and never writes into the shared default slices.
	var c types.PipelineConfig
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("reading configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// registerDefaults makes every configuration key known to v so that
// environment variables can override keys absent from the config file.
func registerDefaults(v *viper.Viper, c types.PipelineConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := val.(type) {
		case map[string]any:
			setDefaults(v, key, x)
		case nil:
		case []any:
			if len(x) > 0 {
				v.SetDefault(key, x)
			}
		default:
			v.SetDefault(key, x)
		}
	}
}

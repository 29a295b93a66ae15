// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package language

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// DefaultPreset is the language the seed command falls back to.
const DefaultPreset = "English"

// Presets returns the built-in language configurations.
func Presets() ([]CreateInput, error) {
	var presets []CreateInput
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		return nil, fmt.Errorf("language: decode presets: %w", err)
	}
	return presets, nil
}

// Preset returns the built-in configuration named name, ignoring case.
func Preset(name string) (CreateInput, error) {
	presets, err := Presets()
	if err != nil {
		return CreateInput{}, err
	}
	for _, preset := range presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}
	return CreateInput{}, fmt.Errorf("language: no preset named %q", name)
}

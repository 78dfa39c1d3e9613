package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script represents a complete two-host episode: a fixed cast plus
// dialogue lines in speaking order
type Script struct {
	Version string      `yaml:"version"`
	Title   string      `yaml:"title,omitempty"`
	Cast    []Character `yaml:"cast"`
	Lines   []Line      `yaml:"lines"`
}

// Character represents one of the two on-screen hosts
type Character struct {
	Name   string `yaml:"name"`
	Image  string `yaml:"image"`
	Voice  string `yaml:"voice,omitempty"`  // provider voice reference, passed through untouched
	Gender string `yaml:"gender,omitempty"`
}

// Line represents a single dialogue turn; Text may contain emotion markers
type Line struct {
	Text     string `yaml:"text"`
	Language string `yaml:"language,omitempty"` // BCP-47-ish tag, defaults to "en"
}

// Write writes a script to a YAML file
func Write(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a script from a YAML file
func Read(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	return &script, nil
}

// Validate checks the invariants production depends on: exactly two
// characters with sprite images, and at least one line to speak
func (s *Script) Validate() error {
	if len(s.Cast) != 2 {
		return fmt.Errorf("script must define exactly 2 characters, got %d", len(s.Cast))
	}

	for _, c := range s.Cast {
		if c.Image == "" {
			return fmt.Errorf("character %q has no sprite image", c.Name)
		}
	}

	if len(s.Lines) == 0 {
		return fmt.Errorf("script has no dialogue lines")
	}

	return nil
}

// DefaultCast returns the stock host pair used when a script does not
// bring its own characters
func DefaultCast() []Character {
	return []Character{
		{
			Name:   "Host",
			Image:  "characters/host_male.png",
			Voice:  "s3://voice-cloning-zero-shot/688d0200-7415-42b4-8726-e2f5693aaac8/williamnarrativesaad/manifest.json",
			Gender: "male",
		},
		{
			Name:   "Maya",
			Image:  "characters/host_female.png",
			Voice:  "s3://voice-cloning-zero-shot/a59cb96d-bba8-4e24-81f2-e60b888a0275/charlottenarrativesaad/manifest.json",
			Gender: "female",
		},
	}
}

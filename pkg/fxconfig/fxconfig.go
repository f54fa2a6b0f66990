// Package fxconfig loads a named bank of FV-1 effect presets from a
// YAML file: host-side convenience for the CLI wrapper and integration
// tests, with no analogue on real FV-1 hardware (which has no config
// file of its own — only a ROM image).
package fxconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/go-fv1/fv1emu/pkg/asm"
)

// Preset names one effect: either an inline SPN source snippet or a
// path to a .spn file (relative to the bank file's own directory), plus
// the pot values the host should default to when loading it.
type Preset struct {
	Name    string     `yaml:"name"`
	Program string     `yaml:"program,omitempty"`
	Source  string     `yaml:"source,omitempty"`
	Pots    [3]float64 `yaml:"pots"`
}

// Bank is a named collection of presets, as read from a single YAML
// document.
type Bank struct {
	Name    string   `yaml:"name"`
	Presets []Preset `yaml:"presets"`

	dir string
}

// LoadBank reads and parses a bank file from path.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fxconfig: reading bank %s: %w", path, err)
	}
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("fxconfig: parsing bank %s: %w", path, err)
	}
	b.dir = filepath.Dir(path)
	return &b, nil
}

// Find returns the preset with the given name, or false if none
// matches.
func (b *Bank) Find(name string) (*Preset, bool) {
	for i := range b.Presets {
		if b.Presets[i].Name == name {
			return &b.Presets[i], true
		}
	}
	return nil, false
}

// source returns the preset's SPN source text, reading it from its
// Program file if Source was not given inline.
func (p *Preset) source(dir string) (string, error) {
	if p.Source != "" {
		return p.Source, nil
	}
	if p.Program == "" {
		return "", fmt.Errorf("fxconfig: preset %q has neither source nor program", p.Name)
	}
	path := p.Program
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fxconfig: reading program for preset %q: %w", p.Name, err)
	}
	return string(data), nil
}

// Assemble resolves the preset's source (inline or from its Program
// file, relative to the owning bank's directory) and assembles it.
func (b *Bank) Assemble(p *Preset) (*asm.Result, error) {
	src, err := p.source(b.dir)
	if err != nil {
		return nil, err
	}
	res, err := asm.Assemble(src)
	if err != nil {
		return nil, fmt.Errorf("fxconfig: assembling preset %q: %w", p.Name, err)
	}
	return res, nil
}

// Package preset maps style-preset names to the directive strings handed to
// the assembler. Built-ins cover the common requests; deployments can layer
// their own on top from a YAML file.
package preset

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Directive   string `yaml:"directive"`
}

// Library resolves preset names. Instances are immutable after construction.
type Library struct {
	presets map[string]Preset
}

func Builtin() *Library {
	l := &Library{presets: make(map[string]Preset, len(builtins))}
	for _, p := range builtins {
		l.presets[p.Name] = p
	}
	return l
}

// LoadFile layers presets from a YAML file over the built-ins. File entries
// with a built-in's name replace it.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	var doc struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}
	l := Builtin()
	for _, p := range doc.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset: entry without a name in %s", path)
		}
		l.presets[p.Name] = p
	}
	return l, nil
}

// Directive returns the style directive for name.
func (l *Library) Directive(name string) (string, bool) {
	p, ok := l.presets[name]
	return p.Directive, ok
}

func (l *Library) Names() []string {
	names := make([]string, 0, len(l.presets))
	for n := range l.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var builtins = []Preset{
	{
		Name:        "faithful",
		Description: "Reproduce the scanned tokens as-is",
		Directive:   "Follow the scan's colors, spacing, and typography exactly. Do not restyle.",
	},
	{
		Name:        "minimal",
		Description: "Flat, whitespace-heavy restyling",
		Directive:   "Restyle with generous whitespace, no shadows, 1px hairline borders, and a neutral gray palette. Keep all content and structure from the scan.",
	},
	{
		Name:        "dark",
		Description: "Force a dark theme",
		Directive:   "Render in a dark theme: near-black background, elevated surfaces, high-contrast text. Map the scan's accent colors onto the dark palette. Keep all content and structure.",
	},
	{
		Name:        "glass",
		Description: "Translucent panels over a soft gradient",
		Directive:   "Use glassmorphism: translucent blurred panels, a soft background gradient derived from the scan's primary color, rounded corners. Keep all content and structure.",
	},
}

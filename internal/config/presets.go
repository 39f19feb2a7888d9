package config

import "sort"

// Preset is a named input arrangement.
type Preset struct {
	Shape       string
	Size        int
	Seed        int64
	Description string
}

var Presets = map[string]Preset{
	"demo":        {Shape: DemoShape, Size: 10, Description: "the ten-element reference array"},
	"tiny":        {Shape: "random", Size: 8, Seed: 1, Description: "eight shuffled bars, easy to follow"},
	"shuffled":    {Shape: "random", Size: 40, Description: "forty shuffled bars"},
	"large":       {Shape: "random", Size: 100, Description: "the largest input a session accepts"},
	"worst":       {Shape: "reversed", Size: 40, Description: "descending input"},
	"best":        {Shape: "sorted", Size: 40, Description: "already sorted"},
	"almost":      {Shape: "nearly_sorted", Size: 40, Description: "a few elements out of place"},
	"plateaus":    {Shape: "few_unique", Size: 40, Description: "four distinct heights"},
	"reverse-big": {Shape: "reversed", Size: 100, Description: "descending, maximum length"},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overwrites the input fields of c with those of p. A zero seed
// in the preset keeps the configured one.
func (c *Config) ApplyPreset(p Preset) {
	c.Shape = p.Shape
	c.Size = p.Size
	if p.Seed != 0 {
		c.Seed = p.Seed
	}
}

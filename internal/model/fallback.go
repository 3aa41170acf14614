package model

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

var fallbackOutlets = mustParseFallback(fallbackYAML)

func mustParseFallback(data []byte) []Outlet {
	var doc struct {
		Outlets []Outlet `yaml:"outlets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		panic("model: invalid embedded fallback dataset: " + err.Error())
	}
	return doc.Outlets
}

// FallbackOutlets returns the built-in outlet set shown when the first
// outlet fetch fails. Each call returns an independent copy.
func FallbackOutlets() []Outlet {
	out := make([]Outlet, len(fallbackOutlets))
	for i, o := range fallbackOutlets {
		if o.LatestActivity.ActivityScore != nil {
			s := *o.LatestActivity.ActivityScore
			o.LatestActivity.ActivityScore = &s
		}
		if o.Rating != nil {
			r := *o.Rating
			o.Rating = &r
		}
		out[i] = o
	}
	return out
}

// Package assets provides the client bundle manifest injected into every
// document.
//
// The build writes a manifest naming the bundle URLs by entry point:
//
//	{
//	  "javascript": {"main": "/dist/main-a1b2c3d4.js"},
//	  "styles":     {"main": "/dist/main-a1b2c3d4.css"}
//	}
//
// A Provider hands out the current manifest. In development the manifest is
// rebuilt while the server runs, so the orchestrator calls Refresh before
// every render; in production the manifest is read once at startup.
package assets

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// Manifest maps entry-point names to bundle URLs.
type Manifest struct {
	Javascript map[string]string `json:"javascript"`
	Styles     map[string]string `json:"styles"`
}

// Parse decodes a manifest.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("assets: parse manifest: %w", err)
	}
	return m, nil
}

// Load reads a manifest file.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	return Parse(data)
}

// Scripts returns the script URLs ordered by entry name.
func (m Manifest) Scripts() []string {
	return orderedValues(m.Javascript)
}

// Stylesheets returns the stylesheet URLs ordered by entry name.
func (m Manifest) Stylesheets() []string {
	return orderedValues(m.Styles)
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	return Manifest{
		Javascript: maps.Clone(m.Javascript),
		Styles:     maps.Clone(m.Styles),
	}
}

func orderedValues(entries map[string]string) []string {
	keys := slices.Sorted(maps.Keys(entries))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, entries[k])
	}
	return out
}

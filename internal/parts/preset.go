package parts

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ErrUnknownPreset is returned when a named preset does not exist.
var ErrUnknownPreset = errors.New("parts: unknown preset")

// SetPresets replaces the named presets (preset -> part -> color).
func (r *Registry) SetPresets(presets map[string]map[string]string) {
	r.presets = make(map[string]map[string]string, len(presets))
	for name, colors := range presets {
		r.presets[name] = maps.Clone(colors)
	}
}

// Presets returns the sorted preset names.
func (r *Registry) Presets() []string {
	return slices.Sorted(maps.Keys(r.presets))
}

// ApplyPreset changes the color of every part named in colors. Parts that
// do not exist are skipped with a warning. It returns how many parts changed.
func (r *Registry) ApplyPreset(colors map[string]string) int {
	applied := 0
	for _, name := range slices.Sorted(maps.Keys(colors)) {
		if r.ChangePartColor(name, colors[name]) {
			applied++
		}
	}
	return applied
}

// ApplyNamedPreset applies a preset registered with SetPresets.
func (r *Registry) ApplyNamedPreset(name string) (int, error) {
	colors, ok := r.presets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	applied := r.ApplyPreset(colors)
	r.log.Info("applied preset", zap.String("preset", name), zap.Int("parts", applied))
	return applied, nil
}

// ColorPreset captures the current colors as a preset map.
func (r *Registry) ColorPreset() map[string]string {
	return r.CurrentColors()
}

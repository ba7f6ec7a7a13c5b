package session

import (
	"fmt"

	"region-clicker/src/clicker"
)

type Preset struct {
	Name string
	Hz   int
}

var (
	PresetLow    = Preset{Name: "Low", Hz: 5}
	PresetMedium = Preset{Name: "Medium", Hz: 10}
	PresetHigh   = Preset{Name: "High", Hz: 20}
	PresetTurbo  = Preset{Name: "Turbo", Hz: 50}

	Presets = []Preset{PresetLow, PresetMedium, PresetHigh, PresetTurbo}
)

const CustomPresetName = "Custom"

// PresetNames lists the preset labels followed by Custom.
func PresetNames() []string {
	names := make([]string, 0, len(Presets)+1)
	for _, p := range Presets {
		names = append(names, p.Name)
	}
	return append(names, CustomPresetName)
}

// PresetFor returns the preset name matching hz, or Custom.
func PresetFor(hz int) string {
	for _, p := range Presets {
		if p.Hz == hz {
			return p.Name
		}
	}
	return CustomPresetName
}

// PresetHz resolves a preset label; ok is false for Custom or unknown names.
func PresetHz(name string) (int, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p.Hz, true
		}
	}
	return 0, false
}

// ButtonChoice is a required three-way choice: exactly one button is
// selected at all times. The zero value selects left.
type ButtonChoice struct {
	selected clicker.Button
}

// Select switches to b. An invalid b leaves the current choice in place.
func (c *ButtonChoice) Select(b clicker.Button) error {
	if !b.Valid() {
		return fmt.Errorf("unknown mouse button %s", b)
	}
	c.selected = b
	return nil
}

func (c ButtonChoice) Selected() clicker.Button { return c.selected }

func (c ButtonChoice) IsSelected(b clicker.Button) bool { return c.selected == b }

// Buttons lists the choices in display order.
func Buttons() []clicker.Button {
	return []clicker.Button{clicker.ButtonLeft, clicker.ButtonRight, clicker.ButtonMiddle}
}

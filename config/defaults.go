package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"BmpFilter/kernels"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "bmpfilter.json"

// Settings are the persisted defaults for the bmpfilter command.
// Command-line flags take precedence over every field.
type Settings struct {
	Kernel     string `json:"kernel"`               // preset name
	KernelFile string `json:"kernelFile,omitempty"` // YAML file with extra kernels
	BottomUp   bool   `json:"bottomUp"`             // flip rows for standard BMP tools
	MaxPixels  int    `json:"maxPixels,omitempty"`  // decode limit, 0 for the codec default
	Verbose    bool   `json:"verbose"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{Kernel: kernels.DefaultPreset}
}

// Load reads the settings file. A missing file is not an error: Defaults are returned.
// Fields absent from the file keep their default values.
func Load(path string) (Settings, error) {
	settings := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return Defaults(), fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	return settings, nil
}

// Save writes settings as indented JSON.
func Save(path string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file '%s': %w", path, err)
	}
	return nil
}

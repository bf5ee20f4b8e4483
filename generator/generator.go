package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"BmpFilter/convolve"
	"BmpFilter/kernels"
)

// PresetsTemplate renders the preset table. Rows keep the kernel's matrix shape.
const PresetsTemplate = `// Code generated by bmpfilter gen-presets from {{ .Source }}. DO NOT EDIT.

package {{ .PackageName }}

import "BmpFilter/convolve"

// Presets maps preset names to their kernels.
var Presets = map[string]convolve.Kernel{
{{- range .Presets }}
	{{ printf "%q" .Name }}: {
{{- range .Rows }}
		{{ join . ", " }},
{{- end }}
	},
{{- end }}
}
`

// TemplateData holds all necessary info for template execution
type TemplateData struct {
	PackageName string
	Source      string
	Presets     []Preset
}

// Preset is one table entry with weights already formatted as Go literals.
type Preset struct {
	Name string
	Rows [][]string
}

// Render returns gofmt-formatted source declaring Presets for set.
func Render(set map[string]convolve.Kernel, source, packageName string) ([]byte, error) {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	data := TemplateData{PackageName: packageName, Source: source}
	for _, name := range names {
		k := set[name]
		m, err := k.Size()
		if err != nil {
			return nil, fmt.Errorf("preset '%s': %w", name, err)
		}
		p := Preset{Name: name}
		for row := 0; row < m; row++ {
			cells := make([]string, m)
			for col := range cells {
				cells[col] = strconv.FormatFloat(k[row*m+col], 'g', -1, 64)
			}
			p.Rows = append(p.Rows, cells)
		}
		data.Presets = append(data.Presets, p)
	}

	tmpl, err := template.New("presets").Funcs(template.FuncMap{"join": strings.Join}).Parse(PresetsTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing presets template: %w", err)
	}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return nil, fmt.Errorf("error executing presets template: %w", err)
	}

	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated presets do not format: %w", err)
	}
	return formatted, nil
}

// GeneratePresets compiles the kernels in yamlFile and writes the preset table to outputPath.
func GeneratePresets(yamlFile, outputPath, packageName string) error {
	log.Printf("Generating presets from %s into %s (package %s)", yamlFile, outputPath, packageName)

	set, err := kernels.LoadFile(yamlFile)
	if err != nil {
		return err
	}
	log.Printf("Compiled %d kernel(s).", len(set))

	src, err := Render(set, filepath.Base(yamlFile), packageName)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, src, 0644); err != nil {
		return fmt.Errorf("error writing generated presets to %s: %w", outputPath, err)
	}
	log.Printf("Generated %s", outputPath)
	return nil
}

package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// funcs quote values as JSON strings, which are also valid TOML, YAML and
// CUE string literals.
var funcs = template.FuncMap{
	"str": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
	"strs": func(list []string) (string, error) {
		if len(list) == 0 {
			return "[]", nil
		}
		parts := make([]string, len(list))
		for i, s := range list {
			b, err := json.Marshal(s)
			if err != nil {
				return "", err
			}
			parts[i] = string(b)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	},
}

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data any
}

// NewRenderer creates a new renderer with the given template data.
func NewRenderer(data any) *Renderer {
	return &Renderer{data: data}
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(name, content string) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderLoader renders the bundle preamble.
func RenderLoader(data LoaderData) (string, error) {
	content, err := readTemplate(loaderFS, "loader/bundle.lua.tmpl")
	if err != nil {
		return "", err
	}
	return NewRenderer(data).RenderString("bundle.lua", content)
}

// RenderConfig renders a starter config in the given format.
func RenderConfig(format ConfigFormat, data ConfigData) (string, error) {
	if !IsValidConfigFormat(string(format)) {
		return "", fmt.Errorf("unknown config format: %s", format)
	}
	name := format.FileName()
	content, err := readTemplate(configFS, "config/"+name+".tmpl")
	if err != nil {
		return "", err
	}
	return NewRenderer(data).RenderString(name, content)
}

// Package render wires the optional event renderer into the calendar
// package.
//
// Rendering events as text needs an encoder the core client does not
// otherwise depend on, so it is kept behind a registration seam: importing
// this package for side effects enables calendar.Event.Text.
//
//	import _ "github.com/gcalio/gcal/render"
package render

import (
	"gopkg.in/yaml.v3"

	"github.com/gcalio/gcal/calendar"
)

// yamlRenderer renders a decoded JSON document as YAML, which reads well
// for nested event payloads.
type yamlRenderer struct{}

// Render implements calendar.Renderer.
func (yamlRenderer) Render(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	calendar.RegisterRenderer(yamlRenderer{})
}

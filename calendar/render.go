package calendar

import (
	"encoding/json"
	"sync"

	"github.com/gcalio/gcal"
)

// Renderer produces a human-readable rendering of a decoded JSON value.
type Renderer interface {
	Render(v any) (string, error)
}

var (
	rendererMu sync.RWMutex
	renderer   Renderer
)

// RegisterRenderer installs the renderer used by Event.Text. It is
// typically called from the init function of a rendering package, in the
// manner of database/sql driver registration:
//
//	import _ "github.com/gcalio/gcal/render"
func RegisterRenderer(r Renderer) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	renderer = r
}

func registeredRenderer() Renderer {
	rendererMu.RLock()
	defer rendererMu.RUnlock()
	return renderer
}

// Text renders the event for display, including pass-through fields. The
// rendering dependency is optional: without a registered Renderer, Text
// fails with *gcal.MissingDependencyError.
func (e Event) Text() (string, error) {
	r := registeredRenderer()
	if r == nil {
		return "", &gcal.MissingDependencyError{
			Feature: "event text rendering",
			Hint:    "blank-import github.com/gcalio/gcal/render",
		}
	}

	wire, err := e.MarshalJSON()
	if err != nil {
		return "", err
	}
	var doc map[string]any
	if err := json.Unmarshal(wire, &doc); err != nil {
		return "", err
	}
	return r.Render(doc)
}

// String implements fmt.Stringer with a best-effort rendering: the
// registered renderer when present, otherwise a terse identifier.
func (e Event) String() string {
	if s, err := e.Text(); err == nil {
		return s
	}
	if e.ID != "" {
		return "Event(" + e.ID + ")"
	}
	return "Event"
}

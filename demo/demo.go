// Package demo holds the built-in renderers.
package demo

import (
	"fmt"
	"sort"

	"github.com/milk9111/rawframe/frame"
)

var registry = map[string]func() frame.Renderer{
	"plasma": func() frame.Renderer { return NewPlasma() },
	"balls":  func() frame.Renderer { return NewBalls() },
	"paint":  func() frame.Renderer { return NewPaint() },
}

// New returns a fresh instance of the named demo.
func New(name string) (frame.Renderer, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("demo: unknown demo %q (have %v)", name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

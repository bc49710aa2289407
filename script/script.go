// Package script runs tengo scripts as frame renderers.
//
// A script defines
//
//	render := func(fb, input, dt, state) { ... }
//
// and the renderer calls it once per frame. fb exposes width, height, and
// the functions rgb, get, set, fill and rect. input exposes mouse_x,
// mouse_y and the predicates pressed, just_pressed and just_released,
// which take a button name such as "mouse_left" or "up". state is a map
// that persists across frames.
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/rawframe/canvas"
	"github.com/milk9111/rawframe/input"
)

const dispatchScript = `
if __run {
	render(__fb, __input, __dt, __state)
}
`

// Renderer is a frame.Renderer backed by a compiled tengo script.
type Renderer struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	logger   *slog.Logger
	failed   bool

	cur   *canvas.Canvas
	curIn *input.State
	fbFns map[string]tengo.Object
	inFns map[string]tengo.Object
}

// New compiles src. name is used in log and error messages.
func New(name string, src []byte, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Renderer{
		name:   name,
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
		logger: logger,
	}
	r.fbFns = r.canvasFuncs()
	r.inFns = r.inputFuncs()

	compiled, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	if err := checkRender(compiled); err != nil {
		return nil, fmt.Errorf("script: %s: %w", name, err)
	}
	r.compiled = compiled
	return r, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = s.Add("__run", false)
	_ = s.Add("__fb", map[string]any{})
	_ = s.Add("__input", map[string]any{})
	_ = s.Add("__dt", 0.0)
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s.Compile()
}

// checkRender runs the script's top level once so a missing render
// function is reported at load time instead of on the first frame.
func checkRender(c *tengo.Compiled) error {
	if err := c.Run(); err != nil {
		return err
	}
	if !c.IsDefined("render") {
		return fmt.Errorf("no render function defined")
	}
	if _, ok := c.Get("render").Object().(*tengo.CompiledFunction); !ok {
		return fmt.Errorf("render is %s, not a function", c.Get("render").ValueType())
	}
	return nil
}

func (r *Renderer) Name() string { return r.name }

// Reload swaps in new source. On error the previous script keeps running.
// Script state survives the reload.
func (r *Renderer) Reload(src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", r.name, err)
	}
	if err := checkRender(compiled); err != nil {
		return fmt.Errorf("script: %s: %w", r.name, err)
	}
	r.compiled = compiled
	r.failed = false
	r.logger.Info("script reloaded", "script", r.name)
	return nil
}

// Render runs the script for one frame. A runtime error is logged once per
// loaded source; the frame keeps whatever the script drew before failing.
func (r *Renderer) Render(c *canvas.Canvas, in *input.State, dt float64) {
	if err := r.run(c, in, dt); err != nil && !r.failed {
		r.failed = true
		r.logger.Error("script render failed", "script", r.name, "err", err)
	}
}

func (r *Renderer) run(c *canvas.Canvas, in *input.State, dt float64) error {
	r.cur, r.curIn = c, in
	defer func() { r.cur, r.curIn = nil, nil }()

	fb := make(map[string]tengo.Object, len(r.fbFns)+2)
	for k, v := range r.fbFns {
		fb[k] = v
	}
	fb["width"] = &tengo.Int{Value: int64(c.Width())}
	fb["height"] = &tengo.Int{Value: int64(c.Height())}

	inMap := make(map[string]tengo.Object, len(r.inFns)+2)
	for k, v := range r.inFns {
		inMap[k] = v
	}
	inMap["mouse_x"] = &tengo.Int{Value: int64(in.Mouse.X)}
	inMap["mouse_y"] = &tengo.Int{Value: int64(in.Mouse.Y)}

	for name, v := range map[string]any{
		"__run":   true,
		"__fb":    &tengo.ImmutableMap{Value: fb},
		"__input": &tengo.ImmutableMap{Value: inMap},
		"__dt":    dt,
		"__state": r.state,
	} {
		if err := r.compiled.Set(name, v); err != nil {
			return err
		}
	}
	return r.compiled.Run()
}

func (r *Renderer) canvasFuncs() map[string]tengo.Object {
	return map[string]tengo.Object{
		"rgb": &tengo.UserFunction{Name: "rgb", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := ints("rgb", args, 3)
			if err != nil {
				return nil, err
			}
			return &tengo.Int{Value: int64(canvas.RGB(channel(v[0]), channel(v[1]), channel(v[2])))}, nil
		}},
		"get": &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := ints("get", args, 2)
			if err != nil {
				return nil, err
			}
			if !r.cur.InBounds(v[0], v[1]) {
				return nil, r.outside("get", v[0], v[1])
			}
			return &tengo.Int{Value: int64(r.cur.Get(r.cur.Index(v[0], v[1])))}, nil
		}},
		"set": &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := ints("set", args, 3)
			if err != nil {
				return nil, err
			}
			if !r.cur.InBounds(v[0], v[1]) {
				return nil, r.outside("set", v[0], v[1])
			}
			r.cur.Set(r.cur.Index(v[0], v[1]), uint32(v[2]))
			return tengo.UndefinedValue, nil
		}},
		"fill": &tengo.UserFunction{Name: "fill", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := ints("fill", args, 1)
			if err != nil {
				return nil, err
			}
			r.cur.Fill(uint32(v[0]))
			return tengo.UndefinedValue, nil
		}},
		"rect": &tengo.UserFunction{Name: "rect", Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := ints("rect", args, 5)
			if err != nil {
				return nil, err
			}
			r.cur.FillRect(v[0], v[1], v[2], v[3], uint32(v[4]))
			return tengo.UndefinedValue, nil
		}},
	}
}

func (r *Renderer) inputFuncs() map[string]tengo.Object {
	predicate := func(name string, f func(input.ButtonState) bool) *tengo.UserFunction {
		return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			s, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "button", Expected: "string", Found: args[0].TypeName()}
			}
			b, ok := input.ParseButton(strings.TrimSpace(s))
			if !ok {
				return nil, fmt.Errorf("%s: unknown button %q", name, s)
			}
			if f(r.curIn.Button(b)) {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		}}
	}
	return map[string]tengo.Object{
		"pressed":       predicate("pressed", input.ButtonState.IsPressed),
		"just_pressed":  predicate("just_pressed", input.ButtonState.JustPressed),
		"just_released": predicate("just_released", input.ButtonState.JustReleased),
	}
}

func (r *Renderer) outside(fn string, x, y int) error {
	return fmt.Errorf("%s: pixel %d,%d outside %dx%d canvas", fn, x, y, r.cur.Width(), r.cur.Height())
}

func ints(fn string, args []tengo.Object, n int) ([]int, error) {
	if len(args) != n {
		return nil, tengo.ErrWrongNumArguments
	}
	out := make([]int, n)
	for i, a := range args {
		v, ok := tengo.ToInt(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("%s argument %d", fn, i+1), Expected: "int", Found: a.TypeName()}
		}
		out[i] = v
	}
	return out, nil
}

func channel(v int) uint8 {
	return uint8(max(0, min(v, 255)))
}

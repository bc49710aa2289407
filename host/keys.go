package host

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/rawframe/config"
	"github.com/milk9111/rawframe/input"
)

var keyNames = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key, int(ebiten.KeyMax)+1)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[strings.ToLower(k.String())] = k
	}
	return m
}()

// ParseKey looks up an ebiten key by name, ignoring case.
func ParseKey(name string) (ebiten.Key, error) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("host: unknown key %q", name)
	}
	return k, nil
}

func parseKeys(field string, names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, n := range names {
		k, err := ParseKey(n)
		if err != nil {
			return nil, fmt.Errorf("bindings %s: %w", field, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// keymap is the resolved form of config.BindingsConfig.
type keymap struct {
	left, right, up, down []ebiten.Key
	quit, screenshot      []ebiten.Key
}

func newKeymap(b config.BindingsConfig) (*keymap, error) {
	var km keymap
	var err error
	for _, f := range []struct {
		name  string
		names []string
		dst   *[]ebiten.Key
	}{
		{"left", b.Left, &km.left},
		{"right", b.Right, &km.right},
		{"up", b.Up, &km.up},
		{"down", b.Down, &km.down},
		{"quit", b.Quit, &km.quit},
		{"screenshot", b.Screenshot, &km.screenshot},
	} {
		if *f.dst, err = parseKeys(f.name, f.names); err != nil {
			return nil, err
		}
	}
	return &km, nil
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func (km *keymap) sample() input.Sample {
	return input.Sample{
		MouseLeft:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		MouseRight: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Left:       anyPressed(km.left),
		Right:      anyPressed(km.right),
		Up:         anyPressed(km.up),
		Down:       anyPressed(km.down),
	}
}

// Package keypress tracks whether a key filter such as "Shift" or
// "Meta+z" is currently held.
package keypress

import "strings"

// Event is a key event. Key uses DOM key names ("Shift", "Backspace",
// "a"). InInput marks events whose target accepts text input.
type Event struct {
	Key     string
	Ctrl    bool
	Meta    bool
	Shift   bool
	Alt     bool
	InInput bool
}

func (e Event) modifier() bool {
	return e.Ctrl || e.Meta || e.Shift
}

// Filter matches key events. It is either a constant or a list of keys
// and "+"-joined combinations, any of which may match.
type Filter struct {
	constant *bool
	keys     []string
}

// Always returns a filter that is permanently pressed (or not).
func Always(pressed bool) Filter {
	return Filter{constant: &pressed}
}

// ParseFilter builds a filter from keys. Each key is a single key name
// matched exactly, or a combination like "Control+Shift+a" matched case
// insensitively.
func ParseFilter(keys ...string) Filter {
	f := Filter{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			f.keys = append(f.keys, k)
		}
	}
	return f
}

// IsZero reports whether f matches nothing.
func (f Filter) IsZero() bool {
	return f.constant == nil && len(f.keys) == 0
}

func (f Filter) String() string {
	if f.constant != nil {
		if *f.constant {
			return "true"
		}
		return "false"
	}
	return strings.Join(f.keys, ", ")
}

// match reports whether e matches f. Combination matching records the
// pressed key in held.
func (f Filter) match(e Event, held map[string]bool) bool {
	for _, k := range f.keys {
		if matchKey(e.Key, k, held) {
			return true
		}
	}
	return false
}

func matchKey(pressed, want string, held map[string]bool) bool {
	combo := strings.Split(want, "+")
	if len(combo) == 1 {
		return pressed == want
	}

	held[strings.ToLower(pressed)] = true
	for _, k := range combo {
		if !held[strings.ToLower(strings.TrimSpace(k))] {
			return false
		}
	}
	return true
}

// Tracker follows the pressed state of one filter across key events.
type Tracker struct {
	filter   Filter
	pressed  bool
	modifier bool
	held     map[string]bool
	onChange func(bool)
}

// NewTracker returns a tracker for f. onChange, if set, is called whenever
// the pressed state flips.
func NewTracker(f Filter, onChange func(pressed bool)) *Tracker {
	t := &Tracker{
		filter:   f,
		held:     make(map[string]bool),
		onChange: onChange,
	}
	if f.constant != nil {
		t.pressed = *f.constant
	}
	return t
}

// Pressed reports the current state.
func (t *Tracker) Pressed() bool {
	return t.pressed
}

// Down handles a key-down event and reports whether the event was
// consumed. Events from input targets are ignored unless a modifier is
// held.
func (t *Tracker) Down(e Event) bool {
	if t.filter.constant != nil || !t.filter.match(e, t.held) {
		return false
	}

	t.modifier = e.modifier()
	if !t.modifier && e.InInput {
		return false
	}

	t.set(true)
	return true
}

// Up handles a key-up event.
func (t *Tracker) Up(e Event) {
	if t.filter.constant != nil || !t.filter.match(e, t.held) || !t.pressed {
		return
	}
	if !t.modifier && e.InInput {
		return
	}

	t.modifier = false
	clear(t.held)
	t.set(false)
}

// Blur releases everything, as when the window loses focus.
func (t *Tracker) Blur() {
	if t.filter.constant != nil {
		return
	}
	t.modifier = false
	clear(t.held)
	t.set(false)
}

func (t *Tracker) set(pressed bool) {
	if t.pressed == pressed {
		return
	}
	t.pressed = pressed
	if t.onChange != nil {
		t.onChange(pressed)
	}
}

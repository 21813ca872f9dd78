package keypress

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestSingleKey(t *testing.T) {
	var changes []bool
	tr := NewTracker(ParseFilter("Shift"), func(p bool) { changes = append(changes, p) })

	assert.False(t, tr.Down(Event{Key: "a"}))
	assert.False(t, tr.Pressed())

	assert.True(t, tr.Down(Event{Key: "Shift", Shift: true}))
	assert.True(t, tr.Pressed())
	tr.Down(Event{Key: "Shift", Shift: true})

	tr.Up(Event{Key: "Shift"})
	assert.False(t, tr.Pressed())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestSingleKeyIsCaseSensitive(t *testing.T) {
	tr := NewTracker(ParseFilter("a"), nil)
	assert.False(t, tr.Down(Event{Key: "A"}))
	assert.True(t, tr.Down(Event{Key: "a"}))
}

func TestCombination(t *testing.T) {
	tr := NewTracker(ParseFilter("Meta+z"), nil)

	assert.False(t, tr.Down(Event{Key: "Meta", Meta: true}))
	assert.True(t, tr.Down(Event{Key: "z", Meta: true}))
	assert.True(t, tr.Pressed())

	tr.Up(Event{Key: "z", Meta: true})
	assert.False(t, tr.Pressed())

	assert.False(t, tr.Down(Event{Key: "z"}), "held keys are cleared on release")
}

func TestAnyOfList(t *testing.T) {
	tr := NewTracker(ParseFilter("Backspace", " Delete "), nil)
	assert.True(t, tr.Down(Event{Key: "Delete"}))
	assert.Equal(t, "Backspace, Delete", ParseFilter("Backspace", " Delete ", "").String())
}

func TestInputTargetsNeedModifier(t *testing.T) {
	tr := NewTracker(ParseFilter("Backspace"), nil)

	assert.False(t, tr.Down(Event{Key: "Backspace", InInput: true}))
	assert.False(t, tr.Pressed())

	assert.True(t, tr.Down(Event{Key: "Backspace", Shift: true, InInput: true}))
	assert.True(t, tr.Pressed())

	tr.Up(Event{Key: "Backspace", InInput: true})
	assert.False(t, tr.Pressed(), "release follows the modifier seen on press")
}

func TestConstantFilter(t *testing.T) {
	tr := NewTracker(Always(true), nil)
	assert.True(t, tr.Pressed())
	assert.False(t, tr.Down(Event{Key: "x"}))
	tr.Up(Event{Key: "x"})
	tr.Blur()
	assert.True(t, tr.Pressed())

	assert.True(t, ParseFilter().IsZero())
	assert.False(t, Always(false).IsZero())
	assert.Equal(t, "false", Always(false).String())
}

func TestBlurReleases(t *testing.T) {
	tr := NewTracker(ParseFilter("Control"), nil)
	tr.Down(Event{Key: "Control", Ctrl: true})
	tr.Blur()
	assert.False(t, tr.Pressed())
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Event
	}{
		{"rune with meta", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModMeta), Event{Key: "z", Meta: true}},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), Event{Key: "z", Ctrl: true}},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), Event{Key: "Backspace"}},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), Event{Key: "Delete"}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), Event{Key: "ArrowLeft", Shift: true}},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), Event{Key: "Tab", Shift: true}},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), Event{Key: "F5"}},
		{"f12", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), Event{Key: "F12"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromTcell(tc.ev))
		})
	}
}

func TestTcellDrivesTracker(t *testing.T) {
	tr := NewTracker(ParseFilter("Control+s"), nil)

	assert.False(t, tr.Down(Event{Key: "Control", Ctrl: true}))
	assert.True(t, tr.Down(FromTcell(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))))
	assert.True(t, tr.Pressed())
}

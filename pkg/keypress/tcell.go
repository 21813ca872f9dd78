package keypress

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

var tcellNames = map[tcell.Key]string{
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyEnter:      "Enter",
	tcell.KeyEscape:     "Escape",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyInsert:     "Insert",
}

// FromTcell converts a terminal key event. Control characters become
// their letter with Ctrl set; terminals cannot report key-up, so callers
// pair Down with an immediate Up when they need release semantics.
func FromTcell(ev *tcell.EventKey) Event {
	mod := ev.Modifiers()
	e := Event{
		Ctrl:  mod&tcell.ModCtrl != 0,
		Meta:  mod&tcell.ModMeta != 0,
		Shift: mod&tcell.ModShift != 0,
		Alt:   mod&tcell.ModAlt != 0,
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyBacktab:
		e.Key = tcellNames[k]
		e.Shift = true
	case tcellNames[k] != "":
		e.Key = tcellNames[k]
	case k == tcell.KeyRune:
		e.Key = string(ev.Rune())
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		e.Key = string(rune('a' + k - tcell.KeyCtrlA))
		e.Ctrl = true
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		e.Key = "F" + strconv.Itoa(int(k-tcell.KeyF1)+1)
	default:
		e.Key = tcell.KeyNames[k]
	}

	return e
}

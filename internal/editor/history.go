package editor

import "time"

const typingBurstIdleWindow = 750 * time.Millisecond

// snapshot captures the buffer and cursor.
type snapshot struct {
	value  string
	cursor int
}

func (e *Editor) capture() snapshot {
	return snapshot{value: string(e.buf), cursor: e.cursor}
}

func (e *Editor) restore(s snapshot) {
	e.buf = []rune(s.value)
	e.cursor = clamp(s.cursor, 0, len(e.buf))
	e.dirty = true
	e.sync()
}

func (e *Editor) resetHistory() {
	e.undo = nil
	e.redo = nil
	e.finalizeBurst()
}

func (e *Editor) pushUndo(s snapshot) {
	e.undo = append(e.undo, s)
	// Any forward mutation invalidates the redo chain.
	e.redo = nil
}

func (e *Editor) finalizeBurst() {
	e.burstActive = false
	e.burstLastAt = time.Time{}
}

func (e *Editor) recordDiscrete(before snapshot) {
	if before == e.capture() {
		return
	}
	e.finalizeBurst()
	e.pushUndo(before)
}

func (e *Editor) recordTyping(before snapshot) {
	if before == e.capture() {
		return
	}
	now := e.now()
	if !e.burstActive || now.Sub(e.burstLastAt) > typingBurstIdleWindow {
		e.pushUndo(before)
	}
	e.burstActive = true
	e.burstLastAt = now
}

// Undo reverts the last edit. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	e.finalizeBurst()
	if len(e.undo) == 0 {
		return false
	}
	current := e.capture()
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, current)
	e.restore(last)
	return true
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() bool {
	e.finalizeBurst()
	if len(e.redo) == 0 {
		return false
	}
	current := e.capture()
	next := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, current)
	e.restore(next)
	return true
}

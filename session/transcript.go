package session

import (
	"medikbot/model"
)

// Entry is one node of the display list
type Entry struct {
	model.Message
	Placeholder bool
}

// ChangeKind tells a transcript observer what happened to the display list
type ChangeKind int

const (
	Appended ChangeKind = iota
	Removed
)

// Change is delivered to the OnChange hook after every mutation
type Change struct {
	Kind  ChangeKind
	Entry Entry
}

// Transcript is the ordered display list of a single chat session.
// It is only mutated from the host's UI thread and needs no locking.
type Transcript struct {
	entries  []Entry
	revision uint64
	onChange func(Change)
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// OnChange registers the hook fired after each append or removal. Hosts use it
// to keep the view scrolled to the newest entry.
func (t *Transcript) OnChange(fn func(Change)) {
	t.onChange = fn
}

// Render appends a message to the end of the display list
func (t *Transcript) Render(msg model.Message) {
	t.append(Entry{Message: msg})
}

// ShowPlaceholder appends the transient loading entry
func (t *Transcript) ShowPlaceholder() {
	t.append(Entry{
		Message: model.Message{
			ID:     model.PlaceholderID,
			Text:   model.PlaceholderText,
			Origin: model.OriginAssistant,
		},
		Placeholder: true,
	})
}

// RemovePlaceholder removes the loading entry if present. It reports whether
// anything was removed; calling it without a placeholder is a no-op.
func (t *Transcript) RemovePlaceholder() bool {
	for i, e := range t.entries {
		if !e.Placeholder || e.ID != model.PlaceholderID {
			continue
		}
		t.entries = append(t.entries[:i], t.entries[i+1:]...)
		t.revision++
		t.notify(Change{Kind: Removed, Entry: e})
		return true
	}
	return false
}

func (t *Transcript) HasPlaceholder() bool {
	for _, e := range t.entries {
		if e.Placeholder {
			return true
		}
	}
	return false
}

// Entries returns a copy of the display list in render order
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Revision increases on every mutation
func (t *Transcript) Revision() uint64 {
	return t.revision
}

// LastReply returns the most recent assistant message, skipping the placeholder
func (t *Transcript) LastReply() (model.Message, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if !e.Placeholder && e.Origin == model.OriginAssistant {
			return e.Message, true
		}
	}
	return model.Message{}, false
}

func (t *Transcript) append(e Entry) {
	t.entries = append(t.entries, e)
	t.revision++
	t.notify(Change{Kind: Appended, Entry: e})
}

func (t *Transcript) notify(c Change) {
	if t.onChange != nil {
		t.onChange(c)
	}
}

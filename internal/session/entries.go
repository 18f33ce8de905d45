package session

import (
	"errors"
	"strings"

	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
	"github.com/julianstephens/meter/internal/utils"
)

func (m *Model) updateEntries(msg Msg) Msg {
	switch msg := msg.(type) {
	case SelectNextEntry:
		m.EntryIndex = clamp(m.EntryIndex+1, len(m.Entries))
	case SelectPrevEntry:
		m.EntryIndex = clamp(m.EntryIndex-1, len(m.Entries))

	case ToggleBilledFilter:
		m.UnbilledOnly = !m.UnbilledOnly
		return RefreshEntries{}

	case DeleteEntry:
		m.Mode = &ConfirmingDelete{ID: msg.ID}
	case ConfirmDelete:
		c, ok := m.Mode.(*ConfirmingDelete)
		if !ok {
			return nil
		}
		m.Mode = Normal{}
		found, err := m.store.DeleteEntry(c.ID)
		switch {
		case err != nil:
			logger.Error("Failed to delete entry", "id", c.ID, "error", err)
			m.setStatus("Failed to delete entry")
		case !found:
			m.setStatus("Entry %d not found", c.ID)
		default:
			m.setStatus("Entry %d deleted", c.ID)
		}
		return RefreshEntries{}
	case CancelDelete:
		m.Mode = Normal{}

	case MarkBilled:
		found, err := m.store.MarkBilled(msg.ID)
		m.reportBilling(msg.ID, found, err, "marked as billed")
		return RefreshEntries{}
	case UnbillEntry:
		found, err := m.store.UnmarkBilled(msg.ID)
		m.reportBilling(msg.ID, found, err, "unbilled")
		return RefreshEntries{}

	case EditEntry:
		return m.beginEditEntry(msg.ID)
	case EditNextField:
		if e, ok := m.Mode.(*EditingEntry); ok {
			e.Field = EntryField(cycle(int(e.Field), 1, int(entryFieldCount)))
		}
	case EditPrevField:
		if e, ok := m.Mode.(*EditingEntry); ok {
			e.Field = EntryField(cycle(int(e.Field), -1, int(entryFieldCount)))
		}
	case EditInput:
		if e, ok := m.Mode.(*EditingEntry); ok {
			e.Values[e.Field] += string(msg.Rune)
		}
	case EditBackspace:
		if e, ok := m.Mode.(*EditingEntry); ok {
			e.Values[e.Field] = popRune(e.Values[e.Field])
		}
	case SaveEditEntry:
		return m.saveEditEntry()
	case CancelEditEntry:
		m.Mode = Normal{}
	}
	return nil
}

func (m *Model) reportBilling(id int64, found bool, err error, verb string) {
	switch {
	case err != nil:
		logger.Error("Failed to update billing", "id", id, "error", err)
		m.setStatus("Failed to update entry %d", id)
	case !found:
		m.setStatus("Entry %d not found", id)
	default:
		m.setStatus("Entry %d %s", id, verb)
	}
}

func (m *Model) beginEditEntry(id int64) Msg {
	entry, err := m.store.GetEntry(id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			m.setStatus("Entry %d not found", id)
		} else {
			logger.Error("Failed to load entry", "id", id, "error", err)
			m.setStatus("Failed to load entry %d", id)
		}
		return nil
	}

	edit := &EditingEntry{Original: entry}
	edit.Values[EntryProject] = entry.Project
	edit.Values[EntryDescription] = entry.Description
	edit.Values[EntryStart] = utils.FormatEntryTime(&entry.Start, m.loc)
	edit.Values[EntryEnd] = utils.FormatEntryTime(entry.End, m.loc)
	m.Mode = edit
	return nil
}

// saveEditEntry writes the buffers back. A time that fails to parse keeps
// its previous value; an empty end marks the entry running again unless
// another entry is already running. An end before the start is refused.
func (m *Model) saveEditEntry() Msg {
	edit, ok := m.Mode.(*EditingEntry)
	if !ok {
		return nil
	}
	m.Mode = Normal{}

	entry := edit.Original
	if p := strings.TrimSpace(edit.Values[EntryProject]); p != "" {
		entry.Project = p
	}
	entry.Description = edit.Values[EntryDescription]

	if start, err := utils.ParseEntryTime(edit.Values[EntryStart], m.loc); err == nil {
		entry.Start = start
	}
	if strings.TrimSpace(edit.Values[EntryEnd]) == "" {
		entry.End = nil
	} else if end, err := utils.ParseEntryTime(edit.Values[EntryEnd], m.loc); err == nil {
		entry.End = &end
	}

	if entry.End == nil && edit.Original.End != nil {
		// reopening must not leave two timers running
		active, err := m.store.GetActiveEntry()
		if err != nil {
			logger.Error("Failed to read active timer", "error", err)
			m.setStatus("Failed to update entry")
			return nil
		}
		if active != nil && active.ID != entry.ID {
			m.setStatus("Another timer is running (entry %d)", active.ID)
			return nil
		}
	}
	if entry.End != nil && entry.End.Before(entry.Start) {
		m.setStatus("End is before start")
		return nil
	}

	found, err := m.store.UpdateEntry(entry)
	switch {
	case err != nil:
		logger.Error("Failed to update entry", "id", entry.ID, "error", err)
		m.setStatus("Failed to update entry")
	case !found:
		m.setStatus("Entry %d not found", entry.ID)
	default:
		m.setStatus("Entry %d updated", entry.ID)
	}
	return RefreshEntries{}
}

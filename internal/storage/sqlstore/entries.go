package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/models"
)

const entryColumns = "id, project, description, started_at, ended_at, billed"

func scanEntry(row scanner) (models.Entry, error) {
	var e models.Entry
	var started string
	var ended sql.NullString

	if err := row.Scan(&e.ID, &e.Project, &e.Description, &started, &ended, &e.Billed); err != nil {
		return models.Entry{}, err
	}

	start, err := parseTime(started)
	if err != nil {
		return models.Entry{}, err
	}
	e.Start = start

	if ended.Valid {
		end, err := parseTime(ended.String)
		if err != nil {
			return models.Entry{}, err
		}
		e.End = &end
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// AddEntry persists a new entry, creating its project if needed.
func (s *Store) AddEntry(e models.Entry) (models.Entry, error) {
	if e.Description == "" {
		e.Description = constants.DefaultDescription
	}
	if _, err := s.GetOrCreateProject(e.Project); err != nil {
		return models.Entry{}, err
	}

	id, err := s.insert(
		"INSERT INTO entries (project, description, started_at, ended_at, billed) VALUES (?, ?, ?, ?, ?)",
		e.Project, e.Description, formatTime(e.Start), nullableTime(e.End), e.Billed,
	)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	e.ID = id
	e.Start = e.Start.UTC().Truncate(time.Second)
	if e.End != nil {
		end := e.End.UTC().Truncate(time.Second)
		e.End = &end
	}
	return e, nil
}

// StartTimer opens a running entry at the given instant.
func (s *Store) StartTimer(project, description string, at time.Time) (models.Entry, error) {
	active, err := s.GetActiveEntry()
	if err != nil {
		return models.Entry{}, err
	}
	if active != nil {
		return models.Entry{}, ErrTimerRunning
	}
	return s.AddEntry(models.Entry{Project: project, Description: description, Start: at})
}

// StopActiveTimer closes the running entry. Returns nil when nothing is running.
func (s *Store) StopActiveTimer(at time.Time) (*models.Entry, error) {
	active, err := s.GetActiveEntry()
	if err != nil || active == nil {
		return nil, err
	}

	end := at.UTC().Truncate(time.Second)
	if _, err := s.exec("UPDATE entries SET ended_at = ? WHERE id = ?", formatTime(end), active.ID); err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}
	active.End = &end
	return active, nil
}

// GetActiveEntry returns the most recent running entry, or nil.
func (s *Store) GetActiveEntry() (*models.Entry, error) {
	row := s.queryRow("SELECT " + entryColumns + " FROM entries WHERE ended_at IS NULL ORDER BY started_at DESC, id DESC LIMIT 1")
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (s *Store) CountActiveEntries() (int, error) {
	var n int
	err := s.queryRow("SELECT COUNT(*) FROM entries WHERE ended_at IS NULL").Scan(&n)
	return n, err
}

func (s *Store) GetEntry(id int64) (models.Entry, error) {
	e, err := scanEntry(s.queryRow("SELECT "+entryColumns+" FROM entries WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return e, err
}

// ListEntries returns entries newest first, optionally filtered by billed state.
func (s *Store) ListEntries(billed *bool) ([]models.Entry, error) {
	q := "SELECT " + entryColumns + " FROM entries"
	var args []any
	if billed != nil {
		q += " WHERE billed = ?"
		args = append(args, *billed)
	}
	q += " ORDER BY started_at DESC, id DESC"

	rows, err := s.query(q, args...)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// ListEntriesInRange returns completed entries whose end lies within
// [start, end], oldest first.
func (s *Store) ListEntriesInRange(start, end time.Time, billed *bool) ([]models.Entry, error) {
	q := "SELECT " + entryColumns + " FROM entries WHERE ended_at IS NOT NULL AND ended_at >= ? AND ended_at <= ?"
	args := []any{formatTime(start), formatTime(end)}
	if billed != nil {
		q += " AND billed = ?"
		args = append(args, *billed)
	}
	q += " ORDER BY started_at ASC, id ASC"

	rows, err := s.query(q, args...)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// UpdateEntry overwrites every field of the entry. Reports false when the id is unknown.
func (s *Store) UpdateEntry(e models.Entry) (bool, error) {
	if _, err := s.GetOrCreateProject(e.Project); err != nil {
		return false, err
	}
	return s.affected(
		"UPDATE entries SET project = ?, description = ?, started_at = ?, ended_at = ?, billed = ? WHERE id = ?",
		e.Project, e.Description, formatTime(e.Start), nullableTime(e.End), e.Billed, e.ID,
	)
}

func (s *Store) DeleteEntry(id int64) (bool, error) {
	return s.affected("DELETE FROM entries WHERE id = ?", id)
}

func (s *Store) MarkBilled(id int64) (bool, error) {
	return s.affected("UPDATE entries SET billed = ? WHERE id = ?", true, id)
}

func (s *Store) UnmarkBilled(id int64) (bool, error) {
	return s.affected("UPDATE entries SET billed = ? WHERE id = ?", false, id)
}

// MarkAllBilled bills every completed pending entry.
func (s *Store) MarkAllBilled() (int64, error) {
	res, err := s.exec("UPDATE entries SET billed = ? WHERE billed = ? AND ended_at IS NOT NULL", true, false)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UnmarkAllBilled() (int64, error) {
	res, err := s.exec("UPDATE entries SET billed = ? WHERE billed = ?", false, true)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/models"
)

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	var rate sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &rate, &p.Currency); err != nil {
		return models.Project{}, err
	}
	if rate.Valid && rate.String != "" {
		d, err := decimal.NewFromString(rate.String)
		if err != nil {
			return models.Project{}, fmt.Errorf("project %q has invalid rate %q: %w", p.Name, rate.String, err)
		}
		p.Rate = &d
	}
	return p, nil
}

// GetOrCreateProject returns the named project, creating it unpriced if absent.
func (s *Store) GetOrCreateProject(name string) (models.Project, error) {
	if name == "" {
		return models.Project{}, fmt.Errorf("project name is required")
	}
	if _, err := s.exec(
		"INSERT INTO projects (name, currency) VALUES (?, ?) ON CONFLICT (name) DO NOTHING",
		name, constants.DefaultCurrency,
	); err != nil {
		return models.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return s.GetProject(name)
}

func (s *Store) GetProject(name string) (models.Project, error) {
	p, err := scanProject(s.queryRow("SELECT id, name, rate, currency FROM projects WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	return p, err
}

// SetProjectRate sets or clears (nil) a project's hourly rate.
func (s *Store) SetProjectRate(name string, rate *decimal.Decimal, currency string) error {
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	var value any
	if rate != nil {
		value = rate.String()
	}

	ok, err := s.affected("UPDATE projects SET rate = ?, currency = ? WHERE name = ?", value, currency, name)
	if err != nil {
		return fmt.Errorf("failed to set rate: %w", err)
	}
	if !ok {
		return fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) ListProjects() ([]models.Project, error) {
	rows, err := s.query("SELECT id, name, rate, currency FROM projects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

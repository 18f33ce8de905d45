package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/meter/internal/models"
)

const clientColumns = "id, name, contact_person, address_street, address_city, address_state, address_postal, address_country, email"

func scanClient(row scanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Street, &c.City, &c.State, &c.Postal, &c.Country, &c.Email)
	return c, err
}

func (s *Store) ListClients() ([]models.Client, error) {
	rows, err := s.query("SELECT " + clientColumns + " FROM clients ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) GetClient(id int64) (models.Client, error) {
	c, err := scanClient(s.queryRow("SELECT "+clientColumns+" FROM clients WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (s *Store) AddClient(c models.Client) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.insert(
		"INSERT INTO clients (name, contact_person, address_street, address_city, address_state, address_postal, address_country, email) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		c.Name, c.ContactPerson, c.Street, c.City, c.State, c.Postal, c.Country, c.Email,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert client: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateClient(c models.Client) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	return s.affected(
		"UPDATE clients SET name = ?, contact_person = ?, address_street = ?, address_city = ?, address_state = ?, address_postal = ?, address_country = ?, email = ? WHERE id = ?",
		c.Name, c.ContactPerson, c.Street, c.City, c.State, c.Postal, c.Country, c.Email, c.ID,
	)
}

func (s *Store) DeleteClient(id int64) (bool, error) {
	return s.affected("DELETE FROM clients WHERE id = ?", id)
}

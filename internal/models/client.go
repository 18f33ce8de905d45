package models

import (
	"fmt"
	"strings"
)

// Client is an invoice recipient.
type Client struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Street        string `json:"address_street,omitempty"`
	City          string `json:"address_city,omitempty"`
	State         string `json:"address_state,omitempty"`
	Postal        string `json:"address_postal,omitempty"`
	Country       string `json:"address_country,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Validate checks the client has the fields an invoice needs.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	return nil
}

// FormattedAddress returns the non-empty postal address lines.
func (c Client) FormattedAddress() []string {
	return formatAddress(c.Street, c.City, c.State, c.Postal, c.Country)
}

func formatAddress(street, city, state, postal, country string) []string {
	var lines []string
	if street != "" {
		lines = append(lines, street)
	}

	locality := city
	if state != "" {
		if locality != "" {
			locality += ", "
		}
		locality += state
	}
	if postal != "" {
		if locality != "" {
			locality += " "
		}
		locality += postal
	}
	if locality != "" {
		lines = append(lines, locality)
	}

	if country != "" {
		lines = append(lines, country)
	}
	return lines
}

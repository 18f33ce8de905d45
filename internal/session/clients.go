package session

import (
	"errors"
	"strings"

	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/storage/sqlstore"
)

func (m *Model) updateClients(msg Msg) Msg {
	switch msg := msg.(type) {
	case RefreshClients:
		m.refreshClients()
	case SelectNextClient:
		if len(m.Clients) > 0 {
			m.ClientIndex = cycle(m.ClientIndex, 1, len(m.Clients))
		}
	case SelectPrevClient:
		if len(m.Clients) > 0 {
			m.ClientIndex = cycle(m.ClientIndex, -1, len(m.Clients))
		}

	case AddClient:
		m.Mode = &EditingClient{}
	case EditClient:
		c, err := m.store.GetClient(msg.ID)
		if err != nil {
			if errors.Is(err, sqlstore.ErrNotFound) {
				m.setStatus("Client %d not found", msg.ID)
			} else {
				logger.Error("Failed to load client", "id", msg.ID, "error", err)
				m.setStatus("Failed to load client %d", msg.ID)
			}
			return nil
		}
		edit := &EditingClient{ID: c.ID}
		edit.Values = [clientFieldCount]string{
			ClientName:    c.Name,
			ClientContact: c.ContactPerson,
			ClientStreet:  c.Street,
			ClientCity:    c.City,
			ClientState:   c.State,
			ClientPostal:  c.Postal,
			ClientCountry: c.Country,
			ClientEmail:   c.Email,
		}
		m.Mode = edit

	case ClientNextField:
		if e, ok := m.Mode.(*EditingClient); ok {
			e.Field = ClientField(cycle(int(e.Field), 1, int(clientFieldCount)))
		}
	case ClientPrevField:
		if e, ok := m.Mode.(*EditingClient); ok {
			e.Field = ClientField(cycle(int(e.Field), -1, int(clientFieldCount)))
		}
	case ClientInput:
		if e, ok := m.Mode.(*EditingClient); ok {
			e.Values[e.Field] += string(msg.Rune)
		}
	case ClientBackspace:
		if e, ok := m.Mode.(*EditingClient); ok {
			e.Values[e.Field] = popRune(e.Values[e.Field])
		}

	case SaveClient:
		return m.saveClient()
	case CancelEditClient:
		m.Mode = Normal{}

	case DeleteClient:
		m.Mode = &ConfirmingDeleteClient{ID: msg.ID}
	case ConfirmDeleteClient:
		c, ok := m.Mode.(*ConfirmingDeleteClient)
		if !ok {
			return nil
		}
		m.Mode = Normal{}
		found, err := m.store.DeleteClient(c.ID)
		switch {
		case err != nil:
			logger.Error("Failed to delete client", "id", c.ID, "error", err)
			m.setStatus("Failed to delete client")
		case !found:
			m.setStatus("Client %d not found", c.ID)
		default:
			m.setStatus("Client %d deleted", c.ID)
			if m.InvoiceClient != nil && *m.InvoiceClient == c.ID {
				m.InvoiceClient = nil
			}
		}
		return RefreshClients{}
	case CancelDeleteClient:
		m.Mode = Normal{}
	}
	return nil
}

func (m *Model) saveClient() Msg {
	edit, ok := m.Mode.(*EditingClient)
	if !ok {
		return nil
	}
	client := edit.client()
	client.Name = strings.TrimSpace(client.Name)
	if client.Name == "" {
		m.setStatus("Client name is required")
		return nil
	}
	m.Mode = Normal{}

	if client.ID == 0 {
		if _, err := m.store.AddClient(client); err != nil {
			logger.Error("Failed to add client", "error", err)
			m.setStatus("Failed to add client")
			return nil
		}
		m.setStatus("Client '%s' added", client.Name)
		return RefreshClients{}
	}

	found, err := m.store.UpdateClient(client)
	switch {
	case err != nil:
		logger.Error("Failed to update client", "id", client.ID, "error", err)
		m.setStatus("Failed to update client")
	case !found:
		m.setStatus("Client %d not found", client.ID)
	default:
		m.setStatus("Client '%s' updated", client.Name)
	}
	return RefreshClients{}
}

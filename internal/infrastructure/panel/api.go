package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListInbounds returns the panel's configured inbounds.
func (c *Client) ListInbounds(ctx context.Context) ([]Inbound, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/inbounds/list", nil)
	if err != nil {
		return nil, err
	}

	var inbounds []Inbound
	if err := json.Unmarshal(resp.Obj, &inbounds); err != nil {
		return nil, fmt.Errorf("failed to decode inbound list: %w", err)
	}
	return inbounds, nil
}

// GetInbound fetches one inbound by id.
func (c *Client) GetInbound(ctx context.Context, inboundID int) (*Inbound, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/inbounds/get/%d", inboundID), nil)
	if err != nil {
		return nil, err
	}

	var inbound Inbound
	if err := json.Unmarshal(resp.Obj, &inbound); err != nil {
		return nil, fmt.Errorf("failed to decode inbound: %w", err)
	}
	return &inbound, nil
}

// AddClient creates a VPN client identity on an inbound.
func (c *Client) AddClient(ctx context.Context, settings ClientSettings) error {
	_, err := c.Request(ctx, http.MethodPost, "/api/inbounds/addClient", settings)
	return err
}

// DeleteClient removes a client identity from an inbound, addressed by its
// email label.
func (c *Client) DeleteClient(ctx context.Context, inboundID int, email string) error {
	_, err := c.Request(ctx, http.MethodPost, "/api/inbounds/delClient", deleteClientRequest{
		InboundID: inboundID,
		Email:     email,
	})
	return err
}

// UpdateClientTraffic sets a client's traffic quota in bytes computed from GB.
func (c *Client) UpdateClientTraffic(ctx context.Context, email string, quotaGB int64) error {
	_, err := c.Request(ctx, http.MethodPost, "/api/inbounds/updateClient", updateClientRequest{
		Email:   email,
		TotalGB: quotaGB * 1_000_000_000,
	})
	return err
}

// GetOnlineClients returns the email labels of clients with a live connection.
func (c *Client) GetOnlineClients(ctx context.Context) ([]string, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/api/inbounds/onlines", nil)
	if err != nil {
		return nil, err
	}

	var emails []string
	if err := json.Unmarshal(resp.Obj, &emails); err != nil {
		return nil, fmt.Errorf("failed to decode online clients: %w", err)
	}
	return emails, nil
}

// GetStats returns traffic counters for one inbound.
func (c *Client) GetStats(ctx context.Context, inboundID int) (*InboundStats, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/inbounds/getStats/%d", inboundID), nil)
	if err != nil {
		return nil, err
	}

	var stats InboundStats
	if err := json.Unmarshal(resp.Obj, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode inbound stats: %w", err)
	}
	return &stats, nil
}

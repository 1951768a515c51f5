package panel

import "encoding/json"

// Response is the panel's in-band result envelope. Success or failure is
// signaled in the body even when the HTTP status is 200.
type Response struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Obj     json.RawMessage `json:"obj"`
}

// Inbound is a panel-side listener configuration that client identities attach to.
type Inbound struct {
	ID       int    `json:"id"`
	Tag      string `json:"tag"`
	Protocol string `json:"protocol"`
	Port     int    `json:"port"`
	Listen   string `json:"listen"`
	Settings string `json:"settings"`
}

// ClientSettings describes one VPN client identity to create on an inbound.
// Email is a synthetic per-client label, not a real mailbox.
type ClientSettings struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	InboundID  int    `json:"inboundId"`
	LimitIP    int    `json:"limitIp"`
	TotalGB    int64  `json:"totalGB"`
	ExpiryTime int64  `json:"expiryTime"`
	Enable     bool   `json:"enable"`
}

// InboundStats carries traffic counters for one inbound.
type InboundStats struct {
	Up    int64 `json:"up"`
	Down  int64 `json:"down"`
	Total int64 `json:"total"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Msg       string `json:"msg"`
	SessionID string `json:"sessionId"`
}

type deleteClientRequest struct {
	InboundID int    `json:"inboundId"`
	Email     string `json:"email"`
}

type updateClientRequest struct {
	Email   string `json:"email"`
	TotalGB int64  `json:"totalGB"`
}

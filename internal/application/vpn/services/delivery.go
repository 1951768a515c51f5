package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"

	"noryx/internal/domain/subscription"
	"noryx/internal/domain/vpn"
	"noryx/internal/infrastructure/token"
)

const (
	defaultScheme = "vless://"
	qrSize        = 300

	// ConfigFileName is the filename suggested for tokenized downloads.
	ConfigFileName = "noryx-vpn-config.conf"
)

// connectionSchemes maps panel inbound protocols to client URI schemes.
var connectionSchemes = map[string]string{
	"vless":       "vless://",
	"vmess":       "vmess://",
	"shadowsocks": "ss://",
	"trojan":      "trojan://",
}

// Delivery is the platform-appropriate package of connection material. Only
// the fields for the chosen format are set.
type Delivery struct {
	Platform    vpn.Platform
	Format      vpn.DeliveryFormat
	DeepLink    string
	QRCode      string
	DownloadURL string
	ExpiresIn   int
}

type linkPayload struct {
	UUID    string `json:"uuid"`
	Email   string `json:"email"`
	Inbound int    `json:"inbound"`
}

// DeliveryService renders connection material in the three supported formats.
type DeliveryService struct {
	tokens       *token.DownloadTokenService
	downloadPath string
}

func NewDeliveryService(tokens *token.DownloadTokenService) *DeliveryService {
	return &DeliveryService{
		tokens:       tokens,
		downloadPath: "/api/vpn/download/",
	}
}

// Prepare builds the delivery for the detected platform. Detection and format
// mapping stay in the domain; this only renders.
func (s *DeliveryService) Prepare(userAgent string, sub *subscription.Subscription, protocol string) (*Delivery, error) {
	identity := sub.Provider()
	if identity == nil {
		return nil, fmt.Errorf("subscription %d is not provisioned", sub.ID())
	}

	platform := vpn.DetectPlatform(userAgent)
	delivery := &Delivery{
		Platform: platform,
		Format:   vpn.FormatFor(platform),
	}

	switch delivery.Format {
	case vpn.FormatDeepLink:
		delivery.DeepLink = s.ConnectionLink(identity, protocol)
	case vpn.FormatQRCode:
		qr, err := s.QRCodeDataURI(identity, protocol)
		if err != nil {
			return nil, err
		}
		delivery.QRCode = qr
	case vpn.FormatFile:
		delivery.DownloadURL = s.downloadPath + s.tokens.Issue(sub.UserID(), identity.ClientEmail)
		delivery.ExpiresIn = int(s.tokens.TTL().Seconds())
	}

	return delivery, nil
}

// ConnectionLink renders the URI a VPN client app imports directly. The
// payload is the provider identifier triplet, base64-encoded.
func (s *DeliveryService) ConnectionLink(identity *subscription.ProviderIdentity, protocol string) string {
	payload, _ := json.Marshal(linkPayload{
		UUID:    identity.ClientID,
		Email:   identity.ClientEmail,
		Inbound: identity.InboundID,
	})

	scheme, ok := connectionSchemes[protocol]
	if !ok {
		scheme = defaultScheme
	}
	return scheme + base64.StdEncoding.EncodeToString(payload)
}

// QRCodeDataURI renders the connection link as an inline PNG data URI.
func (s *DeliveryService) QRCodeDataURI(identity *subscription.ProviderIdentity, protocol string) (string, error) {
	png, err := qrcode.Encode(s.ConnectionLink(identity, protocol), qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ConfigFile renders the downloadable config body for desktop platforms.
func (s *DeliveryService) ConfigFile(identity *subscription.ProviderIdentity, protocol string) []byte {
	return []byte(s.ConnectionLink(identity, protocol) + "\n")
}

package dto

// ConnectRequest carries the optional overrides for a connect call. The user
// is identified by the bearer token; user_id is a fallback for trusted
// internal callers without one.
type ConnectRequest struct {
	UserID      uint   `json:"user_id,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// ConnectResponse is the platform-shaped connection material.
type ConnectResponse struct {
	Platform    string `json:"platform"`
	Format      string `json:"format"`
	DeepLink    string `json:"deep_link,omitempty"`
	QRCode      string `json:"qr_code,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	CountryCode string `json:"country_code"`
	ExpiresAt   string `json:"subscription_expires_at"`
}

type ChangeCountryRequest struct {
	UserID      uint   `json:"user_id,omitempty"`
	CountryCode string `json:"country_code" validate:"required"`
}

type CountryResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	FlagEmoji string `json:"flag_emoji,omitempty"`
}

type StatsResponse struct {
	UploadBytes   int64  `json:"upload_bytes"`
	DownloadBytes int64  `json:"download_bytes"`
	TotalBytes    int64  `json:"total_bytes"`
	Online        bool   `json:"online"`
	Protocol      string `json:"protocol,omitempty"`
	CountryCode   string `json:"country_code"`
	Status        string `json:"status"`
	ExpiresAt     string `json:"expires_at"`
}

type CleanupResponse struct {
	Cleaned int `json:"cleaned"`
	Failed  int `json:"failed"`
}

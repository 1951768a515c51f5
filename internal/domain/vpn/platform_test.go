package vpn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      Platform
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", PlatformIOS},
		{"ipad reports mac os x too", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", PlatformIOS},
		{"android", "Mozilla/5.0 (Linux; Android 14; Pixel 8)", PlatformAndroid},
		{"windows", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", PlatformWindows},
		{"macos", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", PlatformMacOS},
		{"linux desktop", "Mozilla/5.0 (X11; Linux x86_64)", PlatformLinux},
		{"case insensitive", "MOZILLA/5.0 (WINDOWS NT 10.0)", PlatformWindows},
		{"curl", "curl/8.4.0", PlatformUnknown},
		{"empty", "", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.userAgent))
		})
	}
}

func TestDetectPlatform_AndroidBeatsLinux(t *testing.T) {
	// Android user agents contain "Linux"; the android marker must win.
	ua := "Mozilla/5.0 (Linux; Android 14; SM-S918B) AppleWebKit/537.36"
	assert.Equal(t, PlatformAndroid, DetectPlatform(ua))
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		platform Platform
		want     DeliveryFormat
	}{
		{PlatformIOS, FormatDeepLink},
		{PlatformAndroid, FormatDeepLink},
		{PlatformWindows, FormatFile},
		{PlatformMacOS, FormatFile},
		{PlatformLinux, FormatFile},
		{PlatformUnknown, FormatQRCode},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFor(tt.platform))
		})
	}
}

package vpn

import "strings"

// Platform classifies the requesting device from its User-Agent.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformUnknown Platform = "unknown"
)

// DeliveryFormat is the shape connection material is handed to the user in.
type DeliveryFormat string

const (
	FormatDeepLink DeliveryFormat = "deep-link"
	FormatFile     DeliveryFormat = "file"
	FormatQRCode   DeliveryFormat = "qr-code"
)

// platformTests are checked in order; first match wins. iOS before macOS
// matters: iPad user agents can also contain "Mac OS X".
var platformTests = []struct {
	platform Platform
	markers  []string
}{
	{PlatformIOS, []string{"iphone", "ipad", "ipod"}},
	{PlatformAndroid, []string{"android"}},
	{PlatformWindows, []string{"windows"}},
	{PlatformMacOS, []string{"macintosh", "mac os x"}},
	{PlatformLinux, []string{"linux"}},
}

// DetectPlatform classifies a User-Agent string. An empty string yields
// PlatformUnknown. Pure and deterministic.
func DetectPlatform(userAgent string) Platform {
	if userAgent == "" {
		return PlatformUnknown
	}
	ua := strings.ToLower(userAgent)
	for _, test := range platformTests {
		for _, marker := range test.markers {
			if strings.Contains(ua, marker) {
				return test.platform
			}
		}
	}
	return PlatformUnknown
}

// FormatFor maps a platform to its delivery format. Mobile platforms take a
// deep link, desktop platforms a tokenized file download, and unclassifiable
// clients fall back to a QR code since that needs no URI-scheme support.
func FormatFor(platform Platform) DeliveryFormat {
	switch platform {
	case PlatformIOS, PlatformAndroid:
		return FormatDeepLink
	case PlatformWindows, PlatformMacOS, PlatformLinux:
		return FormatFile
	default:
		return FormatQRCode
	}
}

package auth

import "strings"

const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

var mobileMarkers = []string{
	"mobile", "android", "iphone", "ipad", "ipod",
	"blackberry", "opera mini", "iemobile", "windows phone",
}

// ClassifyDevice buckets a user agent into mobile, desktop or unknown.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return DeviceUnknown
	}
	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return DeviceMobile
		}
	}
	return DeviceDesktop
}

// IsDeviceType reports whether s is one of the stored device buckets.
func IsDeviceType(s string) bool {
	return s == DeviceMobile || s == DeviceDesktop || s == DeviceUnknown
}

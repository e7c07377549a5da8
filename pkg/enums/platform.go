package enums

import "fmt"

// Platform identifies the review source a store is connected to.
type Platform string

const (
	PlatformNaver       Platform = "naver"
	PlatformBaemin      Platform = "baemin"
	PlatformYogiyo      Platform = "yogiyo"
	PlatformCoupangEats Platform = "coupangeats"
	PlatformGoogle      Platform = "google"
)

var validPlatforms = []Platform{
	PlatformNaver,
	PlatformBaemin,
	PlatformYogiyo,
	PlatformCoupangEats,
	PlatformGoogle,
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Platform.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlatform converts raw input into a Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}

// Package fetch - platform.go detects job boards whose postings are rendered client-side.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	// Covers myworkdayjobs.com tenants (wd1..wd5) and workday.com.
	case strings.Contains(host, "workday"):
		return PlatformWorkday
	default:
		return PlatformUnknown
	}
}

// RequiresScripting reports whether postings on the platform need a browser to render.
func RequiresScripting(platform Platform) bool {
	switch platform {
	case PlatformGreenhouse, PlatformLever, PlatformWorkday:
		return true
	default:
		return false
	}
}

// PlatformContentSelectors returns extra content selectors for a platform, awaited
// and evaluated after the generic render selectors.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description",
			".job-description__content",
			"#content",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".posting-description",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
		}
	default:
		return nil
	}
}

// renderSelectorsFor returns the generic render selectors followed by the platform's own.
func renderSelectorsFor(platform Platform) []string {
	return append(RenderSelectors(), PlatformContentSelectors(platform)...)
}

package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformLinkedIn        Platform = "linkedin"
	PlatformUnknown         Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	suffixes []string
}{
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
	{PlatformAshby, []string{"ashbyhq.com"}},
	{PlatformSmartRecruiters, []string{"smartrecruiters.com"}},
	{PlatformLinkedIn, []string{"linkedin.com"}},
}

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for _, p := range platformHosts {
		for _, suffix := range p.suffixes {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for platform, most
// specific first. Unknown platforms get JobPostingSelectors.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"}
	case PlatformLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"}
	case PlatformAshby:
		return []string{"[class*='descriptionText']", "main"}
	case PlatformSmartRecruiters:
		return []string{".job-sections", "[itemprop='description']", "main"}
	case PlatformLinkedIn:
		return []string{".show-more-less-html__markup", ".description__text", "main"}
	default:
		return JobPostingSelectors()
	}
}

var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// PlatformNoiseSelectors returns elements to strip before extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	noise := append([]string(nil), commonNoise...)
	switch platform {
	case PlatformGreenhouse:
		return append(noise, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply")
	case PlatformLever:
		return append(noise, ".apply-section", ".lever-application-form", ".posting-apply")
	case PlatformWorkday:
		return append(noise, "[data-automation-id='applyButton']", ".application-section")
	case PlatformLinkedIn:
		return append(noise, ".show-more-less-html__button", ".top-card-layout__cta-container")
	default:
		return noise
	}
}

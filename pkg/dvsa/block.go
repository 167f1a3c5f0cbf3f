package dvsa

import (
	"strings"

	"dvsacheck/pkg/config"
)

// DetectBlock inspects a rendered page for block pages, challenges and error banners.
// It returns nil when the page looks like a normal result page.
func DetectBlock(html string, site *config.SiteConfig) (*BlockedError, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	text := doc.Find("title").Text() + "\n" + doc.Find("body").Text()
	for _, sig := range site.BlockSignatures {
		if sig.Match != "" && strings.Contains(text, sig.Match) {
			return &BlockedError{Message: sig.Message}, nil
		}
	}

	selectors := site.Selectors
	if found, _ := firstMatch(doc.Selection, selectors.Captcha); found != nil {
		return &BlockedError{Message: config.CaptchaMessage}, nil
	}

	if msg := fieldText(doc.Selection, selectors.ErrorBanner, ""); msg != "" {
		return &BlockedError{Message: msg}, nil
	}

	return nil, nil
}

package dvsa

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dvsacheck/pkg/config"
)

// parseDocument wraps goquery parsing of a rendered page
func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}

// firstMatch returns the elements of the first selector that matches at least one node.
// Lower-priority selectors are only consulted when every earlier one matched nothing.
func firstMatch(root *goquery.Selection, selectors []string) (*goquery.Selection, string) {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		if found := root.Find(selector); found.Length() > 0 {
			return found, selector
		}
	}
	return nil, ""
}

// fieldText returns the trimmed text of the first selector with non-empty text, or sentinel
func fieldText(root *goquery.Selection, selectors []string, sentinel string) string {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		if text := normalizeText(root.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return sentinel
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseSlots extracts available slots from a results page.
// A page without any slot container yields an empty slice, not an error.
func ParseSlots(html string, selectors *config.SelectorConfig) ([]TestSlot, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	slots := []TestSlot{}
	containers, _ := firstMatch(doc.Selection, selectors.SlotContainer)
	if containers == nil {
		return slots, nil
	}

	containers.Each(func(_ int, s *goquery.Selection) {
		slots = append(slots, TestSlot{
			Date:     fieldText(s, selectors.SlotDate, DateNotFound),
			Time:     fieldText(s, selectors.SlotTime, TimeNotFound),
			Location: fieldText(s, selectors.SlotLocation, LocationNotFound),
		})
	})
	return slots, nil
}

// ParseCentres extracts test-centre search results
func ParseCentres(html string, selectors *config.SelectorConfig) ([]TestCentreResult, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	centres := []TestCentreResult{}
	containers, _ := firstMatch(doc.Selection, selectors.CentreContainer)
	if containers == nil {
		return centres, nil
	}

	containers.Each(func(_ int, s *goquery.Selection) {
		availability := fieldText(s, selectors.CentreAvailability, AvailabilityNotFound)
		centres = append(centres, TestCentreResult{
			Name:         fieldText(s, selectors.CentreName, NameNotFound),
			Address:      fieldText(s, selectors.CentreAddress, AddressNotFound),
			Availability: availability,
			HasTests:     hasTests(availability),
		})
	})
	return centres, nil
}

func hasTests(availability string) bool {
	if availability == AvailabilityNotFound {
		return false
	}
	lower := strings.ToLower(availability)
	return !strings.Contains(lower, "no tests") && !strings.Contains(lower, "no available")
}

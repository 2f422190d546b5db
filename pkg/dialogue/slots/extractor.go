package slots

import (
	"regexp"
	"strings"
)

// Slot names the extractor knows how to fill. Budget tiers are parsed by the
// state machine itself since the tier table lives there.
const (
	NameCompany = "company"
	NameEmail   = "email"
	NamePhone   = "phone"
	NameSector  = "sector"
	NameMessage = "message"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Tunisian numbers: 8 digits, optional +216 prefix, common separators.
	phoneRe = regexp.MustCompile(`(\+?216[\s.\-]?)?\d{2}[\s.\-]?\d{3}[\s.\-]?\d{3}`)
)

// sectorKeywords maps free-text hints to the canonical sector values used by
// the budget wizard buttons. The slice is scanned in order and the first
// match wins, so the same message always resolves to the same sector.
var sectorKeywords = []struct {
	keyword string
	sector  string
}{
	{"agence", "agency"},
	{"régie", "agency"},
	{"entreprise", "brand"},
	{"marque", "brand"},
	{"société", "brand"},
	{"startup", "brand"},
	{"institution", "institution"},
	{"ong", "institution"},
	{"association", "institution"},
	{"ministère", "institution"},
}

// Extract pulls the expected slots out of a free-text message, best effort.
// Missing slots are simply absent from the result; extraction never fails the
// turn.
func Extract(text string, expected []string) map[string]string {
	result := make(map[string]string)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return result
	}

	wants := make(map[string]bool, len(expected))
	for _, name := range expected {
		wants[name] = true
	}

	if wants[NameEmail] {
		if email := emailRe.FindString(trimmed); email != "" {
			result[NameEmail] = email
		}
	}

	if wants[NamePhone] {
		if phone := phoneRe.FindString(trimmed); phone != "" {
			result[NamePhone] = strings.TrimSpace(phone)
		}
	}

	if wants[NameSector] {
		lowered := strings.ToLower(trimmed)
		for _, sk := range sectorKeywords {
			if strings.Contains(lowered, sk.keyword) {
				result[NameSector] = sk.sector
				break
			}
		}
	}

	if wants[NameCompany] {
		if company := extractCompany(trimmed); company != "" {
			result[NameCompany] = company
		}
	}

	if wants[NameMessage] {
		result[NameMessage] = trimmed
	}

	return result
}

// extractCompany treats what remains of the message, once contact details are
// stripped, as a company name. Short free-text answers to "quel est le nom de
// votre société ?" are exactly that.
func extractCompany(text string) string {
	cleaned := emailRe.ReplaceAllString(text, "")
	cleaned = phoneRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, " \t\n,;:-")

	if cleaned == "" {
		return ""
	}
	// A paragraph is a message, not a company name.
	if len(cleaned) > 80 || strings.Count(cleaned, " ") > 7 {
		return ""
	}
	return cleaned
}

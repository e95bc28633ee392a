package presenter

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

const (
	// HiddenTitle replaces every title in hidden mode
	HiddenTitle = "Task"
	// UntitledTitle stands in for an empty title
	UntitledTitle = "Untitled"

	partialSuffix = "•••"
)

// PrivacyMasker redacts task titles for glanceable surfaces
type PrivacyMasker struct{}

// NewPrivacyMasker creates a new privacy masker
func NewPrivacyMasker() *PrivacyMasker {
	return &PrivacyMasker{}
}

// Mask renders title for mode. Unknown modes are treated as hidden.
func (m *PrivacyMasker) Mask(title string, mode model.PrivacyMode) string {
	clean := strings.TrimSpace(norm.NFKC.String(title))
	switch mode {
	case model.PrivacyOff:
		if clean == "" {
			return UntitledTitle
		}
		return clean
	case model.PrivacyPartial:
		if clean == "" {
			return UntitledTitle
		}
		first, _ := utf8.DecodeRuneInString(clean)
		return string(first) + partialSuffix
	default:
		return HiddenTitle
	}
}

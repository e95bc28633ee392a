package model

import "strings"

// SelectionPolicy decides which scope the glance summary prefers
type SelectionPolicy string

const (
	PolicyTodayOverview SelectionPolicy = "TODAY_OVERVIEW"
	PolicyPinnedFirst   SelectionPolicy = "PINNED_FIRST"
	PolicyAuto          SelectionPolicy = "AUTO"
)

// DefaultSelectionPolicy is used when settings do not name one
const DefaultSelectionPolicy = PolicyAuto

// IsValid validates the policy
func (p SelectionPolicy) IsValid() bool {
	switch p {
	case PolicyTodayOverview, PolicyPinnedFirst, PolicyAuto:
		return true
	default:
		return false
	}
}

// ParseSelectionPolicy accepts any case and '-' in place of '_'
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	p := SelectionPolicy(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !p.IsValid() {
		return "", NewValidation("unknown selection policy " + s)
	}
	return p, nil
}

// PrivacyMode controls how titles appear on glanceable surfaces
type PrivacyMode string

const (
	PrivacyOff     PrivacyMode = "off"
	PrivacyPartial PrivacyMode = "partial"
	PrivacyHidden  PrivacyMode = "hidden"
)

// IsValid validates the privacy mode
func (m PrivacyMode) IsValid() bool {
	switch m {
	case PrivacyOff, PrivacyPartial, PrivacyHidden:
		return true
	default:
		return false
	}
}

// ParsePrivacyMode accepts any case
func ParsePrivacyMode(s string) (PrivacyMode, error) {
	m := PrivacyMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", NewValidation("unknown privacy mode " + s)
	}
	return m, nil
}

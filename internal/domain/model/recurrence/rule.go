// Package recurrence computes the next occurrence of a repeating task
package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// Kind is the repetition pattern
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// Rule is an immutable recurrence pattern.
// The zero value is not a valid rule; use the constructors.
type Rule struct {
	kind      Kind
	weekdays  []time.Weekday // sorted, unique; weekly only
	anchorDay int            // 1..31; monthly only
}

// NewDaily creates a rule repeating every day
func NewDaily() Rule {
	return Rule{kind: KindDaily}
}

// NewWeekly creates a rule repeating on the given weekdays
func NewWeekly(days ...time.Weekday) (Rule, error) {
	if len(days) == 0 {
		return Rule{}, model.NewValidation("weekly rule requires at least one weekday")
	}
	seen := make(map[time.Weekday]bool, len(days))
	uniq := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return Rule{}, model.NewValidation(fmt.Sprintf("invalid weekday %d", d))
		}
		if !seen[d] {
			seen[d] = true
			uniq = append(uniq, d)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	return Rule{kind: KindWeekly, weekdays: uniq}, nil
}

// NewMonthly creates a rule repeating on anchorDay of every month
func NewMonthly(anchorDay int) (Rule, error) {
	if anchorDay < 1 || anchorDay > 31 {
		return Rule{}, model.NewValidation(fmt.Sprintf("monthly anchor day must be 1..31, got %d", anchorDay))
	}
	return Rule{kind: KindMonthly, anchorDay: anchorDay}, nil
}

// Kind returns the repetition pattern
func (r Rule) Kind() Kind {
	return r.kind
}

// Weekdays returns a copy of the weekly day set
func (r Rule) Weekdays() []time.Weekday {
	out := make([]time.Weekday, len(r.weekdays))
	copy(out, r.weekdays)
	return out
}

// AnchorDay returns the monthly anchor
func (r Rule) AnchorDay() int {
	return r.anchorDay
}

// IsZero reports whether r was never constructed
func (r Rule) IsZero() bool {
	return r.kind == ""
}

// Next returns the first occurrence strictly after current.
// The wall-clock time of day of current is preserved.
func (r Rule) Next(current time.Time) time.Time {
	switch r.kind {
	case KindWeekly:
		for offset := 1; offset <= 7; offset++ {
			candidate := current.AddDate(0, 0, offset)
			if r.hasWeekday(candidate.Weekday()) {
				return candidate
			}
		}
		// unreachable for a constructed rule
		return current.AddDate(0, 0, 7)
	case KindMonthly:
		if candidate := r.monthlyIn(current, 0); candidate.After(current) {
			return candidate
		}
		return r.monthlyIn(current, 1)
	default:
		return current.AddDate(0, 0, 1)
	}
}

// PreviousApprox steps back by the rule's nominal period (1 day, 7 days, 1 month).
// It does not invert Next for multi-day weekly sets or clamped monthly anchors.
func (r Rule) PreviousApprox(current time.Time) time.Time {
	switch r.kind {
	case KindWeekly:
		return current.AddDate(0, 0, -7)
	case KindMonthly:
		return current.AddDate(0, -1, 0)
	default:
		return current.AddDate(0, 0, -1)
	}
}

func (r Rule) hasWeekday(d time.Weekday) bool {
	for _, w := range r.weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// monthlyIn returns the clamped anchor day in the month monthOffset months after current
func (r Rule) monthlyIn(current time.Time, monthOffset int) time.Time {
	y, m, _ := current.Date()
	first := time.Date(y, m+time.Month(monthOffset), 1,
		current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), current.Location())
	day := r.anchorDay
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// String renders the compact form: "daily", "weekly:mon,wed", "monthly:31"
func (r Rule) String() string {
	switch r.kind {
	case KindWeekly:
		names := make([]string, len(r.weekdays))
		for i, d := range r.weekdays {
			names[i] = strings.ToLower(d.String()[:3])
		}
		return "weekly:" + strings.Join(names, ",")
	case KindMonthly:
		return "monthly:" + strconv.Itoa(r.anchorDay)
	default:
		return string(r.kind)
	}
}

// ParseRule is the inverse of Rule.String
func ParseRule(s string) (Rule, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch Kind(kind) {
	case KindDaily:
		if arg != "" {
			return Rule{}, model.NewValidation(fmt.Sprintf("daily rule takes no argument: %q", s))
		}
		return NewDaily(), nil
	case KindWeekly:
		var days []time.Weekday
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, ok := weekdayNames[part]
			if !ok {
				return Rule{}, model.NewValidation(fmt.Sprintf("unknown weekday %q", part))
			}
			days = append(days, d)
		}
		return NewWeekly(days...)
	case KindMonthly:
		day, err := strconv.Atoi(arg)
		if err != nil {
			return Rule{}, model.NewValidation(fmt.Sprintf("monthly rule needs a day number: %q", s))
		}
		return NewMonthly(day)
	default:
		return Rule{}, model.NewValidation(fmt.Sprintf("unknown recurrence rule %q", s))
	}
}

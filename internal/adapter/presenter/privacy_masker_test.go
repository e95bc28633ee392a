package presenter_test

import (
	"testing"

	"github.com/YoshitsuguKoike/deetask/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/service"
)

var _ service.TitleMasker = (*presenter.PrivacyMasker)(nil)

func TestPrivacyMasker_Mask(t *testing.T) {
	tests := []struct {
		name  string
		title string
		mode  model.PrivacyMode
		want  string
	}{
		{"off keeps title", "Buy milk", model.PrivacyOff, "Buy milk"},
		{"off trims", "  Buy milk \n", model.PrivacyOff, "Buy milk"},
		{"off normalizes full-width", "ＡＢＣ", model.PrivacyOff, "ABC"},
		{"off empty", "   ", model.PrivacyOff, "Untitled"},
		{"partial", "Buy milk", model.PrivacyPartial, "B•••"},
		{"partial multibyte", "牛乳を買う", model.PrivacyPartial, "牛•••"},
		{"partial empty", "", model.PrivacyPartial, "Untitled"},
		{"hidden", "Buy milk", model.PrivacyHidden, "Task"},
		{"hidden empty", "", model.PrivacyHidden, "Task"},
		{"unknown mode", "Buy milk", model.PrivacyMode("loud"), "Task"},
	}

	m := presenter.NewPrivacyMasker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Mask(tt.title, tt.mode); got != tt.want {
				t.Errorf("Mask(%q, %s) = %q, want %q", tt.title, tt.mode, got, tt.want)
			}
		})
	}
}

package langid

import (
	"testing"

	"go-triage/types"
)

func TestRoute(t *testing.T) {
	router := NewRouter(0.5)

	tests := []struct {
		name string
		text string
		want types.LanguageTag
	}{
		{"empty", "", types.LangDefault},
		{"whitespace only", "   \n ", types.LangDefault},
		{"russian", "Почему приложение постоянно вылетает после обновления?", types.LangRussian},
		{"kazakh", "Бағдарлама жаңартудан кейін неге үнемі жабылып қалады?", types.LangKazakh},
		{"english", "Why does the app keep crashing after the update?", types.LangDefault},
		{"emoji only", "👍👍👍", types.LangDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := router.Route(tt.text); got != tt.want {
				t.Errorf("Route(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestRoute_HighThresholdFallsBack(t *testing.T) {
	// an impossible bar sends everything down the default path
	router := NewRouter(1.1)
	if got := router.Route("Почему приложение постоянно вылетает?"); got != types.LangDefault {
		t.Errorf("expected default below the confidence threshold, got %s", got)
	}
}

package tts

import (
	"strings"
	"testing"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
)

func TestVoiceFor(t *testing.T) {
	cases := []struct {
		lang commonModels.Language
		want string
	}{
		{commonModels.English, "Samantha"},
		{commonModels.Hindi, "Lekha"},
		{commonModels.Telugu, "Samantha"},
	}
	for _, tc := range cases {
		if got := VoiceFor(tc.lang); got != tc.want {
			t.Errorf("VoiceFor(%s) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	if got := Truncate(short); got != short {
		t.Errorf("short text must pass through unchanged, got %q", got)
	}

	long := strings.Repeat("అ", config.SpeechMaxChars+200)
	got := Truncate(long)
	if len([]rune(got)) != config.SpeechMaxChars {
		t.Errorf("expected %d runes, got %d", config.SpeechMaxChars, len([]rune(got)))
	}
}

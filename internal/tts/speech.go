package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

// Synthesizer turns answer text into an mp3 by shelling out to the host
// speech tools: say renders an aiff, ffmpeg converts it. Hosts without
// those binaries get an error, not a crash.
type Synthesizer struct {
	workDir string
	logger  *logger_i.Logger
}

func NewSynthesizer(workDir string) *Synthesizer {
	return &Synthesizer{
		workDir: workDir,
		logger:  logger_i.NewLogger("TTS"),
	}
}

// VoiceFor maps a response language to a host voice. Telugu has no
// dedicated system voice, so it falls back to the default one.
func VoiceFor(lang commonModels.Language) string {
	switch lang {
	case commonModels.Hindi:
		return "Lekha"
	default:
		return "Samantha"
	}
}

// Truncate caps the spoken text. The synthesis commands get slow and
// flaky on long inputs, so only the head of the answer is voiced.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= config.SpeechMaxChars {
		return text
	}
	return string(runes[:config.SpeechMaxChars])
}

// Synthesize writes an mp3 for the given text and returns its path. The
// intermediate aiff is removed before returning.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang commonModels.Language, baseName string) (string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "language", lang)

	if text == "" {
		return "", fmt.Errorf("tts: empty text")
	}
	spoken := Truncate(text)

	aiffPath := filepath.Join(s.workDir, baseName+".aiff")
	mp3Path := filepath.Join(s.workDir, baseName+".mp3")

	sayCtx, cancelSay := context.WithTimeout(ctx, config.SpeechCommandTimeout)
	defer cancelSay()
	say := exec.CommandContext(sayCtx, "say", "-v", VoiceFor(lang), "-o", aiffPath, spoken)
	if out, err := say.CombinedOutput(); err != nil {
		log.Error("say failed", "error", err, "output", string(out))
		return "", fmt.Errorf("tts: speech synthesis failed: %w", err)
	}
	defer os.Remove(aiffPath)

	convCtx, cancelConv := context.WithTimeout(ctx, config.SpeechCommandTimeout)
	defer cancelConv()
	convert := exec.CommandContext(convCtx, "ffmpeg", "-y", "-i", aiffPath, mp3Path)
	if out, err := convert.CombinedOutput(); err != nil {
		log.Error("ffmpeg failed", "error", err, "output", string(out))
		return "", fmt.Errorf("tts: mp3 conversion failed: %w", err)
	}

	log.Debug("Speech rendered", "path", mp3Path)
	return mp3Path, nil
}

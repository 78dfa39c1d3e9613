package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rezapratama/dialog2video/internal/config"
	"github.com/rezapratama/dialog2video/internal/script"
	"github.com/rezapratama/dialog2video/internal/subtitle"
	"github.com/rezapratama/dialog2video/internal/tts"
	"github.com/rezapratama/dialog2video/internal/video"
)

type muxCall struct {
	video string
	audio string
	out   string
}

type concatCall struct {
	parts []string
	final string
}

// recordingEncoder подменяет ffmpeg: каждый кадр-генератор вызывается
// один раз, чтобы пайплайн рендеринга реально отработал.
type recordingEncoder struct {
	mu       sync.Mutex
	segments []config.SegmentParams
	muxes    []muxCall
	concats  []concatCall
}

func (e *recordingEncoder) EncodeSegment(ctx context.Context, frame video.FrameFunc, videoPath string, params config.SegmentParams) error {
	dst := image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	frame(0, dst)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.segments = append(e.segments, params)
	return nil
}

func (e *recordingEncoder) MuxAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muxes = append(e.muxes, muxCall{video: videoPath, audio: audioPath, out: outputPath})
	return nil
}

func (e *recordingEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath, tmpDir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.concats = append(e.concats, concatCall{parts: append([]string(nil), segmentPaths...), final: finalPath})
	return nil
}

type stubProvider struct {
	mu    sync.Mutex
	name  string
	err   error
	calls []tts.SynthesizeRequest
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Synthesize(ctx context.Context, req *tts.SynthesizeRequest) (*tts.SynthesizeResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, *req)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &tts.SynthesizeResponse{Audio: []byte("fake-mp3"), Format: "mp3", Provider: s.name}, nil
}

func (s *stubProvider) Health(ctx context.Context) error { return nil }

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testProject(t *testing.T, dir string, english, fallback tts.Provider) (*VideoProject, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Width = 320
	cfg.Height = 180
	cfg.FPS = 10
	cfg.Workers = 2
	cfg.SpriteHeight = 60
	cfg.BackgroundPath = filepath.Join(dir, "bg.png")
	cfg.OutputVideo = filepath.Join(dir, "episode.mp4")
	cfg.VideoEncoder = "libx264"
	cfg.Quality = 23

	writePNG(t, cfg.BackgroundPath, 64, 36)

	voices := tts.NewRegistry(fallback)
	voices.Register("en", english)

	project := NewVideoProject(cfg, zerolog.Nop(), &recordingEncoder{}, voices, subtitle.NewEngine(nil))
	project.probe = func(path string) (float64, error) { return 2.0, nil }
	return project, cfg
}

func testScript(t *testing.T, dir string) *script.Script {
	t.Helper()

	left := filepath.Join(dir, "left.png")
	right := filepath.Join(dir, "right.png")
	writePNG(t, left, 30, 60)
	writePNG(t, right, 30, 60)

	return &script.Script{
		Version: "1.0",
		Title:   "test episode",
		Cast: []script.Character{
			{Name: "Reza", Image: left, Voice: "voice-male"},
			{Name: "Chloe", Image: right, Voice: "voice-female"},
		},
		Lines: []script.Line{
			{Text: "Hello [laugh] there", Language: "en"},
			{Text: "Halo semuanya", Language: "id"},
			{Text: "Line two", Language: "en"},
			{Text: "Baris tiga", Language: "id"},
			{Text: "Line four", Language: "en"},
		},
	}
}

func TestRunBuildsOrderedEpisode(t *testing.T) {
	dir := t.TempDir()
	english := &stubProvider{name: "playht"}
	fallback := &stubProvider{name: "gtranslate"}

	project, cfg := testProject(t, dir, english, fallback)
	cfg.EpisodeLink = "https://example.com/ep1"
	cfg.OutroDuration = 1.0
	enc := project.Encoder.(*recordingEncoder)

	if err := project.Run(context.Background(), testScript(t, dir)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// 5 реплик + карточка аутро
	if len(enc.segments) != 6 {
		t.Fatalf("EncodeSegment calls = %d, want 6", len(enc.segments))
	}

	durations := make(map[int]float64)
	for _, params := range enc.segments {
		durations[params.TurnIndex] = params.Duration
	}
	for i := 0; i < 5; i++ {
		if durations[i] != 2.5 {
			t.Errorf("turn %d duration = %v, want 2.5 (audio 2.0 + pause 0.5)", i, durations[i])
		}
	}
	if durations[5] != 1.0 {
		t.Errorf("outro duration = %v, want 1.0", durations[5])
	}

	if len(enc.muxes) != 6 {
		t.Fatalf("MuxAudio calls = %d, want 6", len(enc.muxes))
	}
	for _, m := range enc.muxes {
		if strings.HasSuffix(m.out, "outro.mp4") {
			if m.audio != "" {
				t.Errorf("outro mux audio = %q, want silence", m.audio)
			}
			continue
		}
		if !strings.Contains(filepath.Base(m.audio), "dialog_") {
			t.Errorf("mux audio = %q, want dialog_<i>.mp3", m.audio)
		}
	}

	if len(enc.concats) != 1 {
		t.Fatalf("Concatenate calls = %d, want 1", len(enc.concats))
	}
	concat := enc.concats[0]
	if concat.final != cfg.OutputVideo {
		t.Errorf("final path = %q, want %q", concat.final, cfg.OutputVideo)
	}
	if len(concat.parts) != 6 {
		t.Fatalf("concat parts = %d, want 6", len(concat.parts))
	}
	for i := 0; i < 5; i++ {
		want := fmt.Sprintf("turn_%d.mp4", i)
		if filepath.Base(concat.parts[i]) != want {
			t.Errorf("concat part %d = %q, want %q", i, filepath.Base(concat.parts[i]), want)
		}
	}
	if filepath.Base(concat.parts[5]) != "outro.mp4" {
		t.Errorf("last concat part = %q, want outro.mp4", filepath.Base(concat.parts[5]))
	}
}

func TestRunRoutesLanguagesAndVoices(t *testing.T) {
	dir := t.TempDir()
	english := &stubProvider{name: "playht"}
	fallback := &stubProvider{name: "gtranslate"}

	project, _ := testProject(t, dir, english, fallback)
	if err := project.Run(context.Background(), testScript(t, dir)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(english.calls) != 3 {
		t.Fatalf("english provider calls = %d, want 3", len(english.calls))
	}
	if len(fallback.calls) != 2 {
		t.Fatalf("fallback provider calls = %d, want 2", len(fallback.calls))
	}

	// Маркер [laugh] не должен дойти до синтеза
	voiceByText := make(map[string]string)
	for _, call := range english.calls {
		voiceByText[call.Text] = call.Voice
		if strings.Contains(call.Text, "[") {
			t.Errorf("marker leaked into synthesis text: %q", call.Text)
		}
	}

	if _, ok := voiceByText["Hello there"]; !ok {
		t.Fatalf("cleaned text %q never synthesized, got %v", "Hello there", voiceByText)
	}

	// Говорящий чередуется парами: 0,1 -> первый, 2,3 -> второй, 4 -> первый
	wantVoices := map[string]string{
		"Hello there": "voice-male",
		"Line two":    "voice-female",
		"Line four":   "voice-male",
	}
	for text, want := range wantVoices {
		if voiceByText[text] != want {
			t.Errorf("voice for %q = %q, want %q", text, voiceByText[text], want)
		}
	}
}

func TestRunFailsFastOnProviderError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("service down")
	english := &stubProvider{name: "playht", err: boom}
	fallback := &stubProvider{name: "gtranslate"}

	project, _ := testProject(t, dir, english, fallback)
	enc := project.Encoder.(*recordingEncoder)

	err := project.Run(context.Background(), testScript(t, dir))
	if err == nil {
		t.Fatal("Run() succeeded despite provider failure")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap provider failure", err)
	}
	if len(enc.concats) != 0 {
		t.Errorf("Concatenate called %d times after synthesis failure", len(enc.concats))
	}
}

func TestRunRejectsInvalidScript(t *testing.T) {
	dir := t.TempDir()
	english := &stubProvider{name: "playht"}
	fallback := &stubProvider{name: "gtranslate"}

	project, _ := testProject(t, dir, english, fallback)

	bad := testScript(t, dir)
	bad.Cast = bad.Cast[:1]
	if err := project.Run(context.Background(), bad); err == nil {
		t.Fatal("Run() accepted a script with a single character")
	}
	if len(english.calls)+len(fallback.calls) != 0 {
		t.Error("synthesis started before validation finished")
	}
}

func TestCreateConversationVideoValidatesInput(t *testing.T) {
	cfg := config.Default()

	if err := CreateConversationVideo(context.Background(), zerolog.Nop(), cfg, nil, nil); err == nil {
		t.Error("empty conversation accepted")
	}
	err := CreateConversationVideo(context.Background(), zerolog.Nop(), cfg, []string{"a", "b"}, []string{"en"})
	if err == nil {
		t.Error("mismatched texts/languages accepted")
	}
}

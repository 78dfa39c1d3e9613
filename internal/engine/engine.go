package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	"github.com/rezapratama/dialog2video/internal/assets"
	"github.com/rezapratama/dialog2video/internal/config"
	"github.com/rezapratama/dialog2video/internal/render"
	"github.com/rezapratama/dialog2video/internal/script"
	"github.com/rezapratama/dialog2video/internal/subtitle"
	"github.com/rezapratama/dialog2video/internal/system"
	"github.com/rezapratama/dialog2video/internal/timeline"
	"github.com/rezapratama/dialog2video/internal/tts"
	"github.com/rezapratama/dialog2video/internal/video"
)

// Параллелизм синтеза: внешние TTS-сервисы не любят шквал запросов
const synthWorkers = 2

type VideoProject struct {
	Config    *config.Config
	Log       zerolog.Logger
	Encoder   video.Encoder
	Voices    *tts.Registry
	Subtitles *subtitle.Engine

	probe   func(path string) (float64, error)
	tempDir string
}

func NewVideoProject(cfg *config.Config, logger zerolog.Logger, enc video.Encoder, voices *tts.Registry, subs *subtitle.Engine) *VideoProject {
	return &VideoProject{
		Config:    cfg,
		Log:       logger,
		Encoder:   enc,
		Voices:    voices,
		Subtitles: subs,
		probe:     system.GetAudioDuration,
	}
}

// DefaultVoices собирает реестр провайдеров: Play.ht для английского,
// Google Translate для всего остального.
func DefaultVoices(logger zerolog.Logger) *tts.Registry {
	registry := tts.NewRegistry(tts.NewGoogleTranslateProvider(logger, nil))
	registry.Register("en", tts.NewPlayHTProvider(logger, nil))
	return registry
}

// NewDefaultProject wires the standard pipeline: ffmpeg encoder, the
// default voice registry and the first subtitle font found on the host.
func NewDefaultProject(cfg *config.Config, logger zerolog.Logger) *VideoProject {
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder, _ = system.GetBestH264Encoder()
	}

	var fnt *sfnt.Font
	if path, err := system.FindFont(cfg.FontPath); err == nil {
		if parsed, perr := subtitle.LoadFont(path); perr == nil {
			fnt = parsed
			logger.Info().Str("font", path).Msg("subtitle font loaded")
		} else {
			logger.Warn().Err(perr).Str("font", path).Msg("font unreadable, falling back to builtin face")
		}
	} else {
		logger.Warn().Msg("no subtitle font found, falling back to builtin face")
	}

	enc := video.NewFFmpegEncoder(cfg.Width, cfg.Height)
	return NewVideoProject(cfg, logger, enc, DefaultVoices(logger), subtitle.NewEngine(fnt))
}

// CreateConversationVideo строит сценарий из пар текст+язык с кастом по
// умолчанию и прогоняет полный пайплайн.
func CreateConversationVideo(ctx context.Context, logger zerolog.Logger, cfg *config.Config, texts []string, languages []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("нет реплик для озвучивания")
	}
	if len(texts) != len(languages) {
		return fmt.Errorf("реплик %d, а языков %d", len(texts), len(languages))
	}

	scr := &script.Script{
		Version: "1.0",
		Title:   "conversation",
		Cast:    script.DefaultCast(),
		Lines:   make([]script.Line, len(texts)),
	}
	for i := range texts {
		scr.Lines[i] = script.Line{Text: texts[i], Language: languages[i]}
	}

	return NewDefaultProject(cfg, logger).Run(ctx, scr)
}

func (p *VideoProject) Run(ctx context.Context, scr *script.Script) error {
	startTime := time.Now()
	var synthStart, synthEnd, encodeStart, encodeEnd, concatStart time.Time

	if err := scr.Validate(); err != nil {
		return err
	}

	var err error
	p.tempDir, err = os.MkdirTemp("", "dialog2video_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	// Сцена: фон и спрайты обоих персонажей обязаны загрузиться
	background, err := assets.LoadBackground(p.Config.BackgroundPath, p.Config.Width, p.Config.Height)
	if err != nil {
		return fmt.Errorf("фон %s: %w", p.Config.BackgroundPath, err)
	}
	sprite1, err := assets.LoadSprite(scr.Cast[0].Image, p.Config.SpriteHeight)
	if err != nil {
		return fmt.Errorf("спрайт %s: %w", scr.Cast[0].Image, err)
	}
	sprite2, err := assets.LoadSprite(scr.Cast[1].Image, p.Config.SpriteHeight)
	if err != nil {
		return fmt.Errorf("спрайт %s: %w", scr.Cast[1].Image, err)
	}

	scene := render.Scene{
		Background: background,
		Sprite1:    sprite1,
		Sprite2:    sprite2,
		Margin:     p.Config.SpriteMargin,
	}

	// Разбор реплик: маркеры эмоций превращаются в события движения
	entries := make([]timeline.Entry, len(scr.Lines))
	for i, line := range scr.Lines {
		text, events := script.Parse(line.Text)
		language := line.Language
		if language == "" {
			language = "en"
		}
		entries[i] = timeline.Entry{
			Text:      text,
			Language:  language,
			Events:    events,
			AudioPath: filepath.Join(p.tempDir, fmt.Sprintf("dialog_%d.mp3", i)),
		}
	}

	fmt.Println("--- [PROJECT: DIALOG ENGINE] ---")
	fmt.Printf("[*] Сценарий: %s | Реплик: %d\n", scr.Title, len(scr.Lines))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS\n", p.Config.Width, p.Config.Height, p.Config.FPS)
	fmt.Println("-----------------------------")

	// 1. Synthesis Pool (network bound)
	synthStart = time.Now()
	sg, sctx := errgroup.WithContext(ctx)
	sg.SetLimit(synthWorkers)

	for i := range entries {
		sg.Go(func() error {
			voice := scr.Cast[timeline.SpeakerFor(i)-1].Voice
			provider := p.Voices.ForLanguage(entries[i].Language)

			resp, err := provider.Synthesize(sctx, &tts.SynthesizeRequest{
				Text:     entries[i].Text,
				Voice:    voice,
				Language: entries[i].Language,
			})
			if err != nil {
				return fmt.Errorf("синтез реплики %d: %w", i, err)
			}
			if err := os.WriteFile(entries[i].AudioPath, resp.Audio, 0644); err != nil {
				return fmt.Errorf("запись аудио реплики %d: %w", i, err)
			}

			duration, err := p.probe(entries[i].AudioPath)
			if err != nil {
				return fmt.Errorf("длительность реплики %d: %w", i, err)
			}
			entries[i].AudioDuration = duration

			p.Log.Info().
				Int("turn", i).
				Str("provider", provider.Name()).
				Float64("audioSeconds", duration).
				Msg("audio ready")
			return nil
		})
	}
	if err := sg.Wait(); err != nil {
		return err
	}
	synthEnd = time.Now()

	turns, err := timeline.Build(entries, p.Config.PauseBuffer)
	if err != nil {
		return err
	}
	fmt.Printf("[*] Общая длительность: %.2fs\n", timeline.TotalDuration(turns))

	// 2. Encode Pool (GPU/Encoder bound)
	// Количество воркеров ограничено и ядрами, и свободной памятью
	encodeStart = time.Now()
	results := make([]string, len(turns))

	workers := system.RenderWorkers(p.Config.Workers, p.Config.Width, p.Config.Height)
	if workers > len(turns) {
		workers = len(turns)
	}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, turn := range turns {
		eg.Go(func() error {
			tr := render.NewTurn(scene, turn.Text, turn.Speaker, turn.Events, p.Subtitles, p.Config.BaseFontSize)

			segPath := filepath.Join(p.tempDir, fmt.Sprintf("s%d.mp4", turn.Index))
			params := config.SegmentParams{
				Width:        p.Config.Width,
				Height:       p.Config.Height,
				FPS:          p.Config.FPS,
				Duration:     turn.Duration,
				TurnIndex:    turn.Index,
				VideoEncoder: p.Config.VideoEncoder,
				Quality:      p.Config.Quality,
			}
			if err := p.Encoder.EncodeSegment(ectx, tr.Frame, segPath, params); err != nil {
				return fmt.Errorf("сегмент %d: %w", turn.Index, err)
			}

			muxPath := filepath.Join(p.tempDir, fmt.Sprintf("turn_%d.mp4", turn.Index))
			if err := p.Encoder.MuxAudio(ectx, segPath, turn.AudioPath, muxPath); err != nil {
				return fmt.Errorf("звук сегмента %d: %w", turn.Index, err)
			}

			results[turn.Index] = muxPath
			fmt.Printf("[>] Ready: %d/%d\n", turn.Index+1, len(turns))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	encodeEnd = time.Now()

	// Проверяем, все ли сегменты готовы
	for i, r := range results {
		if r == "" {
			return fmt.Errorf("сегмент %d не был создан. Проверьте логи FFmpeg", i)
		}
	}

	// 3. Финальная карточка с QR-кодом эпизода
	if p.Config.EpisodeLink != "" {
		outroPath, err := p.renderOutro(ctx, background, len(turns))
		if err != nil {
			return err
		}
		results = append(results, outroPath)
	}

	fmt.Println("[*] Сборка финального видео...")
	concatStart = time.Now()
	if err := p.Encoder.Concatenate(ctx, results, p.Config.OutputVideo, p.tempDir); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %v", err)
	}

	totalTime := time.Since(startTime)
	synthTime := synthEnd.Sub(synthStart)
	encodeTime := encodeEnd.Sub(encodeStart)
	concatTime := time.Since(concatStart)
	speed := timeline.TotalDuration(turns) / totalTime.Seconds()

	if p.Config.ShowStats {
		report := fmt.Sprintf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Synthesis (TTS): %.2fs\n"+
				"Encoding (GPU/CPU): %.2fs\n"+
				"Concatenation: %.2fs\n"+
				"Realtime factor: %.2fx\n"+
				"----------------------------\n",
			p.Config.BuildVersion, totalTime.Seconds(), synthTime.Seconds(), encodeTime.Seconds(), concatTime.Seconds(), speed,
		)
		fmt.Print(report)

		// Логирование в файл
		logEntry := fmt.Sprintf("[%s] Build: %s | Script: %s | Turns: %d | Total: %.2fs | Synth: %.2fs | Encode: %.2fs | Speed: %.2fx\n",
			time.Now().Format("2006-01-02 15:04:05"),
			p.Config.BuildVersion,
			scr.Title,
			len(turns),
			totalTime.Seconds(),
			synthTime.Seconds(),
			encodeTime.Seconds(),
			speed,
		)

		f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			f.WriteString(logEntry)
			f.Close()
		} else {
			fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		}
	}

	return nil
}

// renderOutro кодирует статичную карточку с QR-кодом и тишиной вместо
// звуковой дорожки.
func (p *VideoProject) renderOutro(ctx context.Context, background *image.RGBA, turnCount int) (string, error) {
	card, err := render.OutroCard(background, p.Config.EpisodeLink)
	if err != nil {
		return "", fmt.Errorf("карточка эпизода: %w", err)
	}

	still := func(t float64, dst *image.RGBA) {
		copy(dst.Pix, card.Pix)
	}

	segPath := filepath.Join(p.tempDir, "outro_v.mp4")
	params := config.SegmentParams{
		Width:        p.Config.Width,
		Height:       p.Config.Height,
		FPS:          p.Config.FPS,
		Duration:     p.Config.OutroDuration,
		TurnIndex:    turnCount,
		VideoEncoder: p.Config.VideoEncoder,
		Quality:      p.Config.Quality,
	}
	if err := p.Encoder.EncodeSegment(ctx, still, segPath, params); err != nil {
		return "", fmt.Errorf("аутро: %w", err)
	}

	outroPath := filepath.Join(p.tempDir, "outro.mp4")
	if err := p.Encoder.MuxAudio(ctx, segPath, "", outroPath); err != nil {
		return "", fmt.Errorf("звук аутро: %w", err)
	}
	return outroPath, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezapratama/dialog2video/internal/config"
	"github.com/rezapratama/dialog2video/internal/engine"
	"github.com/rezapratama/dialog2video/internal/script"
	"github.com/rezapratama/dialog2video/internal/system"
)

func run(cmd *cobra.Command, args []string) error {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{filepath.Join("input", "scripts"), "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	scriptPath, _ := cmd.Flags().GetString("script")
	if scriptPath == "" {
		latest, err := script.FindLatestScript(filepath.Join("input", "scripts"))
		if err != nil {
			return fmt.Errorf("сценарий не найден: %v. Положите YAML в input/scripts/ или выполните `dialog2video example`", err)
		}
		scriptPath = latest
		fmt.Printf("[*] Выбран сценарий: %s\n", scriptPath)
	}

	scr, err := script.Read(scriptPath)
	if err != nil {
		return fmt.Errorf("чтение сценария: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		baseName := filepath.Base(scriptPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		output = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}

	quality, _ := cmd.Flags().GetInt("quality")
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75 // Хорошее качество для VideoToolbox
		case "h264_nvenc":
			quality = 28 // Эквивалент CRF для NVENC
		default:
			quality = 23 // Стандартный CRF для x264
		}
	}

	cfg := config.Default()
	cfg.ScriptPath = scriptPath
	cfg.OutputVideo = output
	cfg.BackgroundPath, _ = cmd.Flags().GetString("background")
	cfg.Width, _ = cmd.Flags().GetInt("width")
	cfg.Height, _ = cmd.Flags().GetInt("height")
	cfg.FPS, _ = cmd.Flags().GetInt("fps")
	cfg.Workers, _ = cmd.Flags().GetInt("workers")
	cfg.FontPath, _ = cmd.Flags().GetString("font")
	cfg.EpisodeLink, _ = cmd.Flags().GetString("link")
	cfg.OutroDuration, _ = cmd.Flags().GetFloat64("outro")
	cfg.ShowStats, _ = cmd.Flags().GetBool("stats")
	cfg.VideoEncoder = encoderName
	cfg.Quality = quality
	cfg.BuildVersion = BuildVersion

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewDefaultProject(cfg, logger)
	if err := project.Run(ctx, scr); err != nil {
		return fmt.Errorf("ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).With().Timestamp().Str("app", "dialog2video").Logger()
}

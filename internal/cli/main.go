package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rezapratama/dialog2video/internal/script"
)

// BuildVersion прошивается при сборке через -ldflags "-X ...cli.BuildVersion=".
var BuildVersion = "dev"

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "dialog2video",
		Short:        "Render a two-host podcast video from a dialogue script",
		SilenceUsage: true,
		RunE:         run,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("script", "", "Путь к YAML-сценарию (по умолчанию: самый свежий файл в input/scripts/)")
	root.Flags().String("background", "background.png", "Фоновое изображение студии (PNG/JPEG/PDF)")
	root.Flags().StringP("output", "o", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	root.Flags().Int("width", 1920, "Ширина")
	root.Flags().Int("height", 1080, "Высота")
	root.Flags().Int("fps", 30, "FPS")
	root.Flags().Int("workers", runtime.NumCPU(), "Потоки кодирования")
	root.Flags().String("font", "", "TTF-шрифт субтитров (по умолчанию ищется системный)")
	root.Flags().String("link", "", "Ссылка на эпизод для QR-кода в финальной карточке")
	root.Flags().Float64("outro", 4.0, "Длительность финальной карточки (сек)")
	root.Flags().Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	root.Flags().Bool("stats", false, "Печатать отчет о производительности")
	root.Flags().BoolP("verbose", "v", false, "Подробные логи")

	root.AddCommand(exampleCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func exampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Write a sample dialogue script to input/scripts/",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join("input", "scripts")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			path := filepath.Join(dir, "example.yaml")
			if err := script.Write(script.Example(), path); err != nil {
				return err
			}
			fmt.Printf("[+++] Успех! Сценарий сохранен: %s\n", path)
			return nil
		},
	}
}

package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// defaultFontCandidates — жирные шрифты по умолчанию для субтитров
// (локальный arialbd.ttf, затем системные пути macOS/Linux)
var defaultFontCandidates = []string{
	"arialbd.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// FindFont возвращает первый существующий файл шрифта: сначала
// кандидаты вызывающего, затем стандартные пути
func FindFont(candidates ...string) (string, error) {
	all := append([]string{}, candidates...)
	all = append(all, defaultFontCandidates...)

	for _, path := range all {
		if path == "" {
			continue
		}
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("шрифт не найден (проверено %d путей)", len(all))
}

func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

func GetBestH264Encoder() (string, string) {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)

	encoders := []struct {
		name string
		args string
	}{
		{"h264_videotoolbox", ""},
		{"h264_nvenc", ""},
	}

	for _, enc := range encoders {
		cmd := exec.Command("ffmpeg", "-encoders")
		out, err := cmd.CombinedOutput()
		if err == nil && strings.Contains(string(out), enc.name) {
			return enc.name, enc.args
		}
	}

	return "libx264", ""
}

// RenderWorkers ограничивает число параллельных энкодеров доступной
// памятью: каждый воркер держит кадровый буфер и конвейер ffmpeg
func RenderWorkers(requested, width, height int) int {
	if requested < 1 {
		requested = runtime.NumCPU()
	}

	v, err := mem.VirtualMemory()
	if err != nil {
		return requested
	}

	frameBytes := uint64(width) * uint64(height) * 4
	perWorker := frameBytes * 8
	if perWorker == 0 {
		return requested
	}

	maxWorkers := int((v.Available / 2) / perWorker)
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	if requested > maxWorkers {
		fmt.Printf("[!] Число воркеров сокращено до %d (доступно %.1f GiB памяти)\n",
			maxWorkers, float64(v.Available)/(1<<30))
		return maxWorkers
	}
	return requested
}

package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindLatestScript возвращает самый свежий YAML-сценарий в папке.
func FindLatestScript(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		name := strings.ToLower(f.Name())
		if !f.IsDir() && (strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено сценариев", dir)
	}

	return latestFile, nil
}

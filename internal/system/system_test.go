package system

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindFont(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.ttf")
	second := filepath.Join(dir, "second.ttf")
	os.WriteFile(second, []byte("font"), 0644)

	// Первый кандидат отсутствует, берется второй
	got, err := FindFont(first, second)
	if err != nil {
		t.Fatalf("FindFont failed: %v", err)
	}
	if got != second {
		t.Errorf("Expected %s, got %s", second, got)
	}
}

func TestFindFontEmptyCandidatesSkipped(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "f.ttf")
	os.WriteFile(font, []byte("font"), 0644)

	got, err := FindFont("", font)
	if err != nil {
		t.Fatalf("FindFont failed: %v", err)
	}
	if got != font {
		t.Errorf("Expected %s, got %s", font, got)
	}
}

func TestRenderWorkersBounds(t *testing.T) {
	// Запрошенное число никогда не превышается и всегда >= 1
	got := RenderWorkers(4, 1920, 1080)
	if got < 1 || got > 4 {
		t.Errorf("Expected 1..4 workers, got %d", got)
	}

	if got := RenderWorkers(1, 1920, 1080); got != 1 {
		t.Errorf("Expected single worker to stay, got %d", got)
	}
}

func TestFramePool(t *testing.T) {
	pool := NewFramePool(320, 180)

	if pool.Width() != 320 || pool.Height() != 180 {
		t.Fatalf("Pool reports %dx%d", pool.Width(), pool.Height())
	}

	buf := pool.Get()
	if buf.Bounds().Dx() != 320 || buf.Bounds().Dy() != 180 {
		t.Fatalf("Buffer is %dx%d", buf.Bounds().Dx(), buf.Bounds().Dy())
	}

	buf.Pix[0] = 42
	pool.Put(buf)

	again := pool.Get()
	if again.Bounds().Dx() != 320 || again.Bounds().Dy() != 180 {
		t.Errorf("Reused buffer is %dx%d", again.Bounds().Dx(), again.Bounds().Dy())
	}
}

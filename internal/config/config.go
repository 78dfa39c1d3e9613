package config

type Config struct {
	ScriptPath     string
	BackgroundPath string
	OutputVideo    string
	Width          int
	Height         int
	FPS            int
	Workers        int
	PauseBuffer    float64
	SpriteHeight   int
	SpriteMargin   int
	FontPath       string
	BaseFontSize   int
	EpisodeLink    string
	OutroDuration  float64
	VideoEncoder   string
	Quality        int
	ShowStats      bool
	BuildVersion   string
}

type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	TurnIndex     int
	VideoEncoder  string
	Quality       int
}

// Default возвращает параметры референсного прогона (1080p @ 30fps).
func Default() *Config {
	return &Config{
		Width:         1920,
		Height:        1080,
		FPS:           30,
		PauseBuffer:   0.5,
		SpriteHeight:  600,
		SpriteMargin:  10,
		BaseFontSize:  48,
		OutroDuration: 4.0,
	}
}

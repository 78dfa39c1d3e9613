package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const PlayHTAPIEndpoint = "https://api.play.ht/api/v2"

// PlayHTProvider synthesizes speech through the Play.ht cloud API
// using cloned dialogue voices
type PlayHTProvider struct {
	userID string
	apiKey string
	logger zerolog.Logger
	config *PlayHTConfig
	client *http.Client
}

type PlayHTConfig struct {
	UserID       string `json:"user_id"`
	APIKey       string `json:"api_key"`
	Endpoint     string `json:"endpoint"`
	VoiceEngine  string `json:"voice_engine"`
	OutputFormat string `json:"output_format"`
}

func DefaultPlayHTConfig() *PlayHTConfig {
	return &PlayHTConfig{
		Endpoint:     PlayHTAPIEndpoint,
		VoiceEngine:  "PlayDialog",
		OutputFormat: "mp3",
	}
}

func NewPlayHTProvider(logger zerolog.Logger, config *PlayHTConfig) *PlayHTProvider {
	if config == nil {
		config = DefaultPlayHTConfig()
	}
	if config.Endpoint == "" {
		config.Endpoint = PlayHTAPIEndpoint
	}

	userID := config.UserID
	if userID == "" {
		userID = os.Getenv("PLAY_HT_USER_ID")
	}
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("PLAY_HT_API_KEY")
	}

	return &PlayHTProvider{
		userID: userID,
		apiKey: apiKey,
		logger: logger.With().Str("provider", "playht-tts").Logger(),
		config: config,
		// Long dialogue lines take a while to synthesize
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *PlayHTProvider) Name() string {
	return "playht"
}

func (p *PlayHTProvider) IsAvailable() bool {
	return p.userID != "" && p.apiKey != ""
}

func (p *PlayHTProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("play.ht credentials not set: %w", ErrProviderUnavailable)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	startTime := time.Now()

	payload := map[string]any{
		"text":          req.Text,
		"voice":         req.Voice,
		"voice_engine":  p.config.VoiceEngine,
		"output_format": p.config.OutputFormat,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := p.config.Endpoint + "/tts/stream"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("X-USER-ID", p.userID)
	httpReq.Header.Set("AUTHORIZATION", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("play.ht API error %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	processingTime := time.Since(startTime)

	p.logger.Info().
		Str("voice", req.Voice).
		Int("audioBytes", len(audioData)).
		Dur("processingTime", processingTime).
		Msg("Play.ht synthesis complete")

	return &SynthesizeResponse{
		Audio:          audioData,
		Format:         "mp3",
		Provider:       p.Name(),
		ProcessingTime: processingTime,
	}, nil
}

func (p *PlayHTProvider) Health(ctx context.Context) error {
	if !p.IsAvailable() {
		return ErrProviderUnavailable
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", p.config.Endpoint+"/voices", nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("X-USER-ID", p.userID)
	httpReq.Header.Set("AUTHORIZATION", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("play.ht unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("play.ht unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

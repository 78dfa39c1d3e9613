package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	GoogleTranslateEndpoint = "https://translate.google.com/translate_tts"

	// chunkLimit is the cap the endpoint puts on the q parameter
	chunkLimit = 100

	// The endpoint rejects requests without a browser user agent
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// GoogleTranslateProvider synthesizes speech through the free Google
// Translate endpoint. Long text is split on word boundaries into
// chunks the endpoint accepts, and the MP3 responses are concatenated.
type GoogleTranslateProvider struct {
	logger zerolog.Logger
	config *GoogleTranslateConfig
	client *http.Client
}

type GoogleTranslateConfig struct {
	Endpoint        string `json:"endpoint"`
	DefaultLanguage string `json:"default_language"`
}

func DefaultGoogleTranslateConfig() *GoogleTranslateConfig {
	return &GoogleTranslateConfig{
		Endpoint:        GoogleTranslateEndpoint,
		DefaultLanguage: "id",
	}
}

func NewGoogleTranslateProvider(logger zerolog.Logger, config *GoogleTranslateConfig) *GoogleTranslateProvider {
	if config == nil {
		config = DefaultGoogleTranslateConfig()
	}
	if config.Endpoint == "" {
		config.Endpoint = GoogleTranslateEndpoint
	}

	return &GoogleTranslateProvider{
		logger: logger.With().Str("provider", "gtranslate-tts").Logger(),
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GoogleTranslateProvider) Name() string {
	return "gtranslate"
}

func (p *GoogleTranslateProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	lang := req.Language
	if lang == "" {
		lang = p.config.DefaultLanguage
	}

	startTime := time.Now()

	chunks := splitChunks(text, chunkLimit)
	var audio []byte
	for _, chunk := range chunks {
		data, err := p.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}

	processingTime := time.Since(startTime)

	p.logger.Info().
		Str("language", lang).
		Int("chunks", len(chunks)).
		Int("audioBytes", len(audio)).
		Dur("processingTime", processingTime).
		Msg("Google Translate synthesis complete")

	return &SynthesizeResponse{
		Audio:          audio,
		Format:         "mp3",
		Provider:       p.Name(),
		ProcessingTime: processingTime,
	}, nil
}

func (p *GoogleTranslateProvider) Health(ctx context.Context) error {
	_, err := p.fetchChunk(ctx, "ok", p.config.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func (p *GoogleTranslateProvider) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", p.config.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("translate_tts error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into pieces of at most limit runes without
// cutting words. A single word over the limit keeps its own chunk.
func splitChunks(text string, limit int) []string {
	words := strings.Fields(text)

	var chunks []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if utf8.RuneCountInString(candidate) <= limit || current == "" {
			current = candidate
		} else {
			chunks = append(chunks, current)
			current = word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

package video

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/rezapratama/dialog2video/internal/config"
	"github.com/rezapratama/dialog2video/internal/system"
)

// FrameFunc draws the frame at time t (seconds from segment start)
// into dst. The encoder owns dst and reuses it between calls.
type FrameFunc func(t float64, dst *image.RGBA)

type Encoder interface {
	EncodeSegment(ctx context.Context, frame FrameFunc, videoPath string, params config.SegmentParams) error
	MuxAudio(ctx context.Context, videoPath, audioPath, outPath string) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error
}

type FFmpegEncoder struct {
	frames *system.FramePool
}

// NewFFmpegEncoder создает энкодер с пулом кадровых буферов под
// заданное разрешение
func NewFFmpegEncoder(width, height int) *FFmpegEncoder {
	return &FFmpegEncoder{frames: system.NewFramePool(width, height)}
}

// EncodeSegment стримит кадры сегмента в ffmpeg через stdin (rawvideo),
// без временных файлов на каждый кадр.
func (e *FFmpegEncoder) EncodeSegment(ctx context.Context, frame FrameFunc, videoPath string, params config.SegmentParams) error {
	args := e.buildFFmpegArgs(videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	frameCount := int(math.Round(params.Duration * float64(params.FPS)))
	if frameCount < 1 {
		frameCount = 1
	}

	// Один буфер на сегмент: кадры пишутся последовательно
	var buf *image.RGBA
	if e.frames != nil && e.frames.Width() == params.Width && e.frames.Height() == params.Height {
		buf = e.frames.Get()
		defer e.frames.Put(buf)
	} else {
		buf = image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	}

	writer := bufio.NewWriterSize(stdin, 1<<20)
	for i := 0; i < frameCount; i++ {
		t := float64(i) / float64(params.FPS)
		frame(t, buf)

		if _, err := writer.Write(buf.Pix); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw frame %d: %w, ffmpeg: %s", i, err, out.String())
		}
	}

	if err := writer.Flush(); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("flush raw frames: %w, ffmpeg: %s", err, out.String())
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(videoPath string, params config.SegmentParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", params.VideoEncoder,
	}

	// Качество в зависимости от энкодера
	switch params.VideoEncoder {
	case "h264_videotoolbox":
		bitrate := params.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

// MuxAudio накладывает аудиодорожку на видеосегмент. Пустой audioPath
// дает тишину (anullsrc); apad + shortest добивают хвост паузы
// тишиной точно до конца видеоряда.
func (e *FFmpegEncoder) MuxAudio(ctx context.Context, videoPath, audioPath, outPath string) error {
	videoStream := ffmpeg.Input(videoPath)

	var audioStream *ffmpeg.Stream
	if audioPath == "" {
		audioStream = ffmpeg.Input("anullsrc=channel_layout=stereo:sample_rate=44100", ffmpeg.KwArgs{"f": "lavfi"})
	} else {
		audioStream = ffmpeg.Input(audioPath)
	}

	err := ffmpeg.Output([]*ffmpeg.Stream{videoStream, audioStream}, outPath, ffmpeg.KwArgs{
		"c:v":      "copy",
		"c:a":      "aac",
		"b:a":      "192k",
		"af":       "apad",
		"shortest": "",
	}).OverWriteOutput().Run()

	if err != nil {
		audioName := "silence"
		if audioPath != "" {
			audioName = filepath.Base(audioPath)
		}
		return fmt.Errorf("mux %s + %s: %w", filepath.Base(videoPath), audioName, err)
	}
	return nil
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error {
	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(concatFilePath)
	if err != nil {
		return err
	}
	for _, p := range segmentPaths {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	f.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", concatFilePath,
		"-c", "copy", finalPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

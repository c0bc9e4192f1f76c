package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/services/emotion"
	"photobooth/internal/services/session"
	"photobooth/internal/services/storage"
	"photobooth/internal/services/websocket"
	"photobooth/internal/strip"
)

// fakeAnalyzer returns canned scores and fails on chosen photo indexes.
type fakeAnalyzer struct {
	calls    int
	failOn   map[int]bool
	dominant string
}

func (f *fakeAnalyzer) Analyze(img image.Image) (*emotion.Result, error) {
	idx := f.calls
	f.calls++
	if f.failOn[idx] {
		return nil, fmt.Errorf("model raised for photo %d", idx)
	}
	scores := model.EmotionScores{"happy": 0.1, "neutral": 0.2}
	if f.dominant != "" {
		scores[f.dominant] = 0.9
	}
	return &emotion.Result{Scores: scores, FaceFound: true}, nil
}

func setupManager(t *testing.T, analyzer emotion.Analyzer) (*Manager, *session.State) {
	t.Helper()

	cfg := &config.Config{
		FrameWidth:     50,
		StripPadding:   20,
		CaptionHeight:  40,
		PhotosPerShoot: 3,
		LogDirectory:   t.TempDir(),
	}
	log := logger.NewLogger(cfg)

	archive := storage.NewArchiveService(t.TempDir(), 16, nil, log)
	hub := websocket.NewHubService(log)
	go hub.Run()

	composer := strip.NewComposer(cfg.FrameWidth, cfg.StripPadding, cfg.CaptionHeight, "no/such/font.ttf")
	manager := NewManager(analyzer, composer, archive, hub, cfg, log)

	return manager, &session.State{ID: "test-session"}
}

func makePhotos(n, w, h int) []image.Image {
	photos := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * i), G: 128, B: 64, A: 255})
			}
		}
		photos = append(photos, img)
	}
	return photos
}

func TestRunPhotoshoot_HappyPath(t *testing.T) {
	manager, state := setupManager(t, &fakeAnalyzer{dominant: "happy"})

	result, err := manager.RunPhotoshoot(state, makePhotos(3, 100, 100), dto.ShootOptions{Filter: "Sepia"})
	if err != nil {
		t.Fatalf("RunPhotoshoot failed: %v", err)
	}

	if len(result.Photos) != 3 {
		t.Errorf("expected 3 photo results, got %d", len(result.Photos))
	}
	for i, p := range result.Photos {
		if p.Emotion != "happy" {
			t.Errorf("photo %d: expected happy, got %q", i, p.Emotion)
		}
	}
	if state.Len() != 3 {
		t.Errorf("expected 3 gallery entries, got %d", state.Len())
	}
	if got := len(state.EmotionHistory()); got != 3 {
		t.Errorf("expected 3 emotion records, got %d", got)
	}

	// Strip geometry: photos framed to 200x200, 3 stacked with 20px padding
	// and a 40px caption band
	stripPNG, err := base64.StdEncoding.DecodeString(result.Strip)
	if err != nil {
		t.Fatalf("strip is not valid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(stripPNG))
	if err != nil {
		t.Fatalf("strip is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 680 {
		t.Errorf("expected 200x680 strip, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if state.Strip() == nil {
		t.Error("expected the strip stored in the session state")
	}
}

func TestRunPhotoshoot_ClassifierFailureDegradesOnePhoto(t *testing.T) {
	manager, state := setupManager(t, &fakeAnalyzer{dominant: "surprise", failOn: map[int]bool{1: true}})

	result, err := manager.RunPhotoshoot(state, makePhotos(3, 100, 100), dto.ShootOptions{Filter: "Original"})
	if err != nil {
		t.Fatalf("RunPhotoshoot failed: %v", err)
	}

	// The failed photo still appears in the strip but not in the gallery
	if state.Len() != 2 {
		t.Errorf("expected 2 gallery entries, got %d", state.Len())
	}
	if got := len(state.EmotionHistory()); got != 2 {
		t.Errorf("expected 2 emotion records, got %d", got)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected exactly 1 error message, got %d", len(result.Errors))
	}
	if len(result.Photos) != 3 {
		t.Errorf("expected 3 photo results, got %d", len(result.Photos))
	}
	if result.Photos[1].Error == "" {
		t.Error("expected an inline error on the failed photo")
	}
	if result.Strip == "" {
		t.Error("expected a strip despite the classifier failure")
	}
}

func TestRunPhotoshoot_EmptyInputShortCircuits(t *testing.T) {
	manager, state := setupManager(t, &fakeAnalyzer{})

	result, err := manager.RunPhotoshoot(state, nil, dto.ShootOptions{})
	if err != nil {
		t.Fatalf("expected no error for empty input, got %v", err)
	}
	if result.Strip != "" {
		t.Error("expected no strip for empty input")
	}
	if state.Len() != 0 {
		t.Errorf("expected no gallery entries, got %d", state.Len())
	}
}

func TestRunPhotoshoot_DimensionMismatch(t *testing.T) {
	manager, state := setupManager(t, &fakeAnalyzer{})

	photos := append(makePhotos(1, 100, 100), makePhotos(1, 50, 50)...)
	_, err := manager.RunPhotoshoot(state, photos, dto.ShootOptions{})
	if !errors.Is(err, strip.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRunPhotoshoot_BlackWhiteMode(t *testing.T) {
	manager, state := setupManager(t, &fakeAnalyzer{dominant: "neutral"})

	result, err := manager.RunPhotoshoot(state, makePhotos(1, 60, 60), dto.ShootOptions{Filter: "Original", BlackWhite: true})
	if err != nil {
		t.Fatalf("RunPhotoshoot failed: %v", err)
	}

	stripPNG, _ := base64.StdEncoding.DecodeString(result.Strip)
	img, err := png.Decode(bytes.NewReader(stripPNG))
	if err != nil {
		t.Fatalf("strip is not valid PNG: %v", err)
	}

	// Sample the center of the (framed) photo: gray means R=G=B
	r, g, b, _ := img.At(80, 80).RGBA()
	if r != g || g != b {
		t.Errorf("expected grayscale pixel, got r=%d g=%d b=%d", r, g, b)
	}
}

package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/filters"
	"photobooth/internal/logger"
	"photobooth/internal/model"
	"photobooth/internal/services/emotion"
	"photobooth/internal/services/session"
	"photobooth/internal/services/storage"
	"photobooth/internal/services/websocket"
	"photobooth/internal/strip"
)

// Manager runs the photoshoot pipeline: classify, filter, frame, compose,
// record in the session gallery, archive and notify viewers. Each action
// runs synchronously to completion.
type Manager struct {
	analyzer       emotion.Analyzer
	composer       *strip.Composer
	archiveService *storage.ArchiveService
	hubService     *websocket.HubService
	frameWidth     int
	photosPerShoot int
	logger         *logger.Logger
}

func NewManager(analyzer emotion.Analyzer, composer *strip.Composer, archiveService *storage.ArchiveService, hubService *websocket.HubService, cfg *config.Config, logger *logger.Logger) *Manager {
	manager := &Manager{
		analyzer:       analyzer,
		composer:       composer,
		archiveService: archiveService,
		hubService:     hubService,
		frameWidth:     cfg.FrameWidth,
		photosPerShoot: cfg.PhotosPerShoot,
		logger:         logger,
	}

	manager.logger.Info("Manager started - %d photos per shoot, frame width %d", manager.photosPerShoot, manager.frameWidth)
	return manager
}

// PhotosPerShoot returns the maximum number of photos accepted per action.
func (m *Manager) PhotosPerShoot() int {
	return m.photosPerShoot
}

// RunPhotoshoot processes the captured photos into a strip and updates the
// session gallery. A classifier failure degrades a single photo: it still
// appears in the strip but gets no gallery or emotion-history entry.
// An empty input short-circuits with an empty result.
func (m *Manager) RunPhotoshoot(state *session.State, photos []image.Image, opts dto.ShootOptions) (*dto.ShootResult, error) {
	result := &dto.ShootResult{Photos: []dto.PhotoResult{}}
	if len(photos) == 0 {
		return result, nil
	}

	takenAt := time.Now()
	framed := make([]image.Image, 0, len(photos))

	for i, img := range photos {
		photoResult := dto.PhotoResult{}

		analysis, err := m.analyzer.Analyze(img)
		if err != nil {
			msg := fmt.Sprintf("Could not detect face in photo %d: %v", i+1, err)
			photoResult.Error = msg
			result.Errors = append(result.Errors, msg)
			m.logger.Error("Emotion analysis failed for photo %d: %v", i+1, err)
		}

		processed := img
		if opts.BlackWhite {
			processed = filters.Grayscale(processed)
		}
		filtered := filters.Apply(processed, filters.Name(opts.Filter))
		framedPhoto := strip.AddFrame(filtered, m.frameWidth)
		framed = append(framed, framedPhoto)

		if analysis != nil {
			dominant := analysis.Dominant()
			photoResult.Emotion = dominant
			photoResult.Scores = analysis.Scores

			pngBytes, encErr := encodePNG(framedPhoto)
			if encErr != nil {
				m.logger.Error("Failed to encode photo %d: %v", i+1, encErr)
			} else {
				// Gallery entry and emotion history are appended together
				state.Append(model.GalleryEntry{Photo: pngBytes, Emotion: dominant, TakenAt: takenAt})
				state.AppendEmotions(analysis.Scores)
				m.archiveService.AddPhoto(pngBytes, dominant, analysis.Scores)
			}
		}

		result.Photos = append(result.Photos, photoResult)
	}

	stripImg, err := m.composer.Compose(framed, takenAt)
	if err != nil {
		if errors.Is(err, strip.ErrNoPhotos) {
			return result, nil
		}
		return result, fmt.Errorf("failed to compose photo strip: %w", err)
	}

	stripPNG, err := encodePNG(stripImg)
	if err != nil {
		return result, fmt.Errorf("failed to encode photo strip: %w", err)
	}

	state.SetStrip(stripPNG)
	result.Strip = base64.StdEncoding.EncodeToString(stripPNG)

	m.notifyViewers(state)
	return result, nil
}

// notifyViewers broadcasts a gallery update to the session's open tabs.
func (m *Manager) notifyViewers(state *session.State) {
	msg := fmt.Sprintf(`{"type":"gallery","count":%d}`, state.Len())
	m.hubService.Broadcast([]byte(msg), state.ID)
}

// GetHubService exposes the websocket hub.
func (m *Manager) GetHubService() *websocket.HubService {
	return m.hubService
}

// GetArchiveService exposes the archive buffer.
func (m *Manager) GetArchiveService() *storage.ArchiveService {
	return m.archiveService
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

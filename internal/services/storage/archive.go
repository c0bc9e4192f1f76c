package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photobooth/internal/database"
	"photobooth/internal/logger"
	"photobooth/internal/model"
)

// Photo is one processed photo waiting to be archived.
type Photo struct {
	Timestamp time.Time
	Emotion   string
	Scores    model.EmotionScores
	Data      []byte // PNG bytes
}

// ArchiveService buffers processed photos in memory and flushes them to the
// archive directory and database on a ticker. Archive failures are logged
// and never fail a photoshoot.
type ArchiveService struct {
	archiveDir  string
	db          *database.Database // nil when the database is unavailable
	photos      []Photo
	bufferLimit int
	mu          sync.Mutex
	logger      *logger.Logger
}

func NewArchiveService(archiveDir string, bufferLimit int, db *database.Database, logger *logger.Logger) *ArchiveService {
	return &ArchiveService{
		archiveDir:  archiveDir,
		bufferLimit: bufferLimit,
		db:          db,
		photos:      make([]Photo, 0),
		logger:      logger,
	}
}

// Run flushes the buffer every flushInterval seconds.
func (s *ArchiveService) Run(flushInterval int) {
	ticker := time.NewTicker(time.Duration(flushInterval) * time.Second)

	defer ticker.Stop()
	for {
		<-ticker.C
		s.FlushPhotos()
	}
}

// AddPhoto queues a processed photo for archiving. Photos past the buffer
// limit are dropped until the next flush.
func (s *ArchiveService) AddPhoto(data []byte, emotion string, scores model.EmotionScores) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.photos) >= s.bufferLimit {
		s.logger.Warning("Archive buffer full (%d), dropping photo", s.bufferLimit)
		return
	}

	s.photos = append(s.photos, Photo{
		Timestamp: time.Now(),
		Emotion:   emotion,
		Scores:    scores,
		Data:      data,
	})
}

// FlushPhotos writes buffered photos to disk and records them in the database.
func (s *ArchiveService) FlushPhotos() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.photos) == 0 {
		return
	}

	if err := os.MkdirAll(s.archiveDir, 0755); err != nil {
		s.logger.Error("Error creating archive directory: %v", err)
		return
	}

	for _, photo := range s.photos {
		filename := fmt.Sprintf("%s_%s.png", photo.Timestamp.Format("2006-01-02_15-04-05.000"), photo.Emotion)
		fullpath := filepath.Join(s.archiveDir, filename)

		if err := os.WriteFile(fullpath, photo.Data, 0644); err != nil {
			s.logger.Error("Error saving photo %s: %v", filename, err)
			continue
		}

		if s.db != nil {
			_, err := s.db.InsertPhoto(&model.ArchivedPhoto{
				Filename:  filename,
				Emotion:   photo.Emotion,
				Scores:    photo.Scores,
				Timestamp: photo.Timestamp,
				FilePath:  fullpath,
				FileSize:  int64(len(photo.Data)),
			})
			if err != nil {
				s.logger.Error("Error recording photo %s in database: %v", filename, err)
			}
		}
	}

	s.logger.Info("Flushed %d photos to archive", len(s.photos))
	s.photos = s.photos[:0] // Clear buffer
}

// GetDatabase exposes the archive database, or nil when unavailable.
func (s *ArchiveService) GetDatabase() *database.Database {
	return s.db
}

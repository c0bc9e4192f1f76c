package model

import "time"

// EmotionScores maps an emotion label to the classifier's intensity score
// for a single photo. Scores are library-defined and treated as opaque.
type EmotionScores map[string]float64

// GalleryEntry is one processed photo together with its dominant emotion.
type GalleryEntry struct {
	Photo   []byte // PNG-encoded processed photo
	Emotion string
	TakenAt time.Time
}

// ArchivedPhoto represents a photo record in the archive database.
type ArchivedPhoto struct {
	ID        int64         `json:"id"`
	Filename  string        `json:"filename"`
	Emotion   string        `json:"emotion"`
	Scores    EmotionScores `json:"scores,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	FilePath  string        `json:"filepath"`
	FileSize  int64         `json:"filesize"`
}

package dto

// GalleryItem is one gallery thumbnail with its dominant emotion.
type GalleryItem struct {
	Photo   string `json:"photo"` // base64 PNG
	Emotion string `json:"emotion"`
	TakenAt string `json:"takenAt"`
}

// GalleryData is the response payload for the session gallery.
type GalleryData struct {
	Items  []GalleryItem `json:"items"`
	Length int           `json:"length"`
}

// TrendData aggregates the session's emotion history for the trend plot.
type TrendData struct {
	Labels []string             `json:"labels"`
	Totals map[string]float64   `json:"totals"`
	Series []map[string]float64 `json:"series"`
}

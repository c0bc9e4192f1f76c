package dto

// ShootOptions carry the per-photoshoot settings selected in the UI.
type ShootOptions struct {
	Filter     string
	BlackWhite bool
}

// PhotoResult describes the outcome of one photo inside a photoshoot.
type PhotoResult struct {
	Emotion string             `json:"emotion,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// ShootResult is the JSON response for a completed photoshoot action.
type ShootResult struct {
	Strip  string        `json:"strip,omitempty"` // base64 PNG of the composed strip
	Photos []PhotoResult `json:"photos"`
	Errors []string      `json:"errors,omitempty"`
}

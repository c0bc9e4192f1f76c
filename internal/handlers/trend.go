package handlers

import (
	"encoding/json"
	"net/http"

	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/services/emotion"
	"photobooth/internal/services/session"
)

// EmotionTrendHandler aggregates the session's emotion history: per-label
// totals plus the raw per-photo series for the trend plot.
func EmotionTrendHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.Get(middleware.SessionID(r))

		history := state.EmotionHistory()
		totals := make(map[string]float64, len(emotion.Labels))
		for _, label := range emotion.Labels {
			totals[label] = 0
		}

		series := make([]map[string]float64, 0, len(history))
		for _, scores := range history {
			frame := make(map[string]float64, len(scores))
			for label, score := range scores {
				frame[label] = score
				totals[label] += score
			}
			series = append(series, frame)
		}

		data := dto.TrendData{
			Labels: emotion.Labels,
			Totals: totals,
			Series: series,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"photobooth/internal/dto"
	"photobooth/internal/filters"
	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/services/session"
)

// GalleryHandler lists the session's processed photos with their dominant
// emotions, in append order.
func GalleryHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.Get(middleware.SessionID(r))

		entries := state.Entries()
		items := make([]dto.GalleryItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, dto.GalleryItem{
				Photo:   base64.StdEncoding.EncodeToString(e.Photo),
				Emotion: e.Emotion,
				TakenAt: e.TakenAt.Format("2006-01-02 15:04"),
			})
		}

		data := dto.GalleryData{Items: items, Length: len(items)}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// ClearGalleryHandler empties the session gallery and its emotion history
// atomically.
func ClearGalleryHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		state := store.Get(middleware.SessionID(r))
		state.ClearAll()

		logger.Info("Gallery cleared for session %s", state.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// FilterNamesHandler returns the selectable filter names in UI order.
func FilterNamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(filters.Names())
	}
}

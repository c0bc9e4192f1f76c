package handlers

import (
	"net/http"
	"strconv"

	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/services/session"
)

// DownloadStripHandler serves the session's last composed photo strip as a
// PNG download named photo_strip.png.
func DownloadStripHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := store.Get(middleware.SessionID(r))

		data := state.Strip()
		if data == nil {
			http.Error(w, "No photo strip available", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="photo_strip.png"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if _, err := w.Write(data); err != nil {
			logger.Error("Error writing photo strip: %v", err)
		}
	}
}

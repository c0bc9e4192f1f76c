package handlers

import (
	"net/http"
	"os"

	"photobooth/internal/config"
)

// ShutterSoundHandler serves the optional shutter sound. A missing file is a
// plain 404; the client degrades to a silent shoot.
func ShutterSoundHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(cfg.ShutterSoundPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		http.ServeFile(w, r, cfg.ShutterSoundPath)
	}
}

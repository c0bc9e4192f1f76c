package handlers

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"

	_ "image/jpeg"
	_ "image/png"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/services"
	"photobooth/internal/services/session"
	"photobooth/internal/strip"
)

// PhotoshootHandler accepts a multipart upload of captured photos and runs
// the full pipeline. The response carries the composed strip as base64 PNG
// plus the per-photo emotion results and inline errors.
func PhotoshootHandler(manager *services.Manager, store *session.Store, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		maxBytes := cfg.MaxUploadSize << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			logger.Error("Error parsing photoshoot upload: %v", err)
			http.Error(w, "Invalid upload", http.StatusBadRequest)
			return
		}

		opts := dto.ShootOptions{
			Filter:     r.FormValue("filter"),
			BlackWhite: r.FormValue("bw") == "true" || r.FormValue("bw") == "on",
		}

		files := r.MultipartForm.File["photos"]
		if len(files) > manager.PhotosPerShoot() {
			files = files[:manager.PhotosPerShoot()]
		}

		var photos []image.Image
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				logger.Warning("Error opening uploaded photo %s: %v", fh.Filename, err)
				continue
			}
			img, _, err := image.Decode(f)
			f.Close()
			if err != nil {
				logger.Warning("Skipping undecodable photo %s: %v", fh.Filename, err)
				continue
			}
			photos = append(photos, img)
		}

		state := store.Get(middleware.SessionID(r))

		result, err := manager.RunPhotoshoot(state, photos, opts)
		if err != nil {
			if errors.Is(err, strip.ErrDimensionMismatch) {
				http.Error(w, "All photos in a shoot must share identical dimensions", http.StatusBadRequest)
				return
			}
			logger.Error("Photoshoot failed: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

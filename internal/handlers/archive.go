package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/database"
	"photobooth/internal/logger"
	"photobooth/internal/services"
)

// ArchiveData is a paginated response payload for the archived photos.
type ArchiveData struct {
	Photos      interface{} `json:"photos"`
	Length      int         `json:"length"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Limit       int         `json:"pageSize"`
}

// ArchivePhotosHandler returns a filtered, paginated list of archived photos.
func ArchivePhotosHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := manager.GetArchiveService().GetDatabase()
		if db == nil {
			http.Error(w, "Archive database not available", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &database.PhotoFilter{
			Emotion:   q.Get("emotion"),
			StartDate: parseDate(q.Get("dateAfter")),
			EndDate:   parseDate(q.Get("dateBefore")),
			Limit:     limit,
			Offset:    (page - 1) * limit,
		}

		photos, err := db.GetPhotos(filter)
		if err != nil {
			logger.Error("Error querying archived photos: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := db.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting archived photos: %v", err)
			totalCount = len(photos)
		}

		data := ArchiveData{
			Photos:      photos,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// ArchiveStatsHandler returns archive statistics.
func ArchiveStatsHandler(manager *services.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := manager.GetArchiveService().GetDatabase()
		if db == nil {
			http.Error(w, "Archive database not available", http.StatusInternalServerError)
			return
		}

		stats, err := db.GetStats()
		if err != nil {
			logger.Error("Failed to get archive stats: %v", err)
			http.Error(w, "Failed to retrieve stats", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}

// ViewArchivedPhotoHandler serves a single archived photo file specified via
// the "photo" query parameter.
func ViewArchivedPhotoHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photo := r.URL.Query().Get("photo")
		if photo == "" {
			http.Error(w, "Photo parameter is required", http.StatusBadRequest)
			return
		}
		filePath := filepath.Join(cfg.ArchiveDirectory, filepath.Base(photo))
		http.ServeFile(w, r, filePath)
	}
}

// DeleteArchivedPhotoHandler removes a photo from disk and database.
func DeleteArchivedPhotoHandler(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		if filename == "" {
			http.Error(w, "Filename required", http.StatusBadRequest)
			return
		}

		filePath := filepath.Join(cfg.ArchiveDirectory, filepath.Base(filename))
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			logger.Error("Failed to delete file %s: %v", filePath, err)
		}

		db := manager.GetArchiveService().GetDatabase()
		if db != nil {
			if err := db.DeletePhotoByFilename(filename); err != nil {
				logger.Error("Failed to delete from database: %v", err)
			}
		}

		logger.Info("Deleted archived photo: %s", filename)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted", "filename": filename})
	}
}

// helpers

// atoiDefault converts string to int or returns a default when conversion
// fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseDate parses a date string in the format "2006-01-02" from the request
// (HTML input format).
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}

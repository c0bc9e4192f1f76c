package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	StaticDirectory  string
	CascadePath      string
	EmotionModelPath string
	FontPath         string
	ShutterSoundPath string
	ArchiveDirectory string
	DatabasePath     string
	FrameWidth       int   // White frame width around each photo in pixels
	StripPadding     int   // Vertical gap between photos in the strip
	CaptionHeight    int   // Height of the date caption band
	PhotosPerShoot   int   // Maximum photos accepted per photoshoot
	MaxUploadSize    int64 // Maximum photoshoot upload size in MB
	ArchiveBuffer    int
	ArchiveFlush     int // Archive flush interval in seconds
	SessionTTL       int // Idle session lifetime in minutes
	LogDirectory     string
}

func Load() *Config {
	// Optional .env next to the binary, ignored when absent
	_ = godotenv.Load()

	return &Config{
		Port:             getEnvAsInt("PORT", 8080),
		StaticDirectory:  getEnv("STATIC_DIR", "static"),
		CascadePath:      getEnv("CASCADE_PATH", filepath.Join(".", "models", "facefinder")),
		EmotionModelPath: getEnv("EMOTION_MODEL_PATH", filepath.Join(".", "models", "emotion-ferplus.onnx")),
		FontPath:         getEnv("FONT_PATH", filepath.Join(".", "static", "fonts", "arial.ttf")),
		ShutterSoundPath: getEnv("SHUTTER_SOUND_PATH", filepath.Join(".", "static", "audio", "shutter.mp3")),
		ArchiveDirectory: getEnv("ARCHIVE_DIR", filepath.Join(".", "archive")),
		DatabasePath:     getEnv("DB_PATH", filepath.Join(".", "data", "photobooth.db")),
		FrameWidth:       getEnvAsInt("FRAME_WIDTH", 50),
		StripPadding:     getEnvAsInt("STRIP_PADDING", 20),
		CaptionHeight:    getEnvAsInt("CAPTION_HEIGHT", 40),
		PhotosPerShoot:   getEnvAsInt("PHOTOS_PER_SHOOT", 3),
		MaxUploadSize:    getEnvAsInt64("MAX_UPLOAD_SIZE", 32),
		ArchiveBuffer:    getEnvAsInt("ARCHIVE_BUFFER", 32),
		ArchiveFlush:     getEnvAsInt("ARCHIVE_FLUSH_INTERVAL", 30),
		SessionTTL:       getEnvAsInt("SESSION_TTL", 60),
		LogDirectory:     getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

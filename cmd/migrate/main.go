package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"photobooth/internal/database"
	"photobooth/internal/model"
)

func main() {
	archiveDir := flag.String("archive", "archive", "Directory containing archived photos")
	dbPath := flag.String("db", "data/photobooth.db", "Database path")
	flag.Parse()

	fmt.Printf("Migrating photos from %s to database %s\n", *archiveDir, *dbPath)

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := database.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	files, err := os.ReadDir(*archiveDir)
	if err != nil {
		log.Fatalf("Failed to read archive directory: %v", err)
	}

	var photos []model.ArchivedPhoto
	skipped := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".png" {
			continue
		}

		timestamp, emotionLabel, err := database.ParseFilename(file.Name())
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		info, err := file.Info()
		if err != nil {
			log.Printf("Failed to get info for %s: %v", file.Name(), err)
			skipped++
			continue
		}

		photos = append(photos, model.ArchivedPhoto{
			Filename:  file.Name(),
			Emotion:   emotionLabel,
			Timestamp: timestamp,
			FilePath:  filepath.Join(*archiveDir, file.Name()),
			FileSize:  info.Size(),
		})
	}

	if err := db.BulkInsertPhotos(photos); err != nil {
		log.Fatalf("Failed to insert photos: %v", err)
	}

	fmt.Printf("Imported %d photos, skipped %d\n", len(photos), skipped)
}

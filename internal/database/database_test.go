package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"photobooth/internal/model"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "photobooth_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tempDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tempDir)
	}

	return db, cleanup
}

func testPhoto(filename, emotionLabel string) *model.ArchivedPhoto {
	return &model.ArchivedPhoto{
		Filename: filename,
		Emotion:  emotionLabel,
		Scores: model.EmotionScores{
			"happy":   0.7,
			"neutral": 0.2,
			"sad":     0.1,
		},
		Timestamp: time.Now().Truncate(time.Second),
		FilePath:  filepath.Join("archive", filename),
		FileSize:  1024,
	}
}

func TestInsertPhoto(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	id, err := db.InsertPhoto(testPhoto("shot1.png", "happy"))
	if err != nil {
		t.Fatalf("InsertPhoto failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}
}

func TestInsertPhoto_DuplicateFilename(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	photo := testPhoto("dup.png", "happy")

	if _, err := db.InsertPhoto(photo); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := db.InsertPhoto(photo); err == nil {
		t.Error("Expected error for duplicate filename, got nil")
	}
}

func TestGetPhotoByFilename_RoundTripsScores(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	photo := testPhoto("roundtrip.png", "happy")
	if _, err := db.InsertPhoto(photo); err != nil {
		t.Fatalf("InsertPhoto failed: %v", err)
	}

	got, err := db.GetPhotoByFilename("roundtrip.png")
	if err != nil {
		t.Fatalf("GetPhotoByFilename failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected photo, got nil")
	}
	if got.Emotion != "happy" {
		t.Errorf("Emotion mismatch: expected happy, got %s", got.Emotion)
	}
	if len(got.Scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(got.Scores))
	}
	if got.Scores["happy"] != 0.7 {
		t.Errorf("Score mismatch: expected 0.7, got %f", got.Scores["happy"])
	}
}

func TestGetPhotoByFilename_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := db.GetPhotoByFilename("missing.png")
	if err != nil {
		t.Fatalf("GetPhotoByFilename should not error for missing photo: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing photo")
	}
}

func TestGetPhotos_FilterByEmotion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	db.InsertPhoto(testPhoto("a.png", "happy"))
	db.InsertPhoto(testPhoto("b.png", "sad"))
	db.InsertPhoto(testPhoto("c.png", "happy"))

	photos, err := db.GetPhotos(&PhotoFilter{Emotion: "happy"})
	if err != nil {
		t.Fatalf("GetPhotos failed: %v", err)
	}
	if len(photos) != 2 {
		t.Errorf("Expected 2 happy photos, got %d", len(photos))
	}

	count, err := db.GetTotalCount(&PhotoFilter{Emotion: "happy"})
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestGetPhotos_Pagination(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"p1.png", "p2.png", "p3.png"} {
		db.InsertPhoto(testPhoto(name, "neutral"))
	}

	photos, err := db.GetPhotos(&PhotoFilter{Limit: 2})
	if err != nil {
		t.Fatalf("GetPhotos failed: %v", err)
	}
	if len(photos) != 2 {
		t.Errorf("Expected 2 photos with limit 2, got %d", len(photos))
	}
}

func TestGetEmotionTotals(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	db.InsertPhoto(testPhoto("a.png", "happy"))
	db.InsertPhoto(testPhoto("b.png", "happy"))

	totals, err := db.GetEmotionTotals()
	if err != nil {
		t.Fatalf("GetEmotionTotals failed: %v", err)
	}

	if got := totals["happy"]; got < 1.39 || got > 1.41 {
		t.Errorf("Expected happy total around 1.4, got %f", got)
	}
}

func TestDeletePhotoByFilename(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	db.InsertPhoto(testPhoto("gone.png", "fear"))

	if err := db.DeletePhotoByFilename("gone.png"); err != nil {
		t.Fatalf("DeletePhotoByFilename failed: %v", err)
	}

	got, _ := db.GetPhotoByFilename("gone.png")
	if got != nil {
		t.Error("Expected photo deleted")
	}

	// Deleting a missing photo is a no-op
	if err := db.DeletePhotoByFilename("never-existed.png"); err != nil {
		t.Errorf("Expected nil for missing photo, got %v", err)
	}
}

func TestClearAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	db.InsertPhoto(testPhoto("x.png", "angry"))
	db.InsertPhoto(testPhoto("y.png", "disgust"))

	if err := db.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	count, err := db.GetTotalCount(&PhotoFilter{})
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty archive, got %d photos", count)
	}
}

func TestBulkInsertPhotos_SkipsDuplicates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	photos := []model.ArchivedPhoto{
		*testPhoto("bulk1.png", "happy"),
		*testPhoto("bulk1.png", "happy"), // duplicate
		*testPhoto("bulk2.png", "sad"),
	}

	if err := db.BulkInsertPhotos(photos); err != nil {
		t.Fatalf("BulkInsertPhotos failed: %v", err)
	}

	count, _ := db.GetTotalCount(&PhotoFilter{})
	if count != 2 {
		t.Errorf("Expected 2 photos after dedup, got %d", count)
	}
}

func TestParseFilename(t *testing.T) {
	ts, emotionLabel, err := ParseFilename("2024-03-09_14-30-05.123_happy.png")
	if err != nil {
		t.Fatalf("ParseFilename failed: %v", err)
	}
	if emotionLabel != "happy" {
		t.Errorf("Expected happy, got %s", emotionLabel)
	}
	if ts.Year() != 2024 || ts.Month() != time.March || ts.Day() != 9 {
		t.Errorf("Unexpected timestamp: %v", ts)
	}
}

func TestParseFilename_Invalid(t *testing.T) {
	if _, _, err := ParseFilename("nonsense.png"); err == nil {
		t.Error("Expected error for invalid filename")
	}
}

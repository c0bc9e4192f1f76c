package database

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"photobooth/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// PhotoFilter contains filtering options for querying archived photos.
type PhotoFilter struct {
	Emotion   string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// Database handles SQLite operations for the photo archive.
type Database struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates and initializes a new SQLite database.
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	database := &Database{db: db}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS photos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		emotion TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		filepath TEXT NOT NULL,
		filesize INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS photo_emotions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		photo_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		FOREIGN KEY (photo_id) REFERENCES photos(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_photos_emotion ON photos(emotion);
	CREATE INDEX IF NOT EXISTS idx_photos_timestamp ON photos(timestamp);
	CREATE INDEX IF NOT EXISTS idx_photo_emotions_label ON photo_emotions(label);
	CREATE INDEX IF NOT EXISTS idx_photo_emotions_photo_id ON photo_emotions(photo_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// InsertPhoto adds a new photo record with its emotion scores.
func (d *Database) InsertPhoto(photo *model.ArchivedPhoto) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO photos (filename, emotion, timestamp, filepath, filesize)
		VALUES (?, ?, ?, ?, ?)
	`, photo.Filename, photo.Emotion, photo.Timestamp, photo.FilePath, photo.FileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	photoID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for label, score := range photo.Scores {
		_, err := tx.Exec(`
			INSERT INTO photo_emotions (photo_id, label, score)
			VALUES (?, ?, ?)
		`, photoID, label, score)
		if err != nil {
			return 0, fmt.Errorf("failed to insert emotion score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return photoID, nil
}

// GetPhotos retrieves archived photos based on filter criteria.
func (d *Database) GetPhotos(filter *PhotoFilter) ([]model.ArchivedPhoto, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := `
		SELECT id, filename, emotion, timestamp, filepath, filesize
		FROM photos
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Emotion != "" {
		query += " AND emotion = ?"
		args = append(args, filter.Emotion)
	}

	if !filter.StartDate.IsZero() {
		query += " AND DATE(timestamp) >= DATE(?)"
		args = append(args, filter.StartDate)
	}

	if !filter.EndDate.IsZero() {
		query += " AND DATE(timestamp) <= DATE(?)"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var photos []model.ArchivedPhoto
	for rows.Next() {
		var p model.ArchivedPhoto
		err := rows.Scan(&p.ID, &p.Filename, &p.Emotion, &p.Timestamp, &p.FilePath, &p.FileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}

		scores, err := d.getPhotoScores(p.ID)
		if err != nil {
			return nil, err
		}
		p.Scores = scores

		photos = append(photos, p)
	}

	return photos, nil
}

// GetTotalCount returns the total count of photos matching the filter
// (without limit/offset).
func (d *Database) GetTotalCount(filter *PhotoFilter) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := `SELECT COUNT(*) FROM photos WHERE 1=1`
	args := []interface{}{}

	if filter.Emotion != "" {
		query += " AND emotion = ?"
		args = append(args, filter.Emotion)
	}

	if !filter.StartDate.IsZero() {
		query += " AND DATE(timestamp) >= DATE(?)"
		args = append(args, filter.StartDate)
	}

	if !filter.EndDate.IsZero() {
		query += " AND DATE(timestamp) <= DATE(?)"
		args = append(args, filter.EndDate)
	}

	var count int
	err := d.db.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}

	return count, nil
}

// getPhotoScores retrieves the emotion scores for a given photo ID.
func (d *Database) getPhotoScores(photoID int64) (model.EmotionScores, error) {
	rows, err := d.db.Query(`
		SELECT label, score FROM photo_emotions WHERE photo_id = ?
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion scores: %w", err)
	}
	defer rows.Close()

	scores := make(model.EmotionScores)
	for rows.Next() {
		var label string
		var score float64
		if err := rows.Scan(&label, &score); err != nil {
			return nil, fmt.Errorf("failed to scan emotion score: %w", err)
		}
		scores[label] = score
	}

	return scores, nil
}

// GetEmotions returns a list of all distinct dominant emotions in the archive.
func (d *Database) GetEmotions() ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`SELECT DISTINCT emotion FROM photos ORDER BY emotion`)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotions: %w", err)
	}
	defer rows.Close()

	var emotions []string
	for rows.Next() {
		var emotion string
		if err := rows.Scan(&emotion); err != nil {
			return nil, fmt.Errorf("failed to scan emotion: %w", err)
		}
		emotions = append(emotions, emotion)
	}

	return emotions, nil
}

// GetEmotionTotals sums the archived scores per label.
func (d *Database) GetEmotionTotals() (map[string]float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.Query(`
		SELECT label, SUM(score) FROM photo_emotions GROUP BY label
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var label string
		var total float64
		if err := rows.Scan(&label, &total); err != nil {
			return nil, fmt.Errorf("failed to scan emotion total: %w", err)
		}
		totals[label] = total
	}

	return totals, nil
}

// DeletePhotoByFilename removes a photo by its filename.
func (d *Database) DeletePhotoByFilename(filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var photoID int64
	err := d.db.QueryRow(`SELECT id FROM photos WHERE filename = ?`, filename).Scan(&photoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil // Photo not found, nothing to delete
		}
		return fmt.Errorf("failed to get photo id: %w", err)
	}

	_, err = d.db.Exec(`DELETE FROM photo_emotions WHERE photo_id = ?`, photoID)
	if err != nil {
		return fmt.Errorf("failed to delete emotion scores: %w", err)
	}

	_, err = d.db.Exec(`DELETE FROM photos WHERE id = ?`, photoID)
	return err
}

// GetPhotoByFilename retrieves a photo by its filename.
func (d *Database) GetPhotoByFilename(filename string) (*model.ArchivedPhoto, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var p model.ArchivedPhoto
	err := d.db.QueryRow(`
		SELECT id, filename, emotion, timestamp, filepath, filesize
		FROM photos WHERE filename = ?
	`, filename).Scan(&p.ID, &p.Filename, &p.Emotion, &p.Timestamp, &p.FilePath, &p.FileSize)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query photo: %w", err)
	}

	scores, err := d.getPhotoScores(p.ID)
	if err != nil {
		return nil, err
	}
	p.Scores = scores

	return &p, nil
}

// GetStats returns statistics about archived photos.
func (d *Database) GetStats() (map[string]interface{}, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]interface{})

	var totalPhotos int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&totalPhotos)
	if err != nil {
		return nil, err
	}
	stats["total_photos"] = totalPhotos

	var totalSize int64
	err = d.db.QueryRow(`SELECT COALESCE(SUM(filesize), 0) FROM photos`).Scan(&totalSize)
	if err != nil {
		return nil, err
	}
	stats["total_size_bytes"] = totalSize

	rows, err := d.db.Query(`SELECT emotion, COUNT(*) FROM photos GROUP BY emotion`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perEmotion := make(map[string]int)
	for rows.Next() {
		var emotion string
		var count int
		if err := rows.Scan(&emotion, &count); err != nil {
			return nil, err
		}
		perEmotion[emotion] = count
	}
	stats["per_emotion"] = perEmotion

	return stats, nil
}

// BulkInsertPhotos inserts multiple photos in a single transaction,
// skipping duplicates.
func (d *Database) BulkInsertPhotos(photos []model.ArchivedPhoto) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	photoStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO photos (filename, emotion, timestamp, filepath, filesize)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare photo statement: %w", err)
	}
	defer photoStmt.Close()

	scoreStmt, err := tx.Prepare(`
		INSERT INTO photo_emotions (photo_id, label, score)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare score statement: %w", err)
	}
	defer scoreStmt.Close()

	for _, p := range photos {
		result, err := photoStmt.Exec(p.Filename, p.Emotion, p.Timestamp, p.FilePath, p.FileSize)
		if err != nil {
			continue // Skip duplicates
		}

		photoID, err := result.LastInsertId()
		if err != nil || photoID == 0 {
			continue
		}

		for label, score := range p.Scores {
			scoreStmt.Exec(photoID, label, score)
		}
	}

	return tx.Commit()
}

// ClearAll removes all photos and emotion scores from the database.
func (d *Database) ClearAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.db.Exec(`DELETE FROM photo_emotions`)
	if err != nil {
		return fmt.Errorf("failed to delete emotion scores: %w", err)
	}

	_, err = d.db.Exec(`DELETE FROM photos`)
	if err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// ParseFilename extracts metadata from an archive filename.
// Format: 2006-01-02_15-04-05.000_emotion.png
func ParseFilename(filename string) (timestamp time.Time, emotion string, err error) {
	name := strings.TrimSuffix(filename, ".png")
	parts := strings.Split(name, "_")

	if len(parts) < 3 {
		return time.Time{}, "", fmt.Errorf("invalid filename format: %s", filename)
	}

	timeStr := parts[0] + "_" + parts[1]
	timestamp, err = time.Parse("2006-01-02_15-04-05.000", timeStr)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("failed to parse timestamp: %w", err)
	}

	emotion = parts[2]
	return timestamp, emotion, nil
}

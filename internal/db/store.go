package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Sentinel errors surfaced to callers. Underlying driver errors are always
// wrapped, never leaked raw.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the caller supplied invalid input.
	ErrValidation = errors.New("invalid input")
	// ErrConflict means another ingest for the same meeting is running.
	ErrConflict = errors.New("ingest already in progress")
)

// Store is the durable entity repository plus the full-text index kept in
// lockstep with segment content. All mutating operations are transactional:
// either every row (entity and index projection) commits or none does.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	ingests map[int64]struct{}
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scribe", "scribe.sqlite")
}

// Open opens (creating if needed) the database with WAL and enforced
// foreign keys, and verifies the connection.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, ingests: make(map[int64]struct{})}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. Safe to call on every startup.
func (s *Store) Migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meetings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			createdAt REAL NOT NULL,
			sourcePath TEXT NOT NULL,
			language TEXT NOT NULL,
			modelName TEXT NOT NULL,
			durationSeconds REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			meetingId INTEGER NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			sequenceNumber INTEGER NOT NULL,
			startS REAL NOT NULL,
			endS REAL NOT NULL,
			text TEXT NOT NULL,
			UNIQUE(meetingId, sequenceNumber)
		);
		CREATE INDEX IF NOT EXISTS idx_segments_meeting ON segments(meetingId);

		CREATE TABLE IF NOT EXISTS summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			meetingId INTEGER NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			createdAt REAL NOT NULL,
			templateName TEXT NOT NULL,
			modelName TEXT NOT NULL DEFAULT '',
			fallback INTEGER NOT NULL DEFAULT 0,
			text TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			meetingId INTEGER NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			createdAt REAL NOT NULL,
			format TEXT NOT NULL,
			path TEXT NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	fts := `
		CREATE VIRTUAL TABLE IF NOT EXISTS segments_fts
		USING fts5(segmentId UNINDEXED, meetingId UNINDEXED, text)
	`
	if _, err := s.db.Exec(fts); err != nil {
		return fmt.Errorf("create full-text index (FTS5 required): %w", err)
	}
	return nil
}

// NewMeeting holds the metadata for CreateMeeting.
type NewMeeting struct {
	SourcePath      string
	Language        string
	ModelName       string
	DurationSeconds float64
}

// CreateMeeting allocates a meeting id and stores its metadata.
func (s *Store) CreateMeeting(ctx context.Context, m NewMeeting) (Meeting, error) {
	if strings.TrimSpace(m.SourcePath) == "" {
		return Meeting{}, fmt.Errorf("%w: source path is empty", ErrValidation)
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (createdAt, sourcePath, language, modelName, durationSeconds)
		VALUES (?, ?, ?, ?, ?)
	`, timeToUnix(now), m.SourcePath, m.Language, m.ModelName, m.DurationSeconds)
	if err != nil {
		return Meeting{}, fmt.Errorf("insert meeting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Meeting{}, fmt.Errorf("meeting id: %w", err)
	}
	return Meeting{
		ID:              id,
		CreatedAt:       now,
		SourcePath:      m.SourcePath,
		Language:        m.Language,
		ModelName:       m.ModelName,
		DurationSeconds: m.DurationSeconds,
	}, nil
}

// GetMeeting returns one meeting by id.
func (s *Store) GetMeeting(ctx context.Context, id int64) (Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, createdAt, sourcePath, language, modelName, durationSeconds
		FROM meetings
		WHERE id = ?
	`, id)

	var m Meeting
	var createdAt float64
	if err := row.Scan(&m.ID, &createdAt, &m.SourcePath, &m.Language, &m.ModelName, &m.DurationSeconds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Meeting{}, fmt.Errorf("meeting %d: %w", id, ErrNotFound)
		}
		return Meeting{}, fmt.Errorf("scan meeting: %w", err)
	}
	m.CreatedAt = timeFromUnix(createdAt)
	return m, nil
}

// ListMeetings returns all meetings, newest first.
func (s *Store) ListMeetings(ctx context.Context) ([]Meeting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, createdAt, sourcePath, language, modelName, durationSeconds
		FROM meetings
		ORDER BY createdAt DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		var createdAt float64
		if err := rows.Scan(&m.ID, &createdAt, &m.SourcePath, &m.Language, &m.ModelName, &m.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		m.CreatedAt = timeFromUnix(createdAt)
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// IngestSegments atomically replaces the meeting's full segment set and its
// full-text index entries. At most one ingest may run per meeting at a
// time; a concurrent second call fails with ErrConflict. Ingests for
// different meetings proceed in parallel.
func (s *Store) IngestSegments(ctx context.Context, meetingID int64, segments []NewSegment) error {
	if err := validateSegments(segments); err != nil {
		return err
	}
	if !s.beginIngest(meetingID) {
		return fmt.Errorf("meeting %d: %w", meetingID, ErrConflict)
	}
	defer s.endIngest(meetingID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings WHERE id = ?`, meetingID).Scan(&exists); err != nil {
		return fmt.Errorf("check meeting: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("meeting %d: %w", meetingID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments_fts WHERE meetingId = ?`, meetingID); err != nil {
		return fmt.Errorf("clear segment index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE meetingId = ?`, meetingID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	for _, seg := range segments {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO segments (meetingId, sequenceNumber, startS, endS, text)
			VALUES (?, ?, ?, ?, ?)
		`, meetingID, seg.SequenceNumber, seg.Start, seg.End, seg.Text)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.SequenceNumber, err)
		}
		segID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("segment id: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO segments_fts (segmentId, meetingId, text)
			VALUES (?, ?, ?)
		`, segID, meetingID, seg.Text); err != nil {
			return fmt.Errorf("index segment %d: %w", seg.SequenceNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}
	return nil
}

// validateSegments enforces the segment invariants before anything touches
// the database: dense zero-based sequence numbers, non-empty text,
// end >= start, and non-decreasing start times.
func validateSegments(segments []NewSegment) error {
	for i, seg := range segments {
		if seg.SequenceNumber != i {
			return fmt.Errorf("%w: segment %d has sequence number %d", ErrValidation, i, seg.SequenceNumber)
		}
		if strings.TrimSpace(seg.Text) == "" {
			return fmt.Errorf("%w: segment %d has empty text", ErrValidation, i)
		}
		if seg.End < seg.Start {
			return fmt.Errorf("%w: segment %d ends before it starts", ErrValidation, i)
		}
		if i > 0 && seg.Start < segments[i-1].Start {
			return fmt.Errorf("%w: segment %d start precedes segment %d start", ErrValidation, i, i-1)
		}
	}
	return nil
}

// beginIngest marks an ingest in flight for the meeting; false means one is
// already running.
func (s *Store) beginIngest(meetingID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.ingests[meetingID]; busy {
		return false
	}
	s.ingests[meetingID] = struct{}{}
	return true
}

func (s *Store) endIngest(meetingID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ingests, meetingID)
}

// ListSegments returns the meeting's segments in sequence order.
func (s *Store) ListSegments(ctx context.Context, meetingID int64) ([]Segment, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, sequenceNumber, startS, endS, text
		FROM segments
		WHERE meetingId = ?
		ORDER BY sequenceNumber ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(&seg.ID, &seg.MeetingID, &seg.SequenceNumber, &seg.Start, &seg.End, &seg.Text); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// AppendSummary stores one generated summary for the meeting.
func (s *Store) AppendSummary(ctx context.Context, meetingID int64, templateName, modelName, text string, fallback bool) (Summary, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return Summary{}, err
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (meetingId, createdAt, templateName, modelName, fallback, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`, meetingID, timeToUnix(now), templateName, modelName, boolToInt(fallback), text)
	if err != nil {
		return Summary{}, fmt.Errorf("insert summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Summary{}, fmt.Errorf("summary id: %w", err)
	}
	return Summary{
		ID:           id,
		MeetingID:    meetingID,
		CreatedAt:    now,
		TemplateName: templateName,
		ModelName:    modelName,
		Fallback:     fallback,
		Text:         text,
	}, nil
}

// ListSummaries returns the meeting's summaries, oldest first.
func (s *Store) ListSummaries(ctx context.Context, meetingID int64) ([]Summary, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, createdAt, templateName, modelName, fallback, text
		FROM summaries
		WHERE meetingId = ?
		ORDER BY id ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// LatestSummary returns the most recent summary, or nil if none exists.
func (s *Store) LatestSummary(ctx context.Context, meetingID int64) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, createdAt, templateName, modelName, fallback, text
		FROM summaries
		WHERE meetingId = ?
		ORDER BY id DESC
		LIMIT 1
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query latest summary: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	sum, err := scanSummary(rows)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func scanSummary(rows *sql.Rows) (Summary, error) {
	var sum Summary
	var createdAt float64
	var fallback int
	if err := rows.Scan(&sum.ID, &sum.MeetingID, &createdAt, &sum.TemplateName, &sum.ModelName, &fallback, &sum.Text); err != nil {
		return Summary{}, fmt.Errorf("scan summary: %w", err)
	}
	sum.CreatedAt = timeFromUnix(createdAt)
	sum.Fallback = fallback != 0
	return sum, nil
}

// RecordExport appends an export row for audit history.
func (s *Store) RecordExport(ctx context.Context, meetingID int64, format, path string) (Export, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return Export{}, err
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (meetingId, createdAt, format, path)
		VALUES (?, ?, ?, ?)
	`, meetingID, timeToUnix(now), format, path)
	if err != nil {
		return Export{}, fmt.Errorf("insert export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Export{}, fmt.Errorf("export id: %w", err)
	}
	return Export{ID: id, MeetingID: meetingID, CreatedAt: now, Format: format, Path: path}, nil
}

// ListExports returns the meeting's export history, oldest first.
func (s *Store) ListExports(ctx context.Context, meetingID int64) ([]Export, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meetingId, createdAt, format, path
		FROM exports
		WHERE meetingId = ?
		ORDER BY id ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		var e Export
		var createdAt float64
		if err := rows.Scan(&e.ID, &e.MeetingID, &createdAt, &e.Format, &e.Path); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		e.CreatedAt = timeFromUnix(createdAt)
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// DeleteMeeting removes the meeting and everything it owns, including its
// full-text index rows, in one transaction.
func (s *Store) DeleteMeeting(ctx context.Context, meetingID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments_fts WHERE meetingId = ?`, meetingID); err != nil {
		return fmt.Errorf("clear segment index: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, meetingID)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meeting %d: %w", meetingID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// Search runs a full-text query against segment text, optionally
// restricted to one meeting (meetingID 0 means all meetings). Matches are
// ordered by relevance, ties broken by sequence number then meeting id.
func (s *Store) Search(ctx context.Context, query string, meetingID int64, limit int) ([]SearchHit, error) {
	match := matchExpr(query)
	if match == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrValidation)
	}
	if limit <= 0 {
		limit = 25
	}

	q := `
		SELECT
			s.meetingId,
			s.id,
			s.sequenceNumber,
			s.startS,
			s.endS,
			s.text,
			snippet(segments_fts, 2, '[', ']', ' ... ', 12),
			bm25(segments_fts)
		FROM segments_fts
		JOIN segments s ON s.id = segments_fts.segmentId
		WHERE segments_fts MATCH ?
	`
	args := []any{match}
	if meetingID != 0 {
		q += " AND s.meetingId = ?"
		args = append(args, meetingID)
	}
	q += " ORDER BY rank, s.sequenceNumber ASC, s.meetingId ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.MeetingID, &h.SegmentID, &h.SequenceNumber, &h.Start, &h.End, &h.Text, &h.Snippet, &h.Rank); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// matchExpr turns free text into a safe FTS5 match expression by quoting
// each token, so user input cannot inject query syntax.
func matchExpr(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the message store operations. All reads return messages in
// ascending timestamp order and never cross conversation boundaries.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AppendMessage stores a new message. The store assigns ID and Timestamp.
	AppendMessage(ctx context.Context, msg *Message) error

	// QueryWindow returns the chat's messages with timestamp >= since.
	QueryWindow(ctx context.Context, chatID int64, since time.Time) ([]Message, error)

	// QueryByParticipants returns the chat's messages since the given time whose
	// display name or handle equals one of names, case-insensitively.
	QueryByParticipants(ctx context.Context, chatID int64, names []string, since time.Time) ([]Message, error)

	// ListParticipants returns distinct (display name, handle) pairs ordered by name.
	ListParticipants(ctx context.Context, chatID int64, since time.Time) ([]Participant, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// CheckpointWAL folds the write-ahead log back into the main database file.
	CheckpointWAL(ctx context.Context) error
}

const messageColumns = `id, chat_id, sender_id, display_name, handle, text, timestamp`

// appendAttempts is one write plus a single transparent retry.
const appendAttempts = 2

// Option configures a sqlxStore.
type Option func(*sqlxStore)

// WithRetry sets the read attempt count and the initial backoff between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *sqlxStore) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
		if backoff >= 0 {
			s.retryBackoff = backoff
		}
	}
}

// WithClock overrides the capture clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *sqlxStore) {
		if now != nil {
			s.now = now
		}
	}
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db           *sqlx.DB
	logger       *slog.Logger
	maxAttempts  int
	retryBackoff time.Duration
	now          func() time.Time

	mu     sync.Mutex
	lastTS time.Time
}

// NewStore creates a new Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger, opts ...Option) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &sqlxStore{
		db:           db,
		logger:       logger.With("component", "store"),
		maxAttempts:  3,
		retryBackoff: 200 * time.Millisecond,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// nextTimestamp returns the capture time for a new message, never earlier
// than the previous one handed out by this store.
func (s *sqlxStore) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC()
	if ts.Before(s.lastTS) {
		ts = s.lastTS
	}
	s.lastTS = ts
	return ts
}

// AppendMessage inserts a new message record inside a transaction.
func (s *sqlxStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", ErrInvalidMessage)
	}
	if msg.ChatID == 0 {
		return fmt.Errorf("%w: chat_id cannot be zero", ErrInvalidMessage)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidMessage)
	}

	msg.DisplayName = strings.TrimSpace(msg.DisplayName)
	if msg.DisplayName == "" {
		msg.DisplayName = UnknownDisplayName
	}
	msg.Handle = NullHandle(msg.Handle.String)
	msg.Timestamp = s.nextTimestamp()

	var handleKey sql.NullString
	if msg.Handle.Valid {
		handleKey = sql.NullString{String: NormalizeName(msg.Handle.String), Valid: true}
	}

	err := s.withRetry(ctx, "append message", appendAttempts, func(ctx context.Context) error {
		id, err := s.insertMessage(ctx, msg, NormalizeName(msg.DisplayName), handleKey)
		if err != nil {
			return err
		}
		msg.ID = id
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to append message", "chat_id", msg.ChatID, "error", err)
		return err
	}

	s.logger.DebugContext(ctx, "Message appended", "chat_id", msg.ChatID, "message_id", msg.ID)
	return nil
}

func (s *sqlxStore) insertMessage(ctx context.Context, msg *Message, nameKey string, handleKey sql.NullString) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `
        INSERT INTO messages (chat_id, sender_id, display_name, display_name_key, handle, handle_key, text, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?);
    `, msg.ChatID, msg.SenderID, msg.DisplayName, nameKey, msg.Handle, handleKey, msg.Text, msg.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message (chat %d): %w", msg.ChatID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"chat_id", msg.ChatID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	return id, nil
}

// QueryWindow returns the chat's messages with timestamp >= since, oldest first.
func (s *sqlxStore) QueryWindow(ctx context.Context, chatID int64, since time.Time) ([]Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("%w: chat_id cannot be zero", ErrInvalidQuery)
	}

	query := `SELECT ` + messageColumns + `
	          FROM messages
	          WHERE chat_id = ? AND timestamp >= ?
	          ORDER BY timestamp ASC, id ASC`

	var messages []Message
	err := s.withRetry(ctx, "query window", s.maxAttempts, func(ctx context.Context) error {
		messages = nil
		return s.db.SelectContext(ctx, &messages, query, chatID, since.UTC())
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying message window", "chat_id", chatID, "since", since, "error", err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "Fetched message window", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

// QueryByParticipants matches display name or handle exactly, ignoring case.
// Substring matching is deliberately not supported: "john" must not match "Johnny".
func (s *sqlxStore) QueryByParticipants(ctx context.Context, chatID int64, names []string, since time.Time) ([]Message, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("%w: chat_id cannot be zero", ErrInvalidQuery)
	}

	keys := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := NormalizeName(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one participant name is required", ErrInvalidQuery)
	}

	query, args, err := sqlx.In(`SELECT `+messageColumns+`
	          FROM messages
	          WHERE chat_id = ? AND timestamp >= ?
	            AND (display_name_key IN (?) OR handle_key IN (?))
	          ORDER BY timestamp ASC, id ASC`, chatID, since.UTC(), keys, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to build participant query: %w", err)
	}
	query = s.db.Rebind(query)

	var messages []Message
	err = s.withRetry(ctx, "query by participants", s.maxAttempts, func(ctx context.Context) error {
		messages = nil
		return s.db.SelectContext(ctx, &messages, query, args...)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying participant messages", "chat_id", chatID, "names", keys, "error", err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "Fetched participant messages", "chat_id", chatID, "names", keys, "count", len(messages))
	return messages, nil
}

// ListParticipants returns distinct participants since the given time.
func (s *sqlxStore) ListParticipants(ctx context.Context, chatID int64, since time.Time) ([]Participant, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("%w: chat_id cannot be zero", ErrInvalidQuery)
	}

	query := `SELECT display_name, handle
	          FROM messages
	          WHERE chat_id = ? AND timestamp >= ?
	          GROUP BY display_name, handle
	          ORDER BY display_name ASC, handle ASC`

	var participants []Participant
	err := s.withRetry(ctx, "list participants", s.maxAttempts, func(ctx context.Context) error {
		participants = nil
		return s.db.SelectContext(ctx, &participants, query, chatID, since.UTC())
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing participants", "chat_id", chatID, "error", err)
		return nil, err
	}

	return participants, nil
}

// RunSQLMaintenance refreshes query planner statistics and executes VACUUM.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (optimize, VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// CheckpointWAL runs a truncating WAL checkpoint.
func (s *sqlxStore) CheckpointWAL(ctx context.Context) error {
	var busy, logFrames, checkpointed int
	row := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
	if err := row.Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}
	s.logger.DebugContext(ctx, "WAL checkpoint finished",
		"busy", busy, "log_frames", logFrames, "checkpointed_frames", checkpointed)
	return nil
}

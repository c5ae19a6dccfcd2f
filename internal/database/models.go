package database

import (
	"database/sql"
	"strings"
	"time"
)

// UnknownDisplayName replaces an empty display name on append.
const UnknownDisplayName = "Unknown"

// Message is one text message observed in a group chat. Messages are
// immutable once stored.
type Message struct {
	ID          int64          `db:"id"`
	ChatID      int64          `db:"chat_id"`
	SenderID    sql.NullInt64  `db:"sender_id"`
	DisplayName string         `db:"display_name"`
	Handle      sql.NullString `db:"handle"`
	Text        string         `db:"text"`
	Timestamp   time.Time      `db:"timestamp"`
}

// SameSender reports whether two messages were written by the same author.
// Sender ids win when both are known; otherwise name and handle must match.
func (m Message) SameSender(other Message) bool {
	if m.SenderID.Valid && other.SenderID.Valid {
		return m.SenderID.Int64 == other.SenderID.Int64
	}
	return m.DisplayName == other.DisplayName && m.Handle == other.Handle
}

// Participant is a distinct (display name, handle) pair seen in a chat.
type Participant struct {
	DisplayName string         `db:"display_name"`
	Handle      sql.NullString `db:"handle"`
}

// String renders the participant as "Name (@handle)" or just "Name".
func (p Participant) String() string {
	if p.Handle.Valid && p.Handle.String != "" {
		return p.DisplayName + " (@" + p.Handle.String + ")"
	}
	return p.DisplayName
}

// NormalizeName produces the lookup key used for participant matching:
// trimmed, without a leading "@", lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}

// NullHandle converts a raw handle into its stored form.
func NullHandle(handle string) sql.NullString {
	h := strings.TrimPrefix(strings.TrimSpace(handle), "@")
	return sql.NullString{String: h, Valid: h != ""}
}

package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/dmchat/internal/store"
)

//go:embed schema.sql
var schema string

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, ApplySchema)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply schema or seed data before use.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with single connection; it also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ApplySchema creates the tables if they do not exist yet.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// UpsertUser creates the user or overwrites the stored record with the same nickname.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *store.User) error {
	query := `
		INSERT INTO users (nickname, full_name, status)
		VALUES (?, ?, ?)
		ON CONFLICT (nickname) DO UPDATE SET
			full_name = excluded.full_name,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, user.Nickname, user.FullName, string(user.Status)); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by nickname.
func (s *SQLiteStore) GetUser(ctx context.Context, nickname string) (*store.User, error) {
	query := `
		SELECT nickname, full_name, status
		FROM users
		WHERE nickname = ?
	`
	var user store.User
	var status string
	err := s.db.QueryRowContext(ctx, query, nickname).Scan(
		&user.Nickname,
		&user.FullName,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", nickname, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.Status = store.Status(status)

	return &user, nil
}

// ListUsersByStatus lists users with the given status in insertion order.
func (s *SQLiteStore) ListUsersByStatus(ctx context.Context, status store.Status) ([]*store.User, error) {
	query := `
		SELECT nickname, full_name, status
		FROM users
		WHERE status = ?
		ORDER BY rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		var statusStr string
		if err := rows.Scan(&user.Nickname, &user.FullName, &statusStr); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.Status = store.Status(statusStr)
		users = append(users, &user)
	}

	return users, rows.Err()
}

// ==== ChatRoomStore implementation ====

// GetChatRoom retrieves the directional record for (senderID, recipientID).
func (s *SQLiteStore) GetChatRoom(ctx context.Context, senderID, recipientID string) (*store.ChatRoom, error) {
	query := `
		SELECT chat_id, sender_id, recipient_id
		FROM chat_rooms
		WHERE sender_id = ? AND recipient_id = ?
	`
	var room store.ChatRoom
	err := s.db.QueryRowContext(ctx, query, senderID, recipientID).Scan(
		&room.ChatID,
		&room.SenderID,
		&room.RecipientID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chat room %s->%s: %w", senderID, recipientID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query chat room: %w", err)
	}

	return &room, nil
}

// CreateChatRoom stores both directional records for the pair in one transaction.
// An existing record for either direction wins over chatID, so a writer that
// lost a race adopts the chat ID that was stored first. A chatID owned by a
// different pair is suffixed instead of shared.
func (s *SQLiteStore) CreateChatRoom(ctx context.Context, chatID, senderID, recipientID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	// Reuse the reverse record's chat ID if only that one exists.
	existing := chatID
	err = tx.QueryRowContext(ctx,
		`SELECT chat_id FROM chat_rooms WHERE sender_id = ? AND recipient_id = ?`,
		recipientID, senderID,
	).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing, err = unclaimedChatID(ctx, tx, chatID, senderID, recipientID)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", fmt.Errorf("query reverse chat room: %w", err)
	}

	insert := `
		INSERT INTO chat_rooms (chat_id, sender_id, recipient_id)
		VALUES (?, ?, ?)
		ON CONFLICT (sender_id, recipient_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insert, existing, senderID, recipientID); err != nil {
		return "", fmt.Errorf("insert chat room: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, existing, recipientID, senderID); err != nil {
		return "", fmt.Errorf("insert reverse chat room: %w", err)
	}

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT chat_id FROM chat_rooms WHERE sender_id = ? AND recipient_id = ?`,
		senderID, recipientID,
	).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("read back chat room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

// maxChatIDSuffix bounds the search for a free chat ID.
const maxChatIDSuffix = 100

// unclaimedChatID returns chatID, or chatID with a "~N" suffix, such that no
// other pair owns it. Nicknames may contain "_", so "a_b"+"c" and "a"+"b_c"
// derive the same ID.
func unclaimedChatID(ctx context.Context, tx *sql.Tx, chatID, a, b string) (string, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_rooms
		WHERE chat_id = ?
			AND NOT (sender_id = ? AND recipient_id = ?)
			AND NOT (sender_id = ? AND recipient_id = ?)
	`
	candidate := chatID
	for n := 2; n <= maxChatIDSuffix; n++ {
		var owners int
		if err := tx.QueryRowContext(ctx, query, candidate, a, b, b, a).Scan(&owners); err != nil {
			return "", fmt.Errorf("check chat id owner: %w", err)
		}
		if owners == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s~%d", chatID, n)
	}
	return "", fmt.Errorf("chat id %q: no free suffix", chatID)
}

// ==== MessageStore implementation ====

// SaveMessage persists a message to storage.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (chat_id, sender_id, recipient_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.ChatID, msg.SenderID, msg.RecipientID, msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	msg.ID = id
	return nil
}

// ListMessagesByChatID retrieves every message of a chat in insertion order.
func (s *SQLiteStore) ListMessagesByChatID(ctx context.Context, chatID string) ([]*store.ChatMessage, error) {
	query := `
		SELECT id, chat_id, sender_id, recipient_id, content, created_at
		FROM chat_messages
		WHERE chat_id = ?
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.ChatMessage, 0)
	for rows.Next() {
		var msg store.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

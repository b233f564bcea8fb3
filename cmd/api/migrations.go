// cmd/api/migrations.go
// Schema setup executed on startup

package main

import (
	"database/sql"
	"fmt"
	"log"
)

// runMigrations creates tables and indexes if they do not exist
func runMigrations(db *sql.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username VARCHAR(100) UNIQUE NOT NULL,
            display_name VARCHAR(100) NOT NULL,
            email VARCHAR(255) UNIQUE NOT NULL,
            phone VARCHAR(20) UNIQUE,
            gender VARCHAR(20) NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            profile_picture TEXT,
            is_admin BOOLEAN DEFAULT FALSE,
            is_online BOOLEAN DEFAULT FALSE,
            last_active TIMESTAMP,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		// Directed interest records. One row per (user, target) pair;
		// mutuality is derived from the pair of rows, never stored.
		`CREATE TABLE IF NOT EXISTS match_records (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            matched_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            score DOUBLE PRECISION DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT match_records_pair_key UNIQUE (user_id, matched_user_id),
            CONSTRAINT match_records_no_self CHECK (user_id <> matched_user_id),
            CONSTRAINT match_records_status_check CHECK (status IN ('pending', 'accepted', 'rejected'))
        )`,

		// Messages table
		`CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            message_type VARCHAR(20) NOT NULL DEFAULT 'text',
            is_read BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_user_id ON match_records(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_matched_user_id ON match_records(matched_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_match_records_status ON match_records(status)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender_receiver ON messages(sender_id, receiver_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver_unread ON messages(receiver_id) WHERE is_read = FALSE`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

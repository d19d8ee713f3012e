package database

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the tables the service needs. Safe to call multiple
// times. The unique keys on users.email, officers.email, users.national_id,
// events.title and post_reactions(post_id, user_id) are the store-level guards the
// services rely on when two requests race past their existence checks.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema (statement %d): %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                     CHAR(36)     NOT NULL PRIMARY KEY,
		email                  VARCHAR(255) NOT NULL,
		password_hash          VARCHAR(255) NOT NULL,
		first_name             VARCHAR(100) NOT NULL,
		last_name              VARCHAR(100) NULL,
		phone_number           VARCHAR(32)  NULL,
		national_id            VARCHAR(32)  NULL,
		date_of_birth          DATE         NULL,
		address                VARCHAR(255) NULL,
		city                   VARCHAR(100) NULL,
		province               VARCHAR(100) NULL,
		gn_division            VARCHAR(100) NULL,
		divisional_secretariat VARCHAR(100) NULL,
		postal_code            VARCHAR(16)  NULL,
		is_verified            TINYINT(1)   NOT NULL DEFAULT 0,
		is_onboarded           TINYINT(1)   NOT NULL DEFAULT 0,
		created_at             DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at             DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_national_id (national_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS officers (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NULL,
		role          ENUM('ADMIN','OFFICER') NOT NULL DEFAULT 'OFFICER',
		department_id CHAR(36)     NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_officers_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL,
		event_date  DATETIME     NOT NULL,
		category    VARCHAR(100) NOT NULL,
		thumbnail   VARCHAR(512) NULL,
		admin_id    CHAR(36)     NOT NULL,
		created_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_events_title (title),
		KEY idx_events_date (event_date),
		CONSTRAINT fk_events_admin FOREIGN KEY (admin_id) REFERENCES officers(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		content    TEXT         NOT NULL,
		image_url  VARCHAR(512) NULL,
		event_id   CHAR(36)     NOT NULL,
		user_id    CHAR(36)     NOT NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_posts_event (event_id),
		CONSTRAINT fk_posts_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
		CONSTRAINT fk_posts_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS post_reactions (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		post_id    CHAR(36) NOT NULL,
		user_id    CHAR(36) NOT NULL,
		type       ENUM('UPVOTE','DOWNVOTE') NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_post_reactions_post_user (post_id, user_id),
		CONSTRAINT fk_reactions_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
		CONSTRAINT fk_reactions_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		post_id    CHAR(36) NOT NULL,
		user_id    CHAR(36) NOT NULL,
		content    TEXT     NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_comments_post (post_id, created_at),
		CONSTRAINT fk_comments_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		user_id    CHAR(36)     NOT NULL,
		officer_id CHAR(36)     NULL,
		title      VARCHAR(255) NOT NULL,
		message    TEXT         NOT NULL,
		type       VARCHAR(32)  NOT NULL,
		channel    VARCHAR(16)  NOT NULL,
		is_read    TINYINT(1)   NOT NULL DEFAULT 0,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_notifications_user (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

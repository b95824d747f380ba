package db

import "fmt"

// schema is applied on every open; every statement is idempotent.
var schema = []struct {
	name  string
	query string
}{
	{"categories", `
		CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL CHECK(length(name) <= 20),
			color      TEXT NOT NULL CHECK(color IN ('blue', 'green', 'red', 'purple', 'yellow', 'orange', 'pink', 'teal')),
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"timeblocks", `
		CREATE TABLE IF NOT EXISTS timeblocks (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL CHECK(length(title) <= 100),
			category_id      TEXT REFERENCES categories(id) ON DELETE SET NULL,
			start_time       TEXT NOT NULL,
			end_time         TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL CHECK(duration_minutes BETWEEN 1 AND 1440),
			date             TEXT NOT NULL,
			created_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"todos", `
		CREATE TABLE IF NOT EXISTS todos (
			id           TEXT PRIMARY KEY,
			text         TEXT NOT NULL CHECK(length(text) <= 500),
			completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
			timeblock_id TEXT NOT NULL REFERENCES timeblocks(id) ON DELETE CASCADE,
			category_id  TEXT REFERENCES categories(id) ON DELETE SET NULL,
			order_index  INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"user_preferences", `
		CREATE TABLE IF NOT EXISTS user_preferences (
			id                     TEXT PRIMARY KEY DEFAULT 'default',
			start_of_day           TEXT NOT NULL DEFAULT '00:00',
			end_of_day             TEXT NOT NULL DEFAULT '23:59',
			default_block_duration INTEGER NOT NULL DEFAULT 60,
			theme                  TEXT NOT NULL DEFAULT 'light' CHECK(theme IN ('light', 'dark', 'auto')),
			created_at             TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at             TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"goals", `
		CREATE TABLE IF NOT EXISTS goals (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL CHECK(length(title) <= 100),
			description TEXT NOT NULL CHECK(length(description) <= 500),
			target_date TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'completed', 'abandoned')),
			created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"milestones", `
		CREATE TABLE IF NOT EXISTS milestones (
			id          TEXT PRIMARY KEY,
			goal_id     TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
			title       TEXT NOT NULL CHECK(length(title) <= 200),
			completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
			due_date    TEXT NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"check_ins", `
		CREATE TABLE IF NOT EXISTS check_ins (
			id                        TEXT PRIMARY KEY,
			goal_id                   TEXT REFERENCES goals(id) ON DELETE SET NULL,
			user_message              TEXT NOT NULL,
			ai_response               TEXT NOT NULL,
			confrontational           INTEGER NOT NULL DEFAULT 0 CHECK(confrontational IN (0, 1)),
			sentiment                 TEXT NOT NULL DEFAULT 'neutral' CHECK(sentiment IN ('positive', 'neutral', 'confrontational')),
			screentime_hours          REAL,
			timeblock_completion_rate REAL,
			todo_completion_rate      REAL,
			goals_on_track            INTEGER,
			created_at                TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"indexes", `
		CREATE INDEX IF NOT EXISTS idx_timeblocks_date ON timeblocks(date);
		CREATE INDEX IF NOT EXISTS idx_timeblocks_category ON timeblocks(category_id);
		CREATE INDEX IF NOT EXISTS idx_todos_timeblock ON todos(timeblock_id);
		CREATE INDEX IF NOT EXISTS idx_todos_category ON todos(category_id);
		CREATE INDEX IF NOT EXISTS idx_milestones_goal ON milestones(goal_id);
		CREATE INDEX IF NOT EXISTS idx_check_ins_goal ON check_ins(goal_id);
		CREATE INDEX IF NOT EXISTS idx_check_ins_created ON check_ins(created_at)`},
	{"default preferences", `INSERT OR IGNORE INTO user_preferences (id) VALUES ('default')`},
}

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	for _, step := range schema {
		if _, err := s.db.Exec(step.query); err != nil {
			return fmt.Errorf("creating %s: %w", step.name, err)
		}
	}
	return nil
}

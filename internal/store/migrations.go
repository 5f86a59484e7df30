package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id          INTEGER PRIMARY KEY,
	text        TEXT NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at  DATETIME NOT NULL,
	due_date    DATETIME,
	category    TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('high', 'medium', 'low')),
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT 'yellow',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
	id         INTEGER PRIMARY KEY CHECK(id = 1),
	user_id    INTEGER NOT NULL,
	username   TEXT NOT NULL,
	email      TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	synced_at  DATETIME
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);
CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

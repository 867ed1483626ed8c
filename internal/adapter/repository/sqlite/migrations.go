package sqlite

type migration struct {
	version int
	sql     string
}

// migrations must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
	id           INTEGER PRIMARY KEY,
	account_id   TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS social_groups (
	id         INTEGER PRIMARY KEY,
	short_name TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	private    INTEGER NOT NULL DEFAULT 0,
	pending    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS activities (
	id                   INTEGER PRIMARY KEY,
	verb                 TEXT NOT NULL DEFAULT 'post',
	actor_id             INTEGER NOT NULL,
	actor_type           TEXT NOT NULL DEFAULT 'person',
	destination_type     TEXT NOT NULL,
	destination_id       INTEGER NOT NULL,
	original_actor_id    INTEGER NOT NULL DEFAULT 0,
	original_activity_id INTEGER NOT NULL DEFAULT 0,
	body                 TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS comments (
	id          INTEGER PRIMARY KEY,
	activity_id INTEGER NOT NULL,
	author_id   INTEGER NOT NULL,
	body        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS apps (
	client_id TEXT PRIMARY KEY,
	name      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS group_coordinators (
	group_id  INTEGER NOT NULL,
	person_id INTEGER NOT NULL,
	PRIMARY KEY (group_id, person_id)
);

CREATE TABLE IF NOT EXISTS group_members (
	group_id     INTEGER NOT NULL,
	person_id    INTEGER NOT NULL,
	unrestricted INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (group_id, person_id)
);

CREATE TABLE IF NOT EXISTS stream_subscriptions (
	person_id     INTEGER NOT NULL,
	subscriber_id INTEGER NOT NULL,
	PRIMARY KEY (person_id, subscriber_id)
);

CREATE TABLE IF NOT EXISTS saved_activities (
	activity_id INTEGER NOT NULL,
	person_id   INTEGER NOT NULL,
	PRIMARY KEY (activity_id, person_id)
);

CREATE TABLE IF NOT EXISTS system_admins (
	person_id INTEGER PRIMARY KEY
);

CREATE INDEX IF NOT EXISTS idx_comments_activity ON comments(activity_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS idempotency_keys (
	key        TEXT PRIMARY KEY,
	response   BLOB,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS outbox_events (
	id           TEXT PRIMARY KEY,
	topic        TEXT NOT NULL,
	payload      BLOB NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	processed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox_events(processed_at, created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

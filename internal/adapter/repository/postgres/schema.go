package postgres

// schema mirrors the tables the stream application already owns; the service only
// reads them. idempotency_keys and outbox_events belong to this service.
const schema = `
CREATE TABLE IF NOT EXISTS people (
	id           BIGINT PRIMARY KEY,
	account_id   TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS social_groups (
	id         BIGINT PRIMARY KEY,
	short_name TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	private    BOOLEAN NOT NULL DEFAULT FALSE,
	pending    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS activities (
	id                   BIGINT PRIMARY KEY,
	verb                 TEXT NOT NULL DEFAULT 'post',
	actor_id             BIGINT NOT NULL,
	actor_type           TEXT NOT NULL DEFAULT 'person',
	destination_type     TEXT NOT NULL,
	destination_id       BIGINT NOT NULL,
	original_actor_id    BIGINT NOT NULL DEFAULT 0,
	original_activity_id BIGINT NOT NULL DEFAULT 0,
	body                 TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS comments (
	id          BIGINT PRIMARY KEY,
	activity_id BIGINT NOT NULL,
	author_id   BIGINT NOT NULL,
	body        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_comments_activity ON comments(activity_id);

CREATE TABLE IF NOT EXISTS apps (
	client_id TEXT PRIMARY KEY,
	name      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS group_coordinators (
	group_id  BIGINT NOT NULL,
	person_id BIGINT NOT NULL,
	position  BIGSERIAL,
	PRIMARY KEY (group_id, person_id)
);

CREATE TABLE IF NOT EXISTS group_members (
	group_id     BIGINT NOT NULL,
	person_id    BIGINT NOT NULL,
	unrestricted BOOLEAN NOT NULL DEFAULT FALSE,
	position     BIGSERIAL,
	PRIMARY KEY (group_id, person_id)
);

CREATE TABLE IF NOT EXISTS stream_subscriptions (
	person_id     BIGINT NOT NULL,
	subscriber_id BIGINT NOT NULL,
	position      BIGSERIAL,
	PRIMARY KEY (person_id, subscriber_id)
);

CREATE TABLE IF NOT EXISTS saved_activities (
	activity_id BIGINT NOT NULL,
	person_id   BIGINT NOT NULL,
	position    BIGSERIAL,
	PRIMARY KEY (activity_id, person_id)
);

CREATE TABLE IF NOT EXISTS system_admins (
	person_id BIGINT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key        TEXT PRIMARY KEY,
	response   BYTEA,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox_events (
	id           TEXT PRIMARY KEY,
	topic        TEXT NOT NULL,
	payload      BYTEA NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox_events(created_at) WHERE processed_at IS NULL;
`

// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package database

// schema is the idempotent database schema. It is applied on every Open;
// CREATE TABLE IF NOT EXISTS makes reapplication a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'PENDING',
	manager_id  INTEGER NOT NULL REFERENCES users(id),
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS project_members (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role       TEXT NOT NULL DEFAULT 'MEMBER',
	created_at DATETIME NOT NULL,
	UNIQUE(project_id, user_id)
);

CREATE TABLE IF NOT EXISTS tasks (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'PENDING',
	priority         TEXT NOT NULL DEFAULT 'MEDIUM',
	due_date         DATETIME,
	assigned_user_id INTEGER REFERENCES users(id),
	project_id       INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	created_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assigned_user_id);

CREATE TABLE IF NOT EXISTS comments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	message    TEXT NOT NULL,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	task_id    INTEGER REFERENCES tasks(id) ON DELETE CASCADE,
	project_id INTEGER REFERENCES projects(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	CHECK ((task_id IS NULL) != (project_id IS NULL))
);

CREATE TABLE IF NOT EXISTS project_invitations (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id      INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	invited_user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	invited_by_id   INTEGER NOT NULL REFERENCES users(id),
	status          TEXT NOT NULL DEFAULT 'PENDING',
	created_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invitations_user ON project_invitations(invited_user_id, status);

CREATE TABLE IF NOT EXISTS notifications (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	message      TEXT NOT NULL,
	type         TEXT NOT NULL DEFAULT 'GENERAL',
	recipient_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	read         INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, read);

CREATE TABLE IF NOT EXISTS password_reset_tokens (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	email      TEXT NOT NULL,
	otp        TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	used       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reset_tokens_email ON password_reset_tokens(email);
`

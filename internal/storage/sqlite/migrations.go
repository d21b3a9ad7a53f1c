package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: users and groups must be created before the tables that reference them.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS push_tokens (
    user_id TEXT NOT NULL,
    token TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, token),
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 0,
    active_until INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_photos (
    group_id TEXT NOT NULL,
    photo_url TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, photo_url),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_invites (
    code TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS swipes (
    swiper_group_id TEXT NOT NULL,
    swiped_group_id TEXT NOT NULL,
    liked INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (swiper_group_id, swiped_group_id),
    FOREIGN KEY (swiper_group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (swiped_group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    group_1 TEXT NOT NULL,
    group_2 TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    CHECK (group_1 <> group_2),
    FOREIGN KEY (group_1) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (group_2) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_id INTEGER NOT NULL,
    sender_id TEXT NOT NULL,
    content TEXT NOT NULL,
    client_id TEXT,
    sent_at INTEGER NOT NULL,
    FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
    FOREIGN KEY (sender_id) REFERENCES users(id)
);

-- A match is unique per unordered pair of groups.
CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_pair ON matches(min(group_1, group_2), max(group_1, group_2));

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_groups_active ON groups(is_active, active_until);
CREATE INDEX IF NOT EXISTS idx_swipes_swiped ON swipes(swiped_group_id, swiper_group_id);
CREATE INDEX IF NOT EXISTS idx_matches_group_2 ON matches(group_2);
CREATE INDEX IF NOT EXISTS idx_messages_match_sent ON messages(match_id, sent_at DESC, id DESC);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

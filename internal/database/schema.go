package database

// Schema is the complete current schema, kept in lockstep with the migration
// files. Tests apply it directly to in-memory databases instead of running
// the migration chain.
const Schema = `
CREATE TABLE categories (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    color      TEXT NOT NULL,
    icon       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    is_default BOOLEAN NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE screenshots (
    id             TEXT PRIMARY KEY,
    file_name      TEXT NOT NULL,
    checksum       TEXT NOT NULL,
    size           INTEGER NOT NULL,
    width          INTEGER NOT NULL,
    height         INTEGER NOT NULL,
    created_at     TIMESTAMP NOT NULL,
    modified_at    TIMESTAMP NOT NULL,
    ai_description TEXT NOT NULL DEFAULT '',
    confidence     REAL NOT NULL DEFAULT 0,
    favorite       BOOLEAN NOT NULL DEFAULT 0,
    note           TEXT NOT NULL DEFAULT '',
    category_id    TEXT REFERENCES categories(id)
);

CREATE INDEX idx_screenshots_checksum ON screenshots(checksum);
CREATE INDEX idx_screenshots_category ON screenshots(category_id);

CREATE TABLE screenshot_tags (
    screenshot_id TEXT NOT NULL REFERENCES screenshots(id) ON DELETE CASCADE,
    tag           TEXT NOT NULL,
    PRIMARY KEY (screenshot_id, tag)
);

CREATE TABLE profile (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    name            TEXT NOT NULL DEFAULT '',
    email           TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL,
    onboarding_done BOOLEAN NOT NULL DEFAULT 0
);
`

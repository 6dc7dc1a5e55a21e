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

CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS template_items (
	id          TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	text        TEXT NOT NULL,
	sort_order  INTEGER NOT NULL DEFAULT 0,
	category    TEXT,
	priority    TEXT CHECK(priority IS NULL OR priority IN ('low', 'medium', 'high')),
	assignee    TEXT,
	due_date    DATETIME,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_template_items_template_id ON template_items(template_id);
CREATE INDEX IF NOT EXISTS idx_template_items_sort_order ON template_items(template_id, sort_order);
CREATE INDEX IF NOT EXISTS idx_templates_updated_at ON templates(updated_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS user_lists (
	id           TEXT PRIMARY KEY,
	template_id  TEXT,
	title        TEXT NOT NULL,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS user_list_items (
	id           TEXT PRIMARY KEY,
	user_list_id TEXT NOT NULL REFERENCES user_lists(id) ON DELETE CASCADE,
	list_item_id TEXT,
	text         TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	sort_order   INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_lists_template_id ON user_lists(template_id);
CREATE INDEX IF NOT EXISTS idx_user_lists_updated_at ON user_lists(updated_at);
CREATE INDEX IF NOT EXISTS idx_user_lists_completed_at ON user_lists(completed_at);
CREATE INDEX IF NOT EXISTS idx_user_list_items_user_list_id ON user_list_items(user_list_id);
CREATE INDEX IF NOT EXISTS idx_user_list_items_list_item_id ON user_list_items(list_item_id);
CREATE INDEX IF NOT EXISTS idx_user_list_items_sort_order ON user_list_items(user_list_id, sort_order);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

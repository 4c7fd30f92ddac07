// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the training_data table with its uploaded flag.
package storage

// initSchema creates the database schema if absent. Safe to run repeatedly.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS training_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		distance INTEGER NOT NULL,
		time TEXT NOT NULL,
		pairs INTEGER NOT NULL,
		stroke_count INTEGER NOT NULL,
		stroke_rate INTEGER NOT NULL,
		remarks TEXT NOT NULL DEFAULT 'NIL',
		uploaded BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_training_uploaded ON training_data(uploaded);
	`

	_, err := d.db.Exec(schema)
	return err
}

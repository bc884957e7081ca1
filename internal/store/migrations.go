package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Categories table - the drawable word list, ordered by position
		// to stay index-aligned with the classifier's output vector.
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - tunable parameters overridden at runtime.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_categories_position ON categories(position)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

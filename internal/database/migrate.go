package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration is one numbered, idempotent schema step. Steps are applied in
// order and recorded in schema_migrations, replacing the original
// probe-column-and-alter strategy with a deterministic list. The schema is
// additive-only: columns are appended, never removed or renamed, so database
// files written by older revisions stay readable.
type Migration struct {
	Version int
	Name    string
	Run     func(tx *gorm.DB) error
}

type schemaMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

func migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create base tables",
			Run: func(tx *gorm.DB) error {
				if err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS users (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						username TEXT UNIQUE NOT NULL,
						password TEXT NOT NULL,
						role TEXT DEFAULT 'user',
						email TEXT,
						full_name TEXT,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						last_login TIMESTAMP
					)`).Error; err != nil {
					return err
				}
				return tx.Exec(`
					CREATE TABLE IF NOT EXISTS credentials (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						title TEXT NOT NULL,
						username TEXT NOT NULL,
						password TEXT NOT NULL,
						category TEXT DEFAULT 'Student',
						owner_id INTEGER,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (owner_id) REFERENCES users (id)
					)`).Error
			},
		},
		{
			Version: 2,
			Name:    "add attachments column",
			Run: func(tx *gorm.DB) error {
				return addColumn(tx, "credentials", "attachments", "TEXT")
			},
		},
		{
			Version: 3,
			Name:    "add name columns",
			Run: func(tx *gorm.DB) error {
				for _, column := range []string{"first_name", "middle_name", "last_name"} {
					if err := addColumn(tx, "credentials", column, "TEXT"); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: 4,
			Name:    "add graduate fields",
			Run: func(tx *gorm.DB) error {
				columns := []string{"last_school_year", "contact_number", "so_number", "date_issued", "series_year"}
				for _, column := range columns {
					if err := addColumn(tx, "credentials", column, "TEXT"); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version: 5,
			Name:    "add learner reference number",
			Run: func(tx *gorm.DB) error {
				return addColumn(tx, "credentials", "lrn", "TEXT")
			},
		},
		{
			Version: 6,
			Name:    "reconcile legacy category values",
			Run: func(tx *gorm.DB) error {
				return tx.Exec(`UPDATE credentials SET category = 'Active' WHERE category IN ('Student', 'Undergraduate')`).Error
			},
		},
	}
}

// Migrate applies every unapplied migration in order. Safe to call on every
// process start; a fully migrated database is a no-op. Database files written
// by earlier revisions (which predate schema_migrations) are adopted: each
// column addition is guarded by a presence check, so replaying the list over
// an already-evolved schema only records the versions.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}

	for _, m := range migrations() {
		var applied int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", m.Version).Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		migration := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// SchemaVersion reports the highest applied migration version.
func SchemaVersion(db *gorm.DB) (int, error) {
	var version *int
	if err := db.Model(&schemaMigration{}).Select("MAX(version)").Scan(&version).Error; err != nil {
		return 0, err
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

func addColumn(tx *gorm.DB, table, column, ddl string) error {
	var present int64
	probe := fmt.Sprintf("SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?", table)
	if err := tx.Raw(probe, column).Scan(&present).Error; err != nil {
		return err
	}
	if present > 0 {
		return nil
	}
	return tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)).Error
}

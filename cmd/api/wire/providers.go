package wire

import (
	"sync"
	"time"

	"formfield-server/cmd/config"
	"formfield-server/internal/infra/sql"
)

var (
	ormOnce     sync.Once
	ormInstance sql.ORM
	ormErr      error
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

// provideORM opens the database once and hands the same handle to every
// injector. An empty DSN selects the in-memory database, used for local runs.
func provideORM(cfg config.AppConfig) (sql.ORM, error) {
	ormOnce.Do(func() {
		if cfg.Postgresql.DSN == "" {
			ormInstance, ormErr = sql.NewMemoryORM()
			return
		}

		// The maintenance pool retries until postgres accepts connections,
		// so the gorm handle below opens against a ready database.
		db := sql.NewPosgreDatabase(cfg.Postgresql.URL)
		if ormErr = db.Open(); ormErr != nil {
			return
		}
		db.Close()

		ormInstance, ormErr = sql.NewPosgreORM(cfg.Postgresql.DSN)
	})

	return ormInstance, ormErr
}

func provideMigrationTicker(cfg config.AppConfig) *time.Ticker {
	interval := time.Duration(cfg.Migration.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return time.NewTicker(interval)
}

func provideMigrationSchedule(cfg config.AppConfig) string {
	return cfg.Migration.Schedule
}

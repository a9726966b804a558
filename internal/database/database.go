package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the cgo-free "sqlite" driver
)

// Connect opens the remote Postgres when given a postgres DSN, otherwise a
// local SQLite file (the on-device store). The pure-Go sqlite driver keeps
// the binary cgo-free on mobile build hosts.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("database: connecting to postgres")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	log.Println("database: opening local sqlite store:", dsn)

	// busy_timeout lets concurrent enqueue/drain writers wait instead of
	// failing with SQLITE_BUSY.
	if !strings.Contains(dsn, "_pragma") && !strings.Contains(dsn, ":memory:") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
}

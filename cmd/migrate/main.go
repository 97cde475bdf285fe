package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"threadstory-be/internal/config"
	"threadstory-be/internal/db"
	"threadstory-be/internal/logger"
	"threadstory-be/internal/mongostore"
	"threadstory-be/internal/product"
	"threadstory-be/internal/user"

	"go.uber.org/zap"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
`

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or seed")
	dir := flag.String("dir", "./migrations", "directory holding *.sql migrations")
	sample := flag.Bool("sample", false, "with -mode seed, also load the sample catalog into an empty store")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := context.Background()
	admin := adminSeed{Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword}

	if cfg.DBDriver == config.DriverMongo {
		client, database := db.InitMongo(cfg)
		defer client.Disconnect(ctx)

		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			logger.L().Fatal("failed to create indexes", zap.Error(err))
		}
		logger.L().Info("mongo indexes ensured", zap.String("database", cfg.MongoDatabase))

		if *mode == "seed" {
			users := mongostore.NewUserRepository(database)
			products := mongostore.NewProductRepository(database)
			if err := runSeed(ctx, users, products, admin, *sample); err != nil {
				logger.L().Fatal("seed failed", zap.Error(err))
			}
		}
		return
	}

	database := db.InitDB(cfg)
	defer database.Close()

	if *mode == "seed" {
		err := runSeed(ctx, user.NewRepository(database), product.NewRepository(database), admin, *sample)
		if err != nil {
			logger.L().Fatal("seed failed", zap.Error(err))
		}
		return
	}

	if err := run(ctx, database, *mode, *dir); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

func run(ctx context.Context, db *sql.DB, mode, migrationsDir string) error {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)

	switch mode {
	case "up":
		return runMigrationsUp(ctx, db, files)
	case "down":
		return runMigrationsDown(ctx, db, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up', 'down' or 'seed')", mode)
	}
}

// runMigrationsUp applies every file not yet recorded. Each file and its
// version row are committed together.
func runMigrationsUp(ctx context.Context, db *sql.DB, files []string) error {
	log := logger.L()

	applied := 0
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		err = inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, extractMigrationPart(string(content), "Up")); err != nil {
				return fmt.Errorf("migration %s failed: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("failed to record migration version: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		applied++
	}

	log.Info("migrations applied", zap.Int("count", applied))
	return nil
}

// runMigrationsDown rolls back the most recently applied migration.
func runMigrationsDown(ctx context.Context, db *sql.DB, files []string) error {
	log := logger.L()

	var lastVersion string
	err := db.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
	).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	filePath := ""
	for _, f := range files {
		if filepath.Base(f) == lastVersion {
			filePath = f
			break
		}
	}
	if filePath == "" {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	log.Info("rolling back migration", zap.String("version", lastVersion))
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, extractMigrationPart(string(content), "Down")); err != nil {
			return fmt.Errorf("rollback of %s failed: %w", lastVersion, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, lastVersion); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// extractMigrationPart returns the lines between "-- +migrate <section>" and
// the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	inPart := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}

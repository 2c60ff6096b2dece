// In file: cmd/seeder/main.go

// Package main implements the menu seeder, an offline command-line tool that applies the schema
// and loads the seed catalogue from a YAML file into an empty menus table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
	"github.com/dileep-u-k/cafe-gateway/internal/database"
	"github.com/dileep-u-k/cafe-gateway/internal/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// =================================================================================
// Configuration
// =================================================================================

const defaultMenuFile = "data/menu.yaml"

type Config struct {
	DatabaseURL string
	RedisAddr   string
	MenuFile    string
	Force       bool
}

func loadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found. Relying on environment variables.")
	}

	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	file := fs.String("file", defaultMenuFile, "YAML file with the seed menu")
	force := fs.Bool("force", false, "insert even when the menus table already has rows")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		MenuFile:    *file,
		Force:       *force,
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// =================================================================================
// Seed file
// =================================================================================

type seedMenu struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Price       int64    `yaml:"price"`
	Image       string   `yaml:"image"`
	Status      string   `yaml:"status"`
	Variants    []string `yaml:"variants"`
}

type seedFile struct {
	Menus []seedMenu `yaml:"menus"`
}

// parseSeedFile decodes and validates the seed catalogue.
func parseSeedFile(raw []byte) ([]catalog.MenuItem, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(file.Menus) == 0 {
		return nil, errors.New("seed file has no menus")
	}

	seen := make(map[string]bool, len(file.Menus))
	items := make([]catalog.MenuItem, 0, len(file.Menus))
	for i, m := range file.Menus {
		name := strings.TrimSpace(m.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("menu #%d has no name", i+1)
		case strings.TrimSpace(m.Category) == "":
			return nil, fmt.Errorf("menu %q has no category", name)
		case m.Price < 0:
			return nil, fmt.Errorf("menu %q has a negative price", name)
		case seen[strings.ToLower(name)]:
			return nil, fmt.Errorf("menu %q is listed twice", name)
		}
		seen[strings.ToLower(name)] = true

		status := catalog.Status(m.Status)
		if status == "" {
			status = catalog.StatusReady
		}
		if !status.Valid() {
			return nil, fmt.Errorf("menu %q has invalid status %q", name, m.Status)
		}
		items = append(items, catalog.MenuItem{
			Name:        name,
			Category:    strings.TrimSpace(m.Category),
			Description: m.Description,
			Price:       m.Price,
			Image:       m.Image,
			Status:      status,
			Variants:    m.Variants,
		})
	}
	return items, nil
}

// =================================================================================
// Seeder
// =================================================================================

type Seeder struct {
	store  catalog.Store
	logger logger.Logger
}

// Seed inserts items unless the catalog already has rows and force is false. It returns the
// number of rows written.
func (s *Seeder) Seed(ctx context.Context, items []catalog.MenuItem, force bool) (int, error) {
	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		s.logger.Info("menus table is not empty, skipping", map[string]interface{}{"existing": len(existing)})
		return 0, nil
	}

	for i := range items {
		if err := s.store.Create(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("failed to insert %q: %w", items[i].Name, err)
		}
		s.logger.Debug("menu inserted", map[string]interface{}{"id": items[i].ID, "name": items[i].Name})
	}
	return len(items), nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Configuration Error: %v", err)
	}
	appLog, err := logger.NewStructured(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync() //nolint:errcheck

	raw, err := os.ReadFile(cfg.MenuFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.MenuFile, err)
	}
	items, err := parseSeedFile(raw)
	if err != nil {
		log.Fatalf("Invalid seed file %s: %v", cfg.MenuFile, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbCfg := database.DefaultConfig()
	dbCfg.DSN = cfg.DatabaseURL
	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Writes go through the cache so a running gateway drops its stale snapshot.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	store := catalog.NewCachedStore(catalog.NewPostgresStore(db), rdb, time.Minute, appLog)

	seeder := &Seeder{store: store, logger: appLog}
	n, err := seeder.Seed(ctx, items, cfg.Force)
	if err != nil {
		log.Fatalf("Seeding failed after %d rows: %v", n, err)
	}
	appLog.Info("seeding finished", map[string]interface{}{"inserted": n, "file": cfg.MenuFile})
}

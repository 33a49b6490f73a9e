package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"samajsetu/internal/member"
	"samajsetu/internal/platform/config"
	"samajsetu/internal/platform/logger"
	"samajsetu/internal/seed"
)

// seed fills the configured database with sample families for demos and
// manual testing.
func main() {
	families := flag.Int("families", 20, "number of families to generate")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required for seeding")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := member.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	gen := seed.NewGenerator(member.NewPostgres(db), *randSeed, log)
	created, err := gen.Generate(ctx, *families)
	if err != nil {
		log.Error("seeding failed", "error", err, "members_created", created)
		os.Exit(1)
	}
	log.Info("seeding complete", "members_created", created)
}

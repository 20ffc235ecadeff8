// seed creates a verified admin account and a small content tree in the
// local dev database. Re-running it is safe.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultAdminEmail    = "admin@guide.local"
	defaultAdminPassword = "change-me-please"
)

type section struct {
	name    string
	content string
	subs    map[string]string
}

var sections = []section{
	{
		name:    "Getting started",
		content: "Welcome to the guide.",
		subs: map[string]string{
			"Creating an account": "Sign up with your email address, then follow the link we send you.",
			"Signing in":          "Use the address and password you registered with.",
		},
	},
	{
		name:    "Your library",
		content: "Keep notes, answers and bookmarks next to any post.",
	},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}
	email := envOr("SEED_ADMIN_EMAIL", defaultAdminEmail)
	password := envOr("SEED_ADMIN_PASSWORD", defaultAdminPassword)

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	digest, err := auth.NewHasher(auth.DefaultParams).Hash(ctx, password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, name, hashed_password, is_verified, is_admin)
		VALUES ($1, 'Admin', $2, TRUE, TRUE)
		ON CONFLICT (lower(email)) DO UPDATE
		SET hashed_password = EXCLUDED.hashed_password, is_admin = TRUE, is_verified = TRUE, updated_at = NOW()
		RETURNING id`,
		email, digest,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert admin: %v", err)
	}

	var created int
	for _, s := range sections {
		n, err := seedSection(ctx, pool, s)
		if err != nil {
			log.Fatalf("seed %q: %v", s.name, err)
		}
		created += n
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:      %s (id %d)\n", email, userID)
	fmt.Printf("  Categories: %d created\n", created)
	fmt.Println()
	fmt.Println("Sign in as admin:")
	fmt.Println()
	fmt.Printf("  curl -s -X POST 'http://localhost:8080/auth/signin?as_admin=true' \\\n")
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", email, password)
}

// seedSection inserts a category with its posts unless one with the same
// name already exists. It reports how many categories it created.
func seedSection(ctx context.Context, pool *pgxpool.Pool, s section) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, s.name).Scan(&exists); err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	var categoryID int64
	if err := tx.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, s.name).Scan(&categoryID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO posts (category_id, content) VALUES ($1, $2)`, categoryID, s.content); err != nil {
		return 0, err
	}

	for name, content := range s.subs {
		var subID int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO subcategories (category_id, name) VALUES ($1, $2) RETURNING id`,
			categoryID, name,
		).Scan(&subID); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO posts (category_id, subcategory_id, content) VALUES ($1, $2, $3)`,
			categoryID, subID, content,
		); err != nil {
			return 0, err
		}
	}

	return 1, tx.Commit(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

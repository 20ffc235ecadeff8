// migrate runs the embedded goose migrations against DATABASE_URL.
// Usage: go run ./cmd/migrate [up|down|status|version|redo|reset|up-to N|down-to N]
package main

import (
	"context"
	"log"
	"os"

	"github.com/ErlanBelekov/guide-api/internal/infrastructure/postgres"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
		log.Fatalf("%v", err)
	}
}

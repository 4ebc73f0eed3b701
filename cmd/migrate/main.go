// Command migrate applies or reverts the schema migrations outside the server
// boot path, for deploy pipelines that run DDL as a separate step.
//
// Usage:
//
//	migrate up
//	migrate down [target-version]
//
// "down" with no target reverts everything. Shared enum types survive a full
// down so other tables referencing them keep working.
package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/My-riad/jit-tdexn2-sub003/database"
	"github.com/My-riad/jit-tdexn2-sub003/internal/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate up|down [target-version]")
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found - using environment variables")
	}

	database.Connect()
	runner := migrations.NewRunner(database.DB)
	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		if err := runner.Up(ctx); err != nil {
			log.Fatal("migrate up failed: ", err)
		}
		log.Println("Migrations applied")
	case "down":
		target := 0
		if len(os.Args) > 2 {
			var err error
			target, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatal("target version must be an integer: ", err)
			}
		}
		if err := runner.Down(ctx, target); err != nil {
			log.Fatal("migrate down failed: ", err)
		}
		log.Println("Migrations reverted")
	default:
		log.Fatalf("unknown command %q (want up or down)", os.Args[1])
	}
}

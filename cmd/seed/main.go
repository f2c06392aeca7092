// Command seed fills the board database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"numbertalk/internal/config"
	"numbertalk/internal/database"
	"numbertalk/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 20, "Number of posts to create")
	comments := flag.Int("comments", 6, "Comments per post")
	discussions := flag.Int("discussions", 8, "Number of discussions to start")
	steps := flag.Int("steps", 5, "Operations per discussion")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	fixture := flag.String("fixture", "", "Load a YAML fixture instead of random data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	s := seed.NewSeeder(db, cfg.BcryptCost)

	if *shouldClean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var sum *seed.Summary
	if *fixture != "" {
		f, err := os.Open(*fixture)
		if err != nil {
			log.Fatalf("Failed to open fixture: %v", err)
		}
		parsed, err := seed.LoadFixture(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("Failed to read fixture: %v", err)
		}
		sum, err = s.Apply(ctx, parsed)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		sum, err = s.Random(ctx, seed.Options{
			Users:              *numUsers,
			Posts:              *numPosts,
			CommentsPerPost:    *comments,
			Discussions:        *discussions,
			StepsPerDiscussion: *steps,
			Seed:               *randSeed,
		})
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("Generated users share the password %q", seed.DefaultPassword)
	}

	log.Printf("Seeded %s", sum)
}

// Command seed fills the configured store with fake users, posts, comments and likes.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"blog/internal/config"
	"blog/internal/seed"
	"blog/internal/server"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "Number of posts to create")
	flag.IntVar(&opts.MaxComments, "comments", opts.MaxComments, "Maximum comments per post")
	flag.IntVar(&opts.MaxLikes, "likes", opts.MaxLikes, "Maximum likes per post")
	flag.Int64Var(&opts.Seed, "seed", 0, "Random seed (0 = time based)")
	flag.BoolVar(&opts.SkipBcrypt, "fast", false, "Skip bcrypt hashing; seeded users cannot log in")
	flag.Parse()

	log.Printf("Seeding %d users and %d posts", opts.Users, opts.Posts)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production store")
	}

	store, err := server.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := seed.NewSeeder(store, opts).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d comments, %d likes",
		len(res.Users), len(res.Posts), res.Comments, res.Likes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}

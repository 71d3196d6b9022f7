// Command seed populates the database with demo data for development.
package main

import (
	"flag"
	"log"

	"tastr/internal/config"
	"tastr/internal/database"
	"tastr/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numRestaurants := flag.Int("restaurants", 40, "Number of restaurants to create")
	reviewsPerUser := flag.Int("reviews", 8, "Reviews per user")
	followProbability := flag.Float64("follow-prob", 0.2, "Probability of a follow edge between any two users")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fastPasswords := flag.Bool("fast-passwords", false, "Skip bcrypt hashing for faster seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d restaurants, %d reviews/user, clean=%v\n",
		*numUsers, *numRestaurants, *reviewsPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.Users = *numUsers
	opts.Restaurants = *numRestaurants
	opts.ReviewsPerUser = *reviewsPerUser
	opts.FollowProbability = *followProbability
	opts.SkipBcrypt = *fastPasswords

	seeder := seed.NewSeeder(db, opts)

	if *shouldClean {
		if err := seeder.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := seeder.Run(cfg.CuisineFile); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}

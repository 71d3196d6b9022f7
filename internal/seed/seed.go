package seed

import (
	"fmt"
	"log"

	"tastr/internal/listing"
	"tastr/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		opts:    opts,
	}
}

// ClearAll removes all seedable data. Delete order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"reviews",
		"want_to_try",
		"favorites",
		"followers",
		"restaurant_cuisines",
		"restaurants",
		"cuisines",
		"profiles",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds cuisines, users, restaurants, reviews and a follow mesh.
func (s *Seeder) Run(cuisineFile string) error {
	log.Println("Starting database seeding...")

	cuisines, err := s.seedCuisines(cuisineFile)
	if err != nil {
		return fmt.Errorf("failed to seed cuisines: %w", err)
	}
	log.Printf("Seeded %d cuisines", len(cuisines))

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	restaurants := make([]*models.Restaurant, 0, s.opts.Restaurants)
	for i := 0; i < s.opts.Restaurants; i++ {
		restaurant, err := s.factory.CreateRestaurant(cuisines)
		if err != nil {
			return fmt.Errorf("failed to create restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	log.Printf("Created %d restaurants", len(restaurants))

	follows, err := s.seedFollowMesh(users)
	if err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}
	log.Printf("Created %d follow edges", follows)

	reviews := 0
	for _, user := range users {
		for i := 0; i < s.opts.ReviewsPerUser; i++ {
			restaurant := restaurants[s.factory.rand.Intn(len(restaurants))]
			if _, err := s.factory.CreateReview(user, restaurant); err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
			reviews++
		}
	}
	log.Printf("Created %d reviews", reviews)

	log.Println("Database seeding completed")
	return nil
}

// seedCuisines loads the taxonomy file and upserts cuisine rows from it.
func (s *Seeder) seedCuisines(cuisineFile string) ([]models.Cuisine, error) {
	taxonomy, err := listing.LoadTaxonomyFile(cuisineFile)
	if err != nil {
		return nil, err
	}

	records := taxonomy.Cuisines()
	cuisines := make([]models.Cuisine, 0, len(records))
	for _, record := range records {
		cuisine := models.Cuisine{Name: record.Name}
		for i, cat := range record.Categories {
			cuisine.SetCategory(i, cat)
		}
		if err := s.db.Where("name = ?", cuisine.Name).FirstOrCreate(&cuisine).Error; err != nil {
			return nil, err
		}
		cuisines = append(cuisines, cuisine)
	}
	return cuisines, nil
}

// seedFollowMesh wires a sparse random follow graph between users.
func (s *Seeder) seedFollowMesh(users []*models.User) (int, error) {
	created := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if s.factory.rand.Float64() >= s.opts.FollowProbability {
				continue
			}
			if err := s.factory.CreateFollow(follower.ID, followee.ID); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

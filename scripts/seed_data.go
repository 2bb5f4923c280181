package main

import (
	"log"

	"smarthire/internal/config"
	"smarthire/internal/repositories"
)

func main() {
	log.Println("🚀 Seeding initial data...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	questionRepo := repositories.NewQuestionRepository(db)
	positionRepo := repositories.NewPositionRepository(db)

	// Interview question bank
	questions := []struct {
		Order int
		Text  string
	}{
		{1, "Tell me about yourself and your background."},
		{2, "Why should we hire you for this position?"},
		{3, "Where do you see yourself five years from now?"},
	}

	for _, q := range questions {
		if _, err := questionRepo.GetOrCreate(q.Text, q.Order); err != nil {
			log.Fatalf("❌ Failed to seed question %d: %v", q.Order, err)
		}
	}
	log.Printf("✅ Interview questions seeded (%d)\n", len(questions))

	// Job positions
	positions := []struct {
		Title       string
		Department  string
		Description string
	}{
		{"Software Development Engineer", "Engineering", "Full-stack development role with focus on web technologies."},
		{"Data Scientist", "Analytics", "ML and data analysis role with Python expertise."},
		{"Product Manager", "Product", "Lead product development and strategy."},
		{"DevOps Engineer", "Operations", "Infrastructure and CI/CD pipeline management."},
	}

	for _, p := range positions {
		if _, err := positionRepo.GetOrCreate(p.Title, p.Department, p.Description, ""); err != nil {
			log.Fatalf("❌ Failed to seed position %q: %v", p.Title, err)
		}
	}
	log.Printf("✅ Job positions seeded (%d)\n", len(positions))

	log.Println("✅ Initial data setup complete")
}

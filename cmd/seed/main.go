package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gymstudio/internal/database"
	"gymstudio/internal/domain"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	capTen := 10
	events := []domain.Event{
		{
			Title:       "Open Training Day",
			Slug:        "open-training-day",
			StartsAt:    time.Now().AddDate(0, 0, 7),
			EndsAt:      time.Now().AddDate(0, 0, 7).Add(3 * time.Hour),
			Price:       0,
			MaxCapacity: &capTen,
			Active:      true,
		},
		{
			Title:    "Strength Foundations Workshop",
			Slug:     "strength-foundations",
			StartsAt: time.Now().AddDate(0, 0, 14),
			EndsAt:   time.Now().AddDate(0, 0, 14).Add(2 * time.Hour),
			Price:    999,
			Active:   true,
		},
	}
	for i := range events {
		res := db.Where("slug = ?", events[i].Slug).FirstOrCreate(&events[i])
		if res.Error != nil {
			log.Fatalf("seed event %s failed: %v", events[i].Slug, res.Error)
		}
	}

	clients := []domain.Client{
		{Name: "Aida Bekova", Phone: "+77000001122", Email: "aida@example.com"},
		{Name: "Daniyar Serik", Phone: "+77000003344"},
	}
	for i := range clients {
		res := db.Where("phone = ?", clients[i].Phone).FirstOrCreate(&clients[i])
		if res.Error != nil {
			log.Fatalf("seed client %s failed: %v", clients[i].Phone, res.Error)
		}
	}

	log.Printf("seed completed: events=%d clients=%d", len(events), len(clients))
}

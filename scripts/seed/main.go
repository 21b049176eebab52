// Package main implements a standalone seed script that populates the
// proshop database with sample users and products for local development.
//
// Run: go run ./scripts/seed
// Run: go run ./scripts/seed -destroy   (wipe seeded collections instead)
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Michael-Parekh/proshop/internal/config"
	"github.com/Michael-Parekh/proshop/internal/domain"
	"github.com/Michael-Parekh/proshop/internal/repository/mongodb"
	"github.com/Michael-Parekh/proshop/pkg/database"
)

func main() {
	destroy := flag.Bool("destroy", false, "drop the seeded collections instead of inserting data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewMongoDatabase(ctx, database.DefaultMongoConfig(cfg.MongoURI, cfg.MongoDB))
	if err != nil {
		log.Fatalf("connect to mongo: %v", err)
	}
	defer func() {
		_ = database.CloseMongo(context.Background(), db)
	}()

	if *destroy {
		for _, name := range []string{"users", "products", "orders"} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Fatalf("drop %s: %v", name, err)
			}
		}
		log.Println("data destroyed")
		return
	}

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure user indexes: %v", err)
	}

	// All sample accounts share the password "123456".
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), 10)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := []*domain.User{
		{Name: "Admin User", Email: "admin@example.com", PasswordHash: string(hash), IsAdmin: true},
		{Name: "John Doe", Email: "john@example.com", PasswordHash: string(hash)},
		{Name: "Jane Doe", Email: "jane@example.com", PasswordHash: string(hash)},
	}
	for _, user := range users {
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("create user %s: %v", user.Email, err)
		}
	}
	admin := users[0]
	log.Printf("seeded %d users (admin: %s)", len(users), admin.Email)

	products := []*domain.Product{
		{
			Name:         "Airpods Wireless Bluetooth Headphones",
			Image:        "/images/airpods.jpg",
			Brand:        "Apple",
			Category:     "Electronics",
			Description:  "Bluetooth technology lets you connect it with compatible devices wirelessly. High-quality AAC audio offers immersive listening experience.",
			Price:        89.99,
			CountInStock: 10,
		},
		{
			Name:         "iPhone 11 Pro 256GB Memory",
			Image:        "/images/phone.jpg",
			Brand:        "Apple",
			Category:     "Electronics",
			Description:  "Introducing the iPhone 11 Pro. A transformative triple-camera system that adds tons of capability without complexity.",
			Price:        599.99,
			CountInStock: 7,
		},
		{
			Name:         "Cannon EOS 80D DSLR Camera",
			Image:        "/images/camera.jpg",
			Brand:        "Cannon",
			Category:     "Electronics",
			Description:  "Characterized by versatile imaging specs, the Canon EOS 80D further clarifies itself using a pair of robust focusing systems.",
			Price:        929.99,
			CountInStock: 5,
		},
		{
			Name:         "Sony Playstation 4 Pro White Version",
			Image:        "/images/playstation.jpg",
			Brand:        "Sony",
			Category:     "Electronics",
			Description:  "The ultimate home entertainment center starts with PlayStation. Whether you are into gaming, HD movies, television, or music.",
			Price:        399.99,
			CountInStock: 11,
		},
		{
			Name:         "Logitech G-Series Gaming Mouse",
			Image:        "/images/mouse.jpg",
			Brand:        "Logitech",
			Category:     "Electronics",
			Description:  "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse. Six programmable buttons allow customization.",
			Price:        49.99,
			CountInStock: 7,
		},
		{
			Name:         "Amazon Echo Dot 3rd Generation",
			Image:        "/images/alexa.jpg",
			Brand:        "Amazon",
			Category:     "Electronics",
			Description:  "Meet Echo Dot, our most popular smart speaker with a fabric design. It is our most compact smart speaker that fits perfectly into small spaces.",
			Price:        29.99,
			CountInStock: 0,
		},
	}
	for _, product := range products {
		product.User = admin.ID
		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatalf("create product %s: %v", product.Name, err)
		}
	}
	log.Printf("seeded %d products", len(products))
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/chatori/chatori-backend/internal/adapters/database"
	"github.com/chatori/chatori-backend/internal/adapters/search"
	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/typesense"
	"github.com/chatori/chatori-backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS stalls (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	dish_type     TEXT NOT NULL DEFAULT '',
	area          TEXT NOT NULL DEFAULT '',
	latitude      DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude     DOUBLE PRECISION NOT NULL DEFAULT 0,
	images        TEXT[] NOT NULL DEFAULT '{}',
	description   TEXT NOT NULL DEFAULT '',
	opening_hours TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	owner_name    TEXT NOT NULL DEFAULT '',
	rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
	num_ratings   INTEGER NOT NULL DEFAULT 0,
	created_by    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL DEFAULT '',
	profile_image_url TEXT NOT NULL DEFAULT '',
	bio               TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS reviews (
	id                     TEXT PRIMARY KEY,
	stall_id               TEXT NOT NULL REFERENCES stalls(id),
	user_id                TEXT NOT NULL REFERENCES users(id),
	rating                 DOUBLE PRECISION NOT NULL,
	comment                TEXT NOT NULL DEFAULT '',
	user_name              TEXT NOT NULL DEFAULT '',
	user_profile_image_url TEXT NOT NULL DEFAULT '',
	stall_name             TEXT NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_favorites (
	user_id    TEXT NOT NULL REFERENCES users(id),
	stall_id   TEXT NOT NULL REFERENCES stalls(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, stall_id)
);

CREATE TABLE IF NOT EXISTS dishes (
	id         TEXT PRIMARY KEY,
	stall_id   TEXT NOT NULL REFERENCES stalls(id),
	name       TEXT NOT NULL,
	tags       TEXT[] NOT NULL DEFAULT '{}',
	price      TEXT NOT NULL DEFAULT '',
	image_url  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reviews_stall_id ON reviews(stall_id);
CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id);
CREATE INDEX IF NOT EXISTS idx_dishes_stall_id ON dishes(stall_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				user_favorites,
				reviews,
				dishes,
				stalls,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Failed to init Typesense schema: %v", err)
		}
	}

	stallRepo := database.NewStallAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	dishRepo := database.NewDishAdapter(pgClient)

	discoveryService := services.NewDiscoveryService()
	var stallService *services.StallService
	if searchRepo != nil {
		stallService = services.NewStallService(stallRepo, searchRepo, discoveryService, nil)
	} else {
		stallService = services.NewStallService(stallRepo, nil, discoveryService, nil)
	}
	reviewService := services.NewReviewService(reviewRepo, userRepo, stallService)
	userService := services.NewUserService(userRepo, stallRepo)
	dishService := services.NewDishService(dishRepo, stallRepo)

	// 1. Seed users
	users := []entities.User{
		{ID: "seed-user-asha", Name: "Asha Verma", Email: "asha@example.com", Bio: "Chaat hunter"},
		{ID: "seed-user-rohan", Name: "Rohan Gupta", Email: "rohan@example.com", Bio: "Momos before everything"},
		{ID: "seed-user-priya", Name: "Priya Nair", Email: "priya@example.com"},
	}
	for i := range users {
		if err := userService.Create(ctx, &users[i]); err != nil {
			log.Printf("Failed to create user %s: %v", users[i].Name, err)
		}
	}

	// 2. Seed stalls (Delhi street food)
	stalls := []entities.Stall{
		{
			Name:         "Sharma Chaat Bhandar",
			DishType:     "Chaat",
			Area:         "Karol Bagh",
			Location:     entities.Location{Latitude: 28.6519, Longitude: 77.1909},
			Description:  "Third-generation chaat stall famous for aloo tikki and golgappe.",
			OpeningHours: "11am - 10pm",
			OwnerName:    "Ramesh Sharma",
			CreatedBy:    users[0].ID,
		},
		{
			Name:         "Dolma Aunty Momos",
			DishType:     "Momos",
			Area:         "Lajpat Nagar",
			Location:     entities.Location{Latitude: 28.5700, Longitude: 77.2373},
			Description:  "The original steamed momo cart, running since 1994.",
			OpeningHours: "12pm - 9pm",
			OwnerName:    "Dolma",
			CreatedBy:    users[1].ID,
		},
		{
			Name:         "Old Famous Jalebi Wala",
			DishType:     "Jalebi",
			Area:         "Chandni Chowk",
			Location:     entities.Location{Latitude: 28.6562, Longitude: 77.2301},
			Description:  "Desi ghee jalebis fried fresh at the Dariba Kalan corner.",
			OpeningHours: "9am - 9pm",
			CreatedBy:    users[0].ID,
		},
		{
			Name:         "Kake Di Hatti",
			DishType:     "Chole Bhature",
			Area:         "Chandni Chowk",
			Location:     entities.Location{Latitude: 28.6580, Longitude: 77.2280},
			Description:  "Giant bhature and heavy spiced chole, expect a queue.",
			OpeningHours: "8am - 11pm",
			CreatedBy:    users[1].ID,
		},
		{
			Name:         "Saket Rolls Corner",
			DishType:     "Kathi Rolls",
			Area:         "Saket",
			Location:     entities.Location{Latitude: 28.5245, Longitude: 77.2066},
			Description:  "Late-night egg and paneer rolls near the metro gate.",
			OpeningHours: "4pm - 1am",
			CreatedBy:    users[2].ID,
		},
	}

	for i := range stalls {
		if err := stallService.Create(ctx, &stalls[i]); err != nil {
			log.Printf("Failed to create stall %s: %v", stalls[i].Name, err)
		}
	}

	// 3. Seed reviews; ratings aggregate as they are written
	reviews := []entities.Review{
		{StallID: stalls[0].ID, UserID: users[1].ID, Rating: 5, Comment: "Best aloo tikki in the city."},
		{StallID: stalls[0].ID, UserID: users[2].ID, Rating: 4, Comment: "Great golgappe, a bit crowded."},
		{StallID: stalls[1].ID, UserID: users[0].ID, Rating: 5, Comment: "Spicy chutney is unreal."},
		{StallID: stalls[2].ID, UserID: users[1].ID, Rating: 4, Comment: "Crisp and not too sweet."},
		{StallID: stalls[3].ID, UserID: users[2].ID, Rating: 3, Comment: "Good but the wait is long."},
	}
	for i := range reviews {
		if _, err := reviewService.Create(ctx, &reviews[i]); err != nil {
			log.Printf("Failed to create review for stall %s: %v", reviews[i].StallID, err)
		}
	}

	// 4. Seed dishes
	dishes := []entities.Dish{
		{StallID: stalls[0].ID, Name: "Aloo Tikki", Tags: []string{"vegetarian", "fried"}, Price: "₹40"},
		{StallID: stalls[0].ID, Name: "Golgappe", Tags: []string{"vegetarian", "tangy"}, Price: "₹30"},
		{StallID: stalls[1].ID, Name: "Steamed Veg Momos", Tags: []string{"vegetarian", "steamed"}, Price: "₹50"},
		{StallID: stalls[1].ID, Name: "Chicken Momos", Tags: []string{"non-veg", "steamed"}, Price: "₹70"},
		{StallID: stalls[2].ID, Name: "Desi Ghee Jalebi", Tags: []string{"sweet"}, Price: "₹60"},
		{StallID: stalls[4].ID, Name: "Paneer Roll", Tags: []string{"vegetarian"}, Price: "₹80"},
	}
	for i := range dishes {
		if err := dishService.Create(ctx, &dishes[i]); err != nil {
			log.Printf("Failed to create dish %s: %v", dishes[i].Name, err)
		}
	}

	// 5. Seed favorites
	if err := userService.AddFavorite(ctx, users[0].ID, stalls[1].ID); err != nil {
		log.Printf("Failed to add favorite: %v", err)
	}
	if err := userService.AddFavorite(ctx, users[1].ID, stalls[0].ID); err != nil {
		log.Printf("Failed to add favorite: %v", err)
	}
	if err := userService.AddFavorite(ctx, users[1].ID, stalls[2].ID); err != nil {
		log.Printf("Failed to add favorite: %v", err)
	}

	log.Println("Seeding complete.")
}

// Command indexes creates the MongoDB indexes the API relies on.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcg-platform/componentgen/internal/config"
	"github.com/mcg-platform/componentgen/internal/repository/mongo"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Connecting to MongoDB at %s...\n", cfg.Mongo.URI)

	db, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
	}
	defer db.Close(context.Background())

	indexes := map[string][]mongodriver.IndexModel{
		"sessions": {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			panic(fmt.Sprintf("Failed to create indexes on %s: %v", collection, err))
		}
		for _, name := range names {
			fmt.Printf("Created index %s on %s\n", name, collection)
		}
	}
}

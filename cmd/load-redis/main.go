package main

import (
	"fmt"
	"log"

	"github.com/evyataryagoni/locationsurvey/internal/config"
	"github.com/evyataryagoni/locationsurvey/internal/store"
)

// This tool loads city data from CSV into Redis
// Usage: go run cmd/load-redis/main.go
func main() {
	fmt.Println("🔄 Loading city data into Redis...")

	// Load configuration
	appConfig := config.Load()

	// Connect to Redis
	fmt.Printf("📡 Connecting to Redis at %s...\n", appConfig.RedisAddr)
	redisStore, err := store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	fmt.Println("✅ Connected to Redis")

	// Load data from CSV
	fmt.Printf("📁 Loading data from %s...\n", appConfig.DatastorePath)
	count, err := redisStore.LoadFromCSV(appConfig.DatastorePath)
	if err != nil {
		log.Fatalf("Failed to load CSV data: %v", err)
	}

	fmt.Printf("✅ Loaded %d cities\n", count)
	fmt.Println("\n💡 You can now start the server with DATASTORE_TYPE=redis")
}

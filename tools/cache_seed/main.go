// maestro/tools/cache_seed/main.go

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"maestro/pkg/store"
)

var ctx = context.Background()

func main() {
	addr := flag.String("redis", "localhost:6379", "Redis address")
	ttlHours := flag.Int("ttl", 24, "Record TTL in hours")
	flag.Parse()

	st, err := connectToStore(*addr, time.Duration(*ttlHours)*time.Hour)
	if err != nil {
		fmt.Printf("Error connecting to Redis: %v\n", err)
		os.Exit(1)
	}

	if err := seedRecords(st); err != nil {
		fmt.Printf("Error seeding records: %v\n", err)
		os.Exit(1)
	}
	startCLI(st)
}

func connectToStore(addr string, ttl time.Duration) (store.Store, error) {
	return store.NewRedisStore(ctx, addr, "", 0, ttl)
}

// seedRecords loads a few enrichment records of each source type so a
// run against sample reports has something to join.
func seedRecords(st store.Store) error {
	records := map[string]store.Record{
		"WEBSITE_INFO:example.com": {
			"website":  "example.com",
			"title":    "Example Domain",
			"keywords": "example, domain, documentation",
		},
		"WEBSITE_INFO:games.example.org": {
			"website":  "games.example.org",
			"title":    "Free Games Online",
			"keywords": "games, arcade, free",
		},
		"YOUTUBE_VIDEO_INFO:jYdaQJzcAcw": {
			"id":              "jYdaQJzcAcw",
			"title":           "Product review",
			"viewCount":       150000,
			"likeCount":       1200,
			"commentCount":    340,
			"defaultLanguage": "en",
		},
		"YOUTUBE_CHANNEL_INFO:UC6VkhPuCCwR_kG0GExjoozg": {
			"id":              "UC6VkhPuCCwR_kG0GExjoozg",
			"title":           "Tech Channel",
			"subscriberCount": 52000,
			"videoCount":      310,
			"viewCount":       9800000,
		},
	}

	for key, record := range records {
		if err := st.SetRecord(ctx, key, record); err != nil {
			fmt.Printf("Error setting %s: %v\n", key, err)
			return err
		}
		fmt.Printf("Seeded %s\n", key)
	}
	return nil
}

func startCLI(st store.Store) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter command (set <SOURCE_TYPE:id> <json-record>, get <SOURCE_TYPE:id> or exit): ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "exit" {
			break
		}

		if err := processCommand(st, input); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func processCommand(st store.Store, input string) error {
	parts := strings.SplitN(input, " ", 3)

	switch {
	case len(parts) == 3 && parts[0] == "set":
		var record store.Record
		if err := json.Unmarshal([]byte(parts[2]), &record); err != nil {
			return fmt.Errorf("invalid record JSON: %w", err)
		}
		if err := st.SetRecord(ctx, parts[1], record); err != nil {
			return fmt.Errorf("error setting %s: %w", parts[1], err)
		}
		fmt.Printf("Set %s\n", parts[1])
		return nil
	case len(parts) == 2 && parts[0] == "get":
		record, err := st.GetRecord(ctx, parts[1])
		if err != nil {
			return fmt.Errorf("error getting %s: %w", parts[1], err)
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", parts[1], encoded)
		return nil
	default:
		return fmt.Errorf("invalid command. Use 'set <SOURCE_TYPE:id> <json-record>' or 'get <SOURCE_TYPE:id>'")
	}
}

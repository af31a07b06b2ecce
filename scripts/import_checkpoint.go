package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
)

// Imports a legacy processed-ids file (bare JSON array of charge id strings)
// into the MySQL checkpoint backend. Legacy files carried no amounts, so the
// rows are inserted with amount 0 and the running total restarts from zero.
func main() {
	source := getEnv("CHECKPOINT_FILE", "processed_ids.json")

	data, err := os.ReadFile(source)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", source, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Fatalf("Failed to parse %s: %v", source, err)
	}

	mysqlUser := getEnv("MYSQL_USER", "fikensync")
	mysqlPassword := getEnv("MYSQL_PASSWORD", "")
	mysqlHost := getEnv("MYSQL_HOST", "localhost:3306")
	mysqlDatabase := getEnv("MYSQL_DATABASE", "fikensync")

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		mysqlUser, mysqlPassword, mysqlHost, mysqlDatabase)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v", err)
	}

	fmt.Println("Connected to MySQL successfully")

	query := `
		INSERT INTO processed_charges (charge_id, amount, processed_at)
		VALUES (?, 0, NOW())
		ON DUPLICATE KEY UPDATE charge_id = charge_id
	`

	for _, id := range ids {
		if _, err := db.Exec(query, id); err != nil {
			log.Fatalf("Failed to import charge %s: %v", id, err)
		}
	}

	fmt.Printf("Imported %d charge ids from %s\n", len(ids), source)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

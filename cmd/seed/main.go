package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"users-go-pgsql/config"
)

// Seeds a couple of demo users. Safe to re-run: conflicts on email upsert the name.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seed := []struct {
		name, email, username string
		phone, website        sql.NullString
	}{
		{
			name: "Ann Lee", email: "ann@example.com", username: "annl",
			phone: sql.NullString{String: "555-0100", Valid: true},
		},
		{
			name: "Demo User", email: "demo@example.com", username: "demo",
			website: sql.NullString{String: "https://example.com", Valid: true},
		},
	}

	for _, u := range seed {
		var id int64
		err := db.QueryRow(`
			INSERT INTO users (name, email, username, phone, website)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, u.name, u.email, u.username, u.phone, u.website).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%d email=%s username=%s\n", id, u.email, u.username)
	}
}

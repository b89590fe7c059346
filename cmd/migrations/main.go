package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies migration files from the postgres adapter directory.
// With no arguments every *.up.sql file runs in order; with a name
// argument only the matching file runs (e.g. "create_core_tables.down").
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

	var files []string
	if len(os.Args) > 1 {
		path, err := findMigration(basePath, os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		files = []string{path}
	} else {
		files, err = upMigrations(basePath)
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(basePath, f))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", f, err)
		}
		fmt.Printf("applied %s\n", f)
	}
}

func upMigrations(basePath string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func findMigration(basePath string, name string) (string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), name) && strings.HasSuffix(e.Name(), ".sql") {
			return e.Name(), nil
		}
	}

	return "", fmt.Errorf("migration %q not found", name)
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}

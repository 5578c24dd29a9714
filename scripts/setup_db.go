// Command setup_db applies scripts/init_db.sql to the database named by
// POSTGRES_DSN. Usage: go run ./scripts
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		fmt.Println("[error] POSTGRES_DSN is not set")
		os.Exit(1)
	}

	schema, err := os.ReadFile("scripts/init_db.sql")
	if err != nil {
		fmt.Printf("[error] failed to read schema: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Printf("[error] failed to open connection: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(string(schema)); err != nil {
		fmt.Printf("[error] failed to apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[info] schema applied")
}

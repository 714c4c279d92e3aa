package main

import (
	"fmt"
	"os"
	"strings"

	"library-circulation/library"
)

// Seeds a fresh database from key=value record files: one for books, one
// for members. Usage: import_records <books-file> <members-file> [db-file]

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <books-file> <members-file> [db-file]\n", os.Args[0])
		os.Exit(1)
	}
	booksPath := os.Args[1]
	membersPath := os.Args[2]
	dbPath := "circulation.db"
	if len(os.Args) > 3 {
		dbPath = os.Args[3]
	}

	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}

	store, err := library.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	lib, err := library.Open(store, library.DefaultPolicies())
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	booksFile, err := os.Open(booksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening books file: %v\n", err)
		os.Exit(1)
	}
	bookCount, err := lib.ImportBooks(booksFile)
	booksFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Book import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d books from %s\n", bookCount, booksPath)

	membersFile, err := os.Open(membersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening members file: %v\n", err)
		os.Exit(1)
	}
	memberCount, err := lib.ImportMembers(membersFile)
	membersFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Member import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d members from %s\n", memberCount, membersPath)

	fmt.Println("\nImport complete!")
	fmt.Printf("%-5s %-35s %-25s\n", "ID", "Title", "Author")
	fmt.Println(strings.Repeat("-", 70))
	for _, b := range lib.Books() {
		fmt.Printf("%-5d %-35s %-25s\n", b.ID, truncate(b.Title, 35), truncate(b.Author, 25))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

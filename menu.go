package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"library-circulation/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive front desk session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()
		runMenu(lib)
		return nil
	},
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// authenticateMember prompts for the member's password and verifies it
// before any circulation operation runs on their account.
func authenticateMember(lib *library.Library, memberID int64) error {
	password, err := readPassword("Enter your password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	return lib.AuthenticateMember(memberID, password)
}

func runMenu(lib *library.Library) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Library circulation desk")
	fmt.Println("Available commands:")
	fmt.Println("  Catalog: add book, list books, search book")
	fmt.Println("  Members: add member, list members, member status")
	fmt.Println("  Circulation: issue, return, renew, reserve, cancel reservation, list reservations, pay fine")
	fmt.Println("  Reports: overdue, popular, recommend, report")
	fmt.Println("  System: exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "add book":
			handleAddBook(scanner, lib)
		case "add member":
			handleAddMember(scanner, lib)
		case "list books":
			handleListBooks(lib)
		case "list members":
			handleListMembers(lib)
		case "search book":
			handleSearchBooks(scanner, lib)
		case "member status":
			handleMemberStatus(scanner, lib)
		case "issue":
			handleIssue(scanner, lib)
		case "return":
			handleReturn(scanner, lib)
		case "renew":
			handleRenew(scanner, lib)
		case "reserve":
			handleReserve(scanner, lib)
		case "cancel reservation":
			handleCancelReservation(scanner, lib)
		case "list reservations":
			handleListReservations(scanner, lib)
		case "pay fine":
			handlePayFine(scanner, lib)
		case "overdue":
			handleOverdue(lib)
		case "popular":
			handlePopular(lib)
		case "recommend":
			handleRecommend(scanner, lib)
		case "report":
			handleReport(lib)
		case "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptID(sc *bufio.Scanner, label string) (int64, bool) {
	text, ok := prompt(sc, label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		fmt.Printf("Invalid ID: %s\n", text)
		return 0, false
	}
	return id, true
}

func handleAddBook(sc *bufio.Scanner, lib *library.Library) {
	title, ok := prompt(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Author: ")
	if !ok {
		return
	}
	publisher, ok := prompt(sc, "Publisher: ")
	if !ok {
		return
	}
	yearStr, ok := prompt(sc, "Year: ")
	if !ok {
		return
	}
	year, _ := strconv.Atoi(yearStr)
	category, ok := prompt(sc, "Category: ")
	if !ok {
		return
	}
	kind, ok := prompt(sc, "Type (physical/ebook/audiobook): ")
	if !ok {
		return
	}

	var (
		b   library.Book
		err error
	)
	switch strings.ToLower(kind) {
	case "physical", "":
		copiesStr, ok := prompt(sc, "Total copies: ")
		if !ok {
			return
		}
		copies, convErr := strconv.Atoi(copiesStr)
		if convErr != nil {
			fmt.Printf("Invalid copy count: %s\n", copiesStr)
			return
		}
		b, err = lib.AddPhysicalBook(title, author, publisher, year, category, copies)
	case "ebook", "audiobook":
		format, ok := prompt(sc, "Format (e.g. EPUB, MP3): ")
		if !ok {
			return
		}
		b, err = lib.AddDigitalBook(title, author, publisher, year, category, format)
	default:
		fmt.Printf("Unknown book type: %s\n", kind)
		return
	}

	if err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Added book ID %d: %s\n", b.ID, b.Title)
}

func handleAddMember(sc *bufio.Scanner, lib *library.Library) {
	name, ok := prompt(sc, "Name: ")
	if !ok {
		return
	}
	email, ok := prompt(sc, "Email: ")
	if !ok {
		return
	}
	catStr, ok := prompt(sc, "Category (student/faculty/regular): ")
	if !ok {
		return
	}
	category, err := library.CategoryByName(catStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	password, err := readPassword(fmt.Sprintf("Enter password for %s: ", name))
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if password == "" {
		fmt.Println("Error: Password cannot be empty")
		return
	}

	m, err := lib.RegisterMember(name, email, category, password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Added member '%s' with ID %d (%s)\n", m.Name, m.ID, m.Category)
}

func handleListBooks(lib *library.Library) {
	books := lib.Books()
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}
	fmt.Printf("%-5s %-35s %-25s %-9s %-10s %s\n", "ID", "Title", "Author", "Type", "Available", "Copies/Format")
	fmt.Println(strings.Repeat("-", 100))
	for _, b := range books {
		fmt.Println(library.PrettyBook(b))
	}
}

func handleListMembers(lib *library.Library) {
	members := lib.Members()
	if len(members) == 0 {
		fmt.Println("No members registered.")
		return
	}
	fmt.Printf("%-5s %-25s %-8s %-10s\n", "ID", "Name", "Category", "Status")
	fmt.Println(strings.Repeat("-", 75))
	for _, m := range members {
		fmt.Println(library.PrettyMember(m))
	}
}

func handleSearchBooks(sc *bufio.Scanner, lib *library.Library) {
	query, ok := prompt(sc, "Query: ")
	if !ok {
		return
	}
	books := lib.SearchBooks(query)
	if len(books) == 0 {
		fmt.Printf("No books found matching '%s'.\n", query)
		return
	}
	fmt.Printf("Found %d book(s) matching '%s':\n", len(books), query)
	for _, b := range books {
		fmt.Println(library.PrettyBook(b))
	}
}

func handleMemberStatus(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	m, err := lib.GetMember(memberID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	pol := lib.Policies().For(m.Category)
	fmt.Println(library.PrettyMember(m))
	fmt.Printf("Borrow limit %d, fine ceiling %.2f, renewal limit %d per loan\n",
		pol.BorrowLimit, pol.MaxFine, pol.RenewalLimit)
	for _, r := range lib.MemberReservations(memberID) {
		if b, err := lib.GetBook(r.BookID); err == nil {
			fmt.Printf("Reserved: %s (since %s)\n", b.Title, r.CreatedAt.Format("2006-01-02"))
		}
	}
}

func handleIssue(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := authenticateMember(lib, memberID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	iss, err := lib.IssueBook(memberID, bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Issued. Due back %s.\n", iss.DueAt.Format("2006-01-02"))
}

func handleReturn(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	_, fine, err := lib.ReturnBook(memberID, bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if fine > 0 {
		fmt.Printf("Returned. Overdue fine charged: %.2f\n", fine)
	} else {
		fmt.Println("Returned. No fine.")
	}
	if next := lib.Reservations(bookID); len(next) > 0 {
		if m, err := lib.GetMember(next[0].MemberID); err == nil {
			fmt.Printf("A copy is now held for %s (ID %d).\n", m.Name, m.ID)
		}
	}
}

func handleRenew(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := authenticateMember(lib, memberID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	iss, err := lib.RenewBook(memberID, bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Renewed. New due date %s.\n", iss.DueAt.Format("2006-01-02"))
}

func handleReserve(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := authenticateMember(lib, memberID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	if _, err := lib.ReserveBook(memberID, bookID); err != nil {
		if errors.Is(err, library.ErrAlreadyIssued) {
			fmt.Println("You already have this book checked out.")
			return
		}
		fmt.Printf("Error: %v\n", err)
		return
	}
	queue := lib.Reservations(bookID)
	fmt.Printf("Reserved. You are position %d in the queue.\n", len(queue))
}

func handleCancelReservation(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := authenticateMember(lib, memberID); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	if err := lib.CancelReservation(memberID, bookID); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Reservation cancelled.")
}

func handleListReservations(sc *bufio.Scanner, lib *library.Library) {
	text, ok := prompt(sc, "Book ID (or press Enter for all books): ")
	if !ok {
		return
	}

	printQueue := func(b library.Book) {
		queue := lib.Reservations(b.ID)
		if len(queue) == 0 {
			return
		}
		fmt.Printf("%s (ID %d):\n", b.Title, b.ID)
		for i, r := range queue {
			name := fmt.Sprintf("member %d", r.MemberID)
			if m, err := lib.GetMember(r.MemberID); err == nil {
				name = m.Name
			}
			fmt.Printf("  %d. %s (since %s)\n", i+1, name, r.CreatedAt.Format("2006-01-02"))
		}
	}

	if text == "" {
		any := false
		for _, b := range lib.Books() {
			if len(lib.Reservations(b.ID)) > 0 {
				printQueue(b)
				any = true
			}
		}
		if !any {
			fmt.Println("No outstanding reservations.")
		}
		return
	}

	bookID, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		fmt.Printf("Invalid book ID: %s\n", text)
		return
	}
	b, err := lib.GetBook(bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(lib.Reservations(b.ID)) == 0 {
		fmt.Printf("No reservations for '%s'.\n", b.Title)
		return
	}
	printQueue(b)
}

func handlePayFine(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	amountStr, ok := prompt(sc, "Amount: ")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		fmt.Printf("Invalid amount: %s\n", amountStr)
		return
	}
	m, err := lib.PayFine(memberID, amount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Payment recorded. Outstanding fine: %.2f (status %s)\n", m.FineAmount, m.Status)
}

func handleOverdue(lib *library.Library) {
	overdue := lib.OverdueIssues()
	if len(overdue) == 0 {
		fmt.Println("No overdue books.")
		return
	}
	for _, iss := range overdue {
		book, _ := lib.GetBook(iss.BookID)
		member, _ := lib.GetMember(iss.MemberID)
		fmt.Printf("%-35s held by %-25s due %s\n", book.Title, member.Name, iss.DueAt.Format("2006-01-02"))
	}
}

func handlePopular(lib *library.Library) {
	top := lib.PopularBooks(5)
	if len(top) == 0 {
		fmt.Println("No books have been issued yet.")
		return
	}
	for _, bc := range top {
		fmt.Printf("%-35s issued %d time(s), %d reservation(s)\n", bc.Title, bc.IssueCount, bc.ReserveCount)
	}
}

func handleRecommend(sc *bufio.Scanner, lib *library.Library) {
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	books, err := lib.RecommendedBooks(memberID, 5)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("Not enough borrowing history to recommend anything yet.")
		return
	}
	for _, b := range books {
		fmt.Printf("%s by %s\n", b.Title, b.Author)
	}
}

func handleReport(lib *library.Library) {
	fmt.Printf("Total fines collected: %.2f\n", lib.TotalFinesCollected())
	withOverdue := lib.MembersWithOverdue()
	if len(withOverdue) > 0 {
		fmt.Println("Members holding overdue books:")
		for _, m := range withOverdue {
			fmt.Printf("  %s (ID %d)\n", m.Name, m.ID)
		}
	}
}

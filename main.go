package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"library-circulation/library"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "circulation",
	Short: "Library circulation and inventory management",
	Long: `Tracks which copies of which books are on loan, honors reservation
order, computes overdue fines by member category, and keeps the copy-count
inventory consistent. State is persisted as a full snapshot after every
committed operation.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "circulation.db", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "circulation.toml", "Path to the policy config (optional)")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(returnCmd)
	rootCmd.AddCommand(renewCmd)
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(reportCmd)
}

// openLibrary loads policies and the snapshot store and builds the engine.
func openLibrary() (*library.Library, error) {
	policies, err := library.LoadPolicies(configPath)
	if err != nil {
		return nil, err
	}
	store, err := library.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	lib, err := library.Open(store, policies)
	if err != nil {
		store.Close()
		return nil, err
	}
	return lib, nil
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, arg)
	}
	return id, nil
}

var issueCmd = &cobra.Command{
	Use:   "issue MEMBER_ID BOOK_ID",
	Short: "Issue a book to a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1], "book")
		if err != nil {
			return err
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		iss, err := lib.IssueBook(memberID, bookID)
		if err != nil {
			return err
		}
		fmt.Printf("Issued book %d to member %d, due %s.\n", bookID, memberID, iss.DueAt.Format("2006-01-02"))
		return nil
	},
}

var returnCmd = &cobra.Command{
	Use:   "return MEMBER_ID BOOK_ID",
	Short: "Return a book and settle any overdue fine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1], "book")
		if err != nil {
			return err
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		_, fine, err := lib.ReturnBook(memberID, bookID)
		if err != nil {
			return err
		}
		if fine > 0 {
			fmt.Printf("Returned book %d. Overdue fine charged: %.2f\n", bookID, fine)
		} else {
			fmt.Printf("Returned book %d. No fine.\n", bookID)
		}
		return nil
	},
}

var renewCmd = &cobra.Command{
	Use:   "renew MEMBER_ID BOOK_ID",
	Short: "Extend the due date of an open loan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1], "book")
		if err != nil {
			return err
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		iss, err := lib.RenewBook(memberID, bookID)
		if err != nil {
			return err
		}
		fmt.Printf("Renewed book %d for member %d, now due %s.\n", bookID, memberID, iss.DueAt.Format("2006-01-02"))
		return nil
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve MEMBER_ID BOOK_ID",
	Short: "Place a reservation for a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1], "book")
		if err != nil {
			return err
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		if _, err := lib.ReserveBook(memberID, bookID); err != nil {
			return err
		}
		queue := lib.Reservations(bookID)
		fmt.Printf("Reserved book %d for member %d (position %d in queue).\n", bookID, memberID, len(queue))
		return nil
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel MEMBER_ID BOOK_ID",
	Short: "Cancel a member's reservation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		bookID, err := parseID(args[1], "book")
		if err != nil {
			return err
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		if err := lib.CancelReservation(memberID, bookID); err != nil {
			return err
		}
		fmt.Printf("Cancelled reservation for member %d on book %d.\n", memberID, bookID)
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay MEMBER_ID AMOUNT",
	Short: "Record a fine payment for a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		memberID, err := parseID(args[0], "member")
		if err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		m, err := lib.PayFine(memberID, amount)
		if err != nil {
			return err
		}
		fmt.Printf("Payment recorded. Outstanding fine for %s: %.2f (status %s)\n", m.Name, m.FineAmount, m.Status)
		return nil
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List open loans past their due date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		overdue := lib.OverdueIssues()
		if len(overdue) == 0 {
			fmt.Println("No overdue books.")
			return nil
		}
		fmt.Printf("%-5s %-35s %-25s %-12s\n", "BOOK", "TITLE", "MEMBER", "DUE")
		for _, iss := range overdue {
			book, _ := lib.GetBook(iss.BookID)
			member, _ := lib.GetMember(iss.MemberID)
			fmt.Printf("%-5d %-35s %-25s %-12s\n", iss.BookID, book.Title, member.Name, iss.DueAt.Format("2006-01-02"))
		}
		return nil
	},
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most-issued books with reservation counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		top := lib.PopularBooks(5)
		if len(top) == 0 {
			fmt.Println("No books have been issued yet.")
			return nil
		}
		fmt.Printf("%-35s %-13s %-15s\n", "TITLE", "ISSUED COUNT", "RESERVED COUNT")
		for _, bc := range top {
			fmt.Printf("%-35s %-13d %-15d\n", bc.Title, bc.IssueCount, bc.ReserveCount)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show fine collection and monthly borrowing totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		fmt.Printf("Total fines collected: %.2f\n", lib.TotalFinesCollected())
		monthly := lib.MonthlyBorrowCounts()
		if len(monthly) > 0 {
			months := make([]string, 0, len(monthly))
			for month := range monthly {
				months = append(months, month)
			}
			sort.Strings(months)
			fmt.Println("Borrowings per month:")
			for _, month := range months {
				fmt.Printf("  %s  %d\n", month, monthly[month])
			}
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

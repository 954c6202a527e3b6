package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/erazemk/irielink/internal/db"
	"github.com/erazemk/irielink/internal/model"
	"github.com/erazemk/irielink/internal/store"
)

const usage = "Usage: registryctl <seed|inspect> [-db <path>]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	var cmd func(*sql.DB, io.Writer) error
	switch args[0] {
	case "seed":
		cmd = seed
	case "inspect":
		cmd = inspect
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n%s\n", args[0], usage)
		return 1
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "registry.db", "path to SQLite database file")
	force := fs.Bool("yes", false, "seed without asking (seed deletes every item)")
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if args[0] == "seed" && !*force {
		fmt.Fprintln(stderr, "Error: seed deletes every item, claim and category; rerun with -yes to confirm")
		return 1
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer database.Close()

	if err := cmd(database, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// seed wipes the registry back to the base categories.
func seed(database *sql.DB, out io.Writer) error {
	if err := db.Reset(database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database seeded with base categories: %v\n", model.BaseCategories)
	return nil
}

// inspect prints the tables, items and item column layout.
func inspect(database *sql.DB, out io.Writer) error {
	tables, err := db.ListTables(database)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tables: %v\n\n", tables)

	items, err := store.ListItems(context.Background(), database)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found.")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSTATUS\tCATEGORIES")
		for _, it := range items {
			var names []string
			for _, c := range it.Categories {
				names = append(names, c.Name)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%v\n", it.ID, it.Name, it.PriceDollars(), it.Quantity, it.Status, names)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	cols, err := db.DescribeTable(database, "items")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nItems table:")
	fmt.Fprintln(tw, "COLUMN\tTYPE\tNOT NULL\tDEFAULT\tPK")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%t\n", c.Name, c.Type, c.NotNull, c.Default, c.PK)
	}
	return tw.Flush()
}

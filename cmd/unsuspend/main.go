package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/japaniel/wikianki/pkg/config"
	"github.com/japaniel/wikianki/pkg/db"
	"github.com/japaniel/wikianki/pkg/unsuspend"
)

func defaultCollection() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "collection.anki2"
	}
	return filepath.Join(home, ".local", "share", "Anki2", "User 1", "collection.anki2")
}

func main() {
	configFlag := flag.String("config", "", "Path to YAML config (log settings only)")
	dbFlag := flag.String("db", defaultCollection(), "Anki collection file")
	deckFlag := flag.String("deck", "", "Deck name pattern (default: configured deck name)")
	sourceFlag := flag.String("source", "", "Label written to the last field of every matched note")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] word [word...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	words := flag.Args()
	if len(words) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Log)

	deck := *deckFlag
	if deck == "" {
		deck = cfg.DeckName()
	}

	if _, err := os.Stat(*dbFlag); err != nil {
		log.Fatalf("Collection not found: %v", err)
	}
	conn, err := db.Open(*dbFlag)
	if err != nil {
		log.Fatalf("Failed to open collection: %v", err)
	}
	defer conn.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	u := &unsuspend.Unsuspender{DB: conn, Logger: logger}
	rep, err := u.Run(ctx, unsuspend.Request{DeckPattern: deck, Words: words, Source: *sourceFlag})
	if err != nil {
		log.Fatalf("Unsuspend failed: %v", err)
	}

	fmt.Printf("Deck %d: %d cards\n", rep.DeckID, rep.DeckCards)
	for _, w := range rep.Unsuspended {
		fmt.Printf("Unsuspended: %s\n", w)
	}
	if *sourceFlag != "" {
		fmt.Printf("Updated source on %d notes\n", rep.Updated)
	}
	if len(rep.NotFound) > 0 {
		fmt.Printf("Not found: %s\n", strings.Join(rep.NotFound, ", "))
	}
	fmt.Println("Close Anki before running this tool; reopen it to see the changes.")
}

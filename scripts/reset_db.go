// Command reset_db clears business data from a development database.
// Users and branches survive so the seeded admin can still log in.
//
//	go run ./scripts/reset_db.go [-yes]
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"branchdesk-backend/internal/config"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// child tables first; RESTART IDENTITY resets the id sequences
var businessTables = []string{
	"payment_tracking",
	"payments",
	"returns",
	"order_items",
	"orders",
	"enquiry_items",
	"enquiries",
	"stock_logs",
	"items",
	"parties",
}

func main() {
	skipPrompt := flag.Bool("yes", false, "do not ask for confirmation")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	if !*skipPrompt {
		fmt.Printf("This deletes all items, parties, enquiries, orders, returns and payments in %q.\n", cfg.Database.Name)
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if strings.TrimSpace(confirm) != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		stmt := "TRUNCATE TABLE " + strings.Join(businessTables, ", ") + " RESTART IDENTITY CASCADE"
		_, err := tx.Exec(ctx, stmt)
		return err
	})
	if err != nil {
		log.Fatal("reset failed", zap.Error(err))
	}
	log.Info("database reset", zap.Strings("tables", businessTables))
}

// Command parse prints the structured command for one utterance.
//
//	parse "sold 2 kg rice for 40 rupees"
//	parse --db data/ledger.db "2 kg rice and 1 kg dal"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/application/service"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/repository"
	"github.com/garyjia/shop-ledger/internal/parser"
	"github.com/garyjia/shop-ledger/migrations"
	"github.com/garyjia/shop-ledger/pkg/database"
	"github.com/garyjia/shop-ledger/pkg/utils"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	dbPath := flag.String("db", "", "SQLite ledger database used for catalog price lookups")
	defaultType := flag.String("type", string(entity.CashIn), "cash direction when the text has no buy/sell word")
	customer := flag.String("customer", entity.DefaultCustomer, "customer used when none is named")
	verbose := flag.BoolP("verbose", "v", false, "log to stderr")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: parse [--db path] [--type cash-in|cash-out] <text>")
		os.Exit(2)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: level, OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var lookup parser.PriceLookup
	if *dbPath != "" {
		db, err := database.New(database.Config{Path: *dbPath, MaxOpenConns: 1, MaxIdleConns: 1}, logger)
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer db.Close()
		if _, err := database.NewMigrator(db, logger).RunMigrations(ctx, migrations.FS); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		lookup = service.NewCatalog(repository.NewPriceRepository(db.DB, logger), 0, dispatcher.ZapLogger(logger))
	}

	p := parser.New(lookup, logger,
		parser.WithDefaultType(entity.EntryType(*defaultType)),
		parser.WithDefaultCustomer(*customer),
	)

	out, err := json.MarshalIndent(p.ParseEnhanced(ctx, text), "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}

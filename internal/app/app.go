// Package app wires the ledger services from configuration. The API server,
// the CLI and the TUI all start from here.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/shopledger/internal/category"
	"github.com/MrJamesThe3rd/shopledger/internal/config"
	"github.com/MrJamesThe3rd/shopledger/internal/database"
	"github.com/MrJamesThe3rd/shopledger/internal/export"
	"github.com/MrJamesThe3rd/shopledger/internal/importer"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger/memstore"
	ledgerStore "github.com/MrJamesThe3rd/shopledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/shopledger/internal/report"
)

type Services struct {
	Ledger     *ledger.Service
	Categories *category.Service
	Importer   *importer.Service
	Exporter   *export.Service
	Reports    *report.Service
}

func NewServices(cfg *config.Config, repo ledger.Repository) *Services {
	ledgerService := ledger.NewService(repo)
	categoryService := category.NewService(ledgerService, category.ParseLocale(cfg.Ledger.Locale))

	return &Services{
		Ledger:     ledgerService,
		Categories: categoryService,
		Importer: importer.NewService(ledgerService,
			importer.WithFallbackCategory(categoryService.FallbackLabel()),
			importer.WithMaxBytes(cfg.Ledger.ImportMaxBytes),
		),
		Exporter: export.NewService(ledgerService),
		Reports:  report.NewService(ledgerService),
	}
}

// OpenRepository returns the store selected by STORE_DRIVER and a func that
// releases it. The postgres store is migrated before it is returned.
func OpenRepository(ctx context.Context, cfg *config.Config) (ledger.Repository, func(), error) {
	if cfg.Store.Driver == config.StoreMemory {
		slog.Warn("using in-memory store; entries are lost on exit")
		return memstore.New(), func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return ledgerStore.New(db), func() { db.Close() }, nil
}

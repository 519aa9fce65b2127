package main

import (
	"context"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"quotebuilder/collections"
	"quotebuilder/config"
	"quotebuilder/handlers"
	"quotebuilder/obs"
	"quotebuilder/quoting"
	"quotebuilder/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: cfg.DataDir,
	})

	var sess *quoting.Session

	// Create collections, seed the catalog and load the workspace on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app); err != nil {
			return err
		}
		if cfg.SeedCatalog {
			if err := collections.Seed(app); err != nil {
				logger.Warn().Err(err).Msg("seed data failed")
			}
		}

		sess = quoting.NewSession(store.New(app), logger, quoting.SessionConfig{
			Defaults: quoting.QuoteDefaults{
				ApplyDiscount: cfg.DefaultApplyDiscount,
				ApplyTax:      cfg.DefaultApplyTax,
				TaxPercent:    cfg.DefaultTaxPercent,
			},
			PersistTimeout: cfg.PersistTimeout,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := sess.Load(ctx); err != nil {
			return err
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		api := se.Router.Group("/api")
		api.BindFunc(handlers.RequestLogger())

		// ── Categories ───────────────────────────────────────────
		api.GET("/categories", handlers.HandleCategoryList(sess))
		api.POST("/categories", handlers.HandleCategoryCreate(sess))
		api.PATCH("/categories/{id}", handlers.HandleCategoryRename(sess))
		api.DELETE("/categories/{id}", handlers.HandleCategoryDelete(sess))

		// ── Catalog ──────────────────────────────────────────────
		api.GET("/catalog", handlers.HandleCatalogList(sess))
		api.POST("/catalog", handlers.HandleCatalogCreate(sess))
		api.POST("/catalog/save", handlers.HandleCatalogSave(sess))
		api.POST("/catalog/import", handlers.HandleCatalogImport(sess))
		api.POST("/catalog/import/errors", handlers.HandleCatalogErrorReport())
		api.PATCH("/catalog/{id}", handlers.HandleCatalogUpdate(sess))
		api.DELETE("/catalog/{id}", handlers.HandleCatalogDelete(sess))
		api.GET("/export", handlers.HandleWorkbookExport(sess))

		// ── Working quote ────────────────────────────────────────
		api.GET("/quote", handlers.HandleQuoteGet(sess))
		api.PATCH("/quote", handlers.HandleQuoteUpdate(sess))
		api.POST("/quote/new", handlers.HandleQuoteNew(sess))
		api.POST("/quote/save", handlers.HandleQuoteSave(sess))
		api.POST("/quote/items", handlers.HandleLineAdd(sess))
		api.PATCH("/quote/items/{id}", handlers.HandleLineUpdate(sess))
		api.DELETE("/quote/items/{id}", handlers.HandleLineDelete(sess))
		api.POST("/quote/items/{id}/catalog", handlers.HandleLineToCatalog(sess))

		// ── Quote output ─────────────────────────────────────────
		api.GET("/quote/pdf", handlers.HandleQuotePDF(sess))
		api.GET("/quote/xlsx", handlers.HandleQuoteExcel(sess))
		api.GET("/quote/print", handlers.HandleQuotePrint(sess))

		// ── Saved quotes ─────────────────────────────────────────
		api.GET("/quotes", handlers.HandleSavedQuoteList(sess))
		api.POST("/quotes/{id}/load", handlers.HandleSavedQuoteLoad(sess))
		api.DELETE("/quotes/{id}", handlers.HandleSavedQuoteDelete(sess))

		// ── Settings ─────────────────────────────────────────────
		api.GET("/company", handlers.HandleSettingsGet(sess))
		api.PUT("/company", handlers.HandleSettingsUpdate(sess))
		api.GET("/options", handlers.HandleOptions())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

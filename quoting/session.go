package quoting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"quotebuilder/services"
)

// SessionConfig tunes a Session.
type SessionConfig struct {
	Defaults       QuoteDefaults
	PersistTimeout time.Duration
	Now            func() time.Time
}

// Session owns the workspace of a running server. Every mutation is made on a
// clone, written through the repository in one transaction and only then
// swapped in, so a failed write leaves the in-memory state untouched.
type Session struct {
	mu      sync.Mutex
	ws      *Workspace
	repo    Repository
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewSession(repo Repository, logger zerolog.Logger, cfg SessionConfig) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.PersistTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Session{
		ws:      NewWorkspace(cfg.Defaults, now()),
		repo:    repo,
		log:     logger,
		now:     now,
		timeout: timeout,
	}
}

// Load reads categories, catalog, saved quotes, settings and the draft
// concurrently. A missing or unreadable draft starts a new quote.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		cats     []MainCategory
		catalog  []CatalogItem
		saved    []Quote
		settings CompanySettings
		draft    Quote
		draftErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cats, err = s.repo.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		catalog, err = s.repo.ListCatalog(gctx)
		return err
	})
	g.Go(func() (err error) {
		saved, err = s.repo.ListQuotes(gctx)
		return err
	})
	g.Go(func() (err error) {
		settings, err = s.repo.LoadSettings(gctx)
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
		return err
	})
	g.Go(func() error {
		draft, draftErr = s.repo.LoadDraft(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Str("op", "load").Msg("loading workspace failed")
		return fmt.Errorf("load: %w: %w", ErrPersistence, err)
	}

	ws := NewWorkspace(s.ws.Defaults, s.now())
	ws.Categories = cats
	ws.Catalog = catalog
	ws.Saved = saved
	ws.Settings = settings
	for i := range ws.Saved {
		ws.Saved[i].RecomputeAll()
	}

	switch {
	case draftErr == nil:
		draft.RecomputeAll()
		if draft.Items == nil {
			draft.Items = []LineItem{}
		}
		ws.Current = draft
	case errors.Is(draftErr, ErrNotFound):
		ws.NewQuote(s.now())
	default:
		s.log.Warn().Err(draftErr).Str("op", "load").Msg("draft unreadable, starting a new quote")
		ws.NewQuote(s.now())
	}

	s.ws = ws
	s.log.Info().
		Int("categories", len(cats)).
		Int("catalog", len(catalog)).
		Int("saved_quotes", len(saved)).
		Str("quote_id", ws.Current.ID).
		Msg("workspace loaded")
	return nil
}

// apply runs change on a clone of the workspace, persists the result with the
// returned function inside one transaction, and commits the clone.
func (s *Session) apply(ctx context.Context, op string, change func(w *Workspace) (persistFunc, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.ws.Clone()
	persist, err := change(next)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err = s.repo.WithTx(ctx, func(tx Repository) error { return persist(ctx, tx) })
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("persist failed, keeping previous state")
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	s.ws = next
	return nil
}

// persistFunc writes a changed workspace through tx.
type persistFunc func(ctx context.Context, tx Repository) error

func saveDraft(ctx context.Context, tx Repository, w *Workspace) error {
	return tx.SaveDraft(ctx, w.Current.DraftCopy())
}

func saveCreated(ctx context.Context, tx Repository, created *MainCategory) error {
	if created == nil {
		return nil
	}
	return tx.SaveCategories(ctx, *created)
}

// read runs fn under the lock.
func (s *Session) read(fn func(w *Workspace)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ws)
}

// ── Reads ───────────────────────────────────────────────────────────────

func (s *Session) Categories() (out []MainCategory) {
	s.read(func(w *Workspace) { out = w.SortedCategories() })
	return out
}

func (s *Session) SearchCatalog(query, categoryID string) (out []CatalogItem) {
	s.read(func(w *Workspace) { out = w.SearchCatalog(query, categoryID) })
	return out
}

func (s *Session) CatalogDraftFor(id string) (d CatalogDraft, err error) {
	s.read(func(w *Workspace) { d, err = w.CatalogDraftFor(id) })
	return d, err
}

func (s *Session) LineDraftFor(id string) (d LineDraft, err error) {
	s.read(func(w *Workspace) { d, err = w.LineDraftFor(id) })
	return d, err
}

func (s *Session) Quote() (v QuoteView) {
	s.read(func(w *Workspace) { v = w.View() })
	return v
}

func (s *Session) SavedQuotes() (out []SavedQuoteSummary) {
	s.read(func(w *Workspace) { out = w.SavedQuotes() })
	return out
}

func (s *Session) Settings() (c CompanySettings) {
	s.read(func(w *Workspace) { c = w.Settings })
	return c
}

func (s *Session) Document() (d services.QuoteDocument) {
	s.read(func(w *Workspace) { d = w.Document() })
	return d
}

func (s *Session) WorkbookData() (d services.WorkbookData) {
	s.read(func(w *Workspace) { d = w.WorkbookData() })
	return d
}

// ── Categories ──────────────────────────────────────────────────────────

func (s *Session) AddCategory(ctx context.Context, name string) (cat MainCategory, err error) {
	err = s.apply(ctx, "add_category", func(w *Workspace) (persistFunc, error) {
		var err error
		if cat, err = w.AddCategory(name); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error { return tx.SaveCategories(ctx, cat) }, nil
	})
	return cat, err
}

func (s *Session) RenameCategory(ctx context.Context, id, name string) (cat MainCategory, err error) {
	err = s.apply(ctx, "rename_category", func(w *Workspace) (persistFunc, error) {
		var err error
		if cat, err = w.RenameCategory(id, name); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error { return tx.SaveCategories(ctx, cat) }, nil
	})
	return cat, err
}

// DeleteCategory deletes a category and persists every unlinked catalog
// item, saved quote and the draft together.
func (s *Session) DeleteCategory(ctx context.Context, id string) (u CategoryUnlink, err error) {
	err = s.apply(ctx, "delete_category", func(w *Workspace) (persistFunc, error) {
		var err error
		if u, err = w.DeleteCategory(id); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := tx.DeleteCategory(ctx, id); err != nil {
				return err
			}
			if len(u.CatalogItems) > 0 {
				items := make([]CatalogItem, 0, len(u.CatalogItems))
				for _, itemID := range u.CatalogItems {
					items = append(items, w.Catalog[w.catalogIndex(itemID)])
				}
				if err := tx.SaveCatalogItems(ctx, items...); err != nil {
					return err
				}
			}
			for _, qid := range u.SavedQuotes {
				if err := tx.SaveQuote(ctx, w.Saved[w.savedIndex(qid)]); err != nil {
					return err
				}
			}
			return saveDraft(ctx, tx, w)
		}, nil
	})
	return u, err
}

// ── Catalog ─────────────────────────────────────────────────────────────

func (s *Session) AddCatalogItem(ctx context.Context, d CatalogDraft) (item CatalogItem, err error) {
	err = s.apply(ctx, "add_catalog_item", func(w *Workspace) (persistFunc, error) {
		var created *MainCategory
		var err error
		if item, created, err = w.AddCatalogItem(d); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := saveCreated(ctx, tx, created); err != nil {
				return err
			}
			return tx.SaveCatalogItems(ctx, item)
		}, nil
	})
	return item, err
}

func (s *Session) UpdateCatalogItem(ctx context.Context, id string, d CatalogDraft) (item CatalogItem, err error) {
	err = s.apply(ctx, "update_catalog_item", func(w *Workspace) (persistFunc, error) {
		var created *MainCategory
		var err error
		if item, created, err = w.UpdateCatalogItem(id, d); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := saveCreated(ctx, tx, created); err != nil {
				return err
			}
			return tx.SaveCatalogItems(ctx, item)
		}, nil
	})
	return item, err
}

func (s *Session) DeleteCatalogItem(ctx context.Context, id string) error {
	return s.apply(ctx, "delete_catalog_item", func(w *Workspace) (persistFunc, error) {
		if err := w.DeleteCatalogItem(id); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error { return tx.DeleteCatalogItem(ctx, id) }, nil
	})
}

// SaveToCatalog stores a catalog draft, see Workspace.SaveToCatalog.
func (s *Session) SaveToCatalog(ctx context.Context, d CatalogDraft, overwrite bool) (item CatalogItem, err error) {
	err = s.apply(ctx, "save_to_catalog", func(w *Workspace) (persistFunc, error) {
		var created *MainCategory
		var err error
		if item, created, err = w.SaveToCatalog(d, overwrite); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := saveCreated(ctx, tx, created); err != nil {
				return err
			}
			return tx.SaveCatalogItems(ctx, item)
		}, nil
	})
	return item, err
}

func (s *Session) LineToCatalog(ctx context.Context, lineID string, overwrite bool) (item CatalogItem, err error) {
	err = s.apply(ctx, "line_to_catalog", func(w *Workspace) (persistFunc, error) {
		var created *MainCategory
		var err error
		if item, created, err = w.LineToCatalog(lineID, overwrite); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := saveCreated(ctx, tx, created); err != nil {
				return err
			}
			return tx.SaveCatalogItems(ctx, item)
		}, nil
	})
	return item, err
}

// ImportCatalog merges already validated rows into the catalog.
func (s *Session) ImportCatalog(ctx context.Context, rows []services.CatalogRow) (sum ImportSummary, err error) {
	err = s.apply(ctx, "import_catalog", func(w *Workspace) (persistFunc, error) {
		var items []CatalogItem
		var cats []MainCategory
		sum, items, cats = w.ImportCatalog(rows)
		return func(ctx context.Context, tx Repository) error {
			if len(cats) > 0 {
				if err := tx.SaveCategories(ctx, cats...); err != nil {
					return err
				}
			}
			return tx.SaveCatalogItems(ctx, items...)
		}, nil
	})
	if err == nil {
		s.log.Info().Str("op", "import_catalog").
			Int("added", sum.Added).
			Int("updated", sum.Updated).
			Int("categories_created", sum.CategoriesCreated).
			Msg("catalog imported")
	}
	return sum, err
}

// ── Working quote ───────────────────────────────────────────────────────

// draftChange wraps a working-quote mutation that persists the draft and any
// category it created.
func (s *Session) draftChange(ctx context.Context, op string, change func(w *Workspace) (*MainCategory, error)) (QuoteView, error) {
	var view QuoteView
	err := s.apply(ctx, op, func(w *Workspace) (persistFunc, error) {
		created, err := change(w)
		if err != nil {
			return nil, err
		}
		view = w.View()
		return func(ctx context.Context, tx Repository) error {
			if err := saveCreated(ctx, tx, created); err != nil {
				return err
			}
			return saveDraft(ctx, tx, w)
		}, nil
	})
	return view, err
}

func (s *Session) NewQuote(ctx context.Context) (QuoteView, error) {
	return s.draftChange(ctx, "new_quote", func(w *Workspace) (*MainCategory, error) {
		w.NewQuote(s.now())
		return nil, nil
	})
}

func (s *Session) UpdateQuote(ctx context.Context, p QuotePatch) (QuoteView, error) {
	return s.draftChange(ctx, "update_quote", func(w *Workspace) (*MainCategory, error) {
		return nil, w.ApplyPatch(p)
	})
}

func (s *Session) AddLine(ctx context.Context, d LineDraft) (QuoteView, error) {
	return s.draftChange(ctx, "add_line", func(w *Workspace) (*MainCategory, error) {
		_, created, err := w.AddLine(d)
		return created, err
	})
}

func (s *Session) UpdateLine(ctx context.Context, id string, d LineDraft) (QuoteView, error) {
	return s.draftChange(ctx, "update_line", func(w *Workspace) (*MainCategory, error) {
		_, created, err := w.UpdateLine(id, d)
		return created, err
	})
}

func (s *Session) DeleteLine(ctx context.Context, id string) (QuoteView, error) {
	return s.draftChange(ctx, "delete_line", func(w *Workspace) (*MainCategory, error) {
		return nil, w.DeleteLine(id)
	})
}

// ── Saved quotes ────────────────────────────────────────────────────────

// SaveQuote saves the working quote under name (blank keeps its id).
func (s *Session) SaveQuote(ctx context.Context, name string) (q Quote, err error) {
	err = s.apply(ctx, "save_quote", func(w *Workspace) (persistFunc, error) {
		var err error
		if q, err = w.SaveCurrent(name, s.now()); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error {
			if err := tx.SaveQuote(ctx, q); err != nil {
				return err
			}
			return saveDraft(ctx, tx, w)
		}, nil
	})
	return q, err
}

func (s *Session) LoadQuote(ctx context.Context, id string) (QuoteView, error) {
	return s.draftChange(ctx, "load_quote", func(w *Workspace) (*MainCategory, error) {
		return nil, w.LoadSaved(id)
	})
}

func (s *Session) DeleteQuote(ctx context.Context, id string) error {
	return s.apply(ctx, "delete_quote", func(w *Workspace) (persistFunc, error) {
		if err := w.DeleteSaved(id); err != nil {
			return nil, err
		}
		return func(ctx context.Context, tx Repository) error { return tx.DeleteQuote(ctx, id) }, nil
	})
}

// ── Settings ────────────────────────────────────────────────────────────

func (s *Session) UpdateSettings(ctx context.Context, c CompanySettings) (out CompanySettings, err error) {
	err = s.apply(ctx, "update_settings", func(w *Workspace) (persistFunc, error) {
		if err := w.SetSettings(c); err != nil {
			return nil, err
		}
		out = w.Settings
		return func(ctx context.Context, tx Repository) error { return tx.SaveSettings(ctx, out) }, nil
	})
	return out, err
}

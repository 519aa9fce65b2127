package quoting

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errInjected = errors.New("injected failure")

// memRepo is an in-memory Repository. Setting failOn makes the named method
// fail; writes inside a failed WithTx are discarded.
type memRepo struct {
	mu         sync.Mutex
	draft      *Quote
	draftErr   error
	quotes     map[string]Quote
	catalog    map[string]CatalogItem
	catOrder   []string
	categories map[string]MainCategory
	settings   *CompanySettings
	failOn     map[string]bool

	callMu sync.Mutex
	calls  []string
}

func newMemRepo() *memRepo {
	return &memRepo{
		quotes:     map[string]Quote{},
		catalog:    map[string]CatalogItem{},
		categories: map[string]MainCategory{},
		failOn:     map[string]bool{},
	}
}

func (r *memRepo) hit(name string) error {
	r.callMu.Lock()
	defer r.callMu.Unlock()
	r.calls = append(r.calls, name)
	if r.failOn[name] {
		return fmt.Errorf("%s: %w", name, errInjected)
	}
	return nil
}

func (r *memRepo) LoadDraft(ctx context.Context) (Quote, error) {
	if err := r.hit("LoadDraft"); err != nil {
		return Quote{}, err
	}
	if r.draftErr != nil {
		return Quote{}, r.draftErr
	}
	if r.draft == nil {
		return Quote{}, fmt.Errorf("draft: %w", ErrNotFound)
	}
	return r.draft.Clone(), nil
}

func (r *memRepo) SaveDraft(ctx context.Context, q Quote) error {
	if err := r.hit("SaveDraft"); err != nil {
		return err
	}
	c := q.Clone()
	r.draft = &c
	return nil
}

func (r *memRepo) ListQuotes(ctx context.Context) ([]Quote, error) {
	if err := r.hit("ListQuotes"); err != nil {
		return nil, err
	}
	var out []Quote
	for _, q := range r.quotes {
		out = append(out, q.Clone())
	}
	return out, nil
}

func (r *memRepo) SaveQuote(ctx context.Context, q Quote) error {
	if err := r.hit("SaveQuote"); err != nil {
		return err
	}
	r.quotes[q.ID] = q.Clone()
	return nil
}

func (r *memRepo) DeleteQuote(ctx context.Context, id string) error {
	if err := r.hit("DeleteQuote"); err != nil {
		return err
	}
	delete(r.quotes, id)
	return nil
}

func (r *memRepo) ListCatalog(ctx context.Context) ([]CatalogItem, error) {
	if err := r.hit("ListCatalog"); err != nil {
		return nil, err
	}
	var out []CatalogItem
	for _, id := range r.catOrder {
		if it, ok := r.catalog[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memRepo) SaveCatalogItems(ctx context.Context, items ...CatalogItem) error {
	if err := r.hit("SaveCatalogItems"); err != nil {
		return err
	}
	for _, it := range items {
		if _, ok := r.catalog[it.ID]; !ok {
			r.catOrder = append(r.catOrder, it.ID)
		}
		r.catalog[it.ID] = it
	}
	return nil
}

func (r *memRepo) DeleteCatalogItem(ctx context.Context, id string) error {
	if err := r.hit("DeleteCatalogItem"); err != nil {
		return err
	}
	delete(r.catalog, id)
	return nil
}

func (r *memRepo) ListCategories(ctx context.Context) ([]MainCategory, error) {
	if err := r.hit("ListCategories"); err != nil {
		return nil, err
	}
	var out []MainCategory
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memRepo) SaveCategories(ctx context.Context, cats ...MainCategory) error {
	if err := r.hit("SaveCategories"); err != nil {
		return err
	}
	for _, c := range cats {
		r.categories[c.ID] = c
	}
	return nil
}

func (r *memRepo) DeleteCategory(ctx context.Context, id string) error {
	if err := r.hit("DeleteCategory"); err != nil {
		return err
	}
	delete(r.categories, id)
	return nil
}

func (r *memRepo) LoadSettings(ctx context.Context) (CompanySettings, error) {
	if err := r.hit("LoadSettings"); err != nil {
		return CompanySettings{}, err
	}
	if r.settings == nil {
		return CompanySettings{}, fmt.Errorf("settings: %w", ErrNotFound)
	}
	return *r.settings, nil
}

func (r *memRepo) SaveSettings(ctx context.Context, s CompanySettings) error {
	if err := r.hit("SaveSettings"); err != nil {
		return err
	}
	r.settings = &s
	return nil
}

// WithTx snapshots the repository and restores it when fn fails.
func (r *memRepo) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	draft      *Quote
	quotes     map[string]Quote
	catalog    map[string]CatalogItem
	catOrder   []string
	categories map[string]MainCategory
	settings   *CompanySettings
}

func (r *memRepo) snapshot() memSnapshot {
	s := memSnapshot{
		draft:      r.draft,
		quotes:     map[string]Quote{},
		catalog:    map[string]CatalogItem{},
		catOrder:   append([]string(nil), r.catOrder...),
		categories: map[string]MainCategory{},
		settings:   r.settings,
	}
	for k, v := range r.quotes {
		s.quotes[k] = v
	}
	for k, v := range r.catalog {
		s.catalog[k] = v
	}
	for k, v := range r.categories {
		s.categories[k] = v
	}
	return s
}

func (r *memRepo) restore(s memSnapshot) {
	r.draft = s.draft
	r.quotes = s.quotes
	r.catalog = s.catalog
	r.catOrder = s.catOrder
	r.categories = s.categories
	r.settings = s.settings
}

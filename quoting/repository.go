package quoting

import "context"

// Repository persists the workspace. Implementations return ErrNotFound
// (wrapped) for a missing draft or record.
type Repository interface {
	LoadDraft(ctx context.Context) (Quote, error)
	SaveDraft(ctx context.Context, q Quote) error

	ListQuotes(ctx context.Context) ([]Quote, error)
	SaveQuote(ctx context.Context, q Quote) error
	DeleteQuote(ctx context.Context, id string) error

	ListCatalog(ctx context.Context) ([]CatalogItem, error)
	SaveCatalogItems(ctx context.Context, items ...CatalogItem) error
	DeleteCatalogItem(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]MainCategory, error)
	SaveCategories(ctx context.Context, cats ...MainCategory) error
	DeleteCategory(ctx context.Context, id string) error

	LoadSettings(ctx context.Context) (CompanySettings, error)
	SaveSettings(ctx context.Context, s CompanySettings) error

	// WithTx runs fn against a repository bound to one transaction. fn's
	// error rolls every write back.
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

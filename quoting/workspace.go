package quoting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"quotebuilder/services"
)

// Workspace is the whole in-memory state of one quote builder: categories,
// catalog, the working quote, saved quotes and company settings. Methods
// validate before mutating; a failed call leaves the workspace unchanged
// unless noted.
type Workspace struct {
	Categories []MainCategory
	Catalog    []CatalogItem
	Current    Quote
	Saved      []Quote
	Settings   CompanySettings
	Defaults   QuoteDefaults
}

// NewWorkspace returns an empty workspace with a fresh working quote.
func NewWorkspace(defaults QuoteDefaults, now time.Time) *Workspace {
	w := &Workspace{Defaults: defaults}
	w.NewQuote(now)
	return w
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

// Clone returns a deep copy.
func (w *Workspace) Clone() *Workspace {
	c := &Workspace{
		Categories: append([]MainCategory(nil), w.Categories...),
		Catalog:    append([]CatalogItem(nil), w.Catalog...),
		Current:    w.Current.Clone(),
		Settings:   w.Settings,
		Defaults:   w.Defaults,
	}
	if w.Saved != nil {
		c.Saved = make([]Quote, len(w.Saved))
		for i, q := range w.Saved {
			c.Saved[i] = q.Clone()
		}
	}
	return c
}

// ── Categories ──────────────────────────────────────────────────────────

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (w *Workspace) categoryIndex(id string) int {
	for i, c := range w.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) categoryByName(name string) int {
	key := categoryKey(name)
	for i, c := range w.Categories {
		if categoryKey(c.Name) == key {
			return i
		}
	}
	return -1
}

// FindOrCreateCategory returns the category whose name matches name after
// trimming and ignoring case, creating it when there is none. A blank name
// returns the zero category and false.
func (w *Workspace) FindOrCreateCategory(name string) (MainCategory, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MainCategory{}, false
	}
	if i := w.categoryByName(name); i >= 0 {
		return w.Categories[i], false
	}
	cat := MainCategory{ID: newID("cat-"), Name: name}
	w.Categories = append(w.Categories, cat)
	return cat, true
}

// AddCategory creates a category, rejecting blank and duplicate names.
func (w *Workspace) AddCategory(name string) (MainCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MainCategory{}, fieldError("name", "is required")
	}
	if w.categoryByName(name) >= 0 {
		return MainCategory{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
	}
	cat, _ := w.FindOrCreateCategory(name)
	return cat, nil
}

func (w *Workspace) RenameCategory(id, name string) (MainCategory, error) {
	i := w.categoryIndex(id)
	if i < 0 {
		return MainCategory{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return MainCategory{}, fieldError("name", "is required")
	}
	if j := w.categoryByName(name); j >= 0 && j != i {
		return MainCategory{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
	}
	w.Categories[i].Name = name
	return w.Categories[i], nil
}

// CategoryUnlink reports the references cleared by DeleteCategory.
type CategoryUnlink struct {
	CatalogItems []string `json:"catalogItems"`
	CurrentLines int      `json:"currentLines"`
	SavedQuotes  []string `json:"savedQuotes"`
	SavedLines   int      `json:"savedLines"`
}

// DeleteCategory removes a category and clears mainCategoryId on every catalog
// item and on every line of the working and saved quotes that referenced it.
// No item or quote is removed.
func (w *Workspace) DeleteCategory(id string) (CategoryUnlink, error) {
	var u CategoryUnlink
	i := w.categoryIndex(id)
	if i < 0 {
		return u, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	w.Categories = append(w.Categories[:i], w.Categories[i+1:]...)

	for j := range w.Catalog {
		if w.Catalog[j].MainCategoryID == id {
			w.Catalog[j].MainCategoryID = ""
			u.CatalogItems = append(u.CatalogItems, w.Catalog[j].ID)
		}
	}
	u.CurrentLines = unlinkLines(&w.Current, id)
	for j := range w.Saved {
		if n := unlinkLines(&w.Saved[j], id); n > 0 {
			u.SavedLines += n
			u.SavedQuotes = append(u.SavedQuotes, w.Saved[j].ID)
		}
	}
	return u, nil
}

func unlinkLines(q *Quote, categoryID string) int {
	n := 0
	for i := range q.Items {
		if q.Items[i].MainCategoryID == categoryID {
			q.Items[i].MainCategoryID = ""
			n++
		}
	}
	return n
}

// SortedCategories returns the categories in Vietnamese alphabetical order.
func (w *Workspace) SortedCategories() []MainCategory {
	out := append([]MainCategory(nil), w.Categories...)
	col := collate.New(language.Vietnamese, collate.IgnoreCase)
	sort.SliceStable(out, func(a, b int) bool {
		return col.CompareString(out[a].Name, out[b].Name) < 0
	})
	return out
}

// resolveCategory turns a category id or name into an id. A non-blank name is
// found or created and wins over the id, so a partial update can re-categorise
// by name; otherwise the id must be known. created is non-nil when a category
// was added.
func (w *Workspace) resolveCategory(id, name string) (string, *MainCategory, error) {
	if strings.TrimSpace(name) == "" && id != "" {
		if w.categoryIndex(id) < 0 {
			return "", nil, fieldError("mainCategoryId", "refers to an unknown category")
		}
		return id, nil, nil
	}
	cat, created := w.FindOrCreateCategory(name)
	if created {
		return cat.ID, &cat, nil
	}
	return cat.ID, nil, nil
}

// ── Catalog ─────────────────────────────────────────────────────────────

func (w *Workspace) catalogIndex(id string) int {
	for i, it := range w.Catalog {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) CatalogItem(id string) (CatalogItem, error) {
	i := w.catalogIndex(id)
	if i < 0 {
		return CatalogItem{}, fmt.Errorf("catalog item %s: %w", id, ErrNotFound)
	}
	return w.Catalog[i], nil
}

func (w *Workspace) AddCatalogItem(d CatalogDraft) (CatalogItem, *MainCategory, error) {
	d.normalize()
	if err := validateStruct(d); err != nil {
		return CatalogItem{}, nil, err
	}
	catID, created, err := w.resolveCategory(d.MainCategoryID, d.MainCategoryName)
	if err != nil {
		return CatalogItem{}, nil, err
	}
	item := CatalogItem{
		ID:             newID("item-"),
		Name:           d.Name,
		Spec:           d.Spec,
		Unit:           d.Unit,
		Price:          d.Price,
		MainCategoryID: catID,
	}
	w.Catalog = append(w.Catalog, item)
	return item, created, nil
}

// CatalogDraftFor returns the draft that reproduces an existing item, so a
// partial update can be decoded on top of it.
func (w *Workspace) CatalogDraftFor(id string) (CatalogDraft, error) {
	it, err := w.CatalogItem(id)
	if err != nil {
		return CatalogDraft{}, err
	}
	return CatalogDraft{
		Name:           it.Name,
		Spec:           it.Spec,
		Unit:           it.Unit,
		Price:          it.Price,
		MainCategoryID: it.MainCategoryID,
	}, nil
}

func (w *Workspace) UpdateCatalogItem(id string, d CatalogDraft) (CatalogItem, *MainCategory, error) {
	i := w.catalogIndex(id)
	if i < 0 {
		return CatalogItem{}, nil, fmt.Errorf("catalog item %s: %w", id, ErrNotFound)
	}
	d.normalize()
	if err := validateStruct(d); err != nil {
		return CatalogItem{}, nil, err
	}
	catID, created, err := w.resolveCategory(d.MainCategoryID, d.MainCategoryName)
	if err != nil {
		return CatalogItem{}, nil, err
	}
	it := &w.Catalog[i]
	it.Name = d.Name
	it.Spec = d.Spec
	it.Unit = d.Unit
	it.Price = d.Price
	it.MainCategoryID = catID
	return *it, created, nil
}

func (w *Workspace) DeleteCatalogItem(id string) error {
	i := w.catalogIndex(id)
	if i < 0 {
		return fmt.Errorf("catalog item %s: %w", id, ErrNotFound)
	}
	w.Catalog = append(w.Catalog[:i], w.Catalog[i+1:]...)
	return nil
}

// SearchCatalog matches query case-insensitively against name and spec.
// A non-empty categoryID further restricts the result to that category.
func (w *Workspace) SearchCatalog(query, categoryID string) []CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]CatalogItem, 0, len(w.Catalog))
	for _, it := range w.Catalog {
		if categoryID != "" && it.MainCategoryID != categoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Spec), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (w *Workspace) catalogDuplicate(name, spec string) int {
	name, spec = categoryKey(name), categoryKey(spec)
	for i, it := range w.Catalog {
		if categoryKey(it.Name) == name && categoryKey(it.Spec) == spec {
			return i
		}
	}
	return -1
}

// SaveToCatalog adds d to the catalog. When an item with the same name and
// spec exists, it returns that item with ErrCatalogDuplicate unless overwrite
// is set, in which case unit, price and category are merged into it.
func (w *Workspace) SaveToCatalog(d CatalogDraft, overwrite bool) (CatalogItem, *MainCategory, error) {
	d.normalize()
	if err := validateStruct(d); err != nil {
		return CatalogItem{}, nil, err
	}
	i := w.catalogDuplicate(d.Name, d.Spec)
	if i < 0 {
		return w.AddCatalogItem(d)
	}
	if !overwrite {
		return w.Catalog[i], nil, fmt.Errorf("%w: %s", ErrCatalogDuplicate, d.Name)
	}
	catID, created, err := w.resolveCategory(d.MainCategoryID, d.MainCategoryName)
	if err != nil {
		return CatalogItem{}, nil, err
	}
	it := &w.Catalog[i]
	it.Unit = d.Unit
	it.Price = d.Price
	if catID != "" {
		it.MainCategoryID = catID
	}
	return *it, created, nil
}

// LineToCatalog saves a working quote line to the catalog at its
// pre-discount price.
func (w *Workspace) LineToCatalog(lineID string, overwrite bool) (CatalogItem, *MainCategory, error) {
	i := w.Current.lineIndex(lineID)
	if i < 0 {
		return CatalogItem{}, nil, fmt.Errorf("line %s: %w", lineID, ErrNotFound)
	}
	l := w.Current.Items[i]
	d := CatalogDraft{
		Name:  l.Name,
		Spec:  l.Spec,
		Unit:  l.Unit,
		Price: l.OriginalPrice,
	}
	if w.categoryIndex(l.MainCategoryID) >= 0 {
		d.MainCategoryID = l.MainCategoryID
	}
	return w.SaveToCatalog(d, overwrite)
}

// ImportSummary counts the effect of a catalog import.
type ImportSummary struct {
	Added             int `json:"added"`
	Updated           int `json:"updated"`
	CategoriesCreated int `json:"categoriesCreated"`
}

// ImportCatalog merges parsed rows into the catalog. A row whose id matches an
// item updates it; any other row is appended. A category cell that is not a
// known id is taken as a category name. It returns the final state of every
// touched item and the categories it created.
func (w *Workspace) ImportCatalog(rows []services.CatalogRow) (ImportSummary, []CatalogItem, []MainCategory) {
	var sum ImportSummary
	var createdCats []MainCategory
	var touched []string
	seen := make(map[string]bool)

	for _, r := range rows {
		catID := ""
		if ref := strings.TrimSpace(r.MainCategory); ref != "" {
			if w.categoryIndex(ref) >= 0 {
				catID = ref
			} else {
				cat, created := w.FindOrCreateCategory(ref)
				catID = cat.ID
				if created {
					createdCats = append(createdCats, cat)
				}
			}
		}

		item := CatalogItem{
			ID:             strings.TrimSpace(r.ID),
			Name:           r.Name,
			Spec:           r.Spec,
			Unit:           r.Unit,
			Price:          r.Price,
			MainCategoryID: catID,
		}
		if i := w.catalogIndex(item.ID); item.ID != "" && i >= 0 {
			w.Catalog[i] = item
			sum.Updated++
		} else {
			if item.ID == "" {
				item.ID = newID("item-")
			}
			w.Catalog = append(w.Catalog, item)
			sum.Added++
		}
		if !seen[item.ID] {
			seen[item.ID] = true
			touched = append(touched, item.ID)
		}
	}

	items := make([]CatalogItem, 0, len(touched))
	for _, id := range touched {
		items = append(items, w.Catalog[w.catalogIndex(id)])
	}
	sum.CategoriesCreated = len(createdCats)
	return sum, items, createdCats
}

// ── Working quote lines ─────────────────────────────────────────────────

// buildLine validates d and turns it into a priced line with the given id.
func (w *Workspace) buildLine(id string, d LineDraft) (LineItem, *MainCategory, error) {
	d.normalize()
	if d.CatalogItemID != "" {
		it, err := w.CatalogItem(d.CatalogItemID)
		if err != nil {
			return LineItem{}, nil, fieldError("catalogItemId", "refers to an unknown catalog item")
		}
		if d.Name == "" {
			d.Name = it.Name
		}
		if d.Spec == "" {
			d.Spec = it.Spec
		}
		if d.Unit == "" {
			d.Unit = it.Unit
		}
		if d.MainCategoryID == "" && d.MainCategoryName == "" {
			d.MainCategoryID = it.MainCategoryID
		}
		if d.OriginalPrice == nil {
			price := it.Price
			d.OriginalPrice = &price
		}
	}
	if err := validateStruct(d); err != nil {
		return LineItem{}, nil, err
	}
	catID, created, err := w.resolveCategory(d.MainCategoryID, d.MainCategoryName)
	if err != nil {
		return LineItem{}, nil, err
	}

	l := LineItem{
		ID:                id,
		Name:              d.Name,
		Spec:              d.Spec,
		Unit:              d.Unit,
		MainCategoryID:    catID,
		CalcType:          d.CalcType,
		Length:            copyFloat(d.Length),
		Height:            copyFloat(d.Height),
		Depth:             copyFloat(d.Depth),
		Quantity:          1,
		ItemDiscountValue: d.ItemDiscountValue,
		ItemDiscountType:  d.ItemDiscountType,
		ImageDataURL:      d.ImageDataURL,
	}
	if d.Quantity != nil {
		l.Quantity = *d.Quantity
	}
	if d.OriginalPrice != nil {
		l.OriginalPrice = *d.OriginalPrice
	}
	normalizeDims(&l)
	l.Recompute()
	return l, created, nil
}

// AddLine appends a line to the working quote.
func (w *Workspace) AddLine(d LineDraft) (LineItem, *MainCategory, error) {
	l, created, err := w.buildLine(newID("qitem-"), d)
	if err != nil {
		return LineItem{}, nil, err
	}
	w.Current.Items = append(w.Current.Items, l)
	return l, created, nil
}

// LineDraftFor returns the draft that reproduces an existing line.
func (w *Workspace) LineDraftFor(id string) (LineDraft, error) {
	i := w.Current.lineIndex(id)
	if i < 0 {
		return LineDraft{}, fmt.Errorf("line %s: %w", id, ErrNotFound)
	}
	l := w.Current.Items[i]
	qty, price := l.Quantity, l.OriginalPrice
	return LineDraft{
		Name:              l.Name,
		Spec:              l.Spec,
		Unit:              l.Unit,
		MainCategoryID:    l.MainCategoryID,
		CalcType:          l.CalcType,
		Length:            copyFloat(l.Length),
		Height:            copyFloat(l.Height),
		Depth:             copyFloat(l.Depth),
		Quantity:          &qty,
		OriginalPrice:     &price,
		ItemDiscountValue: l.ItemDiscountValue,
		ItemDiscountType:  l.ItemDiscountType,
		ImageDataURL:      l.ImageDataURL,
	}, nil
}

// UpdateLine replaces a line's inputs, keeping its id and position.
func (w *Workspace) UpdateLine(id string, d LineDraft) (LineItem, *MainCategory, error) {
	i := w.Current.lineIndex(id)
	if i < 0 {
		return LineItem{}, nil, fmt.Errorf("line %s: %w", id, ErrNotFound)
	}
	l, created, err := w.buildLine(id, d)
	if err != nil {
		return LineItem{}, nil, err
	}
	w.Current.Items[i] = l
	return l, created, nil
}

func (w *Workspace) DeleteLine(id string) error {
	i := w.Current.lineIndex(id)
	if i < 0 {
		return fmt.Errorf("line %s: %w", id, ErrNotFound)
	}
	w.Current.Items = append(w.Current.Items[:i], w.Current.Items[i+1:]...)
	return nil
}

// ── Working quote header ────────────────────────────────────────────────

// ApplyPatch updates the working quote's header and configuration.
func (w *Workspace) ApplyPatch(p QuotePatch) error {
	if err := p.validate(); err != nil {
		return err
	}
	q := &w.Current
	if p.CustomerName != nil {
		q.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.CustomerAddress != nil {
		q.CustomerAddress = strings.TrimSpace(*p.CustomerAddress)
	}
	if p.QuoteDate != nil {
		q.QuoteDate = strings.TrimSpace(*p.QuoteDate)
	}
	if p.Notes != nil {
		q.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Discount != nil {
		q.Discount = *p.Discount
		if q.Discount.Type == "" {
			q.Discount.Type = services.AmountPercent
		}
	}
	if p.Tax != nil {
		q.Tax = *p.Tax
	}
	if p.Installments != nil {
		q.Installments = *p.Installments
		for i := range q.Installments.Installments {
			inst := &q.Installments.Installments[i]
			inst.Name = strings.TrimSpace(inst.Name)
			if inst.Type == "" {
				inst.Type = services.AmountPercent
			}
		}
	}
	return nil
}

// NewQuote discards the working quote and starts a fresh one.
func (w *Workspace) NewQuote(now time.Time) {
	var plan services.InstallmentPlan
	for i := range plan.Installments {
		plan.Installments[i].Type = services.AmountPercent
	}
	w.Current = Quote{
		ID:        w.NextQuoteID(now),
		QuoteDate: now.Format(time.DateOnly),
		Items:     []LineItem{},
		Discount: services.DiscountConfig{
			Apply: w.Defaults.ApplyDiscount,
			Type:  services.AmountPercent,
		},
		Tax: services.TaxConfig{
			Apply:   w.Defaults.ApplyTax,
			Percent: w.Defaults.TaxPercent,
		},
		Installments: plan,
		Timestamp:    now,
	}
}

// NextQuoteID numbers a new quote after every id already used today by the
// working or a saved quote.
func (w *Workspace) NextQuoteID(now time.Time) string {
	ids := make([]string, 0, len(w.Saved)+1)
	ids = append(ids, w.Current.ID)
	for _, q := range w.Saved {
		ids = append(ids, q.ID)
	}
	return services.NextQuoteID(now, ids)
}

// SuggestedSaveName proposes "{customer}_{YYYYMMDD}", or the quote id when
// there is no customer name. The date comes from the quote id; a quote whose
// id carries no date, such as one loaded under a saved name, falls back to its
// quote date.
func (w *Workspace) SuggestedSaveName() string {
	q := w.Current
	if q.CustomerName == "" {
		return q.ID
	}
	prefix, _, _ := strings.Cut(q.ID, "-")
	if _, err := time.Parse(services.QuoteIDDateLayout, prefix); err != nil {
		prefix = ""
		if d, err := services.ParseQuoteDate(q.QuoteDate); err == nil {
			prefix = services.QuoteIDPrefix(d)
		}
	}
	return q.CustomerName + "_" + prefix
}

func (w *Workspace) savedIndex(id string) int {
	for i, q := range w.Saved {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// SaveCurrent stores the working quote in the saved list under name, or under
// its current id when name is blank, overwriting a saved quote with that id.
// The working quote takes the saved id.
func (w *Workspace) SaveCurrent(name string, now time.Time) (Quote, error) {
	if len(w.Current.Items) == 0 {
		return Quote{}, ErrEmptyQuote
	}
	if name = strings.TrimSpace(name); name != "" {
		w.Current.ID = name
	}
	w.Current.Timestamp = now

	saved := w.Current.Clone()
	if i := w.savedIndex(saved.ID); i >= 0 {
		w.Saved[i] = saved
	} else {
		w.Saved = append(w.Saved, saved)
	}
	return saved.Clone(), nil
}

// LoadSaved copies a saved quote into the working quote.
func (w *Workspace) LoadSaved(id string) error {
	i := w.savedIndex(id)
	if i < 0 {
		return fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}
	w.Current = w.Saved[i].Clone()
	w.Current.RecomputeAll()
	return nil
}

func (w *Workspace) DeleteSaved(id string) error {
	i := w.savedIndex(id)
	if i < 0 {
		return fmt.Errorf("quote %s: %w", id, ErrNotFound)
	}
	w.Saved = append(w.Saved[:i], w.Saved[i+1:]...)
	return nil
}

// SavedQuotes lists saved quotes, most recently saved first.
func (w *Workspace) SavedQuotes() []SavedQuoteSummary {
	out := make([]SavedQuoteSummary, len(w.Saved))
	for i, q := range w.Saved {
		out[i] = SavedQuoteSummary{
			ID:           q.ID,
			CustomerName: q.CustomerName,
			QuoteDate:    q.QuoteDate,
			ItemCount:    len(q.Items),
			GrandTotal:   q.Totals().GrandTotal,
			Timestamp:    q.Timestamp,
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timestamp.After(out[b].Timestamp)
	})
	return out
}

// View returns the working quote with its totals and installment summary.
func (w *Workspace) View() QuoteView {
	q := w.Current.Clone()
	return QuoteView{
		Quote:        q,
		Totals:       q.Totals(),
		Installments: q.InstallmentSummary(),
		SuggestedAs:  w.SuggestedSaveName(),
	}
}

// SetSettings replaces the company settings.
func (w *Workspace) SetSettings(s CompanySettings) error {
	s.normalize()
	if err := validateStruct(s); err != nil {
		return err
	}
	if s.LogoDataURL != "" && !strings.HasPrefix(s.LogoDataURL, "data:image/") {
		return fieldError("logoDataUrl", "must be an image data URL")
	}
	w.Settings = s
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
)

// ListingState is the fetch loop state machine.
type ListingState string

const (
	StateIdle    ListingState = "idle"
	StateLoading ListingState = "loading"
	StateSuccess ListingState = "success"
	StateError   ListingState = "error"
)

const loadErrMessage = "failed to load products, please try again"

// BrowseView is an immutable snapshot of a client's listing state.
type BrowseView struct {
	State      ListingState
	Products   []domain.Product
	TotalPages int
	Message    string
	Filters    domain.FilterState
	Search     string
	Sort       domain.Sort
	Page       int
	// PageParams is the canonical browser URL state: only the search
	// term survives manual filter changes.
	PageParams url.Values
}

// Empty reports the distinct no-results state: a successful fetch
// with nothing to show. While loading it stays false so stale empty
// messages never render.
func (v BrowseView) Empty() bool {
	return v.State == StateSuccess && len(v.Products) == 0
}

// Filtered reports whether a clear-all affordance applies.
func (v BrowseView) Filtered() bool {
	return v.Search != "" || !v.Filters.Empty()
}

type listingView struct {
	filters    domain.FilterState
	search     string
	sort       domain.Sort
	page       int
	state      ListingState
	products   []domain.Product
	totalPages int
	message    string
	seq        uint64
}

func (v *listingView) query() domain.ListingQuery {
	q := domain.NewListingQuery()
	q.Page = v.page
	q.Sort = v.sort
	q.TagIDs = v.filters.TagIDs
	q.MinPrice = v.filters.MinPrice
	q.MaxPrice = v.filters.MaxPrice
	q.Search = v.search
	return q
}

// BrowseService composes the canonical listing query from URL
// parameters, search text, sidebar selection and sort key, and runs
// the fetch loop over the upstream catalog. Completions are sequenced:
// a response belonging to a superseded query never overwrites newer
// state.
type BrowseService struct {
	catalog port.CatalogProvider
	store   port.ClientStore
	events  port.EventsProducer

	mu    sync.Mutex
	views map[string]*listingView
	tags  []domain.Tag
}

func NewBrowseService(
	catalog port.CatalogProvider,
	store port.ClientStore,
	events port.EventsProducer,
) *BrowseService {
	return &BrowseService{
		catalog: catalog,
		store:   store,
		events:  events,
		views:   make(map[string]*listingView),
	}
}

// Tags returns the tag list, fetched once and then served from memory:
// tags are immutable within a session.
func (s *BrowseService) Tags(ctx context.Context) ([]domain.Tag, error) {
	const op = "BrowseService.Tags"

	s.mu.Lock()
	cached := s.tags
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	tags, err := s.catalog.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
	return tags, nil
}

// Open seeds the view from URL parameters and fetches. The URL is the
// authoritative source here: search is taken verbatim and a category
// slug resolves to a tag by exact case-insensitive name match or via
// the alias table; the tag list must resolve first. No tag match
// leaves the filters untouched.
func (s *BrowseService) Open(
	ctx context.Context, clientID string, params url.Values,
) (BrowseView, error) {
	const op = "BrowseService.Open"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	category := params.Get("category")
	var matched domain.Tag
	var ok bool
	if category != "" {
		tags, err := s.Tags(ctx)
		if err != nil {
			log.Warn("category match skipped, tags unavailable", "err", err)
		} else {
			matched, ok = domain.MatchCategoryTag(tags, category)
		}
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.search = params.Get("search")
	if ok {
		v.filters = domain.FilterState{TagIDs: []int64{matched.ID}}
	}
	s.mu.Unlock()

	return s.refresh(ctx, clientID), nil
}

// SetFilters applies a sidebar selection. Any manual filter change
// resets the page and rewrites URL parameters to carry only the
// search term.
func (s *BrowseService) SetFilters(
	ctx context.Context, clientID string, f domain.FilterState,
) (BrowseView, error) {
	const op = "BrowseService.SetFilters"

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.filters = f
	v.page = 0
	s.mu.Unlock()

	s.emit(ctx, domain.ClientEvent{
		ClientID:   clientID,
		Kind:       domain.EventFilter,
		OccurredAt: time.Now(),
	})
	return s.refresh(ctx, clientID), nil
}

// SetSearch applies the free-text search and resets the page.
func (s *BrowseService) SetSearch(
	ctx context.Context, clientID, search string,
) (BrowseView, error) {
	const op = "BrowseService.SetSearch"

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.search = search
	v.page = 0
	s.mu.Unlock()

	if search != "" {
		s.emit(ctx, domain.ClientEvent{
			ClientID:   clientID,
			Kind:       domain.EventSearch,
			Search:     search,
			OccurredAt: time.Now(),
		})
	}
	return s.refresh(ctx, clientID), nil
}

// SetSort applies a sort selection. Sorting alone keeps the page.
func (s *BrowseService) SetSort(
	ctx context.Context, clientID, label string,
) (BrowseView, error) {
	const op = "BrowseService.SetSort"

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.sort = domain.ParseSortOption(label)
	s.mu.Unlock()

	return s.refresh(ctx, clientID), nil
}

// SetPage moves to a page; negative input is clamped to the first.
func (s *BrowseService) SetPage(
	ctx context.Context, clientID string, page int,
) (BrowseView, error) {
	const op = "BrowseService.SetPage"

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	if page < 0 {
		page = 0
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.page = page
	s.mu.Unlock()

	return s.refresh(ctx, clientID), nil
}

// ClearFilters resets tags, price bounds and search, returning the
// view to the unfiltered first page with empty URL parameters.
func (s *BrowseService) ClearFilters(
	ctx context.Context, clientID string,
) (BrowseView, error) {
	const op = "BrowseService.ClearFilters"

	if err := ctx.Err(); err != nil {
		return BrowseView{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	v := s.view(clientID)
	v.filters = domain.FilterState{}
	v.search = ""
	v.page = 0
	s.mu.Unlock()

	return s.refresh(ctx, clientID), nil
}

// View returns the current snapshot without fetching.
func (s *BrowseService) View(clientID string) BrowseView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.view(clientID))
}

// view returns the client's listing view, creating an idle one on
// first sight. Callers hold s.mu.
func (s *BrowseService) view(clientID string) *listingView {
	v, ok := s.views[clientID]
	if !ok {
		v = &listingView{sort: domain.DefaultSort, state: StateIdle}
		s.views[clientID] = v
	}
	return v
}

func (s *BrowseService) snapshot(v *listingView) BrowseView {
	return BrowseView{
		State:      v.state,
		Products:   v.products,
		TotalPages: v.totalPages,
		Message:    v.message,
		Filters:    v.filters,
		Search:     v.search,
		Sort:       v.sort,
		Page:       v.page,
		PageParams: domain.PageParams(v.search),
	}
}

// refresh runs one fetch loop iteration for the client's current
// descriptor.
func (s *BrowseService) refresh(ctx context.Context, clientID string) BrowseView {
	seq, q := s.beginFetch(clientID)

	bearer := s.bearer(ctx, clientID)
	page, err := s.catalog.ListProducts(ctx, q, bearer)

	return s.completeFetch(clientID, seq, page, err)
}

// beginFetch enters loading and stamps the fetch with the next
// sequence number. Prior results stay in memory but are not rendered
// while loading.
func (s *BrowseService) beginFetch(clientID string) (uint64, domain.ListingQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.view(clientID)
	v.seq++
	v.state = StateLoading
	return v.seq, v.query()
}

// completeFetch applies a fetch result unless a newer fetch was issued
// in the meantime: completions arrive in any order and only the
// latest sequence may write.
func (s *BrowseService) completeFetch(
	clientID string, seq uint64, page domain.ProductPage, err error,
) BrowseView {
	const op = "BrowseService.completeFetch"
	log := slog.With("op", op)

	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.view(clientID)
	if seq != v.seq {
		log.Debug("stale completion discarded", "seq", seq, "latest", v.seq)
		return s.snapshot(v)
	}

	if err != nil {
		log.Error("failed to load products", "err", err)
		v.state = StateError
		v.products = nil
		v.totalPages = 0
		v.message = loadErrMessage
		return s.snapshot(v)
	}

	v.state = StateSuccess
	v.products = page.Products
	v.totalPages = page.TotalPages
	v.message = ""
	return s.snapshot(v)
}

// bearer reads the client's token; store trouble degrades to an
// anonymous request.
func (s *BrowseService) bearer(ctx context.Context, clientID string) string {
	const op = "BrowseService.bearer"

	token, err := s.store.Token(ctx, clientID)
	if err != nil {
		slog.With("op", op).Warn("token unavailable", "err", err)
		return ""
	}
	return token
}

// emit forwards an activity event to the stream; failures are logged
// only.
func (s *BrowseService) emit(ctx context.Context, evt domain.ClientEvent) {
	const op = "BrowseService.emit"

	if s.events == nil {
		return
	}
	if err := s.events.ProduceEvents(ctx, []domain.ClientEvent{evt}); err != nil {
		slog.With("op", op).Warn("failed to produce client event", "err", err)
	}
}

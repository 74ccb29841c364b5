package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrFetchFailed wraps every failed Refresh or LoadMore. The underlying
// ErrNetwork or ErrDecode stays reachable through errors.Is.
var ErrFetchFailed = errors.New("catalog: fetch failed")

// Status is the load state of a Feed.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// State is a snapshot of a Feed.
type State struct {
	Items       []Item
	Loading     bool
	CurrentPage int
	Status      Status
	// Err is the cause of the last failure while Status is StatusError.
	Err error
}

// Feed merges fetched pages into one ordered list. Page 1 replaces the list,
// later pages are appended as-is (an item the upstream listing shifted across
// a page boundary can appear twice).
//
// Results apply in the order requests settle, not the order they were
// issued. Loading stays true until the most recently issued request settles.
type Feed struct {
	fetcher Fetcher
	log     *logrus.Logger

	mu          sync.Mutex
	items       []Item
	currentPage int
	loaded      bool
	status      Status
	lastErr     error
	latest      uint64
	onChange    func(State)
}

func NewFeed(fetcher Fetcher, log *logrus.Logger) *Feed {
	if log == nil {
		log = logrus.New()
	}
	return &Feed{
		fetcher:     fetcher,
		log:         log,
		currentPage: 1,
		status:      StatusIdle,
	}
}

// OnChange registers fn to be called with a fresh snapshot after every state
// transition. fn runs outside the Feed's lock.
func (f *Feed) OnChange(fn func(State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// Refresh fetches page 1 and, on success, replaces the list with it.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	seq := f.begin()
	f.mu.Unlock()
	f.notify()

	return f.fetch(ctx, seq, 1)
}

// LoadMore fetches the page after CurrentPage and appends it. It does nothing
// while a request is outstanding. Before any page has loaded it fetches page 1.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusLoading {
		f.mu.Unlock()
		f.log.Debug("load more skipped: fetch in flight")
		return nil
	}
	page := 1
	if f.loaded {
		page = f.currentPage + 1
	}
	seq := f.begin()
	f.mu.Unlock()
	f.notify()

	return f.fetch(ctx, seq, page)
}

// begin marks a new request as the most recent one. Caller holds f.mu.
func (f *Feed) begin() uint64 {
	f.latest++
	f.status = StatusLoading
	return f.latest
}

func (f *Feed) fetch(ctx context.Context, seq uint64, page int) error {
	p, err := f.fetcher.FetchPage(ctx, page)

	f.mu.Lock()
	newest := seq == f.latest
	if err != nil {
		f.lastErr = err
		if newest {
			f.status = StatusError
		}
	} else {
		f.apply(p)
		if newest {
			f.status = StatusIdle
			f.lastErr = nil
		}
	}
	f.mu.Unlock()
	f.notify()

	if err != nil {
		f.log.WithError(err).WithField("page", page).Warn("catalog fetch failed")
		return fmt.Errorf("%w: page %d: %w", ErrFetchFailed, page, err)
	}
	return nil
}

// apply merges a settled page. Caller holds f.mu.
func (f *Feed) apply(p *Page) {
	if p.Number == 1 {
		f.items = append([]Item(nil), p.Items...)
	} else {
		f.items = append(f.items, p.Items...)
	}
	f.currentPage = p.Number
	f.loaded = true
}

func (f *Feed) notify() {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(f.State())
	}
}

// State returns a snapshot; the Items slice is a copy.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := State{
		Items:       append([]Item(nil), f.items...),
		Loading:     f.status == StatusLoading,
		CurrentPage: f.currentPage,
		Status:      f.status,
	}
	if f.status == StatusError {
		s.Err = f.lastErr
	}
	return s
}

// Items returns a copy of the merged list.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item(nil), f.items...)
}

// Item looks up a loaded item by ID.
func (f *Feed) Item(id int) (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Search filters the merged list by query. See Filter.
func (f *Feed) Search(query string) []Item {
	return Filter(f.Items(), query)
}

// Filter returns the items whose title (or English title) contains query,
// ignoring case. A blank query matches everything. items is not modified.
func Filter(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if q == "" ||
			strings.Contains(strings.ToLower(it.Title), q) ||
			(it.TitleEnglish != "" && strings.Contains(strings.ToLower(it.TitleEnglish), q)) {
			out = append(out, it)
		}
	}
	return out
}

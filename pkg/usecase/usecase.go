package usecase

import (
	"sync"
	"time"

	"github.com/museum-lab/engagedesk/pkg/domain/interfaces"
	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/service/slack"
)

const defaultResetDelay = 3 * time.Second

// UseCases implements the application logic: catalog loading, form session
// lifecycle, and request submission.
type UseCases struct {
	repo    interfaces.Repository
	client  interfaces.BoardClient
	catalog *model.Catalog
	boards  *model.BoardConfig

	normalizer *model.Normalizer
	slack      slack.Service
	resetDelay time.Duration
	location   *time.Location

	// Catalog snapshot state, replaced wholesale by LoadCatalog. generation
	// tags each reload so a slow fetch can never overwrite a newer snapshot.
	mu         sync.RWMutex
	items      []model.Item
	destLabels map[types.CriterionID][]string
	loading    bool
	generation int64
	applied    int64
}

// Option configures UseCases.
type Option func(*UseCases)

// WithSlack enables Slack notification on request creation.
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

// WithResetDelay overrides how long a submitted session keeps showing its
// result before being reset for the next request.
func WithResetDelay(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.resetDelay = d
	}
}

// WithLocation sets the time zone event timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCases) {
		uc.location = loc
	}
}

// New creates the use case set.
func New(repo interfaces.Repository, client interfaces.BoardClient, catalog *model.Catalog, boards *model.BoardConfig, normalizer *model.Normalizer, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		client:     client,
		catalog:    catalog,
		boards:     boards,
		normalizer: normalizer,
		resetDelay: defaultResetDelay,
		location:   time.Local,
		destLabels: make(map[types.CriterionID][]string),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Catalog returns the static criteria catalog.
func (uc *UseCases) Catalog() *model.Catalog {
	return uc.catalog
}

// Loading reports whether a catalog reload is in flight.
func (uc *UseCases) Loading() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.loading
}

// Items returns the current catalog item snapshot.
func (uc *UseCases) Items() []model.Item {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.items
}

// destinationLabels returns the accepted label set of the criterion's
// destination column, or nil when unknown.
func (uc *UseCases) destinationLabels(id types.CriterionID) []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.destLabels[id]
}

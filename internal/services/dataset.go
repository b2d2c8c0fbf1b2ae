package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"resto-dashboard/internal/models"
	"resto-dashboard/internal/observability"
)

// Dataset is the joined, cleaned view of the two source files together with
// the facet values the filter controls offer. It is immutable once built;
// every interaction derives new tables from it.
type Dataset struct {
	Records          []models.EnrichedRecord
	Facets           models.Facets
	TransactionCount int
	LocationCount    int
	LoadedAt         time.Time
}

// Store is a process-wide read-through cache of the Dataset. The cached
// value is invalidated when the TTL elapses or when either source file's
// modification time changes; the next call reloads from disk. A reload
// failure fails that call, it does not fall back to the stale copy.
type Store struct {
	salesPath    string
	locationPath string
	ttl          time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	cached   *Dataset
	salesMod time.Time
	locMod   time.Time
}

func NewStore(salesPath, locationPath string, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		salesPath:    salesPath,
		locationPath: locationPath,
		ttl:          ttl,
		logger:       logger,
	}
}

// Dataset returns the cached dataset, reloading the source files first when
// the cache is cold, expired, or stale against the files on disk.
func (s *Store) Dataset(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cached.LoadedAt) < s.ttl && !s.sourcesChanged() {
		return s.cached, nil
	}
	return s.reloadLocked(ctx)
}

// Refresh forces a reload regardless of TTL.
func (s *Store) Refresh(ctx context.Context) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Store) sourcesChanged() bool {
	return sourceChanged(s.salesPath, s.salesMod) || sourceChanged(s.locationPath, s.locMod)
}

// sourceChanged compares the file's current mtime against the one recorded
// at load. A stat failure counts as a change only when the file had been
// seen before, so datasets injected without backing files stay valid.
func sourceChanged(path string, last time.Time) bool {
	mod, err := fileModTime(path)
	if err != nil {
		return !last.IsZero()
	}
	return !mod.Equal(last)
}

func (s *Store) reloadLocked(ctx context.Context) (*Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	defer span.Finish()

	start := time.Now()

	var (
		transactions []models.TransactionRecord
		locations    []models.LocationRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = LoadTransactions(gctx, s.salesPath)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = LoadLocations(gctx, s.locationPath)
		return err
	})
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	span.SetTag("transactions", strconv.Itoa(len(transactions)))
	span.SetTag("locations", strconv.Itoa(len(locations)))

	records := Join(transactions, locations)
	ds := &Dataset{
		Records:          records,
		Facets:           buildFacets(records),
		TransactionCount: len(transactions),
		LocationCount:    len(locations),
		LoadedAt:         time.Now(),
	}

	salesMod, _ := fileModTime(s.salesPath)
	locMod, _ := fileModTime(s.locationPath)
	s.cached = ds
	s.salesMod = salesMod
	s.locMod = locMod

	s.logger.Info("dataset loaded",
		"transactions", len(transactions),
		"locations", len(locations),
		"duration", time.Since(start),
	)
	return ds, nil
}

// SetData installs a prebuilt record set, bypassing the source files.
// Intended for tests.
func (s *Store) SetData(records []models.EnrichedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = &Dataset{
		Records:  records,
		Facets:   buildFacets(records),
		LoadedAt: time.Now(),
	}
	// Pin the mtimes so the injected data survives staleness checks.
	s.salesMod, _ = fileModTime(s.salesPath)
	s.locMod, _ = fileModTime(s.locationPath)
}

// Stats reports cache state for the admin endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		return map[string]any{"loaded": false}
	}
	return map[string]any{
		"loaded":       true,
		"loaded_at":    s.cached.LoadedAt,
		"transactions": s.cached.TransactionCount,
		"locations":    s.cached.LocationCount,
		"records":      len(s.cached.Records),
		"countries":    len(s.cached.Facets.Countries),
		"cities":       len(s.cached.Facets.Cities),
		"restaurants":  len(s.cached.Facets.Restaurants),
		"ttl":          s.ttl.String(),
	}
}

func buildFacets(records []models.EnrichedRecord) models.Facets {
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})
	restaurants := make(map[string]struct{})

	var facets models.Facets
	seenYear := false
	for _, rec := range records {
		if rec.Country != nil {
			countries[*rec.Country] = struct{}{}
		}
		if rec.City != nil {
			cities[*rec.City] = struct{}{}
		}
		if rec.RestaurantName != nil {
			restaurants[*rec.RestaurantName] = struct{}{}
		}
		if rec.Year != nil {
			if !seenYear {
				facets.YearMin, facets.YearMax = *rec.Year, *rec.Year
				seenYear = true
				continue
			}
			if *rec.Year < facets.YearMin {
				facets.YearMin = *rec.Year
			}
			if *rec.Year > facets.YearMax {
				facets.YearMax = *rec.Year
			}
		}
	}

	facets.Countries = sortedKeys(countries)
	facets.Cities = sortedKeys(cities)
	facets.Restaurants = sortedKeys(restaurants)
	return facets
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

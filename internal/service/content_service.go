package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bryllupspakken/backend/internal/content"
	"github.com/bryllupspakken/backend/internal/logging"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/pkg/sanity"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnknownCountry heads the group of cities without a country reference.
const UnknownCountry = "Ukjent land"

// ContentFetcher runs a CMS query. *sanity.Client implements it.
type ContentFetcher interface {
	Fetch(ctx context.Context, query string, params map[string]any, out any) error
}

// ContentService serves the public CMS pages.
type ContentService interface {
	Home(ctx context.Context) (*model.HomePage, error)
	Destinations(ctx context.Context) (*model.DestinationsPage, error)
	Destination(ctx context.Context, slug string) (*model.Destination, error)
	Countries(ctx context.Context) ([]model.Country, error)
	Cities(ctx context.Context) (*model.CitiesPage, error)
	City(ctx context.Context, slug string) (*model.City, error)
	BlogPosts(ctx context.Context) ([]model.BlogPost, error)
	BlogPost(ctx context.Context, slug string) (*model.BlogPost, error)
}

type contentService struct {
	cms    ContentFetcher
	logger *slog.Logger
}

// NewContentService creates a ContentService backed by cms.
func NewContentService(cms ContentFetcher, logger *slog.Logger) ContentService {
	return &contentService{cms: cms, logger: logging.OrDefault(logger).With("component", "content")}
}

// fetchList treats a null result as an empty list.
func fetchList[T any](ctx context.Context, cms ContentFetcher, query string) ([]T, error) {
	var out []T
	err := cms.Fetch(ctx, query, nil, &out)
	if err != nil && !errors.Is(err, sanity.ErrNoResult) {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// fetchOne maps a null result to ErrNotFound.
func fetchOne[T any](ctx context.Context, cms ContentFetcher, query, slug string) (*T, error) {
	var out T
	if err := cms.Fetch(ctx, query, map[string]any{"slug": slug}, &out); err != nil {
		if errors.Is(err, sanity.ErrNoResult) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *contentService) Home(ctx context.Context) (*model.HomePage, error) {
	ds, err := fetchList[model.Destination](ctx, s.cms, content.Destinations)
	if err != nil {
		s.logger.Error("fetch destinations failed", "error", err)
		return nil, fmt.Errorf("fetch destinations: %w", err)
	}
	return &model.HomePage{Destinations: ds, FallbackImage: model.FallbackDestinationImage}, nil
}

func (s *contentService) Destinations(ctx context.Context) (*model.DestinationsPage, error) {
	ds, err := fetchList[model.Destination](ctx, s.cms, content.Destinations)
	if err != nil {
		s.logger.Error("fetch destinations failed", "error", err)
		return nil, fmt.Errorf("fetch destinations: %w", err)
	}
	return &model.DestinationsPage{Destinations: ds, FilterMeta: BuildFilterMeta(ds)}, nil
}

func (s *contentService) Destination(ctx context.Context, slug string) (*model.Destination, error) {
	d, err := fetchOne[model.Destination](ctx, s.cms, content.DestinationBySlug, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("fetch destination failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("fetch destination %s: %w", slug, err)
	}
	return d, err
}

func (s *contentService) Countries(ctx context.Context) ([]model.Country, error) {
	cs, err := fetchList[model.Country](ctx, s.cms, content.Countries)
	if err != nil {
		s.logger.Error("fetch countries failed", "error", err)
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return cs, nil
}

func (s *contentService) Cities(ctx context.Context) (*model.CitiesPage, error) {
	cs, err := fetchList[model.City](ctx, s.cms, content.Cities)
	if err != nil {
		s.logger.Error("fetch cities failed", "error", err)
		return nil, fmt.Errorf("fetch cities: %w", err)
	}
	return &model.CitiesPage{Cities: cs, CitiesByCountry: GroupCitiesByCountry(cs)}, nil
}

func (s *contentService) City(ctx context.Context, slug string) (*model.City, error) {
	c, err := fetchOne[model.City](ctx, s.cms, content.CityBySlug, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("fetch city failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("fetch city %s: %w", slug, err)
	}
	return c, err
}

func (s *contentService) BlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	ps, err := fetchList[model.BlogPost](ctx, s.cms, content.BlogPosts)
	if err != nil {
		s.logger.Error("fetch blog posts failed", "error", err)
		return nil, fmt.Errorf("fetch blog posts: %w", err)
	}
	return ps, nil
}

func (s *contentService) BlogPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := fetchOne[model.BlogPost](ctx, s.cms, content.BlogPostBySlug, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("fetch blog post failed", "slug", slug, "error", err)
		return nil, fmt.Errorf("fetch blog post %s: %w", slug, err)
	}
	return p, err
}

// BuildFilterMeta derives the destinations filter sidebar: unique values
// sorted in Norwegian order, smallest/largest capacity and total cost.
func BuildFilterMeta(ds []model.Destination) model.DestinationFilterMeta {
	var countries, regions, venues, seasons []string
	var capacity, price model.Range
	for _, d := range ds {
		if d.Location != nil {
			countries = append(countries, d.Location.Country)
			regions = append(regions, d.Location.Region)
		}
		venues = append(venues, d.VenueTypes...)
		seasons = append(seasons, d.BestTimeToVisit...)
		if d.Capacity != nil {
			capacity.Min = minPtr(capacity.Min, d.Capacity.Min)
			capacity.Max = maxPtr(capacity.Max, d.Capacity.Max)
		}
		if d.AverageCosts != nil && d.AverageCosts.Total != nil {
			price.Min = minPtr(price.Min, d.AverageCosts.Total)
			price.Max = maxPtr(price.Max, d.AverageCosts.Total)
		}
	}
	return model.DestinationFilterMeta{
		Countries:     uniqueSorted(countries),
		Regions:       uniqueSorted(regions),
		VenueTypes:    uniqueSorted(venues),
		BestSeasons:   uniqueSorted(seasons),
		CapacityRange: capacity,
		PriceRange:    price,
	}
}

// x/text has no Bokmål tailoring of its own and sorts "nb" with the root
// order, putting Æ and Å before A. Nynorsk shares the alphabet order.
var norwegian = language.MustParse("nn")

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	// collate.Collator is not safe for concurrent use.
	collate.New(norwegian).SortStrings(out)
	return out
}

func minPtr(cur, v *int) *int {
	if v == nil {
		return cur
	}
	if cur == nil || *v < *cur {
		n := *v
		return &n
	}
	return cur
}

func maxPtr(cur, v *int) *int {
	if v == nil {
		return cur
	}
	if cur == nil || *v > *cur {
		n := *v
		return &n
	}
	return cur
}

// GroupCitiesByCountry groups cities under their country name, in the order
// each country is first seen. Cities without a country go under UnknownCountry.
func GroupCitiesByCountry(cities []model.City) []model.CityGroup {
	groups := []model.CityGroup{}
	index := map[string]int{}
	for _, c := range cities {
		name := UnknownCountry
		if c.Country != nil && c.Country.Name != "" {
			name = c.Country.Name
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.CityGroup{CountryName: name, Country: c.Country, Cities: []model.City{}})
		}
		groups[i].Cities = append(groups[i].Cities, c)
	}
	return groups
}

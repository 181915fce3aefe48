package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

const (
	holidayAPIBaseURL = "https://date.nager.at/api/v3/PublicHolidays"
	holidayCacheTTL   = 12 * time.Hour
)

// LocationService syncs the Vietnamese administrative divisions from the
// public provinces API into Mongo and serves lookups from there, so the
// portal keeps answering when the upstream is down.
type LocationService struct {
	repo    *repository.LocationRepository
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	log     *zap.Logger

	mu       sync.Mutex
	holidays map[string]holidayEntry
}

type holidayEntry struct {
	list      []models.Holiday
	fetchedAt time.Time
}

func NewLocationService(repo *repository.LocationRepository, baseURL string, log *zap.Logger) *LocationService {
	st := gobreaker.Settings{
		Name:     "locations-upstream",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &LocationService{
		repo:     repo,
		http:     &http.Client{Timeout: 15 * time.Second},
		breaker:  gobreaker.NewCircuitBreaker(st),
		baseURL:  baseURL,
		log:      log,
		holidays: make(map[string]holidayEntry),
	}
}

// fetchJSON GETs a URL through the breaker with exponential backoff and
// decodes the body into out.
func (s *LocationService) fetchJSON(ctx context.Context, url string, out any) error {
	operation := func() error {
		_, err := s.breaker.Execute(func() (any, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			resp, err := s.http.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 {
				return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, backoff.Permanent(fmt.Errorf("upstream status %d", resp.StatusCode))
			}
			return nil, json.NewDecoder(resp.Body).Decode(out)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// Sync pulls the full province, district and ward lists and upserts them.
func (s *LocationService) Sync(ctx context.Context) error {
	var provinces []models.Province
	if err := s.fetchJSON(ctx, s.baseURL+"/p/", &provinces); err != nil {
		return fmt.Errorf("fetch provinces: %w", err)
	}
	if err := s.repo.UpsertProvinces(ctx, provinces); err != nil {
		return fmt.Errorf("store provinces: %w", err)
	}

	var districts []models.District
	if err := s.fetchJSON(ctx, s.baseURL+"/d/", &districts); err != nil {
		return fmt.Errorf("fetch districts: %w", err)
	}
	if err := s.repo.UpsertDistricts(ctx, districts); err != nil {
		return fmt.Errorf("store districts: %w", err)
	}

	var wards []models.Ward
	if err := s.fetchJSON(ctx, s.baseURL+"/w/", &wards); err != nil {
		return fmt.Errorf("fetch wards: %w", err)
	}
	if err := s.repo.UpsertWards(ctx, wards); err != nil {
		return fmt.Errorf("store wards: %w", err)
	}

	s.log.Info("locations synced",
		zap.Int("provinces", len(provinces)),
		zap.Int("districts", len(districts)),
		zap.Int("wards", len(wards)))
	return nil
}

func (s *LocationService) Provinces(ctx context.Context) ([]*models.Province, error) {
	return s.repo.ListProvinces(ctx)
}

func (s *LocationService) Districts(ctx context.Context, provinceCode int) ([]*models.District, error) {
	return s.repo.ListDistricts(ctx, provinceCode)
}

func (s *LocationService) Wards(ctx context.Context, districtCode int) ([]*models.Ward, error) {
	return s.repo.ListWards(ctx, districtCode)
}

// Holidays returns the public holidays for a year and country. For Vietnam
// the upstream list misses the lunar-calendar days, so those are merged in.
// Results are cached in process.
func (s *LocationService) Holidays(ctx context.Context, year int, countryCode string) ([]models.Holiday, error) {
	key := fmt.Sprintf("%d/%s", year, countryCode)
	s.mu.Lock()
	if entry, ok := s.holidays[key]; ok && time.Since(entry.fetchedAt) < holidayCacheTTL {
		s.mu.Unlock()
		return entry.list, nil
	}
	s.mu.Unlock()

	var list []models.Holiday
	url := fmt.Sprintf("%s/%d/%s", holidayAPIBaseURL, year, countryCode)
	if err := s.fetchJSON(ctx, url, &list); err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	if countryCode == "VN" {
		list = mergeLunarHolidays(list, year)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })

	s.mu.Lock()
	s.holidays[key] = holidayEntry{list: list, fetchedAt: time.Now()}
	s.mu.Unlock()
	return list, nil
}

// lunarHolidaysVN lists the lunar-calendar public holidays per Gregorian
// year. Extend the table when the next year's dates are announced.
var lunarHolidaysVN = map[int][]models.Holiday{
	2025: {
		{Date: "2025-01-28", LocalName: "Giao thừa Tết Nguyên Đán", Name: "Lunar New Year's Eve"},
		{Date: "2025-01-29", LocalName: "Tết Nguyên Đán", Name: "Lunar New Year"},
		{Date: "2025-01-30", LocalName: "Mùng 2 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2025-01-31", LocalName: "Mùng 3 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2025-02-01", LocalName: "Mùng 4 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2025-02-02", LocalName: "Mùng 5 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2025-04-07", LocalName: "Giỗ Tổ Hùng Vương", Name: "Hung Kings Commemoration Day"},
	},
	2026: {
		{Date: "2026-02-16", LocalName: "Giao thừa Tết Nguyên Đán", Name: "Lunar New Year's Eve"},
		{Date: "2026-02-17", LocalName: "Tết Nguyên Đán", Name: "Lunar New Year"},
		{Date: "2026-02-18", LocalName: "Mùng 2 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2026-02-19", LocalName: "Mùng 3 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2026-02-20", LocalName: "Mùng 4 Tết", Name: "Lunar New Year Holiday"},
		{Date: "2026-04-26", LocalName: "Giỗ Tổ Hùng Vương", Name: "Hung Kings Commemoration Day"},
	},
}

func mergeLunarHolidays(list []models.Holiday, year int) []models.Holiday {
	extra, ok := lunarHolidaysVN[year]
	if !ok {
		return list
	}
	seen := make(map[string]bool, len(list))
	for _, h := range list {
		seen[h.Date] = true
	}
	for _, h := range extra {
		if seen[h.Date] {
			continue
		}
		h.CountryCode = "VN"
		h.Fixed = false
		h.Global = true
		h.Types = []string{"Public"}
		list = append(list, h)
	}
	return list
}

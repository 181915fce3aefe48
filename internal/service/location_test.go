package service

import (
	"testing"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

func TestMergeLunarHolidaysAddsMissingDays(t *testing.T) {
	upstream := []models.Holiday{
		{Date: "2025-01-01", LocalName: "Tết Dương lịch", Name: "New Year's Day", CountryCode: "VN"},
		{Date: "2025-09-02", LocalName: "Quốc khánh", Name: "National Day", CountryCode: "VN"},
	}
	out := mergeLunarHolidays(upstream, 2025)

	dates := map[string]bool{}
	for _, h := range out {
		dates[h.Date] = true
	}
	if !dates["2025-01-29"] {
		t.Fatal("Tết missing from merged list")
	}
	if !dates["2025-04-07"] {
		t.Fatal("Hung Kings day missing from merged list")
	}
	if !dates["2025-01-01"] || !dates["2025-09-02"] {
		t.Fatal("upstream entries lost")
	}
}

func TestMergeLunarHolidaysDedupesByDate(t *testing.T) {
	upstream := []models.Holiday{
		{Date: "2025-01-29", LocalName: "Tết Nguyên Đán", Name: "Lunar New Year", CountryCode: "VN"},
	}
	out := mergeLunarHolidays(upstream, 2025)
	count := 0
	for _, h := range out {
		if h.Date == "2025-01-29" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d entries for 2025-01-29, want 1", count)
	}
}

func TestMergeLunarHolidaysUnknownYearUnchanged(t *testing.T) {
	upstream := []models.Holiday{{Date: "2030-01-01"}}
	out := mergeLunarHolidays(upstream, 2030)
	if len(out) != 1 {
		t.Fatalf("got %d entries, want 1", len(out))
	}
}

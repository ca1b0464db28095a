package calendar

import (
	"errors"
	"math"
	"testing"
	"time"
)

//
// NormalizeTimeRange
//

func TestNormalizeTimeRange_SwappedBounds(t *testing.T) {
	start := mustTime(t, 2025, 1, 1, 12, 0)
	end := mustTime(t, 2025, 1, 1, 10, 0)

	tr, err := NormalizeTimeRange(start, end, time.UTC, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !tr.Start.Equal(end) || !tr.End.Equal(start) {
		t.Fatalf("expected Start=%v End=%v, got %v", end, start, tr)
	}
}

func TestNormalizeTimeRange_MaxDuration(t *testing.T) {
	start := mustTime(t, 2025, 1, 1, 10, 0)
	end := mustTime(t, 2025, 3, 1, 10, 0)
	maxDuration := 31 * 24 * time.Hour

	tr, err := NormalizeTimeRange(start, end, time.UTC, maxDuration)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dur := tr.End.Sub(tr.Start); dur != maxDuration {
		t.Fatalf("expected duration %v, got %v", maxDuration, dur)
	}
}

func TestNormalizeTimeRange_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	tr, err := NormalizeTimeRange(mustTime(t, 2025, 1, 1, 10, 0), mustTime(t, 2025, 1, 1, 11, 0), loc, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tr.Start.Location() != loc || tr.Start.Hour() != 13 {
		t.Fatalf("expected start converted to UTC+3, got %v", tr.Start)
	}
}

func TestNormalizeTimeRange_Invalid(t *testing.T) {
	if _, err := NormalizeTimeRange(time.Time{}, time.Time{}, time.UTC, 0); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for zero times, got %v", err)
	}
	at := mustTime(t, 2025, 1, 1, 10, 0)
	if _, err := NormalizeTimeRange(at, at, time.UTC, 0); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for empty range, got %v", err)
	}
	if _, err := NewTimeRange(at, time.Time{}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange from NewTimeRange, got %v", err)
	}
}

//
// HasOverlap
//

func TestHasOverlap_TouchingIsNotOverlap(t *testing.T) {
	newRange := TimeRange{Start: mustTime(t, 2025, 1, 1, 10, 0), End: mustTime(t, 2025, 1, 1, 11, 0)}
	existing := []TimeRange{
		{Start: mustTime(t, 2025, 1, 1, 11, 0), End: mustTime(t, 2025, 1, 1, 12, 0)},
	}

	if has, conflicts := HasOverlap(newRange, existing, false); has {
		t.Fatalf("expected no overlap, got conflicts: %+v", conflicts)
	}
	if has, _ := HasOverlap(newRange, existing, true); !has {
		t.Fatalf("expected overlap in inclusive mode")
	}
}

func TestHasOverlap_ReturnsConflicts(t *testing.T) {
	newRange := TimeRange{Start: mustTime(t, 2025, 1, 1, 10, 30), End: mustTime(t, 2025, 1, 1, 11, 30)}
	existing := []TimeRange{
		{Start: mustTime(t, 2025, 1, 1, 9, 0), End: mustTime(t, 2025, 1, 1, 10, 0)},
		{Start: mustTime(t, 2025, 1, 1, 11, 0), End: mustTime(t, 2025, 1, 1, 12, 0)},
		{Start: mustTime(t, 2025, 1, 1, 10, 0), End: mustTime(t, 2025, 1, 1, 13, 0)},
	}

	has, conflicts := HasOverlap(newRange, existing, false)
	if !has || len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
	}
}

func TestDaysBetween_DST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 30 марта 2025 — переход на летнее время, в сутках 23 часа.
	from := time.Date(2025, 3, 29, 12, 0, 0, 0, loc)
	to := time.Date(2025, 3, 31, 0, 30, 0, 0, loc)
	if d := daysBetween(from, to); d != 2 {
		t.Fatalf("expected 2 days, got %d", d)
	}
}

//
// Paginate
//

func TestPaginate_FirstPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	page := Paginate(items, 1, 5)

	if len(page.Items) != 5 || page.HasPrev || !page.HasNext || page.Total != len(items) {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if page.Pages() != 3 {
		t.Fatalf("expected 3 pages, got %d", page.Pages())
	}
}

func TestPaginate_LastPage(t *testing.T) {
	page := Paginate([]int{1, 2, 3, 4, 5, 6}, 2, 4)

	if len(page.Items) != 2 || !page.HasPrev || page.HasNext {
		t.Fatalf("unexpected last page: %+v", page)
	}
}

func TestPaginate_OutOfRangeAndDefaults(t *testing.T) {
	page := Paginate([]int{1, 2, 3}, 5, 0)
	if len(page.Items) != 0 || page.PageSize != DefaultPageSize || page.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}

	var empty []int
	page = Paginate(empty, -1, 10)
	if page.Page != 1 || page.HasNext || page.HasPrev || page.Pages() != 0 {
		t.Fatalf("expected empty first page, got %+v", page)
	}
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	page := Paginate([]int{1, 2, 3}, 1<<40, 1<<40)
	if len(page.Items) != 0 || page.HasNext || !page.HasPrev || page.Total != 3 {
		t.Fatalf("expected empty page past the end, got %+v", page)
	}

	page = Paginate([]int{1, 2, 3}, 1, 1<<62)
	if len(page.Items) != 3 || page.HasNext || page.HasPrev {
		t.Fatalf("expected every item on the first page, got %+v", page)
	}

	page = Paginate([]int{1, 2, 3}, 1, math.MaxInt)
	if len(page.Items) != 3 || page.Pages() != 1 {
		t.Fatalf("expected a single full page, got %+v", page)
	}

	page = Paginate([]int{1, 2, 3}, math.MaxInt, 2)
	if len(page.Items) != 0 || page.HasNext {
		t.Fatalf("expected empty page for max int page, got %+v", page)
	}
}

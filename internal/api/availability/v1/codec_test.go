package availabilityv1

import (
	"testing"
	"time"
)

func TestStructRoundTrip(t *testing.T) {
	in := ListAvailabilityRequest{
		ProviderIDs:   []string{"a", "b"},
		From:          time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		To:            time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC),
		OnlyAvailable: true,
		PageSize:      20,
	}

	s, err := ToStruct(in)
	if err != nil {
		t.Fatalf("to struct: %v", err)
	}
	if s.Fields["page_size"].GetNumberValue() != 20 || s.Fields["from"].GetStringValue() != "2025-01-06T09:00:00Z" {
		t.Fatalf("unexpected struct %v", s)
	}
	if _, ok := s.Fields["service_id"]; ok {
		t.Fatalf("empty optional fields must be omitted")
	}

	var out ListAvailabilityRequest
	if err := FromStruct(s, &out); err != nil {
		t.Fatalf("from struct: %v", err)
	}
	if len(out.ProviderIDs) != 2 || !out.From.Equal(in.From) || out.PageSize != 20 || !out.OnlyAvailable {
		t.Fatalf("unexpected decoded message %+v", out)
	}
}

func TestToStructRejectsNonObject(t *testing.T) {
	if _, err := ToStruct([]int{1, 2}); err == nil {
		t.Fatalf("expected error for a non-object message")
	}
}

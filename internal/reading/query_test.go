package reading

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

func TestQuery_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Query
		def       int
		wantLimit int
		wantOff   int
		wantOrder string
		wantErr   bool
	}{
		{"defaults", Query{}, DefaultLimit, 100, 0, OrderDesc, false},
		{"sensor default", Query{}, SensorDefaultLimit, 50, 0, OrderDesc, false},
		{"clamped", Query{Limit: 5000}, DefaultLimit, MaxLimit, 0, OrderDesc, false},
		{"negative offset", Query{Offset: -3, Order: "ASC"}, DefaultLimit, 100, 0, OrderAsc, false},
		{"bad order", Query{Order: "sideways"}, DefaultLimit, 100, 0, "sideways", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			err := q.Normalize(tt.def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if q.Limit != tt.wantLimit || q.Offset != tt.wantOff || q.Order != tt.wantOrder {
				t.Errorf("Normalize() = %+v", q)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	sensorID := integrity.NewID()
	q, err := ParseQuery(url.Values{
		"sensorId":  {sensorID},
		"startDate": {"2026-03-01"},
		"endDate":   {"2026-03-02"},
		"limit":     {"10"},
		"offset":    {"20"},
		"order":     {"asc"},
	}, DefaultLimit)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	if q.SensorID != sensorID || q.Limit != 10 || q.Offset != 20 || q.Order != OrderAsc {
		t.Errorf("ParseQuery() = %+v", q)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !q.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", q.Start, want)
	}
	if want := time.Date(2026, 3, 2, 23, 59, 59, 999e6, time.UTC); !q.End.Equal(want) {
		t.Errorf("End = %v, want whole day %v", q.End, want)
	}

	q, err = ParseQuery(url.Values{"endDate": {"2026-03-02T12:00:00+01:00"}}, DefaultLimit)
	if err != nil {
		t.Fatalf("ParseQuery(RFC3339) error = %v", err)
	}
	if want := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC); !q.End.Equal(want) {
		t.Errorf("End = %v, want exact instant %v", q.End, want)
	}
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"bad start", url.Values{"startDate": {"yesterday"}}, "startDate"},
		{"bad end", url.Values{"endDate": {"03/02/2026"}}, "endDate"},
		{"bad limit", url.Values{"limit": {"ten"}}, "limit"},
		{"bad offset", url.Values{"offset": {"1.5"}}, "offset"},
		{"bad order", url.Values{"order": {"up"}}, "order"},
		{"bad sensor", url.Values{"sensorId": {"abc"}}, "sensorId"},
		{"inverted range", url.Values{"startDate": {"2026-03-05"}, "endDate": {"2026-03-01"}}, "startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.values, DefaultLimit)
			var verr *integrity.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ParseQuery() error = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want %q", verr.Fields, tt.field)
			}
		})
	}
}

func TestQuery_Build(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	q := Query{SensorID: "s1", Start: &start, Limit: 5, Offset: 10, Order: OrderAsc}

	clause, args := q.build()
	for _, part := range []string{"r.sensor_id = ?", "r.time >= ?", "ORDER BY r.time ASC", "LIMIT ? OFFSET ?"} {
		if !strings.Contains(clause, part) {
			t.Errorf("clause %q missing %q", clause, part)
		}
	}
	if strings.Contains(clause, "r.time <= ?") {
		t.Error("clause should not bound the end")
	}
	want := []any{"s1", "2026-03-01T00:00:00.000Z", 5, 10}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

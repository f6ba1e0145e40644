package reading

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Page size bounds.
const (
	DefaultLimit       = 100
	SensorDefaultLimit = 50
	MaxLimit           = 1000
)

// Sort orders on time.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const dateOnly = "2006-01-02"

// Query selects a page of readings. Start and End are inclusive.
type Query struct {
	SensorID string
	Start    *time.Time
	End      *time.Time
	Limit    int
	Offset   int
	Order    string
}

// Normalize applies defaults and bounds. An unknown order or a start after
// the end is a validation error.
func (q *Query) Normalize(defaultLimit int) error {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	v := integrity.NewValidationError()

	q.Order = strings.ToLower(strings.TrimSpace(q.Order))
	switch q.Order {
	case "":
		q.Order = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		v.Add("order", "order must be asc or desc")
	}

	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		v.Add("startDate", "startDate must not be after endDate")
	}

	return v.Err()
}

// ParseQuery reads sensorId, startDate, endDate, limit, offset and order
// from URL parameters and normalizes the result. Dates are RFC 3339 or
// YYYY-MM-DD; a date-only endDate covers that whole day.
func ParseQuery(values url.Values, defaultLimit int) (Query, error) {
	var q Query
	v := integrity.NewValidationError()

	q.SensorID = strings.TrimSpace(values.Get("sensorId"))
	if q.SensorID != "" && integrity.CheckID(q.SensorID) != nil {
		v.Add("sensorId", "sensorId is not a valid id")
	}

	if s := values.Get("startDate"); s != "" {
		t, err := parseDate(s, false)
		if err != nil {
			v.Add("startDate", "startDate must be RFC 3339 or YYYY-MM-DD")
		} else {
			q.Start = &t
		}
	}
	if s := values.Get("endDate"); s != "" {
		t, err := parseDate(s, true)
		if err != nil {
			v.Add("endDate", "endDate must be RFC 3339 or YYYY-MM-DD")
		} else {
			q.End = &t
		}
	}

	q.Limit = parseInt(v, values, "limit")
	q.Offset = parseInt(v, values, "offset")
	q.Order = values.Get("order")

	if err := v.Err(); err != nil {
		return q, err
	}
	if err := q.Normalize(defaultLimit); err != nil {
		return q, err
	}
	return q, nil
}

func parseInt(v *integrity.ValidationError, values url.Values, key string) int {
	s := values.Get(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v.Add(key, key+" must be an integer")
		return 0
	}
	return n
}

// parseDate accepts RFC 3339 or a bare date. A bare end date is moved to
// the last millisecond of that day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return t, nil
}

// build renders the WHERE, ORDER BY and LIMIT clauses over the readings
// table aliased as r.
func (q Query) build() (clause string, args []any) {
	var where []string
	if q.SensorID != "" {
		where = append(where, "r.sensor_id = ?")
		args = append(args, q.SensorID)
	}
	if q.Start != nil {
		where = append(where, "r.time >= ?")
		args = append(args, database.FormatTime(*q.Start))
	}
	if q.End != nil {
		where = append(where, "r.time <= ?")
		args = append(args, database.FormatTime(*q.End))
	}

	var b strings.Builder
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	dir := "DESC"
	if q.Order == OrderAsc {
		dir = "ASC"
	}
	b.WriteString(" ORDER BY r.time " + dir + ", r.rowid " + dir)
	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Offset)

	return b.String(), args
}

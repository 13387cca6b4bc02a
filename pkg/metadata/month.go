package metadata

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// Month is the month key scoping snapshots and transfers. It is always the
// first instant of a calendar month in UTC.
type Month struct {
	start time.Time
}

func ParseMonth(value string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(value))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}

	return MonthOf(t), nil
}

func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{start: time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

func (m Month) Start() time.Time {
	return m.start
}

func (m Month) Next() Month {
	return Month{start: m.start.AddDate(0, 1, 0)}
}

func (m Month) IsZero() bool {
	return m.start.IsZero()
}

func (m Month) After(other Month) bool {
	return m.start.After(other.start)
}

// Key packs the month as YYYYMM, used as an audit log resource id.
func (m Month) Key() int64 {
	return int64(m.start.Year()*100 + int(m.start.Month()))
}

// String renders the YYYY-MM form used by every interface of the service.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return m.start.Format(monthLayout)
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

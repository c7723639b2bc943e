package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Period is a resolved time period. It serializes in the document's own
// notation ("30s", "500ms").
type Period struct {
	time.Duration
}

func Seconds(n int) Period {
	return Period{time.Duration(n) * time.Second}
}

func (p Period) String() string {
	ms := p.Milliseconds()
	if ms%1000 != 0 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%ds", ms/1000)
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

var periodRegexp = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*(ms|s|sec|min|h|d)\s*$`)

var periodUnits = map[string]time.Duration{
	"ms":  time.Millisecond,
	"s":   time.Second,
	"sec": time.Second,
	"min": time.Minute,
	"h":   time.Hour,
	"d":   24 * time.Hour,
}

// ParsePeriod reads "60s", "1min", "500ms" style periods. Bare integers are
// milliseconds.
func ParsePeriod(value any) (Period, error) {
	switch v := value.(type) {
	case Period:
		return v, nil
	case int:
		if v < 0 {
			return Period{}, fmt.Errorf("negative time period %d", v)
		}
		if int64(v) > math.MaxInt64/int64(time.Millisecond) {
			return Period{}, fmt.Errorf("time period %dms is too long", v)
		}
		return Period{time.Duration(v) * time.Millisecond}, nil
	case string:
		m := periodRegexp.FindStringSubmatch(v)
		if m == nil {
			return Period{}, fmt.Errorf("invalid time period %q, expected a number with a unit (ms, s, min, h, d)", v)
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Period{}, err
		}
		ns := math.Round(f * float64(periodUnits[m[2]]))
		if ns >= math.MaxInt64 {
			return Period{}, fmt.Errorf("time period %q is too long", v)
		}
		return Period{time.Duration(ns)}, nil
	}
	return Period{}, fmt.Errorf("expected a time period, got %s", describe(value))
}

type PeriodNode struct {
	min, max *Period
}

func TimePeriod() *PeriodNode {
	return &PeriodNode{}
}

func (n *PeriodNode) Range(min, max Period) *PeriodNode {
	c := *n
	c.min = &min
	c.max = &max
	return &c
}

func (n *PeriodNode) Validate(ctx *Context, path Path, value any) any {
	p, err := ParsePeriod(value)
	if err != nil {
		ctx.Report.AddError(path, CODE_INVALID_PERIOD, "%v", err)
		return nil
	}
	if (n.min != nil && p.Duration < n.min.Duration) || (n.max != nil && p.Duration > n.max.Duration) {
		ctx.Report.AddError(path, CODE_OUT_OF_RANGE, "time period %s is outside the allowed range [%s, %s]", p, n.min, n.max)
		return nil
	}
	return p
}

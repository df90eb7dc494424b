package reports

import (
	"strings"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/ledger"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// Range presets accepted by ParseRange.
const (
	PresetToday  = "today"
	PresetWeek   = "week"
	PresetMonth  = "month"
	PresetCustom = "custom"
)

// ParseRange resolves a report preset to an inclusive [from, to] window in
// now's location. An empty preset means the last 7 days. For custom, start
// and end may be in any layout dateparse understands; end covers its whole
// day.
func ParseRange(preset, start, end string, now time.Time) (from, to time.Time, err error) {
	loc := now.Location()
	to = ledger.EndOfDay(now)

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetToday:
		from = ledger.StartOfDay(now)
	case PresetWeek:
		// weeks start on Sunday
		from = ledger.StartOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	case PresetMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case PresetCustom:
		if start == "" || end == "" {
			return from, to, errors.Wrap(apperr.ErrValidation, "custom range needs start and end")
		}
		s, err := dateparse.ParseIn(start, loc)
		if err != nil {
			return from, to, errors.Wrapf(apperr.ErrValidation, "start %q: %v", start, err)
		}
		e, err := dateparse.ParseIn(end, loc)
		if err != nil {
			return from, to, errors.Wrapf(apperr.ErrValidation, "end %q: %v", end, err)
		}
		from, to = ledger.StartOfDay(s), ledger.EndOfDay(e)
		if from.After(to) {
			return from, to, errors.Wrap(apperr.ErrValidation, "start is after end")
		}
	case "":
		from = now.AddDate(0, 0, -7)
	default:
		return from, to, errors.Wrapf(apperr.ErrValidation, "unknown range %q", preset)
	}
	return from, to, nil
}

package studyplan

import (
	"time"

	"github.com/trezcool/studyplanner/core"
)

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) core.Date {
	d := core.NewDate(t)
	offset := (int(d.Weekday()) + 6) % 7 // days since Monday
	return core.Date{Time: d.AddDate(0, 0, -offset)}
}

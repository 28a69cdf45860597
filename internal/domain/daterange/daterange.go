// Package daterange traduce los nombres de rango del dashboard a intervalos concretos.
package daterange

import "time"

// Name nombre de rango admitido por el dashboard.
type Name string

const (
	Today      Name = "today"
	Yesterday  Name = "yesterday"
	Last7Days  Name = "last7days"
	Last30Days Name = "last30days"
	ThisWeek   Name = "thisweek"
	ThisMonth  Name = "thismonth"
	ThisYear   Name = "thisyear"
)

// Names lista los rangos válidos en el orden en que se muestran.
func Names() []Name {
	return []Name{Today, Yesterday, Last7Days, Last30Days, ThisWeek, ThisMonth, ThisYear}
}

// Parse devuelve el Name correspondiente; ok=false si no es un rango conocido.
func Parse(s string) (Name, bool) {
	for _, n := range Names() {
		if string(n) == s {
			return n, true
		}
	}
	return Today, false
}

// Range intervalo cerrado [Start, End] en la zona horaria de now.
type Range struct {
	Name  Name
	Start time.Time
	End   time.Time
}

const dateLayout = "2006-01-02"

// StartDate fecha calendario de Start (YYYY-MM-DD).
func (r Range) StartDate() string { return r.Start.Format(dateLayout) }

// EndDate fecha calendario de End (YYYY-MM-DD).
func (r Range) EndDate() string { return r.End.Format(dateLayout) }

// Resolve calcula el intervalo del rango name relativo a now.
// Un nombre desconocido se trata como "today".
// Todos los rangos terminan en now salvo "yesterday", que termina a las 23:59:59.999 de ayer.
func Resolve(name string, now time.Time) Range {
	n, _ := Parse(name)
	y, m, d := now.Date()
	loc := now.Location()
	midnight := func(day int) time.Time {
		return time.Date(y, m, day, 0, 0, 0, 0, loc)
	}

	r := Range{Name: n, End: now}
	switch n {
	case Yesterday:
		r.Start = midnight(d - 1)
		r.End = time.Date(y, m, d-1, 23, 59, 59, int(999*time.Millisecond), loc)
	case Last7Days:
		r.Start = midnight(d - 7)
	case Last30Days:
		r.Start = midnight(d - 30)
	case ThisWeek:
		r.Start = midnight(d - int(now.Weekday()))
	case ThisMonth:
		r.Start = midnight(1)
	case ThisYear:
		r.Start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		r.Start = midnight(d)
	}
	return r
}

package reporting

import (
	"strconv"
	"time"
)

var frenchShortMonths = [...]string{
	time.January:   "janv.",
	time.February:  "févr.",
	time.March:     "mars",
	time.April:     "avr.",
	time.May:       "mai",
	time.June:      "juin",
	time.July:      "juil.",
	time.August:    "août",
	time.September: "sept.",
	time.October:   "oct.",
	time.November:  "nov.",
	time.December:  "déc.",
}

// FrenchShortDate formats t as day and abbreviated month, e.g. "15 oct.".
func FrenchShortDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + frenchShortMonths[t.Month()]
}

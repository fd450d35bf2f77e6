package services

import "time"

type monthDay struct {
	month time.Month
	day   int
}

// Italian national holidays with a fixed date.
var italianHolidays = map[monthDay]string{
	{time.January, 1}:   "Capodanno",
	{time.January, 6}:   "Epifania",
	{time.April, 25}:    "Festa della Liberazione",
	{time.May, 1}:       "Festa del Lavoro",
	{time.June, 2}:      "Festa della Repubblica",
	{time.August, 15}:   "Ferragosto",
	{time.November, 1}:  "Ognissanti",
	{time.December, 8}:  "Immacolata Concezione",
	{time.December, 25}: "Natale",
	{time.December, 26}: "Santo Stefano",
}

// IsHoliday reports whether t falls on a fixed-date national holiday in its own zone.
func IsHoliday(t time.Time) bool {
	_, ok := italianHolidays[monthDay{t.Month(), t.Day()}]
	return ok
}

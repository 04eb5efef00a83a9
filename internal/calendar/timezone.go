package calendar

import ics "github.com/arran4/golang-ical"

// addTimeZone appends the VTIMEZONE definition referenced by the TZID of
// every event: CET, and CEST from the last Sunday of March to the last
// Sunday of October.
func addTimeZone(cal *ics.Calendar) {
	tz := &ics.VTimezone{}
	tz.SetProperty("TZID", TimeZone)

	daylight := &ics.Daylight{}
	daylight.SetProperty("TZOFFSETFROM", "+0100")
	daylight.SetProperty("TZOFFSETTO", "+0200")
	daylight.SetProperty("TZNAME", "CEST")
	daylight.SetProperty("DTSTART", "19700329T020000")
	daylight.SetProperty("RRULE", "FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU")

	standard := &ics.Standard{}
	standard.SetProperty("TZOFFSETFROM", "+0200")
	standard.SetProperty("TZOFFSETTO", "+0100")
	standard.SetProperty("TZNAME", "CET")
	standard.SetProperty("DTSTART", "19701025T030000")
	standard.SetProperty("RRULE", "FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU")

	tz.Components = append(tz.Components, daylight, standard)
	cal.Components = append(cal.Components, tz)
}

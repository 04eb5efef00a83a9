package course

import (
	"net/url"
	"strings"
	"time"
)

// Day is a weekday abbreviation as used by the providers
type Day string

const (
	Monday    Day = "Mo"
	Tuesday   Day = "Di"
	Wednesday Day = "Mi"
	Thursday  Day = "Do"
	Friday    Day = "Fr"
	Saturday  Day = "Sa"
	Sunday    Day = "So"
)

// AllDays is the sentinel filter value meaning "any day"
const AllDays = "all"

// Days lists the weekdays in calendar order
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayLabels = map[Day]string{
	Monday:    "Montag",
	Tuesday:   "Dienstag",
	Wednesday: "Mittwoch",
	Thursday:  "Donnerstag",
	Friday:    "Freitag",
	Saturday:  "Samstag",
	Sunday:    "Sonntag",
}

// ParseDay returns the Day for a provider abbreviation like "Mo".
func ParseDay(s string) (Day, bool) {
	d := Day(strings.TrimSpace(s))
	_, ok := dayLabels[d]
	return d, ok
}

// Label returns the full German weekday name, or the abbreviation if unknown
func (d Day) Label() string {
	if label, ok := dayLabels[d]; ok {
		return label
	}
	return string(d)
}

var dayWeekdays = map[Day]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// Weekday converts the abbreviation to a time.Weekday
func (d Day) Weekday() (time.Weekday, bool) {
	w, ok := dayWeekdays[d]
	return w, ok
}

// BookingStatus describes whether a slot can be booked directly
type BookingStatus string

const (
	Bookable BookingStatus = "bookable"
	Waitlist BookingStatus = "waitlist"
)

// bookingTexts maps the providers' booking button texts to a status.
// Anything not listed has no determinate status.
var bookingTexts = map[string]BookingStatus{
	"buchen":         Bookable,
	"nur über Büro":  Bookable,
	"Karte kaufen":   Bookable,
	"anmeldefrei":    Bookable,
	"buchen 🔒":       Bookable,
	"Basisangebot":   Bookable,
	"siehe Text":     Bookable,
	"Kursdaten":      Bookable,
	"ohne Anmeldung": Bookable,
	"Warteliste":     Waitlist,
	"Warteliste 🔒":   Waitlist,
}

// LookupBookingStatus maps a raw booking text to its status
func LookupBookingStatus(raw string) (BookingStatus, bool) {
	status, ok := bookingTexts[raw]
	return status, ok
}

// ParseBookingStatus validates a status name such as "bookable"
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case Bookable:
		return Bookable, true
	case Waitlist:
		return Waitlist, true
	}
	return "", false
}

// Provider is the human readable name of the institution hosting a course
type Provider string

// providerHosts maps booking system hostnames to providers
var providerHosts = map[string]Provider{
	"buchung.hochschulsport-potsdam.de": "Uni Potsdam",
	"sport.htw-berlin.de":               "HTW Berlin",
	"www.buchsys.de":                    "FU Berlin",
	"www.tu-sport.de":                   "TU Berlin",
	"zeh02.beuth-hochschule.de":         "BHT Berlin",
	"zeh2.zeh.hu-berlin.de":             "HU Berlin",
}

// LookupProvider returns the provider for a hostname
func LookupProvider(host string) (Provider, bool) {
	p, ok := providerHosts[strings.ToLower(host)]
	return p, ok
}

// ProviderForURL resolves the provider from the hostname of a course URL.
// Unparseable URLs and unknown hosts yield false.
func ProviderForURL(rawURL string) (Provider, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return LookupProvider(u.Hostname())
}

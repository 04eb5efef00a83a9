package source

// RawSlot is one row of a provider's course table. Name, Day and Time are
// null for cancelled or placeholder rows and free-text descriptions.
type RawSlot struct {
	Name      *string `json:"name"`
	Place     string  `json:"place"`
	Price     string  `json:"price"`
	Bookable  string  `json:"bookable"`
	Day       *string `json:"day"`
	Time      *string `json:"time"`
	Timeframe string  `json:"timeframe,omitempty"`
}

// RawCourse is a course listing as published by the API
type RawCourse struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Slots       []RawSlot `json:"courses"`
}

// RawLocation is a venue as published by the API
type RawLocation struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	URL  string  `json:"url"`
}

// Dataset is the pair of raw collections needed to build the catalog
type Dataset struct {
	Courses   []RawCourse   `json:"courses"`
	Locations []RawLocation `json:"locations"`
}

package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

var errNotObject = errors.New("record is not a JSON object")

// fields holds the undecoded members of a provider record. Its getters never
// fail: a member of the wrong JSON type reads as absent.
type fields map[string]json.RawMessage

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		return nil, errNotObject
	}
	return f, nil
}

// optionalText reads a string, or the literal of a number. Null, a missing
// member and any other type read as nil.
func (f fields) optionalText(key string) *string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var n json.Number
	if len(raw) > 0 && raw[0] != '"' && json.Unmarshal(raw, &n) == nil {
		s = n.String()
		return &s
	}
	return nil
}

// text is optionalText with absent read as ""
func (f fields) text(key string) string {
	if s := f.optionalText(key); s != nil {
		return *s
	}
	return ""
}

// number reads a number or a numeric string, otherwise 0
func (f fields) number(key string) float64 {
	s := f.optionalText(key)
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return 0
	}
	return v
}

// list reads an array member; a non-array reads as empty
func (f fields) list(key string) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(f[key], &items); err != nil {
		return nil
	}
	return items
}

// UnmarshalJSON decodes a slot row. Members of an unexpected type are
// treated as absent instead of failing the document.
func (s *RawSlot) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*s = RawSlot{
		Name:      f.optionalText("name"),
		Place:     f.text("place"),
		Price:     f.text("price"),
		Bookable:  f.text("bookable"),
		Day:       f.optionalText("day"),
		Time:      f.optionalText("time"),
		Timeframe: f.text("timeframe"),
	}
	return nil
}

// UnmarshalJSON decodes a course listing. Slot rows that are not objects
// are skipped.
func (c *RawCourse) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*c = RawCourse{
		Name:        f.text("name"),
		URL:         f.text("url"),
		Description: f.text("description"),
	}
	for _, raw := range f.list("courses") {
		var slot RawSlot
		if err := json.Unmarshal(raw, &slot); err != nil {
			continue
		}
		c.Slots = append(c.Slots, slot)
	}
	return nil
}

// UnmarshalJSON decodes a venue. Coordinates that are not numbers read as 0.
func (l *RawLocation) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	*l = RawLocation{
		Name: f.text("name"),
		Lon:  f.number("lon"),
		Lat:  f.number("lat"),
		URL:  f.text("url"),
	}
	return nil
}

// Package normalizer flattens NASA JSON answers into the gateway's records.
//
// Extraction is strict: a missing or mistyped field anywhere fails the whole
// answer, nothing is skipped and no partial list is returned.
package normalizer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nasa"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const (
	fieldDate        = "date"
	fieldExplanation = "explanation"
	fieldHDURL       = "hdurl"
	fieldTitle       = "title"
	fieldURL         = "url"

	fieldNearEarthObjects = "near_earth_objects"
	fieldNeoReferenceID   = "neo_reference_id"
	fieldName             = "name"
	fieldNasaJplURL       = "nasa_jpl_url"
	fieldIsHazardous      = "is_potentially_hazardous_asteroid"
)

var ErrInvalidJSON = errors.New("upstream body is not valid json")

// FieldError describes the first element that could not be extracted.
type FieldError struct {
	Element string
	Field   string
	Reason  string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("element %s %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("element %s: field %q %s", e.Element, e.Field, e.Reason)
}

// Lookup selects which date keys of a NEO feed bucket are read.
type Lookup int

const (
	// LookupExact reads only the entry keyed by the request's start_date.
	LookupExact Lookup = iota
	// LookupRange reads every date entry of every bucket in document order.
	LookupRange
)

func (l Lookup) String() string {
	switch l {
	case LookupExact:
		return "exact"
	case LookupRange:
		return "range"
	}
	return "unknown"
}

func ParseLookup(s string) (Lookup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return LookupExact, nil
	case "range":
		return LookupRange, nil
	}
	return LookupExact, fmt.Errorf("unknown neo lookup strategy %q", s)
}

// APOD flattens an APOD answer. A single object is read as a one element array.
func APOD(body []byte) ([]nasa.APODRecord, error) {

	items, err := elements(body)
	if err != nil {
		return nil, err
	}

	records := make([]nasa.APODRecord, 0, len(items))
	for i, it := range items {

		el := fmt.Sprintf("[%d]", i)
		if !it.IsObject() {
			return nil, &FieldError{Element: el, Reason: "is not an object"}
		}

		var rec nasa.APODRecord
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{fieldDate, &rec.Date},
			{fieldExplanation, &rec.Explanation},
			{fieldHDURL, &rec.HDURL},
			{fieldTitle, &rec.Title},
			{fieldURL, &rec.URL},
		} {
			v, err := stringField(it, el, f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}

		records = append(records, rec)
	}

	return records, nil
}

// NEOFeed flattens a NeoWs feed answer. With LookupExact only the entry keyed
// by startDate is read in each bucket, other dates are ignored; a bucket without
// that key fails the whole answer.
func NEOFeed(body []byte, startDate string, lookup Lookup) ([]nasa.NEORecord, error) {

	buckets, err := elements(body)
	if err != nil {
		return nil, err
	}

	records := make([]nasa.NEORecord, 0)
	for i, b := range buckets {

		bel := fmt.Sprintf("[%d]", i)
		if !b.IsObject() {
			return nil, &FieldError{Element: bel, Reason: "is not an object"}
		}

		neo := b.Get(fieldNearEarthObjects)
		if !neo.IsObject() {
			return nil, &FieldError{Element: bel, Field: fieldNearEarthObjects, Reason: reason(neo, "an object")}
		}

		var found bool
		var ferr error
		neo.ForEach(func(key, value gjson.Result) bool {
			if lookup == LookupExact && key.String() != startDate {
				return true
			}
			found = true

			var recs []nasa.NEORecord
			recs, ferr = neoEntries(value, bel+"."+fieldNearEarthObjects, key.String())
			if ferr != nil {
				return false
			}
			records = append(records, recs...)

			// в exact режиме нужен только один ключ
			return lookup != LookupExact
		})

		if ferr != nil {
			return nil, ferr
		}

		if lookup == LookupExact && !found {
			return nil, &FieldError{Element: bel + "." + fieldNearEarthObjects, Field: startDate, Reason: "is missing"}
		}
	}

	return records, nil
}

// Pretty re-indents an upstream JSON body for the passthrough endpoints.
// An empty body reads as an empty array.
func Pretty(body []byte) ([]byte, error) {
	body = orEmptyArray(body)
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	return pretty.Pretty(body), nil
}

func neoEntries(list gjson.Result, parent, date string) ([]nasa.NEORecord, error) {

	if !list.IsArray() {
		return nil, &FieldError{Element: parent, Field: date, Reason: reason(list, "an array")}
	}

	items := list.Array()
	records := make([]nasa.NEORecord, 0, len(items))
	for j, it := range items {

		el := fmt.Sprintf("%s.%s[%d]", parent, date, j)
		if !it.IsObject() {
			return nil, &FieldError{Element: el, Reason: "is not an object"}
		}

		id, err := intField(it, el, fieldNeoReferenceID)
		if err != nil {
			return nil, err
		}

		name, err := stringField(it, el, fieldName)
		if err != nil {
			return nil, err
		}

		jpl, err := stringField(it, el, fieldNasaJplURL)
		if err != nil {
			return nil, err
		}

		hazardous, err := boolField(it, el, fieldIsHazardous)
		if err != nil {
			return nil, err
		}

		records = append(records, nasa.NEORecord{
			NeoReferenceID:                 id,
			Name:                           name,
			NasaJplURL:                     jpl,
			IsPotentiallyHazardousAsteroid: hazardous,
		})
	}

	return records, nil
}

func elements(body []byte) ([]gjson.Result, error) {

	body = orEmptyArray(body)
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}

	r := gjson.ParseBytes(body)
	switch {
	case r.IsArray():
		return r.Array(), nil
	case r.IsObject():
		return []gjson.Result{r}, nil
	}

	return nil, fmt.Errorf("upstream body is a json %s, expected an array or an object", r.Type)
}

// NASA answers 200 with no body when nothing matches, e.g. DONKI on a quiet range.
func orEmptyArray(body []byte) []byte {
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("[]")
	}
	return body
}

func field(obj gjson.Result, name string) gjson.Result {
	var v gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			v = value
			return false
		}
		return true
	})
	return v
}

func stringField(obj gjson.Result, el, name string) (string, error) {
	v := field(obj, name)
	if v.Type != gjson.String {
		return "", &FieldError{Element: el, Field: name, Reason: reason(v, "a string")}
	}
	return v.Str, nil
}

// intField accepts a JSON integer or a string holding one; NeoWs sends ids as strings.
func intField(obj gjson.Result, el, name string) (int64, error) {
	v := field(obj, name)
	switch v.Type {
	case gjson.Number:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) <= 1<<53 {
			return int64(v.Num), nil
		}
	case gjson.String:
		if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, &FieldError{Element: el, Field: name, Reason: reason(v, "an integer")}
}

func boolField(obj gjson.Result, el, name string) (bool, error) {
	v := field(obj, name)
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		switch strings.ToLower(v.Str) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, &FieldError{Element: el, Field: name, Reason: reason(v, "a boolean")}
}

func reason(v gjson.Result, want string) string {
	if !v.Exists() {
		return "is missing"
	}
	return fmt.Sprintf("is not %s: %s", want, v.Raw)
}

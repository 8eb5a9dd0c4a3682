package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the typed property values a node or edge can carry.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindURL
	KindDatetime
	KindDaterange
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindURL:
		return "url"
	case KindDatetime:
		return "datetime"
	case KindDaterange:
		return "daterange"
	default:
		return "unknown"
	}
}

// KindFromString parses a wire name back into a Kind.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "string":
		return KindString, true
	case "number":
		return KindNumber, true
	case "url":
		return KindURL, true
	case "datetime":
		return KindDatetime, true
	case "daterange":
		return KindDaterange, true
	default:
		return 0, false
	}
}

// Value is a tagged union over the supported property types. Exactly the
// field selected by Kind is meaningful; the rest are zero.
type Value struct {
	Kind  Kind
	Str   string    // KindString, KindURL
	Num   float64   // KindNumber
	Time  time.Time // KindDatetime
	Start time.Time // KindDaterange
	End   time.Time // KindDaterange
}

// String builds a string-kind value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number builds a number-kind value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// URL builds a url-kind value.
func URL(u string) Value { return Value{Kind: KindURL, Str: u} }

// Datetime builds a datetime-kind value.
func Datetime(t time.Time) Value { return Value{Kind: KindDatetime, Time: t} }

// Daterange builds a daterange-kind value spanning [start, end].
func Daterange(start, end time.Time) Value {
	return Value{Kind: KindDaterange, Start: start, End: end}
}

// Display renders the value for UI consumption.
func (v Value) Display() string {
	switch v.Kind {
	case KindString, KindURL:
		return v.Str
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindDatetime:
		return v.Time.Format(time.RFC3339)
	case KindDaterange:
		return v.Start.Format(time.RFC3339) + " .. " + v.End.Format(time.RFC3339)
	default:
		return ""
	}
}

// wireValue is the JSON shape of a Value. Timestamps use RFC 3339.
type wireValue struct {
	Kind  string  `json:"kind"`
	Str   string  `json:"value,omitempty"`
	Num   float64 `json:"number,omitempty"`
	Time  string  `json:"time,omitempty"`
	Start string  `json:"start,omitempty"`
	End   string  `json:"end,omitempty"`
}

// MarshalJSON encodes the value with an explicit kind tag.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.Kind.String()}
	switch v.Kind {
	case KindString, KindURL:
		w.Str = v.Str
	case KindNumber:
		w.Num = v.Num
	case KindDatetime:
		w.Time = v.Time.UTC().Format(time.RFC3339Nano)
	case KindDaterange:
		w.Start = v.Start.UTC().Format(time.RFC3339Nano)
		w.End = v.End.UTC().Format(time.RFC3339Nano)
	default:
		return nil, fmt.Errorf("unknown property kind %d", v.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a tagged value, rejecting unknown kinds so the
// import layer can drop the record with a warning.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, ok := KindFromString(w.Kind)
	if !ok {
		return fmt.Errorf("unknown property kind %q", w.Kind)
	}
	out := Value{Kind: kind}
	switch kind {
	case KindString, KindURL:
		out.Str = w.Str
	case KindNumber:
		out.Num = w.Num
	case KindDatetime:
		t, err := time.Parse(time.RFC3339Nano, w.Time)
		if err != nil {
			return fmt.Errorf("datetime property: %w", err)
		}
		out.Time = t
	case KindDaterange:
		start, err := time.Parse(time.RFC3339Nano, w.Start)
		if err != nil {
			return fmt.Errorf("daterange start: %w", err)
		}
		end, err := time.Parse(time.RFC3339Nano, w.End)
		if err != nil {
			return fmt.Errorf("daterange end: %w", err)
		}
		out.Start, out.End = start, end
	}
	*v = out
	return nil
}

// Properties maps unique keys to typed values.
type Properties map[string]Value

// Clone returns a copy of the property map.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

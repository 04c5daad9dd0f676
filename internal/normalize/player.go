package normalize

import (
	"bytes"
	"encoding/json"
)

// UnknownPlayer is the sentinel emitted when a player field cannot be
// resolved to a display name.
const UnknownPlayer = "Unknown"

// PlayerShape tags the upstream schema a player field was decoded from.
// Platforms disagree on the shape: Chess.com sends an object with a
// username, Lichess sends either a plain string or an object with a
// nested user record.
type PlayerShape int

const (
	ShapeAbsent     PlayerShape = iota
	ShapeName                   // plain string
	ShapeProfile                // object carrying "username" (Chess.com)
	ShapeNestedUser             // object carrying "user": {"name": ...} (Lichess)
)

// PlayerField is the decoded form of a raw white/black field. Decoding is
// total: malformed input collapses to ShapeAbsent instead of failing the
// whole payload.
type PlayerField struct {
	Shape      PlayerShape
	Name       string // ShapeName
	Username   string // ShapeProfile
	NestedName string // ShapeNestedUser
	Rating     int
	Result     string // per-side result string, when the platform embeds one
}

type playerObject struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
	User     struct {
		Name string `json:"name"`
	} `json:"user"`
}

// UnmarshalJSON never returns an error: unrecognized shapes decode to
// ShapeAbsent so a single malformed player cannot abort batch processing.
func (f *PlayerField) UnmarshalJSON(data []byte) error {
	*f = PlayerField{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil
		}
		f.Shape = ShapeName
		f.Name = name
	case '{':
		var obj playerObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		f.Rating = obj.Rating
		f.Result = obj.Result
		switch {
		case obj.Username != "":
			f.Shape = ShapeProfile
			f.Username = obj.Username
		case obj.User.Name != "":
			f.Shape = ShapeNestedUser
			f.NestedName = obj.User.Name
		}
	}
	return nil
}

// Resolve returns the best-effort display name for the field. Resolution is
// total and idempotent; unhandled shapes yield the UnknownPlayer sentinel.
func (f PlayerField) Resolve() string {
	switch f.Shape {
	case ShapeName:
		if f.Name != "" {
			return f.Name
		}
	case ShapeProfile:
		return f.Username
	case ShapeNestedUser:
		return f.NestedName
	}
	return UnknownPlayer
}

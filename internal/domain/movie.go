// internal/domain/movie.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TimestampLayout matches the ISO-8601 form browsers produce with
// Date.prototype.toISOString, so stored values sort lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Movie is a document of the movies collection. Every field except ID and
// LastUpdated may be absent, so scalars are pointers and slices stay nil.
// An empty but non-nil slice is a stored empty array and is kept.
type Movie struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       *string       `json:"title,omitempty" bson:"title,omitempty"`
	Year        *int          `json:"year,omitempty" bson:"year,omitempty"`
	Plot        *string       `json:"plot,omitempty" bson:"plot,omitempty"`
	Genres      []string      `json:"genres,omitzero" bson:"genres,omitempty"`
	Runtime     *int          `json:"runtime,omitempty" bson:"runtime,omitempty"`
	Cast        []string      `json:"cast,omitzero" bson:"cast,omitempty"`
	LastUpdated string        `json:"lastupdated,omitempty" bson:"lastupdated,omitempty"`
}

// MovieInput is the client-writable part of a Movie, used as the body of
// create and update requests. id and lastupdated are not part of it, so
// values sent for them are dropped while decoding.
type MovieInput struct {
	Title   *string  `json:"title"`
	Year    *int     `json:"year"`
	Plot    *string  `json:"plot"`
	Genres  []string `json:"genres"`
	Runtime *int     `json:"runtime"`
	Cast    []string `json:"cast"`
}

// Timestamp formats t the way lastupdated is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewMovie builds a movie without an ID from the input.
func (in MovieInput) NewMovie(lastUpdated string) *Movie {
	m := &Movie{LastUpdated: lastUpdated}
	m.Apply(in)
	return m
}

// Apply merges the fields present in the input into the movie. A JSON null
// counts as absent, so it never clears a stored value.
func (m *Movie) Apply(in MovieInput) {
	if in.Title != nil {
		m.Title = in.Title
	}
	if in.Year != nil {
		m.Year = in.Year
	}
	if in.Plot != nil {
		m.Plot = in.Plot
	}
	if in.Genres != nil {
		m.Genres = append([]string{}, in.Genres...)
	}
	if in.Runtime != nil {
		m.Runtime = in.Runtime
	}
	if in.Cast != nil {
		m.Cast = append([]string{}, in.Cast...)
	}
}

// Changes returns the present fields keyed by their document field name.
func (in MovieInput) Changes() map[string]any {
	changes := make(map[string]any)
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Year != nil {
		changes["year"] = *in.Year
	}
	if in.Plot != nil {
		changes["plot"] = *in.Plot
	}
	if in.Genres != nil {
		changes["genres"] = in.Genres
	}
	if in.Runtime != nil {
		changes["runtime"] = *in.Runtime
	}
	if in.Cast != nil {
		changes["cast"] = in.Cast
	}
	return changes
}

// Clone returns a deep copy of the movie.
func (m *Movie) Clone() *Movie {
	c := *m
	if m.Genres != nil {
		c.Genres = append([]string{}, m.Genres...)
	}
	if m.Cast != nil {
		c.Cast = append([]string{}, m.Cast...)
	}
	return &c
}

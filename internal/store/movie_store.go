// internal/store/movie_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/MikeG23/movies/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrInvalidMovieID = errors.New("invalid movie id")
)

const (
	SortByLastUpdated = "lastupdated"
	DefaultListLimit  = 50
)

type MovieListParams struct {
	SortBy     string
	Descending bool
	Limit      int
}

type MovieStore interface {
	List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error)
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	Create(ctx context.Context, movie *domain.Movie) error
	Update(ctx context.Context, id string, changes domain.MovieInput, lastUpdated string) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ParseMovieID converts the hex form used on the wire into a document id.
func ParseMovieID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidMovieID, id, err)
	}
	return oid, nil
}

// MemoryMovieStore keeps movies in process memory. It mirrors the document
// store semantics closely enough to stand in for it in handler tests.
type MemoryMovieStore struct {
	mu     sync.RWMutex
	movies map[bson.ObjectID]*domain.Movie
	logger *slog.Logger
}

func NewMemoryMovieStore(logger *slog.Logger) *MemoryMovieStore {
	return &MemoryMovieStore{
		movies: make(map[bson.ObjectID]*domain.Movie),
		logger: logger,
	}
}

func (m *MemoryMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie.ID = bson.NewObjectID()
	m.movies[movie.ID] = movie.Clone()
	m.logger.DebugContext(ctx, "Movie created in memory store", slog.String("movieID", movie.ID.Hex()))
	return nil
}

func (m *MemoryMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := ParseMovieID(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[oid]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return movie.Clone(), nil
}

func (m *MemoryMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movies := make([]*domain.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		movies = append(movies, movie.Clone())
	}

	// Ties fall back to id order, which follows insertion order for ObjectIDs.
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := movies[i], movies[j]
		if params.SortBy == SortByLastUpdated && a.LastUpdated != b.LastUpdated {
			if params.Descending {
				return a.LastUpdated > b.LastUpdated
			}
			return a.LastUpdated < b.LastUpdated
		}
		return a.ID.Hex() < b.ID.Hex()
	})

	if params.Limit > 0 && len(movies) > params.Limit {
		movies = movies[:params.Limit]
	}
	return movies, nil
}

func (m *MemoryMovieStore) Update(ctx context.Context, id string, changes domain.MovieInput, lastUpdated string) (*domain.Movie, error) {
	oid, err := ParseMovieID(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[oid]
	if !ok {
		return nil, ErrMovieNotFound
	}
	movie.Apply(changes)
	movie.LastUpdated = lastUpdated
	m.logger.DebugContext(ctx, "Movie updated in memory store", slog.String("movieID", id))
	return movie.Clone(), nil
}

func (m *MemoryMovieStore) Delete(ctx context.Context, id string) error {
	oid, err := ParseMovieID(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[oid]; !ok {
		return ErrMovieNotFound
	}
	delete(m.movies, oid)
	m.logger.DebugContext(ctx, "Movie deleted from memory store", slog.String("movieID", id))
	return nil
}

func (m *MemoryMovieStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

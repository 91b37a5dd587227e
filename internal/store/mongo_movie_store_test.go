//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MikeG23/movies/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// setupMongoStore starts a MongoDB container and returns a store on a fresh collection.
func setupMongoStore(t *testing.T) *MongoMovieStore {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForListeningPort("27017/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	client, err := mongo.Connect(NewClientOptions(fmt.Sprintf("mongodb://%s:%s", host, port.Port()), 10*time.Second))
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(ctx)
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	s, err := NewMongoMovieStore(client, "mflix_test", "movies", discardLogger())
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	return s
}

func TestMongoMovieStore_CRUD(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	year := 2010
	movie := titled("Inception", domain.Timestamp(time.Now()))
	movie.Year = &year
	movie.Genres = []string{"Action", "Sci-Fi"}
	require.NoError(t, s.Create(ctx, movie))
	require.False(t, movie.ID.IsZero())

	got, err := s.GetByID(ctx, movie.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, movie, got)

	runtime := 148
	updated, err := s.Update(ctx, movie.ID.Hex(), domain.MovieInput{Runtime: &runtime}, "2030-01-01T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, 148, *updated.Runtime)
	assert.Equal(t, "Inception", *updated.Title)
	assert.Equal(t, "2030-01-01T00:00:00.000Z", updated.LastUpdated)

	require.NoError(t, s.Delete(ctx, movie.ID.Hex()))
	_, err = s.GetByID(ctx, movie.ID.Hex())
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.ErrorIs(t, s.Delete(ctx, movie.ID.Hex()), ErrMovieNotFound)
}

func TestMongoMovieStore_UpdateMissing(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	title := "Ghost"
	_, err := s.Update(ctx, bson.NewObjectID().Hex(), domain.MovieInput{Title: &title}, domain.Timestamp(time.Now()))
	assert.ErrorIs(t, err, ErrMovieNotFound)

	movies, err := s.List(ctx, MovieListParams{})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestMongoMovieStore_ListSortsAndLimits(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		ts := domain.Timestamp(base.Add(time.Duration(i*7%55) * time.Hour))
		require.NoError(t, s.Create(ctx, titled(fmt.Sprintf("m%d", i), ts)))
	}

	movies, err := s.List(ctx, MovieListParams{SortBy: SortByLastUpdated, Descending: true, Limit: DefaultListLimit})
	require.NoError(t, err)
	require.Len(t, movies, DefaultListLimit)
	for i := 1; i < len(movies); i++ {
		assert.GreaterOrEqual(t, movies[i-1].LastUpdated, movies[i].LastUpdated)
	}
}

func TestMongoMovieStore_ReadsMistypedDocuments(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, titled("Heat", "2024-01-01T00:00:00.000Z")))
	_, err := s.collection.InsertMany(ctx, []any{
		bson.D{{Key: "title", Value: "Bad year"}, {Key: "year", Value: "1995è"}, {Key: "lastupdated", Value: "2024-01-03T00:00:00.000Z"}},
		bson.D{{Key: "title", Value: "Fractional"}, {Key: "runtime", Value: 92.5}, {Key: "lastupdated", Value: "2024-01-02T00:00:00.000Z"}},
	})
	require.NoError(t, err)

	movies, err := s.List(ctx, MovieListParams{SortBy: SortByLastUpdated, Descending: true, Limit: DefaultListLimit})
	require.NoError(t, err)
	require.Len(t, movies, 3)

	assert.Equal(t, "Bad year", *movies[0].Title)
	assert.Equal(t, 1995, *movies[0].Year)
	assert.Equal(t, 92, *movies[1].Runtime)
	assert.Equal(t, "Heat", *movies[2].Title)

	got, err := s.GetByID(ctx, movies[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, movies[0], got)
}

func TestMongoMovieStore_KeepsEmptyArrays(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	movie := titled("Untitled", domain.Timestamp(time.Now()))
	movie.Genres = []string{}
	require.NoError(t, s.Create(ctx, movie))

	got, err := s.GetByID(ctx, movie.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, got.Genres)
	assert.Empty(t, got.Genres)
	assert.Nil(t, got.Cast)

	updated, err := s.Update(ctx, movie.ID.Hex(), domain.MovieInput{Cast: []string{}}, domain.Timestamp(time.Now()))
	require.NoError(t, err)
	assert.NotNil(t, updated.Cast)
	assert.Empty(t, updated.Cast)
}

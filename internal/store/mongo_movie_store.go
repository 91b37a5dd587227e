// internal/store/mongo_movie_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeG23/movies/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoMovieStore implements MovieStore on top of a MongoDB collection.
type MongoMovieStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewClientOptions returns the client options the movie store expects:
// the lenient document registry and a bounded server selection.
func NewClientOptions(uri string, selectionTimeout time.Duration) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(selectionTimeout).
		SetRegistry(NewRegistry())
}

// NewMongoMovieStore returns a store bound to database/collection of client.
// The client may not be connected yet; operations fail until it is.
func NewMongoMovieStore(client *mongo.Client, database, collection string, logger *slog.Logger) (*MongoMovieStore, error) {
	if client == nil {
		return nil, errors.New("mongo client cannot be nil")
	}
	return &MongoMovieStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}, nil
}

func (s *MongoMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	s.logger.DebugContext(ctx, "Executing InsertOne for movie", slog.Any("movie", movie))
	result, err := s.collection.InsertOne(ctx, movieDocument(movie))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert movie", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create movie: %w", err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	movie.ID = oid
	s.logger.InfoContext(ctx, "Movie created successfully", slog.String("movieID", oid.Hex()))
	return nil
}

// movieDocument lists the fields present on the movie. Empty arrays are kept.
func movieDocument(m *domain.Movie) bson.D {
	doc := bson.D{}
	if m.Title != nil {
		doc = append(doc, bson.E{Key: "title", Value: *m.Title})
	}
	if m.Year != nil {
		doc = append(doc, bson.E{Key: "year", Value: *m.Year})
	}
	if m.Plot != nil {
		doc = append(doc, bson.E{Key: "plot", Value: *m.Plot})
	}
	if m.Genres != nil {
		doc = append(doc, bson.E{Key: "genres", Value: m.Genres})
	}
	if m.Runtime != nil {
		doc = append(doc, bson.E{Key: "runtime", Value: *m.Runtime})
	}
	if m.Cast != nil {
		doc = append(doc, bson.E{Key: "cast", Value: m.Cast})
	}
	return append(doc, bson.E{Key: "lastupdated", Value: m.LastUpdated})
}

func (s *MongoMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := ParseMovieID(id)
	if err != nil {
		return nil, err
	}

	var movie domain.Movie
	err = s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.WarnContext(ctx, "Movie not found by ID", slog.String("movieID", id))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get movie by ID", slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}
	return &movie, nil
}

func (s *MongoMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, error) {
	opts := options.Find()
	if params.SortBy != "" {
		order := 1
		if params.Descending {
			order = -1
		}
		opts.SetSort(bson.D{{Key: params.SortBy, Value: order}})
	}
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))
	}

	s.logger.DebugContext(ctx, "Executing Find for movies", slog.String("sort_by", params.SortBy), slog.Int("limit", params.Limit))
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	movies := make([]*domain.Movie, 0)
	if err := cursor.All(ctx, &movies); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode movies", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to decode movies: %w", err)
	}
	return movies, nil
}

// Update sets the present fields plus lastupdated and returns the document
// as it is after the update.
func (s *MongoMovieStore) Update(ctx context.Context, id string, changes domain.MovieInput, lastUpdated string) (*domain.Movie, error) {
	oid, err := ParseMovieID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for field, value := range changes.Changes() {
		set[field] = value
	}
	set["lastupdated"] = lastUpdated

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var movie domain.Movie
	err = s.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.M{"$set": set}, opts).Decode(&movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.WarnContext(ctx, "No movie found to update", slog.String("movieID", id))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to update movie", slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie updated successfully", slog.String("movieID", id))
	return &movie, nil
}

func (s *MongoMovieStore) Delete(ctx context.Context, id string) error {
	oid, err := ParseMovieID(id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete movie", slog.String("movieID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if result.DeletedCount == 0 {
		s.logger.WarnContext(ctx, "No movie found to delete", slog.String("movieID", id))
		return ErrMovieNotFound
	}
	s.logger.InfoContext(ctx, "Movie deleted successfully", slog.String("movieID", id))
	return nil
}

func (s *MongoMovieStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

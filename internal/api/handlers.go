// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeG23/movies/internal/domain"
	"github.com/MikeG23/movies/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	msgMovieNotFound = "Película no encontrada"
	msgMovieDeleted  = "Película eliminada"
	msgBanner        = "Servidor nuevo funcionando 🚀"
)

// MovieHandler holds the dependencies of the movie HTTP handlers.
type MovieHandler struct {
	store     store.MovieStore
	logger    *slog.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(s store.MovieStore, l *slog.Logger, v *validator.Validate) *MovieHandler {
	return &MovieHandler{
		store:     s,
		logger:    l,
		validator: v,
		now:       time.Now,
	}
}

func (h *MovieHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *MovieHandler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// movieID returns the {movieId} path variable, or an error when it is not
// a document id. Hex digits of either case are accepted.
func (h *MovieHandler) movieID(r *http.Request) (string, error) {
	id := mux.Vars(r)["movieId"]
	if err := h.validator.Var(id, "required,len=24,hexadecimal"); err != nil {
		return id, store.ErrInvalidMovieID
	}
	return id, nil
}

// decodeMovieInput reads the request body. An empty body is an empty input.
func decodeMovieInput(r *http.Request) (domain.MovieInput, error) {
	var in domain.MovieInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return in, err
	}
	return in, nil
}

// Root answers GET / with a plain text banner.
func (h *MovieHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, msgBanner)
}

// GetMovies returns the most recently updated movies.
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "GetMovies endpoint hit")

	movies, err := h.store.List(ctx, store.MovieListParams{
		SortBy:     store.SortByLastUpdated,
		Descending: true,
		Limit:      store.DefaultListLimit,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list movies from store", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "Movies list retrieved successfully", slog.Int("count_returned", len(movies)))
	h.respondJSON(w, r, http.StatusOK, movies)
}

// GetMovieByID returns a single movie.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, err := h.movieID(r)
	h.logger.InfoContext(ctx, "GetMovieByID endpoint hit", slog.String("movieID", movieID))
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	movie, err := h.store.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, msgMovieNotFound)
		} else {
			h.logger.ErrorContext(ctx, "Error finding movie by ID", slog.String("movieID", movieID), slog.String("error", err.Error()))
			h.respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.respondJSON(w, r, http.StatusOK, movie)
}

// CreateMovie stores a new movie stamped with the server time.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "CreateMovie endpoint hit")

	in, err := decodeMovieInput(r)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode movie creation request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	movie := in.NewMovie(domain.Timestamp(h.now()))
	if err := h.store.Create(ctx, movie); err != nil {
		h.logger.ErrorContext(ctx, "Failed to create movie in store", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "Movie created", slog.String("movieID", movie.ID.Hex()))
	h.respondJSON(w, r, http.StatusCreated, movie)
}

// UpdateMovie merges the body into the stored movie and restamps it.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, err := h.movieID(r)
	h.logger.InfoContext(ctx, "UpdateMovie endpoint hit", slog.String("movieID", movieID))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, err := decodeMovieInput(r)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode movie update request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.store.Update(ctx, movieID, in, domain.Timestamp(h.now()))
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, msgMovieNotFound)
		} else {
			h.logger.ErrorContext(ctx, "Failed to update movie", slog.String("movieID", movieID), slog.String("error", err.Error()))
			h.respondError(w, r, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.respondJSON(w, r, http.StatusOK, movie)
}

// DeleteMovie removes a movie.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID, err := h.movieID(r)
	h.logger.InfoContext(ctx, "DeleteMovie endpoint hit", slog.String("movieID", movieID))
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.Delete(ctx, movieID); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			h.respondError(w, r, http.StatusNotFound, msgMovieNotFound)
		} else {
			h.logger.ErrorContext(ctx, "Failed to delete movie", slog.String("movieID", movieID), slog.String("error", err.Error()))
			h.respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.logger.InfoContext(ctx, "Movie deleted successfully", slog.String("movieID", movieID))
	h.respondJSON(w, r, http.StatusOK, map[string]string{"message": msgMovieDeleted})
}

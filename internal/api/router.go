// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the movie routes. The middleware wraps the mux router
// rather than being attached with Use, so that CORS headers and preflight
// answers also cover paths no route matches.
func NewRouter(handler *MovieHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", handler.Root).Methods(http.MethodGet)

	moviesRouter := router.PathPrefix("/movies").Subrouter()
	for _, path := range []string{"", "/"} {
		moviesRouter.HandleFunc(path, handler.GetMovies).Methods(http.MethodGet)
		moviesRouter.HandleFunc(path, handler.CreateMovie).Methods(http.MethodPost)
	}
	moviesRouter.HandleFunc("/{movieId}", handler.GetMovieByID).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/{movieId}", handler.UpdateMovie).Methods(http.MethodPut)
	moviesRouter.HandleFunc("/{movieId}", handler.DeleteMovie).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.respondError(w, r, http.StatusNotFound, "Ruta no encontrada")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.respondError(w, r, http.StatusMethodNotAllowed, "Método no permitido")
	})

	var h http.Handler = router
	h = handler.JSONBodyMiddleware(h)
	h = CORSMiddleware(h)
	h = handler.RecoveryMiddleware(h)
	h = handler.LoggingMiddleware(h)
	return h
}

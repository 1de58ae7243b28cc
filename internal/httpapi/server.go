package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/service"
)

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	ListTasks(ctx context.Context, id uint) ([]model.Task, error)
	ListNotes(ctx context.Context, id uint) ([]model.Note, error)
	Create(ctx context.Context, input service.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uint, input service.CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type TaskService interface {
	List(ctx context.Context) ([]model.Task, error)
	ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.Task], error)
	Get(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, input service.TaskInput) (*model.Task, error)
	Update(ctx context.Context, id uint, input service.TaskInput) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
}

type NoteService interface {
	List(ctx context.Context) ([]model.Note, error)
	ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.Note], error)
	Get(ctx context.Context, id uint) (*model.Note, error)
	Create(ctx context.Context, input service.NoteInput) (*model.Note, error)
	Update(ctx context.Context, id uint, input service.NoteInput) (*model.Note, error)
	Delete(ctx context.Context, id uint) error
}

type UserService interface {
	ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.User], error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, input service.UserInput) (*model.User, error)
	Update(ctx context.Context, id uint, input service.UserInput) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

// Services bundles the managers the API exposes.
type Services struct {
	Categories CategoryService
	Tasks      TaskService
	Notes      NoteService
	Users      UserService
}

// Server adapts HTTP requests onto the managers.
type Server struct {
	svc        Services
	log        zerolog.Logger
	corsOrigin string
	router     *http.ServeMux
}

func NewServer(svc Services, log zerolog.Logger, corsOrigin string) *Server {
	if svc.Categories == nil || svc.Tasks == nil || svc.Notes == nil || svc.Users == nil {
		panic("httpapi: all services must be set")
	}
	s := &Server{
		svc:        svc,
		log:        log.With().Str("component", "http").Logger(),
		corsOrigin: corsOrigin,
		router:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.HandleFunc("GET /api/ready", s.handleReady)

	r.HandleFunc("GET /api/users", s.listUsers)
	r.HandleFunc("POST /api/users", s.createUser)
	r.HandleFunc("GET /api/users/{id}", s.getUser)
	r.HandleFunc("PUT /api/users/{id}", s.updateUser)
	r.HandleFunc("DELETE /api/users/{id}", s.deleteUser)

	r.HandleFunc("GET /api/categories", s.listCategories)
	r.HandleFunc("POST /api/categories", s.createCategory)
	r.HandleFunc("GET /api/categories/{id}", s.getCategory)
	r.HandleFunc("PUT /api/categories/{id}", s.updateCategory)
	r.HandleFunc("DELETE /api/categories/{id}", s.deleteCategory)
	r.HandleFunc("GET /api/categories/{id}/tasks", s.listCategoryTasks)
	r.HandleFunc("GET /api/categories/{id}/notes", s.listCategoryNotes)

	r.HandleFunc("GET /api/tasks", s.listTasks)
	r.HandleFunc("POST /api/tasks", s.createTask)
	r.HandleFunc("GET /api/tasks/{id}", s.getTask)
	r.HandleFunc("PUT /api/tasks/{id}", s.updateTask)
	r.HandleFunc("DELETE /api/tasks/{id}", s.deleteTask)

	r.HandleFunc("GET /api/notes", s.listNotes)
	r.HandleFunc("POST /api/notes", s.createNote)
	r.HandleFunc("GET /api/notes/{id}", s.getNote)
	r.HandleFunc("PUT /api/notes/{id}", s.updateNote)
	r.HandleFunc("DELETE /api/notes/{id}", s.deleteNote)

	r.HandleFunc("GET /", notFoundHandler)
}

// Handler returns the router wrapped in recovery, CORS and request logging.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.corsMiddleware(s.recoverMiddleware(s.router)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

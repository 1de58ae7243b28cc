package httpapi

import (
	"net/http"

	"productivity-tracker/internal/dto"
	"productivity-tracker/internal/service"
)

type categoryRequest struct {
	Name   string `json:"name"`
	UserID *uint  `json:"userId"`
}

func (req categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: req.Name, UserID: req.UserID}
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.List(categories, dto.NewCategoryResponse))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := s.svc.Categories.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCategoryResponse(*category))
}

func (s *Server) listCategoryTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := s.svc.Categories.ListTasks(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.List(tasks, dto.NewTaskResponse))
}

func (s *Server) listCategoryNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notes, err := s.svc.Categories.ListNotes(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.List(notes, dto.NewNoteResponse))
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := s.svc.Categories.Create(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewCategoryResponse(*category))
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := s.svc.Categories.Update(r.Context(), id, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCategoryResponse(*category))
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Categories.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

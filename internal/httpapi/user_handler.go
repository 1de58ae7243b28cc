package httpapi

import (
	"net/http"

	"productivity-tracker/internal/dto"
	"productivity-tracker/internal/service"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req userRequest) input() service.UserInput {
	return service.UserInput{Name: req.Name, Email: req.Email, Password: req.Password}
}

// listUsers is always paged.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _, err := pageRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	users, err := s.svc.Users.ListPage(r.Context(), page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewPageResponse(users, dto.NewUserResponse))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.svc.Users.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.svc.Users.Create(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewUserResponse(*user))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req userRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.svc.Users.Update(r.Context(), id, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewUserResponse(*user))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"

	"productivity-tracker/internal/dto"
	"productivity-tracker/internal/service"
)

type taskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   *bool     `json:"completed"`
	DueDate     *dateTime `json:"dueDate"`
	CategoryID  *uint     `json:"categoryId"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate.value(),
		CategoryID:  req.CategoryID,
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	page, paged, err := pageRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if paged {
		tasks, err := s.svc.Tasks.ListPage(r.Context(), page)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, dto.NewPageResponse(tasks, dto.NewTaskResponse))
		return
	}

	tasks, err := s.svc.Tasks.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.List(tasks, dto.NewTaskResponse))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	task, err := s.svc.Tasks.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewTaskResponse(*task))
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	task, err := s.svc.Tasks.Create(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewTaskResponse(*task))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req taskRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	task, err := s.svc.Tasks.Update(r.Context(), id, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewTaskResponse(*task))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Tasks.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

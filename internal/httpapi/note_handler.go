package httpapi

import (
	"net/http"

	"productivity-tracker/internal/dto"
	"productivity-tracker/internal/service"
)

type noteRequest struct {
	Title      string  `json:"title"`
	Content    *string `json:"content"`
	CategoryID *uint   `json:"categoryId"`
}

func (req noteRequest) input() service.NoteInput {
	return service.NoteInput{Title: req.Title, Content: req.Content, CategoryID: req.CategoryID}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	page, paged, err := pageRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if paged {
		notes, err := s.svc.Notes.ListPage(r.Context(), page)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, dto.NewPageResponse(notes, dto.NewNoteResponse))
		return
	}

	notes, err := s.svc.Notes.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.List(notes, dto.NewNoteResponse))
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	note, err := s.svc.Notes.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNoteResponse(*note))
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	note, err := s.svc.Notes.Create(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewNoteResponse(*note))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req noteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	note, err := s.svc.Notes.Update(r.Context(), id, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewNoteResponse(*note))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Notes.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

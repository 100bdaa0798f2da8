// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/pdiddy/prereqs/internal/prereq"
	"github.com/pdiddy/prereqs/internal/store"
	"github.com/pdiddy/prereqs/pkg/types"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

type parseRequest struct {
	Text string `json:"text"`
}

type prerequisitesResponse struct {
	Code               string    `json:"code"`
	Text               string    `json:"text"`
	HasExamRequirement bool      `json:"has_exam_requirement"`
	DNF                types.DNF `json:"dnf"`
}

type checkResponse struct {
	Code         string `json:"code"`
	Eligible     bool   `json:"eligible"`
	Alternatives []int  `json:"alternatives"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.parser.ParseAndExpand(req.Text)
	if err != nil {
		var pe *prereq.ParseError
		if errors.As(err, &pe) {
			s.logger.Warn("request failed", "status", http.StatusUnprocessableEntity, "error", err)
			offset := pe.Offset
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  err.Error(),
				Kind:   pe.Kind.String(),
				Offset: &offset,
			})
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{
		Prefix:    q.Get("prefix"),
		Attribute: q.Get("attribute"),
	}
	if v := q.Get("exam"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid exam filter %q", v))
			return
		}
		opts.ExamOnly = b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		opts.MaxResults = n
	}

	courses, err := s.courses.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if courses == nil {
		courses = []types.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handlePrerequisites(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, prerequisitesResponse{
		Code:               c.Code,
		Text:               c.PrerequisiteText,
		HasExamRequirement: c.HasExamRequirement(),
		DNF:                dnfOf(c),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var rec prereq.Record
	if err := decodeBody(w, r, &rec); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	dnf := dnfOf(c)
	alts := prereq.Satisfying(dnf, rec)
	if alts == nil {
		alts = []int{}
	}
	writeJSON(w, http.StatusOK, checkResponse{
		Code:         c.Code,
		Eligible:     prereq.Satisfies(dnf, rec),
		Alternatives: alts,
	})
}

// lookup loads the course named in the URL, writing the error response
// itself when it cannot.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (types.Course, bool) {
	code, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid course code: %w", err))
		return types.Course{}, false
	}
	c, err := s.courses.Get(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return types.Course{}, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return types.Course{}, false
	}
	return c, true
}

func dnfOf(c types.Course) types.DNF {
	if c.Prerequisites == nil {
		return types.DNF{}
	}
	return c.Prerequisites.DNF
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

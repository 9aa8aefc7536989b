package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/skillpath/internal/tutor"
)

func learnerParams(r *http.Request) (learner, notebook string) {
	return chi.URLParam(r, "learner"), chi.URLParam(r, "notebook")
}

func (s *Server) skillsHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	states, err := s.svc.States(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) dueHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	due, err := s.svc.DueReviews(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(due))
}

func (s *Server) nextHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	next, err := s.svc.NextSkills(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(next))
}

func (s *Server) recommendationHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	rec, err := s.svc.Recommend(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) planHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	total := 0
	if v := r.URL.Query().Get("slots"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "slots must be a positive integer"})
			return
		}
		total = n
	}
	plan, err := s.svc.Plan(r.Context(), learner, notebook, total)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) practiceHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	var in tutor.PracticeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "invalid request body: " + err.Error()})
		return
	}
	in.LearnerID, in.NotebookID = learner, notebook
	res, err := s.svc.RecordPractice(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) latestProfileHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	p, err := s.svc.LatestProfile(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "no profile computed yet"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) computeProfileHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	res, err := s.svc.ComputeProfile(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) gainHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	from, err := parseTime(r.URL.Query().Get("from"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "from: " + err.Error()})
		return
	}
	to, err := parseTime(r.URL.Query().Get("to"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "to: " + err.Error()})
		return
	}
	g, err := s.svc.LearningGain(r.Context(), learner, notebook, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) retentionHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	ret, err := s.svc.Retention(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) transferHandler(w http.ResponseWriter, r *http.Request) {
	learner, notebook := learnerParams(r)
	tr, err := s.svc.Transfer(r.Context(), learner, notebook)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) cohortHandler(w http.ResponseWriter, r *http.Request) {
	notebook := chi.URLParam(r, "notebook")
	sum, err := s.svc.CohortOverview(r.Context(), notebook, r.URL.Query()["learner"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) settingsHandler(w http.ResponseWriter, r *http.Request) {
	ns, err := s.svc.Settings(r.Context(), chi.URLParam(r, "notebook"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// parseTime accepts RFC 3339 or a plain date. Empty means the zero time.
func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

type errorBody struct {
	Error   string `json:"error"`
	Feature string `json:"feature,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeError maps service errors to status codes. Feature-unavailable
// errors carry the feature name so clients can render an empty state.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *tutor.FeatureUnavailableError
	var ie *tutor.InvalidInputError
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "feature_unavailable", Feature: fe.Feature})
	case errors.As(err, &ie):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: ie.Error()})
	default:
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
	}
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

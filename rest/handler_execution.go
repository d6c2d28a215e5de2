package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flowforge/flowforge/model"
	"github.com/gorilla/mux"
)

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	execution, err := s.executionService.GetExecution(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "execution not found")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}

func (s *Server) HandleGetExecutions(w http.ResponseWriter, r *http.Request) {
	workflowId := mux.Vars(r)["id"]
	filter := model.ExecutionFilter{
		Status: model.ExecutionStatus(r.URL.Query().Get("status")),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if ts, err := strconv.ParseInt(from, 10, 64); err == nil {
			filter.From = time.Unix(ts, 0)
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if ts, err := strconv.ParseInt(to, 10, 64); err == nil {
			filter.To = time.Unix(ts, 0)
		}
	}
	executions, err := s.executionService.GetExecutions(workflowId, filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "error fetching executions")
		return
	}
	respondWithJSON(w, http.StatusOK, executions)
}

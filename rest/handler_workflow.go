package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed workflow definition")
		return
	}
	defer r.Body.Close()
	if wf.Id == "" {
		wf.Id = uuid.New().String()
	}
	wf.CreatedAt = time.Now()
	if err := s.workflowService.SaveWorkflow(wf); err != nil {
		logger.Error("error creating workflow", zap.String("name", wf.Name), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(w, map[string]any{"id": wf.Id})
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	wf, err := s.workflowService.GetWorkflow(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	respondWithJSON(w, http.StatusOK, wf)
}

func (s *Server) HandleUpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, err := s.workflowService.GetWorkflow(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	var wf model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed workflow definition")
		return
	}
	defer r.Body.Close()
	wf.Id = id
	wf.CreatedAt = existing.CreatedAt
	if err := s.workflowService.SaveWorkflow(wf); err != nil {
		logger.Error("error updating workflow", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(w, map[string]any{"id": id})
}

func (s *Server) HandleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.workflowService.GetWorkflow(id); err != nil {
		if err == persistence.ErrNotFound {
			respondWithError(w, http.StatusNotFound, "workflow not found")
			return
		}
	}
	if err := s.workflowService.DeleteWorkflow(id); err != nil {
		logger.Error("error deleting workflow", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting workflow")
		return
	}
	respondOK(w, map[string]any{"id": id})
}

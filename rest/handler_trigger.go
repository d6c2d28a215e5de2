package rest

import (
	"encoding/json"
	"net/http"

	"github.com/flowforge/flowforge/logger"
	"github.com/flowforge/flowforge/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HandleTriggerWorkflow is the webhook ingestion endpoint. The JSON
// body becomes the triggering payload; the execution runs
// asynchronously and the caller polls the returned execution id.
func (s *Server) HandleTriggerWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowId := mux.Vars(r)["id"]
	wf, err := s.workflowService.GetWorkflow(workflowId)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if !wf.Enabled {
		respondWithError(w, http.StatusConflict, "workflow is disabled")
		return
	}
	if wf.Trigger.Kind != model.TRIGGER_KIND_WEBHOOK {
		respondWithError(w, http.StatusBadRequest, "workflow is not webhook triggered")
		return
	}
	payload := make(map[string]any)
	if r.Body != nil {
		// An empty or malformed body still triggers the workflow,
		// it just carries no usable trigger data.
		_ = json.NewDecoder(r.Body).Decode(&payload)
		defer r.Body.Close()
	}
	executionId, err := s.executionService.StartExecution(workflowId, payload)
	if err != nil {
		logger.Error("error triggering workflow", zap.String("workflow", workflowId), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "error triggering workflow")
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]any{"executionId": executionId})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"discussx/internal/logger"
	"discussx/internal/models"
	"discussx/internal/projector"
	"discussx/internal/query"
	"discussx/internal/repository"

	"github.com/gorilla/mux"
)

const exportFileName = "query-result.csv"

type ExecuteQueryRequest struct {
	Statement  string        `json:"statement" validate:"required"`
	Parameters []query.Value `json:"parameters"`
}

type ViewRequest struct {
	ExecuteQueryRequest
	Sort      string `json:"sort"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc ASC DESC"`
	Filter    string `json:"filter"`
}

func (req ViewRequest) view() projector.View {
	return projector.View{
		SortKey:   req.Sort,
		Direction: projector.ParseDirection(req.Direction),
		Filter:    req.Filter,
	}
}

type ViewResponse struct {
	Success      bool            `json:"success"`
	Table        projector.Table `json:"table"`
	RowsAffected int64           `json:"rowsAffected"`
}

type SchemaResponse struct {
	Success bool                 `json:"success"`
	Tables  []models.SchemaTable `json:"tables"`
	Message string               `json:"message,omitempty"`
}

type TablesResponse struct {
	Success     bool `json:"success"`
	CountTables int  `json:"countTables"`
}

// writeResult sends an executor result as is. A failed statement is the
// caller's problem, so it goes out as 400 with the engine's message.
func writeResult(w http.ResponseWriter, result query.Result) {
	if !result.Success {
		writeJSON(w, result, http.StatusBadRequest)
		return
	}
	writeSuccess(w, result, http.StatusOK)
}

func (h *Handlers) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req ExecuteQueryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.QueryService.Execute(r.Context(), actorFrom(r), req.Statement, req.Parameters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

func (h *Handlers) ExecuteQueryView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	table, result, err := h.QueryService.View(r.Context(), actorFrom(r), req.Statement, req.Parameters, req.view())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !result.Success {
		writeResult(w, result)
		return
	}

	writeSuccess(w, ViewResponse{
		Success:      true,
		Table:        table,
		RowsAffected: result.RowsAffected,
	}, http.StatusOK)
}

// ExportQuery sends the projected table as a CSV attachment.
func (h *Handlers) ExportQuery(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	table, result, err := h.QueryService.View(r.Context(), actorFrom(r), req.Statement, req.Parameters, req.view())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !result.Success {
		writeResult(w, result)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	if err := projector.WriteCSV(w, table); err != nil {
		logger.Errorf("failed to write csv export: %v", err)
	}
}

// GetSchema lists tables with columns and indexes. A failed introspection
// still answers with an empty table list next to the diagnostic.
func (h *Handlers) GetSchema(w http.ResponseWriter, r *http.Request) {
	includeSystem, _ := strconv.ParseBool(r.URL.Query().Get("system"))

	tables, err := h.QueryService.Schema(r.Context(), actorFrom(r), includeSystem)
	if err != nil {
		var store *repository.StoreError
		if errors.As(err, &store) {
			logger.Errorf("schema introspection failed: %v", err)
			writeJSON(w, SchemaResponse{
				Success: false,
				Tables:  []models.SchemaTable{},
				Message: err.Error(),
			}, http.StatusInternalServerError)
			return
		}
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, SchemaResponse{Success: true, Tables: tables}, http.StatusOK)
}

func (h *Handlers) PreviewTable(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.QueryService.PreviewTable(r.Context(), actorFrom(r), mux.Vars(r)["name"], limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

func (h *Handlers) SearchTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.QueryService.SearchTable(r.Context(), actorFrom(r), mux.Vars(r)["name"], q.Get("q"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.QueryService.TestConnection(r.Context()); err != nil {
		logger.Warningf("connection test failed: %v", err)
		WriteError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"success": true,
		"message": "Connection successful",
	}, http.StatusOK)
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.QueryService.CountTables(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, TablesResponse{Success: true, CountTables: count}, http.StatusOK)
}

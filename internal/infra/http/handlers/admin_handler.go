package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/bizdev-chatbot/internal/infra/database"
)

type Provisioner interface {
	Provision(ctx context.Context) error
	CreateDatabase(ctx context.Context, name string) (bool, error)
}

type AdminHandler struct {
	Store  Provisioner
	Logger *zap.Logger
}

func NewAdminHandler(store Provisioner, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{Store: store, Logger: logger}
}

type CreateDatabaseRequest struct {
	Database string `json:"database"`
}

type adminResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (h *AdminHandler) HandleCreateTables(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Provision(r.Context()); err != nil {
		h.Logger.Error("failed to provision tables", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, adminResponse{Message: "Tables created successfully.", Code: http.StatusOK})
}

func (h *AdminHandler) HandleCreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req CreateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	name := strings.TrimSpace(req.Database)
	if name == "" {
		writeErrorResponse(w, http.StatusBadRequest, "database is required.")
		return
	}

	created, err := h.Store.CreateDatabase(r.Context(), name)
	if errors.Is(err, database.ErrInvalidDatabaseName) {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid database name.")
		return
	}
	if err != nil {
		h.Logger.Error("failed to create database", zap.String("database", name), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	msg := "Database already exists."
	if created {
		msg = "Database created successfully."
		h.Logger.Info("database created", zap.String("database", name))
	}
	writeJSON(w, http.StatusOK, adminResponse{Message: msg, Code: http.StatusOK})
}

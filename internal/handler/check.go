package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/model"
	"cardcheck_api_gateway/internal/service"
)

type CheckHandler struct {
	service service.CheckService
	logger  *zap.Logger
}

func NewCheckHandler(svc service.CheckService, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{
		service: svc,
		logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleCheck serves POST /api/check.
func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	requestID := uuid.New().String()
	log := h.logger.With(zap.String("request_id", requestID))

	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or malformed authorization header"})
		return
	}

	var req model.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.service.Check(r.Context(), token, &req)
	if err != nil {
		h.writeCheckError(w, log, result, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleRecentChecks serves GET /api/checks.
func (h *CheckHandler) HandleRecentChecks(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or malformed authorization header"})
		return
	}

	logs, err := h.service.GetRecentChecks(r.Context(), token, 50)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
		default:
			h.logger.Error("failed to get recent checks", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	if logs == nil {
		logs = []*model.CheckLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *CheckHandler) writeCheckError(w http.ResponseWriter, log *zap.Logger, result *model.CheckResult, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("check failed", zap.Error(err))
		if result == nil {
			result = &model.CheckResult{
				Status:     model.VerdictUnknown,
				APIStatus:  "ERROR",
				APIMessage: "internal error",
			}
		}
		writeJSON(w, http.StatusInternalServerError, result)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrorResponse is the body for every non-2xx response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// PaginationMeta describes a page of results.
type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// PaginatedResponse wraps a list payload with its paging metadata.
type PaginatedResponse struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Printf("[warn] failed to encode response: %v\n", err)
	}
}

func WriteSuccessResponse(w http.ResponseWriter, payload interface{}) {
	WriteJSON(w, http.StatusOK, payload)
}

func WriteCreatedResponse(w http.ResponseWriter, payload interface{}) {
	WriteJSON(w, http.StatusCreated, payload)
}

func WriteNoContentResponse(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginatedResponse(w http.ResponseWriter, data interface{}, total, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data: data,
		Meta: PaginationMeta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	})
}

func WriteBadRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusBadRequest, message)
}

func WriteUnauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusUnauthorized, message)
}

func WriteForbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusForbidden, message)
}

func WriteNotFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusNotFound, message)
}

func WriteConflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusConflict, message)
}

func WriteInternalServerErrorResponse(w http.ResponseWriter, r *http.Request, message string) {
	WriteErrorResponse(w, r, http.StatusInternalServerError, message)
}

// ParseJSONBody decodes the request body into dst, rejecting unknown
// fields so typos surface as 400s instead of silently dropping data.
func ParseJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/config"
	"github.com/sarayu-uu/22STUCHH010195/model"
	"github.com/sarayu-uu/22STUCHH010195/shortener"
)

// URLHandler exposes the shortener's intake contracts over HTTP.
type URLHandler struct {
	service *shortener.Shortener
	config  config.Config
	baseURL string
}

// NewURLHandler creates a new URL handler
func NewURLHandler(service *shortener.Shortener, cfg config.Config) *URLHandler {
	// Use configured base_url if provided, otherwise construct from scheme, IP, and port
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}
	return &URLHandler{
		service: service,
		config:  cfg,
		baseURL: baseURL,
	}
}

func (h *URLHandler) opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.config.Storage.OperationTimeout) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}

// CreatedResponse describes one freshly shortened URL.
type CreatedResponse struct {
	OriginalURL     string    `json:"originalURL"`
	ShortURL        string    `json:"shortURL"`
	ShortCode       string    `json:"shortCode"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
	ValidityMinutes int       `json:"validityMinutes"`
	QRCodeURL       string    `json:"qrCodeURL"`
}

func (h *URLHandler) created(record model.URLRecord) CreatedResponse {
	return CreatedResponse{
		OriginalURL:     record.OriginalURL,
		ShortURL:        fmt.Sprintf("%s/%s", h.baseURL, record.ShortCode),
		ShortCode:       record.ShortCode,
		CreatedAt:       record.CreatedAt,
		ExpiresAt:       record.ExpiresAt,
		ValidityMinutes: record.ValidityMinutes,
		QRCodeURL:       fmt.Sprintf("%s/qr/%s", h.baseURL, record.ShortCode),
	}
}

// CreateShortURL handles POST /shorten
func (h *URLHandler) CreateShortURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	var input model.Submission
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Str("category", "http").Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	record, err := h.service.Shorten(ctx, input)
	if err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			SendValidationError(w, verrs)
			return
		}
		log.Error().Err(err).Str("category", "http").Msg("Failed to shorten URL")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to shorten URL")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, h.created(*record))
}

// CreateShortURLBatch handles POST /shorten/batch with 1-5 submissions.
func (h *URLHandler) CreateShortURLBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	var input []model.Submission
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Str("category", "http").Msg("Failed to decode batch request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	records, err := h.service.ShortenBatch(ctx, input)
	if err != nil {
		var berrs model.BatchValidationError
		if errors.As(err, &berrs) {
			SendBatchValidationError(w, berrs)
			return
		}
		log.Error().Err(err).Str("category", "http").Msg("Failed to shorten batch")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to shorten batch")
		return
	}

	out := make([]CreatedResponse, len(records))
	for i, record := range records {
		out[i] = h.created(record)
	}
	SendJSONSuccess(w, http.StatusCreated, out)
}

// RedirectURL handles GET /{shortCode}
func (h *URLHandler) RedirectURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	vars := mux.Vars(r)
	code := vars["shortCode"]

	destination, err := h.service.Redirect(ctx, code, shortener.ClickContext{
		Referrer:  r.Header.Get("Referer"),
		UserAgent: r.Header.Get("User-Agent"),
		ClientIP:  r.RemoteAddr,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			SendJSONError(w, http.StatusNotFound, err, "")
		case errors.Is(err, model.ErrExpired):
			SendJSONError(w, http.StatusGone, err, "")
		default:
			log.Error().Err(err).Str("category", "http").Str("short_code", code).Msg("Redirect failed")
			SendJSONError(w, http.StatusInternalServerError, err, "Redirect failed")
		}
		return
	}

	http.Redirect(w, r, destination, http.StatusMovedPermanently)
}

// Stats handles GET /stats - the full record set for display.
func (h *URLHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	records := h.service.Stats(ctx)
	if records == nil {
		records = []model.URLRecord{}
	}
	SendJSONSuccess(w, http.StatusOK, records)
}

// StatsByCode handles GET /stats/{shortCode}
func (h *URLHandler) StatsByCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	vars := mux.Vars(r)
	code := vars["shortCode"]

	record := h.service.StatsByCode(ctx, code)
	if record == nil {
		SendJSONError(w, http.StatusNotFound, model.ErrNotFound, "")
		return
	}
	SendJSONSuccess(w, http.StatusOK, record)
}

// HealthCheck handles GET /health
func (h *URLHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"storage": h.config.Storage.Backend,
	})
}

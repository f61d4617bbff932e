package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/sarayu-uu/22STUCHH010195/model"
)

// GenerateQR handles GET /qr/{shortCode} - generates a QR code PNG for
// a short link.
func (h *URLHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	vars := mux.Vars(r)
	code := vars["shortCode"]

	if !h.service.CodeExists(ctx, code) {
		log.Warn().Str("category", "http").Str("short_code", code).Msg("URL not found for QR generation")
		SendJSONError(w, http.StatusNotFound, model.ErrNotFound, "")
		return
	}

	// Size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	fullURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		log.Error().Err(err).Str("category", "http").Str("url", fullURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Str("category", "http").Msg("Failed to write QR code response")
	}
}

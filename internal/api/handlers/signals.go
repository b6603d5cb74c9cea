package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/sage/internal/advisory"
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/pkg/logger"
	"github.com/wonny/sage/pkg/redis"
)

const (
	latestCacheKey = "signals:latest"
	latestCacheTTL = 5 * time.Minute

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// SignalHandler handles advisory signal API endpoints
// ⭐ SSOT: 시그널 API 핸들러는 이 구조체에서만
type SignalHandler struct {
	signals contracts.SignalRepository
	service *advisory.Service
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(signals contracts.SignalRepository, service *advisory.Service, cache *redis.Cache, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		signals: signals,
		service: service,
		cache:   cache,
		logger:  log,
	}
}

// GetLatest returns every signal from the most recent batch
// GET /api/signals/latest
func (h *SignalHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []contracts.AdvisorySignal
	if hit, err := h.cache.Get(ctx, latestCacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"cached":  true,
			"data": map[string]interface{}{
				"count":   len(cached),
				"signals": cached,
			},
		})
		return
	}

	signals, err := h.signals.GetLatest(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest signals")
		respondError(w, http.StatusInternalServerError, "Failed to get latest signals")
		return
	}
	if signals == nil {
		signals = []contracts.AdvisorySignal{}
	}

	if err := h.cache.Set(ctx, latestCacheKey, signals, latestCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache latest signals")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cached":  false,
		"data": map[string]interface{}{
			"count":   len(signals),
			"signals": signals,
		},
	})
}

// GetBySymbol returns a symbol's signal history, newest first
// GET /api/signals/{symbol}?limit=20
func (h *SignalHandler) GetBySymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	signals, err := h.signals.GetBySymbol(ctx, symbol, limit)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to get signals for symbol")
		respondError(w, http.StatusInternalServerError, "Failed to get signals")
		return
	}
	if signals == nil {
		signals = []contracts.AdvisorySignal{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"symbol":  symbol,
			"count":   len(signals),
			"signals": signals,
		},
	})
}

// Generate triggers a signal generation batch
// POST /api/signals/generate
func (h *SignalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	batch, err := h.service.Run(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Signal generation failed")
		respondError(w, http.StatusInternalServerError, "Signal generation failed: "+err.Error())
		return
	}

	// 새 배치가 생겼으니 캐시 무효화
	if err := h.cache.Delete(ctx, latestCacheKey); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate signal cache")
	}

	emitted, skipped, failed := batch.Counts()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"generated_at": batch.GeneratedAt,
			"emitted":      emitted,
			"skipped":      skipped,
			"failed":       failed,
			"signals":      batch.Signals,
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

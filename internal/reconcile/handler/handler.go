package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"restock-service/internal/fileio"
	"restock-service/internal/order"
	"restock-service/internal/reconcile/model"
	"restock-service/internal/reconcile/service"
)

// Memory is the handler's view of the match memory store.
type Memory interface {
	service.MatchMemory
	Entries() ([]model.MemoryEntry, error)
}

// Handler exposes the reconciliation engine and order builder over HTTP.
// It owns no business logic beyond request/response shaping.
type Handler struct {
	log        zerolog.Logger
	mem        Memory
	opt        model.Options
	thresholds *order.Table
}

func New(logger zerolog.Logger, mem Memory) *Handler {
	return &Handler{
		log:        logger,
		mem:        mem,
		opt:        model.DefaultOptions(),
		thresholds: order.DefaultTable(),
	}
}

type reconcileRequest struct {
	PosProducts        []model.ProductRecord  `json:"posProducts"`
	ProductionProducts []model.ProductRecord  `json:"productionProducts"`
	Overrides          map[int]model.Override `json:"overrides,omitempty"`
}

// Reconcile handles POST /reconcile: two parsed product lists in, four
// buckets out.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLogger(r)

	var req reconcileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.PosProducts) == 0 {
		writeError(w, http.StatusBadRequest, "posProducts is required")
		return
	}

	res, err := h.reconcile(req, log)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
	log.Info().
		Int("pos", len(req.PosProducts)).
		Int("production", len(req.ProductionProducts)).
		Int("auto", res.Summary.AutoMatched).
		Int("review", res.Summary.NeedsReview).
		Dur("elapsed", time.Since(start)).
		Msg("reconcile done")
}

// ReconcileUpload handles POST /reconcile/upload: multipart "pos" and
// "production" inventory files (CSV/XLSX/XLS), parsed and reconciled in one
// round trip.
func (h *Handler) ReconcileUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLogger(r)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}

	posFile, posHeader, err := r.FormFile("pos")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing pos file: "+err.Error())
		return
	}
	defer posFile.Close()

	prodFile, prodHeader, err := r.FormFile("production")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing production file: "+err.Error())
		return
	}
	defer prodFile.Close()

	posRows, err := fileio.ReadAnyMaps(posFile, posHeader.Filename, atoi(r.FormValue("pos_header_row"), 1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read pos file: "+err.Error())
		return
	}
	prodRows, err := fileio.ReadAnyMaps(prodFile, prodHeader.Filename, atoi(r.FormValue("production_header_row"), 1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read production file: "+err.Error())
		return
	}

	req := reconcileRequest{
		PosProducts:        fileio.PosProducts(posRows),
		ProductionProducts: fileio.ProductionProducts(prodRows),
	}
	res, err := h.reconcile(req, log)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
	log.Info().
		Str("pos_file", posHeader.Filename).
		Str("production_file", prodHeader.Filename).
		Int("pos", len(req.PosProducts)).
		Int("production", len(req.ProductionProducts)).
		Dur("elapsed", time.Since(start)).
		Msg("reconcile upload done")
}

type ordersResponse struct {
	OrderItems     []order.LineItem `json:"orderItems"`
	Summary        order.Summary    `json:"summary"`
	Reconciliation model.Summary    `json:"reconciliation"`
	Warnings       []model.Warning  `json:"warnings,omitempty"`
}

// Orders handles POST /orders: reconcile, then derive the prioritized
// restock order from the matched pairs and production-only leftovers.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLogger(r)

	var req reconcileRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.PosProducts) == 0 && len(req.ProductionProducts) == 0 {
		writeError(w, http.StatusBadRequest, "posProducts or productionProducts is required")
		return
	}

	res, err := h.reconcile(req, log)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	built, err := order.Build(res.AutoMatched, res.ProductionOnly, h.thresholds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		OrderItems:     built.OrderItems,
		Summary:        built.Summary,
		Reconciliation: res.Summary,
		Warnings:       res.Warnings,
	})
	log.Info().
		Int("items", built.Summary.Total).
		Int("critical", built.Summary.Critical).
		Dur("elapsed", time.Since(start)).
		Msg("order built")
}

type confirmRequest struct {
	PosName        string `json:"posName"`
	ProductionName string `json:"productionName"`
}

// ConfirmMatch handles POST /matches/confirm: persists a human-confirmed
// pairing so future runs match it without scoring. A store failure is a
// 502, never a silent drop.
func (h *Handler) ConfirmMatch(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	var req confirmRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	posNorm := service.Normalize(req.PosName)
	prodNorm := service.Normalize(req.ProductionName)
	if posNorm == "" || prodNorm == "" {
		writeError(w, http.StatusBadRequest, "posName and productionName are required")
		return
	}

	if err := h.mem.Confirm(posNorm, prodNorm); err != nil {
		log.Error().Err(err).Str("pos", posNorm).Str("production", prodNorm).Msg("confirm failed")
		writeError(w, http.StatusBadGateway, "failed to persist confirmation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"posNameNormalized":        posNorm,
		"productionNameNormalized": prodNorm,
	})
	log.Info().Str("pos", posNorm).Str("production", prodNorm).Msg("match confirmed")
}

// ListMatches handles GET /matches: all persisted confirmations.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	entries, err := h.mem.Entries()
	if err != nil {
		log := h.requestLogger(r)
		log.Error().Err(err).Msg("list matches failed")
		writeError(w, http.StatusBadGateway, "match memory unavailable")
		return
	}
	if entries == nil {
		entries = []model.MemoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": entries})
}

func (h *Handler) reconcile(req reconcileRequest, log zerolog.Logger) (model.Result, error) {
	eng := service.NewEngine(h.mem, h.opt, log)
	return eng.Reconcile(req.PosProducts, req.ProductionProducts, req.Overrides)
}

func (h *Handler) requestLogger(r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return h.log.With().Str("req_id", rid).Logger()
	}
	return h.log
}

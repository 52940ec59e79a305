package editing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"cutlist-editor/internal/cutlist"
	"cutlist-editor/internal/platform/auth"
	"cutlist-editor/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// Handler exposes editing-session HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts the session and cut-list endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/sessions/{media_id}", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Get("/", h.GetSession)
		r.Delete("/", h.CloseSession)
		r.Post("/save", h.Save)
		r.Post("/reset", h.Reset)
		r.Post("/split", h.Split)
		r.Route("/segments/{index}", func(r chi.Router) {
			r.Post("/toggle", h.Toggle)
			r.Post("/merge", h.Merge)
			r.Post("/select", h.Select)
			r.Put("/start", h.UpdateStart)
			r.Put("/end", h.UpdateEnd)
		})
	})
	r.Get("/cutlists", h.ListCutLists)
	r.Get("/cutlists/{media_id}", h.GetCutList)
}

// timeBody is the body of time edits: either an HH:MM:SS.mmm label or
// milliseconds.
type timeBody struct {
	Time string `json:"time"`
	Ms   *int64 `json:"ms"`
}

type errorBody struct {
	Error string `json:"error"`
	Op    string `json:"op,omitempty"`
}

// OpenSession handles POST /sessions/{media_id}.
// Body: { "duration": 52125, "segments": [{"start":0,"end":52125,"deleted":false}] }.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	id := MediaID(chi.URLParam(r, "media_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req OpenRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Debug("invalid session body", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	snap, err := h.svc.OpenSession(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionExists):
			writeJSON(w, http.StatusConflict, errorBody{Error: "session_exists"})
		case errors.Is(err, ErrTooManySessions):
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "too_many_sessions"})
		case errors.Is(err, ErrCutListNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, cutlist.ErrInvalidModel):
			h.log.Info("session rejected invalid cut list",
				slog.String("media_id", string(id)),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: cutlist.ReasonCode(err)})
		default:
			h.log.Error("open session failed", slog.String("media_id", string(id)), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("session opened",
		slog.String("media_id", string(id)),
		slog.Int("segments", snap.Model.Len()),
		slog.Int64("duration", snap.Model.Duration))
	writeJSON(w, http.StatusCreated, BuildSessionView(snap))
}

// GetSession handles GET /sessions/{media_id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.svc.Session(MediaID(chi.URLParam(r, "media_id")))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, BuildSessionView(snap))
}

// CloseSession handles DELETE /sessions/{media_id}.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id := MediaID(chi.URLParam(r, "media_id"))
	if h.svc.CloseSession(id) {
		h.log.Info("session closed", slog.String("media_id", string(id)))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /sessions/{media_id}/segments/{index}/toggle.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.indexEdit(w, r, cutlist.OpToggle)
}

// Merge handles POST /sessions/{media_id}/segments/{index}/merge.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	h.indexEdit(w, r, cutlist.OpMerge)
}

// Select handles POST /sessions/{media_id}/segments/{index}/select.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	h.indexEdit(w, r, cutlist.OpSelect)
}

// UpdateStart handles PUT /sessions/{media_id}/segments/{index}/start.
// Body: { "time": "00:00:05.000" } or { "ms": 5000 }.
func (h *Handler) UpdateStart(w http.ResponseWriter, r *http.Request) {
	h.timeEdit(w, r, cutlist.OpStartTime, true)
}

// UpdateEnd handles PUT /sessions/{media_id}/segments/{index}/end.
func (h *Handler) UpdateEnd(w http.ResponseWriter, r *http.Request) {
	h.timeEdit(w, r, cutlist.OpEndTime, true)
}

// Split handles POST /sessions/{media_id}/split.
func (h *Handler) Split(w http.ResponseWriter, r *http.Request) {
	h.timeEdit(w, r, cutlist.OpSplit, false)
}

// Reset handles POST /sessions/{media_id}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, cutlist.Edit{Op: cutlist.OpReset})
}

// Save handles POST /sessions/{media_id}/save.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id := MediaID(chi.URLParam(r, "media_id"))
	savedBy := ""
	if c := auth.ClaimsFromContext(r.Context()); c != nil {
		savedBy = c.UserID
	}

	snap, err := h.svc.Save(r.Context(), id, savedBy)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.log.Error("save cut list failed", slog.String("media_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("cut list saved",
		slog.String("media_id", string(id)),
		slog.String("saved_by", savedBy),
		slog.Int("segments", snap.Model.Len()))
	if h.metrics != nil {
		h.metrics.IncCutListsSaved()
	}
	writeJSON(w, http.StatusOK, BuildSessionView(snap))
}

// ListCutLists handles GET /cutlists.
func (h *Handler) ListCutLists(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.CutListIDs(r.Context())
	if err != nil {
		h.log.Error("list cut lists failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []MediaID{}
	}
	writeJSON(w, http.StatusOK, map[string][]MediaID{"media_ids": ids})
}

// GetCutList handles GET /cutlists/{media_id}.
func (h *Handler) GetCutList(w http.ResponseWriter, r *http.Request) {
	id := MediaID(chi.URLParam(r, "media_id"))
	cl, ok, err := h.svc.CutList(r.Context(), id)
	if err != nil {
		h.log.Error("load cut list failed", slog.String("media_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

func (h *Handler) indexEdit(w http.ResponseWriter, r *http.Request, op cutlist.Op) {
	index, ok := segmentIndex(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	h.apply(w, r, cutlist.Edit{Op: op, Index: index})
}

func (h *Handler) timeEdit(w http.ResponseWriter, r *http.Request, op cutlist.Op, indexed bool) {
	edit := cutlist.Edit{Op: op, Index: -1}
	if indexed {
		index, ok := segmentIndex(r)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		edit.Index = index
	}

	var body timeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.log.Debug("invalid time body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	switch {
	case body.Time != "":
		edit.Timestamp = body.Time
	case body.Ms != nil:
		edit.Millis = *body.Ms
	default:
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	h.apply(w, r, edit)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, edit cutlist.Edit) {
	id := MediaID(chi.URLParam(r, "media_id"))

	snap, err := h.svc.ApplyEdit(id, edit)
	if err != nil {
		var rej *cutlist.RejectedEdit
		switch {
		case errors.Is(err, ErrSessionNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.As(err, &rej):
			reason := cutlist.ReasonCode(err)
			h.log.Info("edit rejected",
				slog.String("media_id", string(id)),
				slog.String("op", string(rej.Op)),
				slog.Int("index", rej.Index),
				slog.String("reason", reason))
			if h.metrics != nil {
				h.metrics.IncEditsRejected(reason)
			}
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: reason, Op: string(rej.Op)})
		default:
			h.log.Error("edit failed", slog.String("media_id", string(id)), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.log.Debug("edit applied",
		slog.String("media_id", string(id)),
		slog.String("op", string(edit.Op)),
		slog.Int("index", edit.Index),
		slog.Bool("dirty", snap.Dirty))
	if h.metrics != nil {
		h.metrics.IncEditsApplied(string(edit.Op))
	}
	writeJSON(w, http.StatusOK, BuildSessionView(snap))
}

func segmentIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

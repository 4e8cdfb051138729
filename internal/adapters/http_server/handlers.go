package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tour_backoffice/internal/app"
	"tour_backoffice/internal/domain"
)

type Handlers struct {
	Q *app.QuoteService
	B *app.BookingService

	validate *validator.Validate
}

func NewHandlers(q *app.QuoteService, b *app.BookingService) *Handlers {
	return &Handlers{Q: q, B: b, validate: validator.New()}
}

// problem type values tell the client whether to pick another date
// (capacity), call support (configuration) or fix its input (request).
const (
	problemCapacity      = "capacity"
	problemConfiguration = "configuration"
	problemRequest       = "request"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/packages/{id}/quote", h.quote)
		r.Get("/packages/{id}/departures", h.listDepartures)
		r.Get("/packages/{id}/shifts", h.listShifts)
		r.Get("/packages/{id}/validation", h.validatePackage)
		r.Post("/quotes/batch", h.quoteBatch)

		r.Post("/departures/{id}/reserve", h.capacity("departure", "reserve"))
		r.Post("/departures/{id}/release", h.capacity("departure", "release"))
		r.Post("/shifts/{id}/reserve", h.capacity("shift", "reserve"))
		r.Post("/shifts/{id}/release", h.capacity("shift", "release"))
	})
}

// ---- request bodies ----

type quoteBody struct {
	CheckIn          string              `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut         string              `json:"check_out" validate:"required,datetime=2006-01-02"`
	ApartmentID      *uuid.UUID          `json:"apartment_id"`
	ShiftID          *uuid.UUID          `json:"shift_id"`
	IncludeTransport bool                `json:"include_transport"`
	NumberOfPersons  int                 `json:"number_of_persons" validate:"gte=0,lte=50"`
	DepartureCity    string              `json:"departure_city" validate:"max=128"`
	RoomTypeID       *uuid.UUID          `json:"room_type_id"`
	MealPlan         string              `json:"meal_plan" validate:"omitempty,oneof=ND BB HB FB AI"`
	Adults           int                 `json:"adults" validate:"gte=0,lte=50"`
	Children         []domain.ChildGuest `json:"children" validate:"max=20,dive"`
}

func (b quoteBody) toDomain() (domain.QuoteRequest, error) {
	in, err := domain.ParseDate(b.CheckIn)
	if err != nil {
		return domain.QuoteRequest{}, err
	}
	out, err := domain.ParseDate(b.CheckOut)
	if err != nil {
		return domain.QuoteRequest{}, err
	}
	req := domain.QuoteRequest{
		CheckIn:          in,
		CheckOut:         out,
		ShiftID:          b.ShiftID,
		IncludeTransport: b.IncludeTransport,
		NumberOfPersons:  b.NumberOfPersons,
		DepartureCity:    strings.TrimSpace(b.DepartureCity),
		MealPlan:         domain.MealPlan(b.MealPlan),
		Adults:           b.Adults,
		Children:         b.Children,
	}
	if b.ApartmentID != nil {
		req.ApartmentID = *b.ApartmentID
	}
	if b.RoomTypeID != nil {
		req.RoomTypeID = *b.RoomTypeID
	}
	return req, nil
}

type batchBody struct {
	PackageIDs []uuid.UUID         `json:"package_ids" validate:"required,min=1,max=50"`
	CheckIn    string              `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string              `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults     int                 `json:"adults" validate:"gte=1,lte=50"`
	Children   []domain.ChildGuest `json:"children" validate:"max=20,dive"`
}

type spotsBody struct {
	Spots int `json:"spots"`
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, typ, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: typ, Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, problemRequest, "Not Found", err.Error())
	case domain.IsCapacityError(err):
		writeProblem(w, http.StatusConflict, problemCapacity, "Not enough capacity", err.Error()+"; try another date")
	case errors.Is(err, domain.ErrNoIntervalDefined):
		writeProblem(w, http.StatusUnprocessableEntity, problemConfiguration, "Not available for these dates", err.Error())
	case domain.IsConfigurationError(err):
		writeProblem(w, http.StatusUnprocessableEntity, problemConfiguration, "Package pricing is incomplete", err.Error()+"; contact support")
	case domain.IsRequestError(err):
		writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid request", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "about:blank", "Internal Server Error", "")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid ID", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into dst and runs its validate tags.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Malformed JSON", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Validation failed", validationDetail(err))
		return false
	}
	return true
}

func validationDetail(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if r.Method == http.MethodGet {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// ---- handlers ----

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body quoteBody
	if !h.decode(w, r, &body) {
		return
	}
	req, err := body.toDomain()
	if err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid date", err.Error())
		return
	}
	res, err := h.Q.Quote(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) quoteBatch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if !h.decode(w, r, &body) {
		return
	}
	in, err := domain.ParseDate(body.CheckIn)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid date", err.Error())
		return
	}
	out, err := domain.ParseDate(body.CheckOut)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid date", err.Error())
		return
	}
	quotes, err := h.Q.QuoteMany(r.Context(), domain.BatchQuoteRequest{
		PackageIDs: body.PackageIDs, CheckIn: in, CheckOut: out, Adults: body.Adults, Children: body.Children,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"quotes": quotes})
}

func (h *Handlers) listDepartures(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var q domain.DepartureQuery
	for key, dst := range map[string]**domain.Date{"from": &q.From, "to": &q.To} {
		if v := r.URL.Query().Get(key); v != "" {
			d, err := domain.ParseDate(v)
			if err != nil {
				writeProblem(w, http.StatusBadRequest, problemRequest, "Invalid "+key, err.Error())
				return
			}
			*dst = &d
		}
	}
	ds, err := h.Q.Departures(r.Context(), id, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ds == nil {
		ds = []domain.Departure{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": ds})
}

func (h *Handlers) listShifts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ss, err := h.Q.Shifts(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ss == nil {
		ss = []domain.Shift{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": ss})
}

func (h *Handlers) validatePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rep, err := h.Q.Validate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": rep.OK(), "report": rep})
}

// capacity serves reserve/release for departures and shifts.
func (h *Handlers) capacity(kind, op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var body spotsBody
		if !h.decode(w, r, &body) {
			return
		}
		ctx := r.Context()
		var (
			v   any
			err error
		)
		switch kind + "/" + op {
		case "departure/reserve":
			v, err = h.B.ReserveDeparture(ctx, id, body.Spots)
		case "departure/release":
			v, err = h.B.ReleaseDeparture(ctx, id, body.Spots)
		case "shift/reserve":
			v, err = h.B.ReserveShift(ctx, id, body.Spots)
		case "shift/release":
			v, err = h.B.ReleaseShift(ctx, id, body.Spots)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, v)
	}
}

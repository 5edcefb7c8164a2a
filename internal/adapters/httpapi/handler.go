package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/usecase"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/validate"
	"github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	timeFormat             = "2006-01-02T15:04:05.999999999Z07:00"
	apiActorCtxKey  ctxKey = "api_actor"
	maxJSONBodySize        = 1 << 20
)

type Handler struct {
	calculator *usecase.CalculatorService
	rates      *usecase.RateService
	auth       *usecase.AuthService
}

func NewHandler(calculator *usecase.CalculatorService, rates *usecase.RateService, auth *usecase.AuthService) *Handler {
	return &Handler{calculator: calculator, rates: rates, auth: auth}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)
	r.Get("/openapi.json", h.openapi)

	r.Post("/v1/calculate", h.calculate)
	r.Post("/v1/buydowns/rate", h.rateBuydown)
	r.Get("/v1/rates", h.currentRates)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAPIKey)
		pr.Put("/v1/rates", h.uploadRates)
		pr.Get("/v1/rates/history", h.rateHistory)
	})

	return r
}

// calculateRequest carries the form fields as submitted, untyped. The
// validator owns parsing so the UI gets one error list covering every field.
type calculateRequest struct {
	Direction        string `json:"direction"`
	Price            string `json:"price"`
	Term             string `json:"term"`
	Rate             string `json:"rate"`
	Tax              string `json:"tax"`
	Insurance        string `json:"insurance"`
	HOAFee           string `json:"hoaFee"`
	PrincipalBuydown string `json:"principalBuydown"`
}

type resultResponse struct {
	MonthlyPayment    float64 `json:"monthlyPayment"`
	PurchasePrice     float64 `json:"purchasePrice"`
	PrincipalInterest float64 `json:"principalInterest"`
	Taxes             float64 `json:"taxes"`
	Insurance         float64 `json:"insurance"`
	HOAFee            float64 `json:"hoaFee"`
}

type rateBuydownRequest struct {
	Principal    float64 `json:"principal"`
	OriginalRate float64 `json:"originalRate"`
	DesiredRate  float64 `json:"desiredRate"`
	Term         int     `json:"term"`
}

type rateSheetResponse struct {
	ID        string            `json:"id"`
	Rates     map[int][]float64 `json:"rates"`
	Source    string            `json:"source"`
	FetchedAt string            `json:"fetched_at"`
}

type uploadRatesRequest struct {
	Rates map[int][]float64 `json:"rates"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	direction, err := domain.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "direction must be price_to_payment or payment_to_price")
		return
	}

	result, fieldErrs, err := h.calculator.Calculate(r.Context(), validate.RawInput{
		Price:            req.Price,
		Term:             req.Term,
		Rate:             req.Rate,
		Tax:              req.Tax,
		Insurance:        req.Insurance,
		HOAFee:           req.HOAFee,
		PrincipalBuydown: req.PrincipalBuydown,
	}, direction)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
		return
	}

	writeJSON(w, http.StatusOK, resultResponse{
		MonthlyPayment:    result.MonthlyPayment,
		PurchasePrice:     result.PurchasePrice,
		PrincipalInterest: result.PrincipalInterest,
		Taxes:             result.Taxes,
		Insurance:         result.Insurance,
		HOAFee:            result.HOAFee,
	})
}

func (h *Handler) rateBuydown(w http.ResponseWriter, r *http.Request) {
	var req rateBuydownRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cost, reduction := h.calculator.RateBuydown(req.Principal, req.OriginalRate, req.DesiredRate, req.Term)
	writeJSON(w, http.StatusOK, map[string]float64{"cost": cost, "reduction": reduction})
}

func (h *Handler) currentRates(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.rates.Current(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRateSheetResponse(sheet))
}

func (h *Handler) uploadRates(w http.ResponseWriter, r *http.Request) {
	var req uploadRatesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	table := domain.RateTable(req.Rates)
	if err := table.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	source := "manual:" + actorFromContext(r.Context())
	sheet, stored, err := h.rates.Store(r.Context(), table, source, time.Now().UTC())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stored": stored,
		"sheet":  toRateSheetResponse(sheet),
	})
}

func (h *Handler) rateHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	sheets, err := h.rates.History(r.Context(), limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	result := make([]rateSheetResponse, 0, len(sheets))
	for _, sheet := range sheets {
		result = append(result, toRateSheetResponse(sheet))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) openapi(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, openapiSpec())
}

func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if token == "" {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				token = strings.TrimSpace(auth[7:])
			}
		}

		apiKey, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), apiActorCtxKey, apiKey.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func toRateSheetResponse(sheet domain.RateSheet) rateSheetResponse {
	return rateSheetResponse{
		ID:        sheet.ID,
		Rates:     sheet.Table,
		Source:    sheet.Source,
		FetchedAt: sheet.FetchedAt.UTC().Format(timeFormat),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := ensureEOF(decoder); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be integer")
			return 0, false
		}
		limit = parsed
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("encode json response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDirection):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no rate sheet stored yet")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}

func actorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(apiActorCtxKey).(string)
	if actor == "" {
		return "api"
	}
	return actor
}

func openapiSpec() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "mortgageapi",
			"version": "1.0.0",
		},
		"paths": map[string]any{
			"/v1/calculate": map[string]any{
				"post": map[string]any{"summary": "Compute a PITI breakdown in either direction"},
			},
			"/v1/buydowns/rate": map[string]any{
				"post": map[string]any{"summary": "Price an interest-rate buydown"},
			},
			"/v1/rates": map[string]any{
				"get": map[string]any{"summary": "Current rate sheet"},
				"put": map[string]any{"summary": "Upload a rate sheet manually"},
			},
			"/v1/rates/history": map[string]any{
				"get": map[string]any{"summary": "Stored rate sheet history"},
			},
		},
	}
}

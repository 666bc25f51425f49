package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sales-service/internal/app"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req app.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	result, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) getSaleBySaleNumber(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSaleBySaleNumber(r.Context(), chi.URLParam(r, "saleNumber"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListSalesRequest{
		SaleNumber: q.Get("sale_number"),
		Branch:     q.Get("branch"),
		Customer:   q.Get("customer"),
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		SortBy:     q.Get("sort_by"),
		Descending: q.Get("order") == "desc",
	}
	if v := q.Get("is_cancelled"); v != "" {
		cancelled := v == "true"
		req.IsCancelled = &cancelled
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	result, err := h.svc.ListSales(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sales":       result.Sales,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total_count": result.TotalCount,
	})
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	var req app.UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateSale(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) cancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	result, err := h.svc.CancelSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	result, err := h.svc.DeleteSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !result.Deleted {
		writeError(w, r, "sale "+id.String()+" not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addSaleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	var req app.AddSaleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AddSaleItem(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Sale)
}

func (h *Handler) cancelSaleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "saleID")
	if !ok {
		return
	}

	result, err := h.svc.CancelSaleItem(r.Context(), id, chi.URLParam(r, "product"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) updateSaleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	var req app.UpdateSaleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateSaleItem(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Item)
}

func (h *Handler) deleteSaleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	result, err := h.svc.DeleteSaleItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !result.Deleted {
		writeError(w, r, "sale item "+id.String()+" not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID reads a UUID route parameter, writing a 400 when it is malformed.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, r, "invalid "+param+": must be a UUID", "BAD_REQUEST", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

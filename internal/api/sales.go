package api

import (
	"errors"
	"fmt"
	"net/http"

	"remedy/m/internal/sales"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req sales.SaleInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sale, err := h.recorder.CreateSale(r.Context(), req)
	if err != nil {
		if sales.IsRejection(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create sale")
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.recorder.ListSales(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch sales")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, err := h.invoices.Invoice(r.Context(), id)
	if errors.Is(err, sales.ErrSaleNotFound) {
		respondError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

func (h *Handler) getInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	invoice, err := h.invoices.Invoice(r.Context(), id)
	if errors.Is(err, sales.ErrSaleNotFound) {
		respondError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch invoice")
		return
	}

	pdf, err := sales.RenderPDF(invoice)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render invoice")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

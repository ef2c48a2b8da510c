package handler

import (
	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"log/slog"
	"net/http"
	"net/url"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Description Customers are derived from loan owners; they are never stored.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "Customers sorted by email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponses(customers))
}

// GetCustomer handles GET /api/customers/{email}
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param email path string true "Customer email or owner id"
// @Success 200 {object} dto.CustomerResponse "Customer"
// @Failure 404 {object} dto.ErrorResponse "No loans for this owner"
// @Router /api/customers/{email} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	raw, err := pathParam(r, "email")
	if err != nil {
		respondError(w, err)
		return
	}
	email, err := url.PathUnescape(raw)
	if err != nil {
		respondError(w, invalidArgument("invalid email in URL path"))
		return
	}

	c, err := h.service.GetCustomer(r.Context(), email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(c))
}

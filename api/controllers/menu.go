package controllers

import (
	"net/http"

	"github.com/poiu748/cafe-alya/api/responses"
	"github.com/poiu748/cafe-alya/api/validators"
	ordersvc "github.com/poiu748/cafe-alya/internal/orders"
	productsvc "github.com/poiu748/cafe-alya/internal/products"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
)

const maxCustomerNameLen = 80

// MenuGet serves the public customer menu.
func MenuGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			productServiceMissing(w, r, logg)
			return
		}
		menu, err := svc.Menu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu)
	}
}

type menuOrderRequest struct {
	CustomerName string                     `json:"customerName" validate:"required,max=80"`
	Notes        *string                    `json:"notes,omitempty" validate:"omitempty,max=500"`
	Items        []ordersvc.CreateItemInput `json:"items" validate:"required,min=1,dive"`
}

// MenuPlaceOrder takes a customer's takeaway order from the public menu.
// Prices are resolved server-side like any staff order.
func MenuPlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		var body menuOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name := validators.SanitizeString(body.CustomerName, maxCustomerNameLen)
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customerName is required"))
			return
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			Type:         enums.OrderTypeTakeaway,
			CustomerName: &name,
			Notes:        body.Notes,
			Items:        body.Items,
		}, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

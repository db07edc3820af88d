package bookstoreserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	purchaseports "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

const maxIdempotencyKeyLength = 255

// PurchaseAPI wires HTTP transport with the purchases bounded context.
type PurchaseAPI struct {
	service purchaseports.Service
}

func NewPurchaseAPI(service purchaseports.Service) PurchaseAPI {
	return PurchaseAPI{service: service}
}

// IdempotencyKeyHeader lets clients retry a checkout without buying twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// Post /purchases
// Buys the listed books. Stock and invoice updates happen after the response.
// A repeated Idempotency-Key answers with the purchase recorded the first time.
func (api *PurchaseAPI) CreatePurchase(c *gin.Context) {
	var payload PostPurchaseRequest
	if !bindJSON(c, &payload) {
		return
	}
	if !canActFor(c, payload.CustomerID) {
		respondError(c, apierrors.NewForbidden())
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		respondError(c, apierrors.NewValidation(apierrors.FieldError{
			Field:   IdempotencyKeyHeader,
			Message: fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLength),
		}))
		return
	}
	purchase, err := api.service.CheckoutOnce(c.Request.Context(), key, purchaseports.PurchaseRequest{
		CustomerID: payload.CustomerID,
		BookIDs:    payload.BookIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchaseResponse(purchase))
}

// Get /customers/:id/purchases
func (api *PurchaseAPI) ListByCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	purchases, err := api.service.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toPurchaseResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

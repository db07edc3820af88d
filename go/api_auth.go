package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customerports "github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
)

// AuthAPI issues and revokes session tokens.
type AuthAPI struct {
	customers customerports.Service
}

func NewAuthAPI(customers customerports.Service) AuthAPI {
	return AuthAPI{customers: customers}
}

// Post /login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if !bindJSON(c, &payload) {
		return
	}
	customer, token, err := api.customers.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, CustomerID: customer.ID})
}

// Post /logout
func (api *AuthAPI) Logout(c *gin.Context) {
	principal, _ := PrincipalFrom(c)
	if err := api.customers.Logout(c.Request.Context(), principal.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

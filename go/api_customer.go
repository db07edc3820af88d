package bookstoreserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	customerports "github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

// CustomerAPI wires HTTP transport with the customers bounded context.
type CustomerAPI struct {
	service customerports.Service
}

func NewCustomerAPI(service customerports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Post /customers
// Registers a customer
func (api *CustomerAPI) CreateCustomer(c *gin.Context) {
	var payload PostCustomerRequest
	if !bindJSON(c, &payload) {
		return
	}
	available, err := api.service.EmailAvailable(c.Request.Context(), payload.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if !available {
		respondError(c, apierrors.NewValidation(apierrors.FieldError{Field: "email", Message: "Email already in use"}))
		return
	}
	customer := &customerdomain.Customer{Name: payload.Name, Email: payload.Email, Password: payload.Password}
	saved, err := api.service.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(saved))
}

// Get /customers
// Lists customers, optionally filtered by a name fragment
func (api *CustomerAPI) GetCustomers(c *gin.Context) {
	var name *string
	if value, ok := c.GetQuery("name"); ok {
		name = &value
	}
	customers, err := api.service.GetCustomers(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponses(customers))
}

// Get /customers/:id
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Put /customers/:id
// Overwrites name and email; the password only when informed
func (api *CustomerAPI) PutCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload PutCustomerRequest
	if !bindJSON(c, &payload) {
		return
	}
	customer, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	customer.Name = payload.Name
	customer.Email = payload.Email
	if payload.Password != "" {
		customer.Password = payload.Password
	}
	if _, err := api.service.PutCustomer(c.Request.Context(), customer); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /customers/:id
// Deactivates the customer and withdraws their books
func (api *CustomerAPI) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apierrors.NewValidation(apierrors.FieldError{Field: name, Message: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

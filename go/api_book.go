package bookstoreserver

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	bookports "github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

// BookAPI wires HTTP transport with the books bounded context.
type BookAPI struct {
	service bookports.Service
}

func NewBookAPI(service bookports.Service) BookAPI {
	return BookAPI{service: service}
}

// Post /books
// Lists a book for sale on behalf of the caller
func (api *BookAPI) CreateBook(c *gin.Context) {
	var payload PostBookRequest
	if !bindJSON(c, &payload) {
		return
	}
	if !canActFor(c, payload.CustomerID) {
		respondError(c, apierrors.NewForbidden())
		return
	}
	book := &bookdomain.Book{Name: payload.Name, Price: toCents(*payload.Price), CustomerID: payload.CustomerID}
	saved, err := api.service.Create(c.Request.Context(), book)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(saved))
}

// Get /books
func (api *BookAPI) FindAll(c *gin.Context) {
	page, ok := parsePageable(c)
	if !ok {
		return
	}
	result, err := api.service.FindAll(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookPage(result))
}

// Get /books/active
func (api *BookAPI) FindActives(c *gin.Context) {
	page, ok := parsePageable(c)
	if !ok {
		return
	}
	result, err := api.service.FindActives(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookPage(result))
}

// Get /books/:id
func (api *BookAPI) FindByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// Put /books/:id
// Renames or reprices a book owned by the caller
func (api *BookAPI) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload PutBookRequest
	if !bindJSON(c, &payload) {
		return
	}
	if !api.ownsBook(c, id) {
		return
	}
	changes := bookports.BookChanges{Name: payload.Name}
	if payload.Price != nil {
		cents := toCents(*payload.Price)
		changes.Price = &cents
	}
	if _, err := api.service.Update(c.Request.Context(), id, changes); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /books/:id
// Soft deletes a book owned by the caller
func (api *BookAPI) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !api.ownsBook(c, id) {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *BookAPI) ownsBook(c *gin.Context, id int64) bool {
	book, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !canActFor(c, book.CustomerID) {
		respondError(c, apierrors.NewForbidden())
		return false
	}
	return true
}

// canActFor reports whether the authenticated caller is customerID or an admin.
func canActFor(c *gin.Context, customerID int64) bool {
	principal, ok := PrincipalFrom(c)
	if !ok {
		return false
	}
	return principal.IsAdmin() || principal.CustomerID == customerID
}

func parsePageable(c *gin.Context) (pagination.Pageable, bool) {
	page, ok := queryInt(c, "page", 0, pagination.MaxPage)
	if !ok {
		return pagination.Pageable{}, false
	}
	size, ok := queryInt(c, "size", pagination.DefaultSize, math.MaxInt)
	if !ok {
		return pagination.Pageable{}, false
	}
	return pagination.Pageable{Page: page, Size: size}.Normalize(), true
}

func queryInt(c *gin.Context, name string, fallback, max int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondError(c, apierrors.NewValidation(apierrors.FieldError{Field: name, Message: "must be a non-negative integer"}))
		return 0, false
	}
	if value > max {
		respondError(c, apierrors.NewValidation(apierrors.FieldError{Field: name, Message: fmt.Sprintf("must be at most %d", max)}))
		return 0, false
	}
	return value, true
}

package bookstoreserver

import (
	"math"
	"time"

	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	purchasedomain "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

type PostCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type PutCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6"`
}

type CustomerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type PostBookRequest struct {
	Name       string   `json:"name" binding:"required"`
	Price      *float64 `json:"price" binding:"required,gt=0"`
	CustomerID int64    `json:"customerId" binding:"required,gt=0"`
}

type PutBookRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" binding:"omitempty,gt=0"`
}

type BookResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CustomerID int64   `json:"customerId"`
	Status     string  `json:"status"`
}

// PageResponse wraps one page of results.
type PageResponse[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// PostPurchaseRequest lists the books to buy. Repeated ids are bought once.
type PostPurchaseRequest struct {
	CustomerID int64   `json:"customerId" binding:"required,gt=0"`
	BookIDs    []int64 `json:"bookIds" binding:"required,min=1"`
}

type PurchaseResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	BookIDs    []int64   `json:"bookIds"`
	NFE        string    `json:"nfe,omitempty"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	CustomerID int64  `json:"customerId"`
}

type ReportResponse struct {
	Message       string       `json:"message"`
	Notifications events.Stats `json:"notifications"`
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func toCustomerResponse(c *customerdomain.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Status: string(c.Status)}
}

func toCustomerResponses(list []*customerdomain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

func toBookResponse(b *bookdomain.Book) BookResponse {
	return BookResponse{
		ID:         b.ID,
		Name:       b.Name,
		Price:      fromCents(b.Price),
		CustomerID: b.CustomerID,
		Status:     string(b.Status),
	}
}

func toBookPage(page pagination.Page[*bookdomain.Book]) PageResponse[BookResponse] {
	items := make([]BookResponse, 0, len(page.Items))
	for _, b := range page.Items {
		items = append(items, toBookResponse(b))
	}
	return PageResponse[BookResponse]{
		Items:       items,
		CurrentPage: page.CurrentPage,
		TotalItems:  page.TotalItems,
		TotalPages:  page.TotalPages,
	}
}

func toPurchaseResponse(p *purchasedomain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		BookIDs:    p.BookIDs,
		NFE:        p.NFE,
		Price:      fromCents(p.Price),
		CreatedAt:  p.CreatedAt,
	}
}

package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Guards run in order before HandlerFunc.
	Guards []gin.HandlerFunc
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups every handler and guard the router needs.
type ApiHandleFunctions struct {
	AuthAPI     AuthAPI
	CustomerAPI CustomerAPI
	BookAPI     BookAPI
	PurchaseAPI PurchaseAPI
	AdminAPI    AdminAPI

	// Gate authenticates bearer tokens. Required.
	Gate *Gate
	// PublicLimiter throttles the unauthenticated write endpoints. Optional.
	PublicLimiter *RateLimiter
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, len(route.Guards)+1)
		handlers = append(handlers, route.Guards...)
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler function for routes without one.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	authenticated := h.Gate.Authenticate()
	throttled := h.PublicLimiter.Middleware()
	ownCustomer := []gin.HandlerFunc{authenticated, OwnResourceOnly("id")}
	admin := []gin.HandlerFunc{authenticated, AdminOnly()}

	return []Route{
		{"Healthz", http.MethodGet, "/healthz", nil, h.AdminAPI.Healthz},
		{"Login", http.MethodPost, "/login", []gin.HandlerFunc{throttled}, h.AuthAPI.Login},
		{"Logout", http.MethodPost, "/logout", []gin.HandlerFunc{authenticated}, h.AuthAPI.Logout},

		{"CreateCustomer", http.MethodPost, "/customers", []gin.HandlerFunc{throttled}, h.CustomerAPI.CreateCustomer},
		{"GetCustomers", http.MethodGet, "/customers", admin, h.CustomerAPI.GetCustomers},
		{"GetCustomer", http.MethodGet, "/customers/:id", ownCustomer, h.CustomerAPI.GetCustomer},
		{"PutCustomer", http.MethodPut, "/customers/:id", ownCustomer, h.CustomerAPI.PutCustomer},
		{"DeleteCustomer", http.MethodDelete, "/customers/:id", ownCustomer, h.CustomerAPI.DeleteCustomer},
		{"ListCustomerPurchases", http.MethodGet, "/customers/:id/purchases", ownCustomer, h.PurchaseAPI.ListByCustomer},

		{"CreateBook", http.MethodPost, "/books", []gin.HandlerFunc{authenticated}, h.BookAPI.CreateBook},
		{"FindBooks", http.MethodGet, "/books", nil, h.BookAPI.FindAll},
		{"FindActiveBooks", http.MethodGet, "/books/active", nil, h.BookAPI.FindActives},
		{"FindBook", http.MethodGet, "/books/:id", nil, h.BookAPI.FindByID},
		{"UpdateBook", http.MethodPut, "/books/:id", []gin.HandlerFunc{authenticated}, h.BookAPI.UpdateBook},
		{"DeleteBook", http.MethodDelete, "/books/:id", []gin.HandlerFunc{authenticated}, h.BookAPI.DeleteBook},

		{"CreatePurchase", http.MethodPost, "/purchases", []gin.HandlerFunc{authenticated}, h.PurchaseAPI.CreatePurchase},
		{"CreatePurchaseLegacy", http.MethodPost, "/purchase", []gin.HandlerFunc{authenticated}, h.PurchaseAPI.CreatePurchase},

		{"AdminReport", http.MethodGet, "/admin/report", admin, h.AdminAPI.Report},
	}
}

package bookstoreserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	bookmemory "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/memory"
	bookapp "github.com/Apurer/go-gin-bookstore/internal/domains/books/application"
	customercrypto "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/crypto"
	customermemory "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/memory"
	customerapp "github.com/Apurer/go-gin-bookstore/internal/domains/customers/application"
	customerdomain "github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	purchasememory "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/memory"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/subscribers"
	purchaseapp "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/application"
	purchasedomain "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/platform/events"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
	"github.com/Apurer/go-gin-bookstore/internal/shared/pagination"
)

const testPassword = "secret123"

type testServer struct {
	t          *testing.T
	router     *gin.Engine
	customers  *customermemory.Repository
	dispatcher *events.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	customerRepo := customermemory.NewRepository()
	books := bookapp.NewService(bookmemory.NewRepository(), customerRepo)
	customers := customerapp.NewService(customerRepo, books, customercrypto.NewBcryptHasher(bcrypt.MinCost),
		customerapp.WithSessionStore(customermemory.NewSessionStore(time.Hour)))
	dispatcher := events.NewDispatcher(events.WithWorkers(1))
	purchases := purchaseapp.NewService(purchasememory.NewRepository(), customers, books, dispatcher,
		purchaseapp.WithIdempotencyStore(purchasememory.NewIdempotencyStore()))
	dispatcher.Subscribe(purchasedomain.PurchaseCompletedEvent, "stock-update", subscribers.NewStockUpdate(books))
	dispatcher.Start(context.Background())
	t.Cleanup(func() { _ = dispatcher.Shutdown(context.Background()) })

	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		AuthAPI:     NewAuthAPI(customers),
		CustomerAPI: NewCustomerAPI(customers),
		BookAPI:     NewBookAPI(books),
		PurchaseAPI: NewPurchaseAPI(purchases),
		AdminAPI:    NewAdminAPI(dispatcher),
		Gate:        NewGate(customers),
	})
	return &testServer{t: t, router: router, customers: customerRepo, dispatcher: dispatcher}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeaders(method, path, body, token, nil)
}

func (s *testServer) doWithHeaders(method, path string, body any, token string, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(name, email string) int64 {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/customers", PostCustomerRequest{Name: name, Email: email, Password: testPassword}, "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var created CustomerResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/login", LoginRequest{Email: email, Password: testPassword}, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	id := s.register("Admin", "admin@bookstore.com")
	ctx := context.Background()
	admin, err := s.customers.GetByID(ctx, id)
	require.NoError(s.t, err)
	admin.Grant(customerdomain.RoleAdmin)
	_, err = s.customers.Save(ctx, admin)
	require.NoError(s.t, err)
	return s.login("admin@bookstore.com")
}

func (s *testServer) createBook(token string, ownerID int64, price float64) BookResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/books", PostBookRequest{Name: "Clean Code", Price: &price, CustomerID: ownerID}, token)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var book BookResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &book))
	return book
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestGetCustomers_FiltersByNameFragment(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.register("Gustavo", "gustavo@mail.com")
	s.register("Daniel", "daniel@mail.com")

	rec := s.do(http.MethodGet, "/customers?name=Gus", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Gustavo", list[0].Name)

	rec = s.do(http.MethodGet, "/customers", nil, admin)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)
}

func TestGetCustomers_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	s.register("Gustavo", "gustavo@mail.com")
	token := s.login("gustavo@mail.com")

	rec := s.do(http.MethodGet, "/customers", nil, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ML-000", decodeError(t, rec).InternalCode)
}

func TestPutCustomer_UnknownID(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	rec := s.do(http.MethodPut, "/customers/99", PutCustomerRequest{Name: "Ghost", Email: "ghost@mail.com"}, admin)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ML-1102", body.InternalCode)
	assert.Equal(t, "Customer with the id [99] doesn't exist", body.Message)
	assert.Equal(t, http.StatusNotFound, body.HTTPCode)
}

func TestGetCustomer_OwnResourceOnly(t *testing.T) {
	s := newTestServer(t)
	gustavo := s.register("Gustavo", "gustavo@mail.com")
	daniel := s.register("Daniel", "daniel@mail.com")
	token := s.login("gustavo@mail.com")

	own := s.do(http.MethodGet, fmt.Sprintf("/customers/%d", gustavo), nil, token)
	other := s.do(http.MethodGet, fmt.Sprintf("/customers/%d", daniel), nil, token)

	assert.Equal(t, http.StatusOK, own.Code)
	require.Equal(t, http.StatusForbidden, other.Code)
	body := decodeError(t, other)
	assert.Equal(t, "ML-000", body.InternalCode)
	assert.Equal(t, "Access denied", body.Message)
}

func TestGetCustomer_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	id := s.register("Gustavo", "gustavo@mail.com")

	missing := s.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, "")
	bogus := s.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, "not-a-session")

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, "ML-001", decodeError(t, missing).InternalCode)
	assert.Equal(t, http.StatusUnauthorized, bogus.Code)
}

func TestCreateCustomer_EmailTaken(t *testing.T) {
	s := newTestServer(t)
	s.register("Gustavo", "gustavo@mail.com")

	rec := s.do(http.MethodPost, "/customers", PostCustomerRequest{Name: "Other", Email: "gustavo@mail.com", Password: testPassword}, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ML-0001", body.InternalCode)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestCreateCustomer_InvalidPayload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/customers", map[string]string{"email": "not-an-email"}, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "ML-0001", body.InternalCode)
	fields := make([]string, 0, len(body.Errors))
	for _, fe := range body.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
}

func TestDeleteCustomer_DeactivatesAndRevokesAccess(t *testing.T) {
	s := newTestServer(t)
	id := s.register("Gustavo", "gustavo@mail.com")
	token := s.login("gustavo@mail.com")
	book := s.createBook(token, id, 20)

	rec := s.do(http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := s.customers.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, customerdomain.StatusInactive, stored.Status)
	bookRec := s.do(http.MethodGet, fmt.Sprintf("/books/%d", book.ID), nil, "")
	var got BookResponse
	require.NoError(t, json.Unmarshal(bookRec.Body.Bytes(), &got))
	assert.Equal(t, "DELETED", got.Status)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, token).Code)
}

func TestBooks_LifecycleAndErrors(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("Seller", "seller@mail.com")
	token := s.login("seller@mail.com")
	book := s.createBook(token, owner, 10.5)
	assert.Equal(t, 10.5, book.Price)
	assert.Equal(t, "ACTIVE", book.Status)

	missing := s.do(http.MethodGet, "/books/999", nil, "")
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "ML-1001", decodeError(t, missing).InternalCode)
	assert.Equal(t, "Book [999] doesn't exists", decodeError(t, missing).Message)

	name := "Refactoring"
	update := s.do(http.MethodPut, fmt.Sprintf("/books/%d", book.ID), PutBookRequest{Name: &name}, token)
	require.Equal(t, http.StatusNoContent, update.Code)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/books/%d", book.ID), nil, token).Code)
	conflict := s.do(http.MethodPut, fmt.Sprintf("/books/%d", book.ID), PutBookRequest{Name: &name}, token)
	require.Equal(t, http.StatusConflict, conflict.Code)
	body := decodeError(t, conflict)
	assert.Equal(t, "ML-1002", body.InternalCode)
	assert.Equal(t, "Cannot update book with the status [DELETED]", body.Message)
}

func TestBooks_PagingAndActiveFilter(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("Seller", "seller@mail.com")
	token := s.login("seller@mail.com")
	for i := 0; i < 3; i++ {
		s.createBook(token, owner, 5)
	}
	first := s.createBook(token, owner, 5)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/books/%d", first.ID), nil, token).Code)

	var page PageResponse[BookResponse]
	rec := s.do(http.MethodGet, "/books?page=1&size=3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	rec = s.do(http.MethodGet, "/books/active", nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.TotalItems)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodGet, "/books?page=x", nil, "").Code)
}

func TestBooks_OutOfRangePage(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("Seller", "seller@mail.com")
	s.createBook(s.login("seller@mail.com"), owner, 5)

	huge := s.do(http.MethodGet, "/books?page=1000000000000000000&size=10", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, huge.Code)
	body := decodeError(t, huge)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "page", body.Errors[0].Field)

	rec := s.do(http.MethodGet, fmt.Sprintf("/books?page=%d&size=100", pagination.MaxPage), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page PageResponse[BookResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestCreateBook_ForAnotherCustomerForbidden(t *testing.T) {
	s := newTestServer(t)
	s.register("Seller", "seller@mail.com")
	other := s.register("Other", "other@mail.com")
	token := s.login("seller@mail.com")
	price := 5.0

	rec := s.do(http.MethodPost, "/books", PostBookRequest{Name: "Book", Price: &price, CustomerID: other}, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreatePurchase_MarksBooksSoldAsynchronously(t *testing.T) {
	s := newTestServer(t)
	seller := s.register("Seller", "seller@mail.com")
	buyer := s.register("Buyer", "buyer@mail.com")
	sellerToken := s.login("seller@mail.com")
	buyerToken := s.login("buyer@mail.com")
	a := s.createBook(sellerToken, seller, 10.5)
	b := s.createBook(sellerToken, seller, 4.25)

	rec := s.do(http.MethodPost, "/purchases", PostPurchaseRequest{CustomerID: buyer, BookIDs: []int64{a.ID, b.ID, a.ID}}, buyerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var purchase PurchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchase))
	assert.Equal(t, 14.75, purchase.Price)
	assert.Equal(t, []int64{a.ID, b.ID}, purchase.BookIDs)

	require.Eventually(t, func() bool {
		for _, id := range []int64{a.ID, b.ID} {
			var got BookResponse
			if err := json.Unmarshal(s.do(http.MethodGet, fmt.Sprintf("/books/%d", id), nil, "").Body.Bytes(), &got); err != nil || got.Status != "SOLD" {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.dispatcher.Stats().Delivered == 1 }, time.Second, 10*time.Millisecond)

	again := s.do(http.MethodPost, "/purchase", PostPurchaseRequest{CustomerID: buyer, BookIDs: []int64{a.ID}}, buyerToken)
	require.Equal(t, http.StatusUnprocessableEntity, again.Code)
	assert.Equal(t, "ML-1201", decodeError(t, again).InternalCode)

	list := s.do(http.MethodGet, fmt.Sprintf("/customers/%d/purchases", buyer), nil, buyerToken)
	var purchases []PurchaseResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &purchases))
	assert.Len(t, purchases, 1)
}

func TestCreatePurchase_ReplaysIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	seller := s.register("Seller", "seller@mail.com")
	buyer := s.register("Buyer", "buyer@mail.com")
	sellerToken := s.login("seller@mail.com")
	buyerToken := s.login("buyer@mail.com")
	a := s.createBook(sellerToken, seller, 8)
	b := s.createBook(sellerToken, seller, 2)
	headers := map[string]string{IdempotencyKeyHeader: "checkout-1"}

	first := s.doWithHeaders(http.MethodPost, "/purchases", PostPurchaseRequest{CustomerID: buyer, BookIDs: []int64{a.ID}}, buyerToken, headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	require.Eventually(t, func() bool { return s.dispatcher.Stats().Delivered == 1 }, time.Second, 10*time.Millisecond)

	retry := s.doWithHeaders(http.MethodPost, "/purchases", PostPurchaseRequest{CustomerID: buyer, BookIDs: []int64{a.ID}}, buyerToken, headers)
	require.Equal(t, http.StatusCreated, retry.Code, retry.Body.String())
	assert.JSONEq(t, first.Body.String(), retry.Body.String())

	other := s.doWithHeaders(http.MethodPost, "/purchases", PostPurchaseRequest{CustomerID: buyer, BookIDs: []int64{b.ID}}, buyerToken, headers)
	require.Equal(t, http.StatusConflict, other.Code)
	assert.Equal(t, "ML-1302", decodeError(t, other).InternalCode)

	list := s.do(http.MethodGet, fmt.Sprintf("/customers/%d/purchases", buyer), nil, buyerToken)
	var purchases []PurchaseResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &purchases))
	assert.Len(t, purchases, 1)
}

func TestCreatePurchase_OnBehalfOfAnotherCustomerForbidden(t *testing.T) {
	s := newTestServer(t)
	s.register("Buyer", "buyer@mail.com")
	other := s.register("Other", "other@mail.com")
	token := s.login("buyer@mail.com")

	rec := s.do(http.MethodPost, "/purchases", PostPurchaseRequest{CustomerID: other, BookIDs: []int64{1}}, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminReport(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.register("Gustavo", "gustavo@mail.com")
	customer := s.login("gustavo@mail.com")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/admin/report", nil, customer).Code)

	rec := s.do(http.MethodGet, "/admin/report", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var report ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, reportMessage, report.Message)
}

func TestLogout_RevokesToken(t *testing.T) {
	s := newTestServer(t)
	id := s.register("Gustavo", "gustavo@mail.com")
	token := s.login("gustavo@mail.com")

	require.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/logout", nil, token).Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, token).Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.register("Gustavo", "gustavo@mail.com")

	rec := s.do(http.MethodPost, "/login", LoginRequest{Email: "gustavo@mail.com", Password: "wrong"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", nil, "").Code)
}

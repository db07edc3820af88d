//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-bookstore/test/pact"

	bookstoreserver "github.com/Apurer/go-gin-bookstore/go"
	bookmemory "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/memory"
	bookobs "github.com/Apurer/go-gin-bookstore/internal/domains/books/adapters/observability"
	bookapp "github.com/Apurer/go-gin-bookstore/internal/domains/books/application"
	bookdomain "github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	customercrypto "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/crypto"
	customermemory "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/memory"
	customerobs "github.com/Apurer/go-gin-bookstore/internal/domains/customers/adapters/observability"
	customerapp "github.com/Apurer/go-gin-bookstore/internal/domains/customers/application"
	purchasememory "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/adapters/memory"
	purchaseapp "github.com/Apurer/go-gin-bookstore/internal/domains/purchases/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBookstoreProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset()
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: reset,
		pacttest.StateBookMissing:     reset,
		pacttest.StateCustomersBase:   reset,
		pacttest.StateBookExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedBook(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole in-memory stack on reset so each
// provider state starts from empty stores behind a stable URL.
type contractProviderApp struct {
	mu     sync.RWMutex
	router http.Handler
	books  *bookmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	customerRepo := customermemory.NewRepository()
	bookRepo := bookmemory.NewRepository()
	books := bookobs.New(bookapp.NewService(bookRepo, customerRepo))
	customers := customerobs.New(customerapp.NewService(customerRepo, books, customercrypto.NewBcryptHasher(bcrypt.MinCost),
		customerapp.WithSessionStore(customermemory.NewSessionStore(time.Hour))))
	purchases := purchaseapp.NewService(purchasememory.NewRepository(), customers, books, nil)

	router := gin.New()
	router.Use(gin.Recovery())
	router = bookstoreserver.NewRouterWithGinEngine(router, bookstoreserver.ApiHandleFunctions{
		AuthAPI:     bookstoreserver.NewAuthAPI(customers),
		CustomerAPI: bookstoreserver.NewCustomerAPI(customers),
		BookAPI:     bookstoreserver.NewBookAPI(books),
		PurchaseAPI: bookstoreserver.NewPurchaseAPI(purchases),
		AdminAPI:    bookstoreserver.NewAdminAPI(nil),
		Gate:        bookstoreserver.NewGate(customers),
	})

	a.mu.Lock()
	a.router = router
	a.books = bookRepo
	a.mu.Unlock()
}

func (a *contractProviderApp) seedBook(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	repo := a.books
	a.mu.RUnlock()
	book, err := bookdomain.NewBook(pacttest.ExampleBookName, 5990, pacttest.OwnerID)
	require.NoError(t, err)
	book.ID = pacttest.ExistingBookID
	_, err = repo.Save(context.Background(), book)
	require.NoError(t, err)
}

package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
)

// FingerprintPurchase hashes a checkout so that the same basket in any order
// yields the same value.
func FingerprintPurchase(req ports.PurchaseRequest) (string, error) {
	ids := domain.UniqueIDs(req.BookIDs)
	slices.Sort(ids)
	normalized := struct {
		CustomerID int64   `json:"customerId"`
		BookIDs    []int64 `json:"bookIds"`
	}{CustomerID: req.CustomerID, BookIDs: ids}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phipay/entity"
)

func TestSecureHashDeterministic(t *testing.T) {
	first := map[string]string{
		"merchantId":      "M1",
		"amount":          "100.00",
		"transactionType": "SALE",
	}
	second := map[string]string{
		"transactionType": "SALE",
		"amount":          "100.00",
		"merchantId":      "M1",
	}

	a := SecureHash(first, "K1")
	b := SecureHash(second, "K1")
	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "signature must not depend on insertion order")
	assert.Equal(t, a, SecureHash(first, "K1"))
}

func TestSecureHashConcatenatesValuesInKeyOrder(t *testing.T) {
	// hmac-sha256("onetwo", "key")
	expected := "ecb19a59c36e8c54885f887512486dbb3d374bda49d48a7710e74caeffd42248"
	fields := map[string]string{"b": "two", "a": "one"}

	assert.Equal(t, expected, SecureHash(fields, "key"))
}

func TestSecureHashExcludesEmptyFields(t *testing.T) {
	withEmpty := map[string]string{"a": "", "b": "x"}
	without := map[string]string{"b": "x"}

	// hmac-sha256("x", "key")
	expected := "4fc3b7eaf34d7e594a6f51d9517ba543abf41067b27587ffd82ba3584e4d3cdd"
	assert.Equal(t, expected, SecureHash(withEmpty, "key"))
	assert.Equal(t, SecureHash(without, "key"), SecureHash(withEmpty, "key"))
}

// TestSecureHashSaleVector locks in the canonicalization end to end: a full
// sale field map with a fixed timestamp and transaction number must always
// produce this digest, or the gateway will silently reject the request.
func TestSecureHashSaleVector(t *testing.T) {
	request := &entity.SaleRequest{
		MerchantId:       "M1",
		MerchantTxnNo:    "payphi-1700000000",
		Amount:           "250.00",
		CurrencyCode:     "356",
		PayType:          "0",
		CustomerEmailID:  "a@b.com",
		TransactionType:  entity.TransactionTypeSale,
		TxnDate:          "20240102030405",
		CustomerID:       "12345",
		ReturnURL:        "https://shop.example.com/?phipay_return=1",
		CustomerMobileNo: "9876543210",
		AddlParam1:       "",
	}

	digest := SecureHash(request.SignableFields(), "K1")
	assert.Equal(t, "7c77026b090edd02eabfdeacf5b36335a167e5c473b6ab33b8ec17e477f92d1a", digest)
}

func TestSignableFieldsExcludeSecureHash(t *testing.T) {
	request := &entity.SaleRequest{SecureHash: "already-set"}
	for name := range request.SignableFields() {
		assert.NotEqual(t, "secureHash", name)
	}

	status := &entity.StatusRequest{SecureHash: "already-set"}
	for name := range status.SignableFields() {
		assert.NotEqual(t, "secureHash", name)
	}
}

package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phipay/config"
	"phipay/entity"
)

func newTestGateway(saleUrl, statusUrl, refundUrl string) *PayPhi {
	conf := &config.Config{}
	conf.PayPhi.SaleUrl = saleUrl
	conf.PayPhi.StatusUrl = statusUrl
	conf.PayPhi.RefundUrl = refundUrl
	gateway := NewPayPhi(conf)
	gateway.SetLogger(NewLogger("payphi", false, nil))
	return gateway
}

func TestSaleSendsJsonAndReturnsRawBody(t *testing.T) {
	var received entity.SaleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"responseCode":"R1000","redirectURI":"https://pg.example.com/auth","tranCtx":"CTX-1","merchantTxnNo":"payphi-1"}`))
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL, "", "")
	request := &entity.SaleRequest{
		MerchantId:      "M1",
		MerchantTxnNo:   "payphi-1",
		Amount:          "250.00",
		TransactionType: entity.TransactionTypeSale,
		SecureHash:      "abc123",
	}

	response, raw, err := gateway.Sale(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleAcceptedCode, response.ResponseCode)
	assert.Equal(t, "https://pg.example.com/auth/?tranCtx=CTX-1", response.RedirectTarget())
	assert.Contains(t, string(raw), "R1000", "raw body is preserved for audit")

	// The signed payload travels untouched, hash included.
	assert.Equal(t, "M1", received.MerchantId)
	assert.Equal(t, "abc123", received.SecureHash)
}

func TestStatusSendsFormEncodedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "M1", r.PostForm.Get("merchantID"))
		assert.Equal(t, "payphi-1", r.PostForm.Get("merchantTxnNo"))
		assert.Equal(t, "payphi-1", r.PostForm.Get("originalTxnNo"))
		assert.Equal(t, entity.TransactionTypeStatus, r.PostForm.Get("transactionType"))
		assert.Equal(t, "abc123", r.PostForm.Get("secureHash"))
		// Empty fields are still transmitted.
		assert.Contains(t, r.PostForm, "paymentMode")
		w.Write([]byte(`{"txnResponseCode":"0000","txnStatus":"CMP","txnRespDescription":"Transaction completed"}`))
	}))
	defer server.Close()

	gateway := newTestGateway("", server.URL, "")
	request := &entity.StatusRequest{
		MerchantID:      "M1",
		MerchantTxnNo:   "payphi-1",
		OriginalTxnNo:   "payphi-1",
		Amount:          "250.00",
		TransactionType: entity.TransactionTypeStatus,
		SecureHash:      "abc123",
	}

	response, err := gateway.Status(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "0000", response.TxnResponseCode)
	assert.Equal(t, "CMP", response.TxnStatus)
	assert.Equal(t, "Transaction completed", response.TxnRespDescription)
}

func TestRefundSendsFormEncodedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, entity.TransactionTypeRefund, r.PostForm.Get("transactionType"))
		assert.Equal(t, "payphi-refund-1", r.PostForm.Get("merchantTxnNo"))
		assert.Equal(t, "payphi-1", r.PostForm.Get("originalTxnNo"))
		w.Write([]byte(`{"responseCode":"P1000","txnID":"TXN-42","paymentDateTime":"20240102030405","respDescription":"Refund accepted"}`))
	}))
	defer server.Close()

	gateway := newTestGateway("", "", server.URL)
	request := &entity.RefundRequest{
		MerchantID:      "M1",
		MerchantTxnNo:   "payphi-refund-1",
		OriginalTxnNo:   "payphi-1",
		Amount:          "250.00",
		TransactionType: entity.TransactionTypeRefund,
		SecureHash:      "abc123",
	}

	response, err := gateway.Refund(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundAcceptedCode, response.ResponseCode)
	assert.Equal(t, "TXN-42", response.TxnID)
}

func TestGatewayNotConfigured(t *testing.T) {
	gateway := newTestGateway("", "", "")

	_, _, err := gateway.Sale(context.Background(), &entity.SaleRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = gateway.Status(context.Background(), &entity.StatusRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = gateway.Refund(context.Background(), &entity.RefundRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGatewayRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL, "", "")
	_, _, err := gateway.Sale(context.Background(), &entity.SaleRequest{})
	assert.Error(t, err)
}

func TestGatewayRejectsUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL, "", "")
	_, raw, err := gateway.Sale(context.Background(), &entity.SaleRequest{})
	assert.Error(t, err)
	assert.Contains(t, string(raw), "maintenance", "raw body still returned for logging")
}

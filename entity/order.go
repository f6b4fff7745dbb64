// Package entity defines data models for the PayPhi payment service.
package entity

// Order status values used by the checkout flow.
const (
	OrderStatusProcessing = "processing"
	OrderStatusPending    = "pending"
	OrderStatusRefunded   = "refunded"
)

// StatusResult is the last-known transaction status check, persisted as-is
// for display. Keys match the original storefront's stored array.
type StatusResult struct {
	TxnResponseCode  string `json:"txn_response_code" bson:"txn_response_code"`
	TxnStatusCode    string `json:"txn_status_code" bson:"txn_status_code"`
	TxnStatusMessage string `json:"txn_status_message" bson:"txn_status_message"`
}

// RefundResult records a refund attempt, successful or not. Once a refund
// with response code P1000 is recorded, the refund action is suppressed.
type RefundResult struct {
	ResponseCode    string `json:"refund_response_code" bson:"refund_response_code"`
	TransactionID   string `json:"refund_transaction_id" bson:"refund_transaction_id"`
	DateTime        string `json:"refund_transaction_date_time" bson:"refund_transaction_date_time"`
	RespDescription string `json:"refund_response_desc" bson:"refund_response_desc"`
}

// PaymentRecord holds the per-order gateway metadata. The storage keys are
// the stable strings the previous storefront implementation used, so records
// written here stay readable by the old system during migration.
type PaymentRecord struct {
	TranCtx           string        `json:"tran_ctx" bson:"phicommerce-payment-transaction-ctx"`
	MerchantTxnNo     string        `json:"merchant_txn_no" bson:"phicommerce-payment-merchant-transaction-no"`
	RequestPayload    string        `json:"request_payload" bson:"phicommerce-payment-transaction-payload"`
	SaleResponse      string        `json:"sale_response" bson:"phicommerce-payment-transaction-api-response"`
	FinalResponseCode string        `json:"final_response_code" bson:"phicommerce-payment-transaction-api-final-response-code"`
	FinalResponseDesc string        `json:"final_response_desc" bson:"phicommerce-payment-transaction-api-final-response-desc"`
	MerchantId        string        `json:"checkout_merchant_id" bson:"checkout-merchant-id"`
	LastStatus        *StatusResult `json:"last_status,omitempty" bson:"phicommerce-payment-transaction-status-api-response-array,omitempty"`
	LastRefund        *RefundResult `json:"last_refund,omitempty" bson:"phicommerce-payment-refund-status-api-response-array,omitempty"`
}

// Order represents a storefront order with its payment tracking.
type Order struct {
	Id             string        `json:"order_id" bson:"order_id"`
	Status         string        `json:"status" bson:"status"`
	Total          string        `json:"total" bson:"total"`
	CustomerEmail  string        `json:"customer_email" bson:"customer_email"`
	CustomerMobile string        `json:"customer_mobile" bson:"customer_mobile"`
	Payment        PaymentRecord `json:"payment" bson:"payment"`
	Notes          []string      `json:"notes" bson:"notes"`
}

// AddNote appends an audit note to the order if it is not already present.
func (o *Order) AddNote(note string) {
	for _, existing := range o.Notes {
		if existing == note {
			return
		}
	}
	o.Notes = append(o.Notes, note)
}

// Refunded reports whether a successful refund has already been recorded.
func (o *Order) Refunded() bool {
	return o.Payment.LastRefund != nil && o.Payment.LastRefund.ResponseCode == RefundAcceptedCode
}

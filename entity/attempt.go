package entity

// Final response codes that mean the buyer completed the payment.
const (
	FinalCodeSuccess    = "000"
	FinalCodeSuccessAlt = "0000"
)

// CheckoutAttempt is the per-session state of one checkout in flight.
// It is created when a sale call returns a redirect context, read when the
// browser comes back from the gateway's hosted OTP page, and cleared
// unconditionally once the order is persisted.
type CheckoutAttempt struct {
	MerchantTxnNo  string `json:"merchant_txn_no"`
	TranCtx        string `json:"tran_ctx"`
	RequestPayload string `json:"request_payload"`
	SaleResponse   string `json:"sale_response"`
	MerchantId     string `json:"merchant_id"`
}

// FinalResponse is the gateway's verdict posted back to the return
// endpoint. It lives in a time-boxed transient because the framework may
// reset the session during the redirect round-trip.
type FinalResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Success reports whether the final response code means a completed payment.
func (f *FinalResponse) Success() bool {
	return f.Code == FinalCodeSuccess || f.Code == FinalCodeSuccessAlt
}

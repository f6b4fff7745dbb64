package entity

// Gateway response codes signalling success for each call type.
const (
	SaleAcceptedCode   = "R1000"
	RefundAcceptedCode = "P1000"
)

// SaleResponse is the gateway's answer to a sale request. On success
// (responseCode R1000) it carries the hosted-authorization redirect URI and
// the transaction context token identifying the authorization session.
type SaleResponse struct {
	ResponseCode    string `json:"responseCode"`
	RespDescription string `json:"respDescription"`
	RedirectURI     string `json:"redirectURI"`
	TranCtx         string `json:"tranCtx"`
	MerchantTxnNo   string `json:"merchantTxnNo"`
}

// RedirectTarget builds the browser redirect to the gateway's hosted OTP
// page. The transaction context is appended as a query parameter.
func (r *SaleResponse) RedirectTarget() string {
	if r.RedirectURI == "" {
		return ""
	}
	return r.RedirectURI + "/?tranCtx=" + r.TranCtx
}

// StatusResponse carries the raw transaction status. There is no
// success/failure branching on it; the values are persisted as-is.
type StatusResponse struct {
	TxnResponseCode    string `json:"txnResponseCode"`
	TxnStatus          string `json:"txnStatus"`
	TxnRespDescription string `json:"txnRespDescription"`
}

// RefundResponse is the gateway's answer to a refund request.
// responseCode P1000 means the refund was accepted.
type RefundResponse struct {
	ResponseCode    string `json:"responseCode"`
	TxnID           string `json:"txnID"`
	PaymentDateTime string `json:"paymentDateTime"`
	RespDescription string `json:"respDescription"`
}

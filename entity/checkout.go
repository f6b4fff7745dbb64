package entity

// CheckoutSubmission is the storefront's checkout payload for one attempt.
// CheckoutMerchantId is optional when a single merchant is configured.
type CheckoutSubmission struct {
	CheckoutMerchantId string `json:"checkout_merchant_id"`
	CartTotal          string `json:"cart_total"`
	CustomerEmail      string `json:"billing_email"`
	CustomerMobile     string `json:"billing_phone"`
	AddlParam1         string `json:"addlParam1"`
}

// CheckoutResult tells the storefront what to do next after a submission.
// RedirectURI is set when the buyer must complete the hosted OTP step.
type CheckoutResult struct {
	RedirectURI string `json:"redirect_uri,omitempty"`
	Notice      string `json:"notice,omitempty"`
}

// StatusReply is the structured payload of the admin status action.
type StatusReply struct {
	Code                string `json:"code"`
	Message             string `json:"message"`
	PayphiStatusMessage string `json:"payphi_status_message"`
}

// RefundReply is the structured payload of the admin refund action.
type RefundReply struct {
	Code           string `json:"code"`
	ShowError      string `json:"show_error"`
	ErrorMessage   string `json:"error_message"`
	SuccessMessage string `json:"success_message"`
}

package services

import (
	"context"

	"phipay/entity"
)

// Checkout drives the transaction lifecycle of one checkout attempt.
type Checkout interface {
	Submit(ctx context.Context, sessionId string, submission *entity.CheckoutSubmission) (*entity.CheckoutResult, error)
	HandleReturn(ctx context.Context, sessionId string, responseCode string, respDescription string) (string, error)
	Finalize(ctx context.Context, sessionId string, orderId string) (*entity.CheckoutResult, error)
	TransactionStatus(ctx context.Context, orderId string) (*entity.StatusReply, error)
	Refund(ctx context.Context, orderId string) (*entity.RefundReply, error)
}

// Gateway executes the outbound calls to the payment processor.
// Requests arrive already signed; each call returns the parsed response.
// Sale additionally returns the raw response body for audit storage.
type Gateway interface {
	Sale(ctx context.Context, request *entity.SaleRequest) (*entity.SaleResponse, []byte, error)
	Status(ctx context.Context, request *entity.StatusRequest) (*entity.StatusResponse, error)
	Refund(ctx context.Context, request *entity.RefundRequest) (*entity.RefundResponse, error)
}

// Attempts is the per-session attempt state: the session-scoped checkout
// attempt, the atomic in-flight flag, and the time-boxed final response
// transient that survives the redirect round-trip.
type Attempts interface {
	GetAttempt(ctx context.Context, sessionId string) (*entity.CheckoutAttempt, error)
	SaveAttempt(ctx context.Context, sessionId string, attempt *entity.CheckoutAttempt) error
	ClearAttempt(ctx context.Context, sessionId string) error

	// MarkInFlight atomically sets the in-flight flag and reports whether
	// this caller won; false means a request is already in flight.
	MarkInFlight(ctx context.Context, sessionId string) (bool, error)
	ClearInFlight(ctx context.Context, sessionId string) error

	SetFinalResponse(ctx context.Context, sessionId string, response *entity.FinalResponse) error
	GetFinalResponse(ctx context.Context, sessionId string) (*entity.FinalResponse, error)
	ClearFinalResponse(ctx context.Context, sessionId string) error
}

package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"phipay/config"
	"phipay/entity"
	"phipay/services"
)

// Buyer- and admin-facing notices. The texts match what the storefront
// historically displayed, so no structured error codes leak to end users.
const (
	noticeGatewaySettings  = "Cannot process payment due to gateway settings error. Please contact site administrator."
	noticeMerchantRequired = "Merchant ID is the required field."
	noticeMerchantNoMatch  = "Multiple merchant ID present in the database and no matching merchant ID found."
	noticeLastFailed       = "The last payment was canceled or failed. Please retry paying again for the order."
	noticeTechnicalError   = "Order is not placed due to some technical error. Please contact site administrator."
	noticeRedirecting      = "Redirecting you to PayPhi portal for completing the payment now..."
	noticePaymentDisabled  = "Payments are temporarily disabled. Please contact site administrator."
	noticePendingPayment   = "Thank you. Your order has been received but the payment is not completed."
)

// Checkout is the orchestrator of the transaction lifecycle:
// Idle -> AwaitingGatewayAuth -> ReturnedFromGateway -> Finalized.
// The state itself is durable (attempt store), because control leaves the
// process entirely during the hosted OTP step and resumes on an unrelated
// inbound request.
type Checkout struct {
	conf     *config.Config
	gateway  services.Gateway
	attempts services.Attempts
	database services.Database
	logger   services.LogHandler
	locks    sync.Map // per session/order locking
}

func NewCheckout(conf *config.Config) *Checkout {
	return &Checkout{conf: conf}
}

func (c *Checkout) SetGateway(gateway services.Gateway) {
	c.gateway = gateway
}

func (c *Checkout) SetAttempts(attempts services.Attempts) {
	c.attempts = attempts
}

func (c *Checkout) SetDatabase(database services.Database) {
	c.database = database
}

func (c *Checkout) SetLogger(logger services.LogHandler) {
	c.logger = logger
	if c.conf.DisablePayment {
		c.logger.Warn("service disabled")
	} else {
		c.logger.Info("service enabled")
	}
}

// lock acquires the lock for one session or order so overlapping requests
// for the same attempt serialize while different attempts run in parallel.
// Entries stay in the map for the process lifetime: deleting one on unlock
// would let a waiter blocked on the old mutex run concurrently with a
// caller that stored a fresh mutex for the same key.
func (c *Checkout) lock(key string) *sync.Mutex {
	value, _ := c.locks.LoadOrStore(key, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return mutex
}

// Submit validates a checkout submission and initiates the sale call.
// On success the result carries the redirect target for the gateway's
// hosted OTP page. A submission while a previous request is still in
// flight short-circuits without a second sale call.
func (c *Checkout) Submit(ctx context.Context, sessionId string, submission *entity.CheckoutSubmission) (*entity.CheckoutResult, error) {
	mutex := c.lock(sessionId)
	defer mutex.Unlock()

	// A failed or cancelled prior attempt returns the buyer to the
	// checkout with a retry notice and a clean slate.
	final, err := c.attempts.GetFinalResponse(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("get final response: %w", err)
	}
	if final != nil && !final.Success() {
		c.logger.Warn(fmt.Sprintf("session %s: last payment failed with code %s", sessionId, final.Code))
		if err = c.clearAttemptState(ctx, sessionId); err != nil {
			return nil, err
		}
		return &entity.CheckoutResult{Notice: noticeLastFailed}, nil
	}

	// The in-flight flag is claimed atomically before the outbound call,
	// otherwise a double-click could issue two overlapping sale calls.
	won, err := c.attempts.MarkInFlight(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("mark in flight: %w", err)
	}
	if !won {
		c.logger.Info("payment request returned to merchant")
		return &entity.CheckoutResult{}, nil
	}

	result, err := c.initiateSale(ctx, sessionId, submission)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Checkout) initiateSale(ctx context.Context, sessionId string, submission *entity.CheckoutSubmission) (*entity.CheckoutResult, error) {
	if c.conf.DisablePayment {
		c.releaseInFlight(ctx, sessionId)
		c.logger.Warn(fmt.Sprintf("session %s: payment disabled, sale request skipped", sessionId))
		return &entity.CheckoutResult{Notice: noticePaymentDisabled}, nil
	}

	if c.conf.PayPhi.SaleUrl == "" || c.conf.PayPhi.MerchantInformation == "" {
		c.releaseInFlight(ctx, sessionId)
		c.logger.Warn("sale api url or merchant information is not configured")
		return &entity.CheckoutResult{Notice: noticeGatewaySettings}, nil
	}

	configured, err := ParseMerchantInformation(c.conf.PayPhi.MerchantInformation)
	if err != nil {
		c.releaseInFlight(ctx, sessionId)
		c.logger.Error("merchant information", err)
		return &entity.CheckoutResult{Notice: noticeGatewaySettings}, nil
	}

	credential, err := ResolveCredential(submission.CheckoutMerchantId, configured)
	if err != nil {
		c.releaseInFlight(ctx, sessionId)
		return &entity.CheckoutResult{Notice: c.credentialNotice(submission.CheckoutMerchantId, configured)}, nil
	}

	amount := submission.CartTotal
	if amount == "" {
		amount = "0.00"
	}
	request := &entity.SaleRequest{
		MerchantId:       credential.MerchId,
		MerchantTxnNo:    NewSaleTxnNo(),
		Amount:           amount,
		CurrencyCode:     c.conf.PayPhi.CurrencyCode,
		PayType:          c.conf.PayPhi.PayType,
		CustomerEmailID:  submission.CustomerEmail,
		TransactionType:  entity.TransactionTypeSale,
		TxnDate:          TxnDate(time.Now()),
		CustomerID:       c.conf.PayPhi.CustomerId,
		ReturnURL:        fmt.Sprintf("%s?phipay_return=1&sid=%s", c.conf.PayPhi.ReturnUrl, sessionId),
		CustomerMobileNo: submission.CustomerMobile,
		AddlParam1:       submission.AddlParam1,
	}
	request.SecureHash = SecureHash(request.SignableFields(), credential.HashKey)
	payload, err := json.Marshal(request)
	if err != nil {
		c.releaseInFlight(ctx, sessionId)
		return nil, fmt.Errorf("encode sale request: %w", err)
	}

	response, raw, err := c.gateway.Sale(ctx, request)
	if errors.Is(err, ErrNotConfigured) {
		c.releaseInFlight(ctx, sessionId)
		return &entity.CheckoutResult{Notice: noticeGatewaySettings}, nil
	}
	if err != nil {
		// The outcome of the sale call is unknown, so the in-flight flag
		// stays set and the buyer cannot silently fire a second sale.
		c.logger.Error(fmt.Sprintf("session %s: sale request", sessionId), err)
		return &entity.CheckoutResult{Notice: noticeTechnicalError}, nil
	}

	if response.ResponseCode != entity.SaleAcceptedCode {
		c.logger.Error(fmt.Sprintf("payment initial request failed, response code received: %s", response.ResponseCode), nil)
		c.releaseInFlight(ctx, sessionId)
		return &entity.CheckoutResult{Notice: noticeTechnicalError}, nil
	}
	c.logger.Info(fmt.Sprintf("transaction request success, code: %s", response.ResponseCode))

	merchantTxnNo := response.MerchantTxnNo
	if merchantTxnNo == "" {
		merchantTxnNo = request.MerchantTxnNo
	}
	attempt := &entity.CheckoutAttempt{
		MerchantTxnNo:  merchantTxnNo,
		TranCtx:        response.TranCtx,
		RequestPayload: string(payload),
		SaleResponse:   string(raw),
		MerchantId:     credential.MerchId,
	}
	if err = c.attempts.SaveAttempt(ctx, sessionId, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	redirect := response.RedirectTarget()
	if redirect == "" {
		c.logger.Warn(fmt.Sprintf("session %s: sale accepted but no redirect uri received", sessionId))
		return &entity.CheckoutResult{}, nil
	}
	c.logger.Info(fmt.Sprintf("redirected to: %s", redirect))
	return &entity.CheckoutResult{RedirectURI: redirect, Notice: noticeRedirecting}, nil
}

// credentialNotice picks the buyer notice for a failed credential resolution.
func (c *Checkout) credentialNotice(checkoutMerchantId string, configured []entity.MerchantCredential) string {
	if len(configured) > 1 {
		if checkoutMerchantId == "" {
			return noticeMerchantRequired
		}
		for i := range configured {
			if configured[i].MerchId == checkoutMerchantId {
				// Matched but unusable: empty merchId or hashKey.
				return noticeGatewaySettings
			}
		}
		return noticeMerchantNoMatch
	}
	return noticeGatewaySettings
}

// HandleReturn stores the gateway's posted verdict in the time-boxed
// transient and returns the checkout URL the browser must be sent to.
// The transient outlives the redirect round-trip even if the framework
// resets the session, but not the checkout attempt itself.
func (c *Checkout) HandleReturn(ctx context.Context, sessionId string, responseCode string, respDescription string) (string, error) {
	final := &entity.FinalResponse{Code: responseCode, Description: respDescription}
	if err := c.attempts.SetFinalResponse(ctx, sessionId, final); err != nil {
		return "", fmt.Errorf("set final response: %w", err)
	}

	c.logger.Info("successful return to the merchant store")
	c.logger.Info(fmt.Sprintf("PayPhi response: code %s; %s", responseCode, respDescription))
	c.logger.Info("heading to place the order")

	return c.conf.PayPhi.CheckoutUrl + "?place_order=1", nil
}

// Finalize writes the payment record to the order and settles its status:
// final code 000/0000 means processing, anything else pending. All attempt
// state is cleared unconditionally afterwards, whatever the outcome, so a
// stale attempt can never leak into the next checkout. A second call finds
// no state and is a no-op.
func (c *Checkout) Finalize(ctx context.Context, sessionId string, orderId string) (*entity.CheckoutResult, error) {
	mutex := c.lock(sessionId)
	defer mutex.Unlock()

	attempt, err := c.attempts.GetAttempt(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	final, err := c.attempts.GetFinalResponse(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("get final response: %w", err)
	}

	if attempt == nil && final == nil {
		c.logger.Info(fmt.Sprintf("session %s: no attempt state, order %s already finalized", sessionId, orderId))
		return &entity.CheckoutResult{}, nil
	}

	if c.database == nil {
		return nil, fmt.Errorf("database not set")
	}
	order, err := c.database.GetOrder(ctx, orderId)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderId, err)
	}

	if attempt != nil {
		order.Payment.TranCtx = attempt.TranCtx
		order.Payment.MerchantTxnNo = attempt.MerchantTxnNo
		order.Payment.RequestPayload = attempt.RequestPayload
		order.Payment.SaleResponse = attempt.SaleResponse
		order.Payment.MerchantId = attempt.MerchantId
	}
	if final != nil {
		order.Payment.FinalResponseCode = final.Code
		order.Payment.FinalResponseDesc = final.Description
	}

	result := &entity.CheckoutResult{}
	if final != nil && final.Success() {
		order.Status = entity.OrderStatusProcessing
	} else {
		order.Status = entity.OrderStatusPending
		result.Notice = noticePendingPayment
	}

	if err = c.database.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order %s: %w", orderId, err)
	}
	c.logger.Info("order meta updated with relevant payphi details")

	if err = c.clearAttemptState(ctx, sessionId); err != nil {
		return nil, err
	}
	c.logger.Info("session closed, order successfully placed")

	return result, nil
}

// TransactionStatus runs the admin status check for an order, keyed off
// the persisted order metadata rather than session state. The raw status
// is stored as-is; there is no success or failure branching on it.
func (c *Checkout) TransactionStatus(ctx context.Context, orderId string) (*entity.StatusReply, error) {
	mutex := c.lock(orderId)
	defer mutex.Unlock()

	if c.conf.PayPhi.StatusUrl == "" || c.conf.PayPhi.MerchantInformation == "" {
		return nil, ErrNotConfigured
	}

	order, credential, err := c.orderCredential(ctx, orderId)
	if err != nil {
		return nil, err
	}

	request := &entity.StatusRequest{
		MerchantID:      credential.MerchId,
		MerchantTxnNo:   order.Payment.MerchantTxnNo,
		OriginalTxnNo:   order.Payment.MerchantTxnNo,
		Amount:          order.Total,
		TransactionType: entity.TransactionTypeStatus,
	}
	request.SecureHash = SecureHash(request.SignableFields(), credential.HashKey)

	response, err := c.gateway.Status(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("status request: %w", err)
	}

	result := &entity.StatusResult{
		TxnResponseCode:  response.TxnResponseCode,
		TxnStatusCode:    response.TxnStatus,
		TxnStatusMessage: response.TxnRespDescription,
	}
	if err = c.database.SaveStatusResult(ctx, orderId, result); err != nil {
		return nil, fmt.Errorf("save status result: %w", err)
	}

	return &entity.StatusReply{
		Code:                "transaction-status-fetched",
		Message:             "Transaction status fetched and updated.",
		PayphiStatusMessage: response.TxnRespDescription,
	}, nil
}

// Refund runs the admin refund action for an order. A successful refund
// (P1000) moves the order to refunded and appends an audit note with the
// gateway transaction id; the refund record is persisted regardless of the
// outcome so the refund action is suppressed once one has succeeded.
func (c *Checkout) Refund(ctx context.Context, orderId string) (*entity.RefundReply, error) {
	mutex := c.lock(orderId)
	defer mutex.Unlock()

	if c.conf.PayPhi.RefundUrl == "" || c.conf.PayPhi.MerchantInformation == "" {
		return nil, ErrNotConfigured
	}

	order, credential, err := c.orderCredential(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order.Refunded() {
		return &entity.RefundReply{
			Code:         "payphi-refund-processed",
			ShowError:    "yes",
			ErrorMessage: "Refund has already been processed for this order.",
		}, nil
	}

	request := &entity.RefundRequest{
		MerchantID:      credential.MerchId,
		MerchantTxnNo:   NewRefundTxnNo(),
		OriginalTxnNo:   order.Payment.MerchantTxnNo,
		Amount:          order.Total,
		TransactionType: entity.TransactionTypeRefund,
	}
	request.SecureHash = SecureHash(request.SignableFields(), credential.HashKey)

	response, err := c.gateway.Refund(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("refund request: %w", err)
	}

	refunded := response.ResponseCode == entity.RefundAcceptedCode
	if refunded {
		if err = c.database.UpdateOrderStatus(ctx, orderId, entity.OrderStatusRefunded); err != nil {
			return nil, fmt.Errorf("update order status: %w", err)
		}
		note := fmt.Sprintf("Refund processed by PayPhi payment gateway. Transaction ID: %s", response.TxnID)
		if err = c.database.AddOrderNote(ctx, orderId, note); err != nil {
			return nil, fmt.Errorf("add order note: %w", err)
		}
		c.logger.Info(fmt.Sprintf("refund processed, transaction id: %s", response.TxnID))
	} else {
		c.logger.Error(fmt.Sprintf("refund could not be processed, response code: %s, response message: %s",
			response.ResponseCode, response.RespDescription), nil)
	}

	result := &entity.RefundResult{
		ResponseCode:    response.ResponseCode,
		TransactionID:   response.TxnID,
		DateTime:        response.PaymentDateTime,
		RespDescription: response.RespDescription,
	}
	if err = c.database.SaveRefundResult(ctx, orderId, result); err != nil {
		return nil, fmt.Errorf("save refund result: %w", err)
	}

	reply := &entity.RefundReply{
		Code:           "payphi-refund-processed",
		SuccessMessage: "Refund processed successfully. Reloading...",
		ErrorMessage:   fmt.Sprintf("Refund not processed. Try again later. Response from gateway: %s", response.RespDescription),
	}
	if refunded {
		reply.ShowError = "no"
	} else {
		reply.ShowError = "yes"
	}
	return reply, nil
}

func (c *Checkout) orderCredential(ctx context.Context, orderId string) (*entity.Order, *entity.MerchantCredential, error) {
	if c.database == nil {
		return nil, nil, fmt.Errorf("database not set")
	}
	order, err := c.database.GetOrder(ctx, orderId)
	if err != nil {
		return nil, nil, fmt.Errorf("get order %s: %w", orderId, err)
	}

	configured, err := ParseMerchantInformation(c.conf.PayPhi.MerchantInformation)
	if err != nil {
		return nil, nil, err
	}
	credential, err := ResolveCredential(order.Payment.MerchantId, configured)
	if err != nil {
		return nil, nil, err
	}
	return order, credential, nil
}

func (c *Checkout) clearAttemptState(ctx context.Context, sessionId string) error {
	if err := c.attempts.ClearAttempt(ctx, sessionId); err != nil {
		return fmt.Errorf("clear attempt: %w", err)
	}
	if err := c.attempts.ClearInFlight(ctx, sessionId); err != nil {
		return fmt.Errorf("clear in-flight flag: %w", err)
	}
	if err := c.attempts.ClearFinalResponse(ctx, sessionId); err != nil {
		return fmt.Errorf("clear final response: %w", err)
	}
	return nil
}

func (c *Checkout) releaseInFlight(ctx context.Context, sessionId string) {
	if err := c.attempts.ClearInFlight(ctx, sessionId); err != nil {
		c.logger.Error(fmt.Sprintf("session %s: clear in-flight flag", sessionId), err)
	}
}

package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"phipay/config"
	"phipay/entity"
	"phipay/services"
)

const (
	submitCheckout  = "/checkout/:session_id"
	finalizeOrder   = "/checkout/:session_id/order/:order_id"
	returnEndpoint  = "/"
	transactionInfo = "/status/order/:order_id"
	refundOrder     = "/refund/order/:order_id"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	checkout   services.Checkout
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(submitCheckout, s.submitCheckout)
	router.POST(finalizeOrder, s.finalizeOrder)
	router.GET(returnEndpoint, s.gatewayReturn)
	router.POST(returnEndpoint, s.gatewayReturn)
	router.POST(transactionInfo, s.transactionStatus)
	router.POST(refundOrder, s.refundOrder)
}

func (s *Server) SetCheckoutService(checkout services.Checkout) {
	s.checkout = checkout
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) submitCheckout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	sessionId := ps.ByName("session_id")
	if sessionId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty session id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var submission entity.CheckoutSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] submit checkout: decode request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.checkout.Submit(ctx, sessionId, &submission)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] submit checkout for session %s", reqID, sessionId), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// gatewayReturn is the return endpoint the gateway posts the final verdict
// to after the hosted OTP step. Any request to the front page carrying the
// phipay_return=1 query flag is treated as a gateway return; the browser is
// then redirected to the checkout page to place the order.
func (s *Server) gatewayReturn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if r.URL.Query().Get("phipay_return") != "1" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sessionId := r.URL.Query().Get("sid")
	if sessionId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] gateway return without session id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] gateway return: parse form", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	responseCode := r.PostFormValue("responseCode")
	respDescription := r.PostFormValue("respDescription")

	redirectTo, err := s.checkout.HandleReturn(ctx, sessionId, responseCode, respDescription)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] gateway return for session %s", reqID, sessionId), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, redirectTo, http.StatusFound)
}

func (s *Server) finalizeOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	sessionId := ps.ByName("session_id")
	orderId := ps.ByName("order_id")
	if sessionId == "" || orderId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] finalize: empty session or order id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.checkout.Finalize(ctx, sessionId, orderId)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] finalize order %s", reqID, orderId), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) transactionStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	orderId := ps.ByName("order_id")
	if orderId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] transaction status: empty order id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reply, err := s.checkout.TransactionStatus(ctx, orderId)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] transaction status for order %s", reqID, orderId), err)
		s.writeFailure(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) refundOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	orderId := ps.ByName("order_id")
	if orderId == "" {
		s.logger.Warn(fmt.Sprintf("[%s] refund: empty order id", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	reply, err := s.checkout.Refund(ctx, orderId)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] refund order %s", reqID, orderId), err)
		s.writeFailure(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotConfigured) {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", err)
	}
}

package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"phipay/config"
	"phipay/entity"
	"phipay/services"
)

// ErrNotConfigured is returned when a gateway operation is attempted while
// its endpoint URL or the merchant information setting is empty. This is a
// configuration error and must not be retried.
var ErrNotConfigured = errors.New("payment gateway not configured")

const logSeparator = "::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::::"

// PayPhi executes the outbound gateway calls. The processor can be slow,
// so the HTTP client carries a generous timeout.
type PayPhi struct {
	conf       *config.Config
	logger     services.LogHandler
	httpClient *http.Client
}

func NewPayPhi(conf *config.Config) *PayPhi {
	return &PayPhi{
		conf: conf,
		httpClient: &http.Client{
			Timeout: 600 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (p *PayPhi) SetLogger(logger services.LogHandler) {
	p.logger = logger
}

// Sale initiates a payment. The request must already carry its secure hash.
// The raw response body is returned alongside the parsed response so the
// caller can persist it for audit.
func (p *PayPhi) Sale(ctx context.Context, request *entity.SaleRequest) (*entity.SaleResponse, []byte, error) {
	if p.conf.PayPhi.SaleUrl == "" {
		return nil, nil, ErrNotConfigured
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, nil, fmt.Errorf("encode sale request: %w", err)
	}

	p.logger.Info(logSeparator)
	p.logger.Info("new PayPhi transaction initiated")
	p.logger.Info(fmt.Sprintf("payload: %s", string(payload)))

	body, err := p.post(ctx, p.conf.PayPhi.SaleUrl, "application/json", payload)
	if err != nil {
		return nil, nil, err
	}

	var response entity.SaleResponse
	if err = json.Unmarshal(body, &response); err != nil {
		p.logger.Warn(fmt.Sprintf("unrecognized sale response: %s", string(body)))
		return nil, body, fmt.Errorf("parse sale response: %w", err)
	}
	return &response, body, nil
}

// Status queries the current state of a previous sale. The raw result is
// returned as-is; an HTTP 200 is the only success gate.
func (p *PayPhi) Status(ctx context.Context, request *entity.StatusRequest) (*entity.StatusResponse, error) {
	if p.conf.PayPhi.StatusUrl == "" {
		return nil, ErrNotConfigured
	}

	payload := request.FormValues().Encode()

	p.logger.Info(logSeparator)
	p.logger.Info("PayPhi sale status retrieving")
	p.logger.Info(fmt.Sprintf("payload: %s", payload))

	body, err := p.post(ctx, p.conf.PayPhi.StatusUrl, "application/x-www-form-urlencoded", []byte(payload))
	if err != nil {
		return nil, err
	}

	var response entity.StatusResponse
	if err = json.Unmarshal(body, &response); err != nil {
		p.logger.Warn(fmt.Sprintf("unrecognized status response: %s", string(body)))
		return nil, fmt.Errorf("parse status response: %w", err)
	}
	return &response, nil
}

// Refund reverses a captured sale.
func (p *PayPhi) Refund(ctx context.Context, request *entity.RefundRequest) (*entity.RefundResponse, error) {
	if p.conf.PayPhi.RefundUrl == "" {
		return nil, ErrNotConfigured
	}

	payload := request.FormValues().Encode()

	p.logger.Info(logSeparator)
	p.logger.Info("PayPhi sale refund retrieving")
	p.logger.Info(fmt.Sprintf("payload: %s", payload))

	body, err := p.post(ctx, p.conf.PayPhi.RefundUrl, "application/x-www-form-urlencoded", []byte(payload))
	if err != nil {
		return nil, err
	}

	var response entity.RefundResponse
	if err = json.Unmarshal(body, &response); err != nil {
		p.logger.Warn(fmt.Sprintf("unrecognized refund response: %s", string(body)))
		return nil, fmt.Errorf("parse refund response: %w", err)
	}
	return &response, nil
}

func (p *PayPhi) post(ctx context.Context, url string, contentType string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	response, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Error("request timeout or cancelled", ctx.Err())
		} else {
			p.logger.Error("post request", err)
		}
		return nil, fmt.Errorf("post request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			p.logger.Error("close response body", err)
		}
	}(response.Body)

	p.logger.Info(fmt.Sprintf("response code: %d", response.StatusCode))

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	p.logger.Info(fmt.Sprintf("response body: %s", strings.TrimSpace(string(body))))

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned http %d", response.StatusCode)
	}
	return body, nil
}

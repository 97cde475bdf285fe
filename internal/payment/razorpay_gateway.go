package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"threadstory-be/internal/logger"

	"go.uber.org/zap"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

type razorpayGateway struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewRazorpayGateway returns a disabled gateway unless both keys are set.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	if keyID == "" || keySecret == "" {
		logger.L().Warn("Razorpay keys are empty, payments disabled")
		return disabledGateway{}
	}

	return &razorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *razorpayGateway) Enabled() bool { return true }

func (g *razorpayGateway) KeyID() string { return g.keyID }

func (g *razorpayGateway) CreateOrder(ctx context.Context, in OrderRequest) (*GatewayOrder, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("receipt", in.Receipt),
		zap.Int64("amount", in.Amount),
		zap.String("currency", in.Currency),
	)

	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}

	jsonBody, err := json.Marshal(in)
	if err != nil {
		log.Error("failed to marshal razorpay order request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Add("Content-Type", "application/json")

	log.Info("sending order request to Razorpay")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("razorpay request failed", zap.Error(err))
		return nil, fmt.Errorf("razorpay request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("razorpay returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay error: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay error: status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(bodyBytes, &order); err != nil {
		log.Error("failed decoding razorpay response", zap.Error(err))
		return nil, err
	}

	log.Info("razorpay order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("status", order.Status),
	)

	return &order, nil
}

func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	return verify(g.keySecret, orderID, paymentID, signature)
}

type disabledGateway struct{}

func (disabledGateway) Enabled() bool { return false }

func (disabledGateway) KeyID() string { return "" }

func (disabledGateway) CreateOrder(context.Context, OrderRequest) (*GatewayOrder, error) {
	return nil, ErrNotConfigured
}

func (disabledGateway) VerifySignature(string, string, string) error {
	return ErrNotConfigured
}

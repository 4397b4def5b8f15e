package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minhngdev/foodcourt-backend/pkg/config"
)

// ResultCodeSuccess is the gateway's code for a settled transaction, both in
// the synchronous create response and in IPN callbacks.
const ResultCodeSuccess = 0

// ErrGatewayUnavailable wraps transport failures and non-2xx responses from
// the gateway. Callers must not assume a payment was created remotely.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client talks to the MoMo payment-creation endpoint.
type Client struct {
	cfg  config.MomoConfig
	http *http.Client
}

// NewClient builds a gateway client with the configured bounded timeout.
func NewClient(cfg config.MomoConfig) (*Client, error) {
	if cfg.PartnerCode == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("momo partner code, access key and secret key are required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("momo endpoint is required")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// CreateParams carries the fields for a payment-creation request. Amount is
// the authoritative server-side total in the gateway's smallest unit.
type CreateParams struct {
	Amount      int64
	OrderID     string
	RequestID   string
	OrderInfo   string
	RedirectURL string
	IPNURL      string
	ExtraData   string
}

type createRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName"`
	StoreID     string `json:"storeId"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	Lang        string `json:"lang"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
}

// CreateResult is the gateway's synchronous response to a creation request.
type CreateResult struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
	Deeplink     string `json:"deeplink"`
	QRCodeURL    string `json:"qrCodeUrl"`
}

// CreatePayment sends a signed creation request and parses the response.
func (c *Client) CreatePayment(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if params.OrderID == "" || params.RequestID == "" {
		return nil, errors.New("order id and request id are required")
	}
	if params.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	signature := c.SignCreate(params)
	body := createRequest{
		PartnerCode: c.cfg.PartnerCode,
		PartnerName: c.cfg.PartnerName,
		StoreID:     c.cfg.StoreID,
		RequestID:   params.RequestID,
		Amount:      params.Amount,
		OrderID:     params.OrderID,
		OrderInfo:   params.OrderInfo,
		RedirectURL: params.RedirectURL,
		IPNURL:      params.IPNURL,
		Lang:        "vi",
		ExtraData:   params.ExtraData,
		RequestType: c.cfg.RequestType,
		Signature:   signature,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("building create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var result CreateResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrGatewayUnavailable, err)
	}
	return &result, nil
}

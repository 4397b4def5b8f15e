package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignCreate computes the HMAC-SHA256 signature for a payment-creation
// request. Field order in the raw string is fixed by the gateway contract.
func (c *Client) SignCreate(params CreateParams) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		c.cfg.AccessKey,
		params.Amount,
		params.ExtraData,
		params.IPNURL,
		params.OrderID,
		params.OrderInfo,
		c.cfg.PartnerCode,
		params.RedirectURL,
		params.RequestID,
		c.cfg.RequestType,
	)
	return sign(c.cfg.SecretKey, raw)
}

// IPNPayload is the body MoMo posts to the IPN callback endpoint.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// Succeeded reports whether the callback carries a settled transaction.
func (p IPNPayload) Succeeded() bool {
	return p.ResultCode == ResultCodeSuccess
}

// VerifyIPNSignature recomputes the callback signature and compares it in
// constant time against the one the gateway sent.
func (c *Client) VerifyIPNSignature(payload IPNPayload) bool {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		c.cfg.AccessKey,
		payload.Amount,
		payload.ExtraData,
		payload.Message,
		payload.OrderID,
		payload.OrderInfo,
		payload.OrderType,
		payload.PartnerCode,
		payload.PayType,
		payload.RequestID,
		payload.ResponseTime,
		payload.ResultCode,
		payload.TransID,
	)
	expected := sign(c.cfg.SecretKey, raw)
	return hmac.Equal([]byte(expected), []byte(payload.Signature))
}

func sign(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sajilokaam-api/internal/entity"

	"go.uber.org/zap"
)

const esewaSignedFields = "total_amount,transaction_uuid,product_code"

// ESewa is a form-POST gateway (epay v2): initiation is a local operation
// that prepares the signed field set the client auto-submits to the
// provider; verification is a status lookup by transaction_uuid.
type ESewa struct {
	client      *http.Client
	baseURL     string
	productCode string
	secret      string
	log         *zap.Logger
}

func NewESewa(baseURL, productCode, secret string, timeout time.Duration, log *zap.Logger) *ESewa {
	return &ESewa{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		productCode: productCode,
		secret:      secret,
		log:         log,
	}
}

func (e *ESewa) Method() entity.PaymentMethod {
	return entity.MethodESewa
}

func (e *ESewa) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	if req.Amount <= 0 {
		return nil, &Error{Gateway: "esewa", Op: "initiate", Err: fmt.Errorf("non-positive amount %v", req.Amount)}
	}

	total := formatAmount(req.Amount)
	fields := map[string]string{
		"amount":                  total,
		"tax_amount":              "0",
		"total_amount":            total,
		"transaction_uuid":        req.TransactionID,
		"product_code":            e.productCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             req.ReturnURL,
		"failure_url":             req.CancelURL,
		"signed_field_names":      esewaSignedFields,
	}
	signature := e.sign(fields, esewaSignedFields)
	fields["signature"] = signature

	e.log.Info("esewa form prepared", zap.String("transaction_uuid", req.TransactionID))

	return &InitiateResult{
		TransactionID: req.TransactionID,
		Form: &FormCheckout{
			Action:           e.baseURL + "/api/epay/main/v2/form",
			Fields:           fields,
			SignedFieldNames: esewaSignedFields,
			Signature:        signature,
		},
	}, nil
}

type esewaStatusResponse struct {
	Status          string `json:"status"`
	RefId           string `json:"ref_id"`
	TransactionUuid string `json:"transaction_uuid"`
}

func (e *ESewa) Verify(ctx context.Context, transactionId string, amount float64) (*VerifyResult, error) {
	query := url.Values{}
	query.Set("product_code", e.productCode)
	query.Set("total_amount", formatAmount(amount))
	query.Set("transaction_uuid", transactionId)

	statusURL := e.baseURL + "/api/epay/transaction/status/?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, &Error{Gateway: "esewa", Op: "verify", Err: err}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &Error{Gateway: "esewa", Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Gateway: "esewa", Op: "verify", Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var decoded esewaStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Gateway: "esewa", Op: "verify", Err: err}
	}

	return &VerifyResult{
		Verified:   decoded.Status == "COMPLETE",
		GatewayRef: decoded.RefId,
	}, nil
}

// VerifyCallback recomputes the signature over the callback's declared
// signed_field_names and compares it with the one the callback carries.
func (e *ESewa) VerifyCallback(fields map[string]string) bool {
	received := fields["signature"]
	if received == "" {
		return false
	}

	signedFields := fields["signed_field_names"]
	if signedFields == "" {
		signedFields = esewaSignedFields
	}

	computed := e.sign(fields, signedFields)

	return hmac.Equal([]byte(received), []byte(computed))
}

// sign builds the message strictly in signed-field order, `k=v` pairs joined
// by commas, and returns base64(HMAC-SHA256(secret, message)).
func (e *ESewa) sign(fields map[string]string, signedFields string) string {
	parts := strings.Split(signedFields, ",")
	pairs := make([]string, 0, len(parts))
	for _, k := range parts {
		k = strings.TrimSpace(k)
		pairs = append(pairs, k+"="+fields[k])
	}
	message := strings.Join(pairs, ",")

	mac := hmac.New(sha256.New, []byte(e.secret))
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

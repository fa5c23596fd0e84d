package paymentControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
)

const defaultAPIURL = "https://api.stripe.com/v1"

// Client talks to the Stripe payment-intents API. The backend only ever
// creates intents and checks their status; confirmation happens between the
// frontend and the gateway.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient builds a gateway client against the given endpoint.
func NewClient(secretKey, apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientFromEnv reads STRIPE_SECRET_KEY and optionally STRIPE_API_URL.
func NewClientFromEnv() (*Client, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("stripe configuration missing: STRIPE_SECRET_KEY not set")
	}
	return NewClient(key, os.Getenv("STRIPE_API_URL")), nil
}

// Intent is the slice of the gateway's payment-intent object this backend
// cares about.
type Intent struct {
	ID               string `json:"id"`
	ClientSecret     string `json:"client_secret"`
	Status           string `json:"status"`
	LastPaymentError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

type gatewayErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent asks the gateway for a new payment intent. Any gateway
// failure surfaces to the caller; the client restarts the intent flow, it is
// never retried here.
func (c *Client) CreateIntent(amount int64, currency, paymentMethodID string) (*Intent, error) {
	log.Printf("creating payment intent: amount=%d currency=%s", amount, currency)

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Add("payment_method_types[]", "card")
	if paymentMethodID != "" {
		form.Set("payment_method", paymentMethodID)
	}

	intent, err := c.do(http.MethodPost, "/payment_intents", form)
	if err != nil {
		log.Printf("payment intent creation failed: amount=%d currency=%s err=%v", amount, currency, err)
		return nil, err
	}
	log.Printf("payment intent created: id=%s status=%s", intent.ID, intent.Status)
	return intent, nil
}

// VerifySucceeded retrieves the intent and fails unless the gateway reports
// its terminal success status. Finalization never proceeds without this.
func (c *Client) VerifySucceeded(intentID string) (*Intent, error) {
	intent, err := c.do(http.MethodGet, "/payment_intents/"+intentID, nil)
	if err != nil {
		log.Printf("payment intent retrieval failed: id=%s err=%v", intentID, err)
		return nil, err
	}
	if intent.Status != "succeeded" {
		detail := ""
		if intent.LastPaymentError != nil {
			detail = ": " + intent.LastPaymentError.Message
		}
		log.Printf("payment intent not succeeded: id=%s status=%s%s", intentID, intent.Status, detail)
		return nil, apperrors.PaymentNotVerifiedf("payment intent %s status is %s%s", intentID, intent.Status, detail)
	}
	return intent, nil
}

func (c *Client) do(method, path string, form url.Values) (*Intent, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.apiURL+path, body)
	if err != nil {
		return nil, apperrors.Gatewayf("building gateway request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Gatewayf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Gatewayf("reading gateway response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr gatewayErrorResponse
		if err := json.Unmarshal(data, &gwErr); err == nil && gwErr.Error.Message != "" {
			return nil, apperrors.Gatewayf("gateway error (%d): %s", resp.StatusCode, gwErr.Error.Message)
		}
		return nil, apperrors.Gatewayf("gateway error (%d): %s", resp.StatusCode, string(data))
	}

	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, apperrors.Gatewayf("failed to parse gateway response: %v", err)
	}
	if intent.ID == "" {
		return nil, apperrors.Gatewayf("gateway returned an empty intent")
	}
	return &intent, nil
}

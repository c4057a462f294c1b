package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/shopspring/decimal"
)

const (
	orderTypeExchangeLimit   = "exchange limit"
	orderOptionMakerOrCancel = "maker-or-cancel"
)

type httpCredentials interface {
	GetGeminiAPIKey() string
	GetGeminiAPISecret() string
	GetHTTPUrl() string
}

// RequestError is returned for every non-200 answer of the exchange.
type RequestError struct {
	StatusCode int
	Result     string
	Reason     string
	Message    string
	Body       []byte
}

func (requestError *RequestError) Error() string {
	if requestError.Reason == "" {
		return fmt.Sprintf("gemini request failed with status %d: %s", requestError.StatusCode, strings.TrimSpace(string(requestError.Body)))
	}
	return fmt.Sprintf("gemini request failed with status %d: %s: %s", requestError.StatusCode, requestError.Reason, requestError.Message)
}

type SymbolDetails struct {
	Symbol         string          `json:"symbol"`
	BaseCurrency   string          `json:"base_currency"`
	QuoteCurrency  string          `json:"quote_currency"`
	TickSize       decimal.Decimal `json:"tick_size"`
	QuoteIncrement decimal.Decimal `json:"quote_increment"`
	MinOrderSize   decimal.Decimal `json:"min_order_size"`
	Status         string          `json:"status"`
}

type bookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

type orderBook struct {
	Bids []bookLevel `json:"bids"`
	Asks []bookLevel `json:"asks"`
}

type NewOrderRequest struct {
	Symbol        string
	Side          domain.OrderSide
	Amount        decimal.Decimal
	Price         decimal.Decimal
	ClientOrderID string
}

type HTTPClient struct {
	httpCredentials httpCredentials
	client          *http.Client
	nonces          *nonceGenerator
}

func NewHTTPClient(httpCredentials httpCredentials) *HTTPClient {
	return &HTTPClient{
		httpCredentials: httpCredentials,
		client:          &http.Client{Timeout: 30 * time.Second},
		nonces:          newNonceGenerator(time.Now),
	}
}

// GenerateSignature signs the base64 encoded payload with HMAC-SHA384.
func (httpClient *HTTPClient) GenerateSignature(encodedPayload string) string {
	h := hmac.New(sha512.New384, []byte(httpClient.httpCredentials.GetGeminiAPISecret()))
	h.Write([]byte(encodedPayload))

	return hex.EncodeToString(h.Sum(nil))
}

func (httpClient *HTTPClient) SymbolDetails(ctx context.Context, market string) (SymbolDetails, error) {
	var details SymbolDetails

	_, err := httpClient.sendPublicRequest(ctx, "/symbols/details/"+url.PathEscape(strings.ToLower(market)), nil, &details)
	if err != nil {
		return SymbolDetails{}, err
	}

	return details, nil
}

func (httpClient *HTTPClient) OrderBookTop(ctx context.Context, market string) (domain.OrderBookTop, error) {
	query := url.Values{}
	query.Set("limit_bids", "1")
	query.Set("limit_asks", "1")

	var book orderBook
	_, err := httpClient.sendPublicRequest(ctx, "/book/"+url.PathEscape(strings.ToLower(market)), query, &book)
	if err != nil {
		return domain.OrderBookTop{}, err
	}

	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return domain.OrderBookTop{}, fmt.Errorf("%w: empty order book for %s", domain.ErrMarketDataUnavailable, market)
	}

	return domain.OrderBookTop{BestBid: book.Bids[0].Price, BestAsk: book.Asks[0].Price}, nil
}

func (httpClient *HTTPClient) NewOrder(ctx context.Context, request NewOrderRequest) (domain.LiveOrder, error) {
	payload := map[string]interface{}{
		"symbol":  strings.ToLower(request.Symbol),
		"amount":  request.Amount.String(),
		"price":   request.Price.String(),
		"side":    string(request.Side),
		"type":    orderTypeExchangeLimit,
		"options": []string{orderOptionMakerOrCancel},
	}
	if request.ClientOrderID != "" {
		payload["client_order_id"] = request.ClientOrderID
	}

	return httpClient.sendOrderRequest(ctx, "/order/new", payload)
}

func (httpClient *HTTPClient) OrderStatus(ctx context.Context, orderID string) (domain.LiveOrder, error) {
	return httpClient.sendOrderRequest(ctx, "/order/status", map[string]interface{}{
		"order_id":       orderID,
		"include_trades": false,
	})
}

func (httpClient *HTTPClient) sendOrderRequest(ctx context.Context, endpoint string, payload map[string]interface{}) (domain.LiveOrder, error) {
	var order domain.LiveOrder

	raw, err := httpClient.sendPrivateRequest(ctx, endpoint, payload, &order)
	if err != nil {
		return domain.LiveOrder{}, err
	}
	order.Raw = raw

	return order, nil
}

func (httpClient *HTTPClient) sendPublicRequest(ctx context.Context, endpoint string, query url.Values, answer interface{}) ([]byte, error) {
	requestURL := httpClient.httpCredentials.GetHTTPUrl() + "/v1" + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	newRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	return httpClient.do(newRequest, answer)
}

func (httpClient *HTTPClient) sendPrivateRequest(ctx context.Context, endpoint string, payload map[string]interface{}, answer interface{}) ([]byte, error) {
	payload["request"] = "/v1" + endpoint
	payload["nonce"] = strconv.FormatInt(httpClient.nonces.Next(), 10)

	encodedPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	b64 := base64.StdEncoding.EncodeToString(encodedPayload)

	newRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, httpClient.httpCredentials.GetHTTPUrl()+"/v1"+endpoint, bytes.NewReader(nil))
	if err != nil {
		return nil, err
	}

	newRequest.Header.Set("Content-Type", "text/plain")
	newRequest.Header.Set("Cache-Control", "no-cache")
	newRequest.Header.Set("X-GEMINI-APIKEY", httpClient.httpCredentials.GetGeminiAPIKey())
	newRequest.Header.Set("X-GEMINI-PAYLOAD", b64)
	newRequest.Header.Set("X-GEMINI-SIGNATURE", httpClient.GenerateSignature(b64))

	return httpClient.do(newRequest, answer)
}

func (httpClient *HTTPClient) do(request *http.Request, answer interface{}) ([]byte, error) {
	resp, err := httpClient.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		requestError := RequestError{StatusCode: resp.StatusCode, Body: body}
		_ = json.Unmarshal(body, &struct {
			Result  *string `json:"result"`
			Reason  *string `json:"reason"`
			Message *string `json:"message"`
		}{&requestError.Result, &requestError.Reason, &requestError.Message})
		return body, &requestError
	}

	if err := json.Unmarshal(body, answer); err != nil {
		return body, fmt.Errorf("decode %s answer: %w", request.URL.Path, err)
	}

	return body, nil
}

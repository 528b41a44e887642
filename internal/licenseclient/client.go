// Package licenseclient реализует клиент внешнего лицензионного сервера.
//
// Клиент выполняет единственный исходящий вызов проверки ключа с таймаутом
// 10 секунд и нормализует любой исход (успех, таймаут, сетевая ошибка,
// неожиданный ответ) в структуру Result. Verify никогда не возвращает ошибку.
package licenseclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const verifyTimeout = 10 * time.Second

// Client клиент лицензионного сервера.
type Client struct {
	serverURL   string
	productName string
	httpClient  *http.Client
}

// New создаёт новый клиент лицензионного сервера.
// Пустой serverURL означает, что проверка лицензии отключена.
func New(serverURL, productName string) *Client {
	return &Client{
		serverURL:   serverURL,
		productName: productName,
		httpClient:  &http.Client{Timeout: verifyTimeout},
	}
}

// Verify проверяет лицензионный ключ у лицензионного сервера.
//
// Порядок исходов:
//   - сервер не настроен — ключ считается действительным, проверка отключена;
//   - пустой ключ — недействителен, без сетевого вызова;
//   - таймаут — недействителен, "license server is not responding";
//   - сетевая ошибка — недействителен, сообщение содержит причину;
//   - любой иной сбой — недействителен, с общим сообщением об ошибке.
func (c *Client) Verify(ctx context.Context, licenseKey string) Result {
	if c.serverURL == "" {
		return Result{
			Valid:   true,
			Message: "license check disabled (no server configured)",
		}
	}

	licenseKey = strings.TrimSpace(licenseKey)
	if licenseKey == "" {
		return Result{
			Valid:   false,
			Message: "license key is required",
		}
	}

	url := strings.TrimRight(c.serverURL, "/") + "/api/v1/verify"
	payload := verifyRequest{
		LicenseKey:  licenseKey,
		ProductName: c.productName,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return Result{
			Valid:   false,
			Message: fmt.Sprintf("license verification failed: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return Result{
			Valid:   false,
			Message: fmt.Sprintf("license verification failed: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Result{
				Valid:   false,
				Message: "license server is not responding",
			}
		}
		return Result{
			Valid:   false,
			Message: fmt.Sprintf("could not connect to license server: %v", err),
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var data verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{
			Valid:   false,
			Message: fmt.Sprintf("license verification failed: %v", err),
		}
	}

	message := data.Message
	if message == "" {
		message = "Unknown error"
	}

	return Result{
		Valid:                data.Valid,
		Message:              message,
		ProductName:          data.ProductName,
		ExpiresAt:            parseExpiry(data.ExpiresAt),
		ActivationsRemaining: data.ActivationsRemaining,
	}
}

// parseExpiry терпимо разбирает поле expires_at: значение, которое не
// является строкой с распознаваемой датой, даёт nil, а не ошибку.
func parseExpiry(raw json.RawMessage) *time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

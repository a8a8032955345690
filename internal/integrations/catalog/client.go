package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

// Client клиент каталога услуг витрины
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу по идентификатору
func (c *Client) GetService(ctx context.Context, serviceID string) (*domain.Service, error) {
	endpoint := fmt.Sprintf("%s/api/services/%s", c.baseURL, url.PathEscape(serviceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("catalog: GET %s failed: %v", endpoint, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrServiceNotFound
	case http.StatusBadRequest:
		// витрина отвечает 400 на некорректный ObjectId
		return nil, ErrServiceNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var payload serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !payload.Success || payload.Data == nil {
		return nil, fmt.Errorf("%w: unsuccessful response: %s", ErrInvalidResponse, payload.Message)
	}

	if payload.Data.Duration <= 0 {
		return nil, fmt.Errorf("%w: service %s has invalid duration %d", ErrInvalidResponse, serviceID, payload.Data.Duration)
	}

	return payload.Data.toDomain(), nil
}

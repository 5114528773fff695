package identityservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с IdentityService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента IdentityService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetVolunteer получает профиль волонтера по ID пользователя
func (c *Client) GetVolunteer(ctx context.Context, userID int64) (*Volunteer, error) {
	url := fmt.Sprintf("%s/internal/users/%d/volunteer", c.baseURL, userID)

	var volunteer Volunteer
	if err := c.getJSON(ctx, url, &volunteer, ErrVolunteerNotFound); err != nil {
		return nil, err
	}

	return &volunteer, nil
}

// GetOrganization получает организацию со списком её менеджеров
func (c *Client) GetOrganization(ctx context.Context, organizationID int64) (*Organization, error) {
	url := fmt.Sprintf("%s/internal/organizations/%d", c.baseURL, organizationID)

	var org Organization
	if err := c.getJSON(ctx, url, &org, ErrOrganizationNotFound); err != nil {
		return nil, err
	}

	return &org, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid request", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

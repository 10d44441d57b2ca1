package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrInvalidToken: the identity service rejected the bearer token. Kept
// distinct from transport/server errors so the middleware can answer 401
// instead of 500.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthClient talks to the managed identity service. The anon key scopes
// token verification; the service key scopes admin operations (user
// deletion during GDPR erasure).
type AuthClient struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	Client     *http.Client
}

func NewAuthClient(baseURL, anonKey, serviceKey string) *AuthClient {
	return &AuthClient{
		BaseURL:    baseURL,
		AnonKey:    anonKey,
		ServiceKey: serviceKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// VerifyToken maps a user bearer token to a user id.
func (c *AuthClient) VerifyToken(accessToken string) (string, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.BaseURL)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.AnonKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("AuthService /user returned %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("auth verification failed: %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ErrInvalidToken
	}
	return out.ID, nil
}

// AdminDeleteUser removes the auth user; the identity service cascades its
// own auth-side records. Called by the deletion processor only.
func (c *AuthClient) AdminDeleteUser(userID string) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.BaseURL, userID)

	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("apikey", c.ServiceKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("auth user delete failed: %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

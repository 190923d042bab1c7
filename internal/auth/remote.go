package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/request"
	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

// RemoteValidator asks the auth service whether a token is still good. Used as
// a fallback when local verification fails, e.g. after a secret rotation.
type RemoteValidator struct {
	baseURL string
	client  *http.Client
}

func NewRemoteValidator(baseURL string, timeout time.Duration) *RemoteValidator {
	return &RemoteValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type validateResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User struct {
			ID         string `json:"id"`
			UserID     string `json:"userId"`
			Email      string `json:"email"`
			Role       string `json:"role"`
			EmployeeID string `json:"employeeId"`
		} `json:"user"`
	} `json:"data"`
}

// Validate posts the bearer token to the auth service. A 401 means the token
// is bad; a transport failure means the auth backend is down, which is
// reported as 503 so callers can tell the two cases apart.
func (v *RemoteValidator) Validate(ctx context.Context, token string) (*request.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/api/v1/auth/validate", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, util.ServiceUnavailable("Authentication service unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, util.Unauthorized("Token has expired or is invalid")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, util.ServiceUnavailable("Authentication service unavailable")
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || !body.Success {
		return nil, util.Unauthorized("Invalid token")
	}

	user := body.Data.User
	userID := user.UserID
	if userID == "" {
		userID = user.ID
	}
	now := time.Now()
	return &request.Identity{
		UserID:     userID,
		Email:      user.Email,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(15 * time.Minute),
	}, nil
}

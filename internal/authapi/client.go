// Package authapi talks to the back-office authentication and menu endpoints.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/backoffice/internal/api/dto"
	"github.com/spec-kit/backoffice/internal/domain"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

const maxBodyBytes = 4 << 20

// Client is the subset of the back-office API the session core depends on.
type Client interface {
	Login(ctx context.Context, identifier, secret string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	FetchModuleTree(ctx context.Context, token string) ([]domain.ModuleNode, error)
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL     string
	modulesPath string
	http        *http.Client
}

// NewHTTPClient builds a client. A nil httpClient gets a 30 second timeout.
func NewHTTPClient(baseURL, modulesPath string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if modulesPath == "" {
		modulesPath = "/modules"
	}
	if !strings.HasPrefix(modulesPath, "/") {
		modulesPath = "/" + modulesPath
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		modulesPath: modulesPath,
		http:        httpClient,
	}
}

// Login exchanges credentials for a session payload. Non-2xx responses and
// payloads without a token are failures.
func (c *HTTPClient) Login(ctx context.Context, identifier, secret string) (*dto.LoginResponse, error) {
	body, err := json.Marshal(dto.LoginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		de := decodeError(resp)
		return nil, apperrors.NewInvalidCredentials(de.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var payload dto.LoginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, apperrors.NewBadResponse("malformed login response", err)
	}
	if payload.Token == "" {
		return nil, apperrors.NewBadResponse("login response carried no token", nil)
	}
	return &payload, nil
}

// Logout notifies the server that token is no longer in use. Any HTTP
// response counts as delivered; only transport failures are errors.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodPost, "/logout", token, nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.Body.Close()
}

// FetchModuleTree returns the module tree visible to token.
func (c *HTTPClient) FetchModuleTree(ctx context.Context, token string) ([]domain.ModuleNode, error) {
	resp, err := c.do(ctx, http.MethodGet, c.modulesPath, token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var nodes []domain.ModuleNode
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&nodes); err != nil {
		return nil, apperrors.NewBadResponse("malformed module tree", err)
	}
	if nodes == nil {
		nodes = []domain.ModuleNode{}
	}
	return nodes, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeout(err)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, apperrors.NewTimeout(err)
		}
		return nil, apperrors.NewNetworkError(err)
	}
	return resp, nil
}

// decodeError turns an error response into a DomainError, falling back to the
// HTTP status when the body is not the standard error envelope.
func decodeError(resp *http.Response) *apperrors.DomainError {
	var envelope dto.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error.Code == "" {
		return apperrors.NewDomainError(codeForStatus(resp.StatusCode), http.StatusText(resp.StatusCode), resp.StatusCode, nil)
	}
	return apperrors.NewDomainError(envelope.Error.Code, envelope.Error.Message, resp.StatusCode, envelope.Error.Details)
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case status == http.StatusForbidden:
		return apperrors.CodeForbidden
	case status == http.StatusNotFound:
		return apperrors.CodeNotFound
	case status >= 500:
		return apperrors.CodeInternal
	default:
		return apperrors.CodeBadResponse
	}
}

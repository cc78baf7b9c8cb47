package legacy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the contract with the external student-information portal. The
// portal remains the sole authority for credentials and clearance data.
type Client interface {
	Login(ctx context.Context, studentID, password string) (*Session, error)
	LoginCoordinator(ctx context.Context, identifier, password string) (*Session, error)
	FetchHomeHTML(ctx context.Context, sess *Session) (string, error)
	FetchClearanceByKeyword(ctx context.Context, sess *Session, lastName string) ([]ClearanceRecord, error)
}

type portalClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &portalClient{http: client, logger: logger}
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *portalClient) login(ctx context.Context, path string, form map[string]string) (*Session, error) {
	var body loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&body).
		Post(path)
	if err != nil {
		return nil, &NetworkError{Op: "login", Err: err}
	}
	if resp.StatusCode() == http.StatusUnauthorized || (resp.IsSuccess() && !body.Success) {
		return nil, ErrAuthRejected
	}
	if resp.IsError() {
		return nil, &NetworkError{Op: "login", Err: fmt.Errorf("status %d", resp.StatusCode())}
	}

	cookie := sessionCookie(resp)
	if cookie == "" {
		return nil, &ParseError{Op: "login", Err: fmt.Errorf("no session cookie in response")}
	}
	return &Session{Cookie: cookie, IssuedAt: time.Now()}, nil
}

func (c *portalClient) Login(ctx context.Context, studentID, password string) (*Session, error) {
	return c.login(ctx, "/auth/login", map[string]string{
		"student_id": studentID,
		"password":   password,
	})
}

func (c *portalClient) LoginCoordinator(ctx context.Context, identifier, password string) (*Session, error) {
	return c.login(ctx, "/auth/coordinator/login", map[string]string{
		"username": identifier,
		"password": password,
	})
}

func (c *portalClient) FetchHomeHTML(ctx context.Context, sess *Session) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", sess.Cookie).
		Get("/home")
	if err != nil {
		return "", &NetworkError{Op: "fetch home", Err: err}
	}
	if resp.IsError() {
		return "", &NetworkError{Op: "fetch home", Err: fmt.Errorf("status %d", resp.StatusCode())}
	}
	return resp.String(), nil
}

func (c *portalClient) FetchClearanceByKeyword(ctx context.Context, sess *Session, lastName string) ([]ClearanceRecord, error) {
	var records []ClearanceRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", sess.Cookie).
		SetQueryParam("keyword", lastName).
		SetResult(&records).
		Get("/api/clearance/search")
	if err != nil {
		return nil, &NetworkError{Op: "clearance search", Err: err}
	}
	if resp.IsError() {
		return nil, &NetworkError{Op: "clearance search", Err: fmt.Errorf("status %d", resp.StatusCode())}
	}
	return records, nil
}

func sessionCookie(resp *resty.Response) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == "PORTALSESSID" || ck.Name == "PHPSESSID" {
			return ck.Name + "=" + ck.Value
		}
	}
	return ""
}

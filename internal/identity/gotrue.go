package identity

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

	"github.com/golang-jwt/jwt/v5"
)

// GoTrue — клиент REST API аутентификации Supabase (GoTrue).
type GoTrue struct {
	baseURL   string
	apiKey    string
	jwtSecret []byte
	client    *http.Client
}

type GoTrueOptions struct {
	URL       string
	APIKey    string
	JWTSecret string // если задан, access token проверяется локально
	Timeout   time.Duration
}

func NewGoTrue(o GoTrueOptions) *GoTrue {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	g := &GoTrue{
		baseURL: strings.TrimRight(o.URL, "/") + "/auth/v1",
		apiKey:  o.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
	if o.JWTSecret != "" {
		g.jwtSecret = []byte(o.JWTSecret)
	}
	return g
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type apiError struct {
	Code        int    `json:"code"`
	ErrorCode   string `json:"error_code"`
	Msg         string `json:"msg"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (e apiError) message() string {
	for _, s := range []string{e.Msg, e.Description, e.Error, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var out tokenResponse
	status, err := g.do(ctx, "/token?grant_type=password", "", credentials{Email: email, Password: password}, &out)
	if err != nil {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if out.AccessToken == "" || out.User.Email == "" {
		return nil, ErrInvalidCredentials
	}

	if g.jwtSecret != nil {
		if err := g.verify(out.AccessToken, out.User.Email); err != nil {
			return nil, err
		}
	}
	return &Identity{Email: out.User.Email, Token: out.AccessToken}, nil
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) error {
	status, err := g.do(ctx, "/signup", "", credentials{Email: email, Password: password}, nil)
	if err != nil {
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			if strings.Contains(strings.ToLower(err.Error()), "already") {
				return fmt.Errorf("%w: %v", ErrAlreadyRegistered, err)
			}
		}
		return err
	}
	return nil
}

func (g *GoTrue) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := g.do(ctx, "/logout", token, nil, nil)
	return err
}

func (g *GoTrue) do(ctx context.Context, path, bearer string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var ae apiError
		_ = json.Unmarshal(raw, &ae)
		return resp.StatusCode, fmt.Errorf("identity provider: %d %s", resp.StatusCode, ae.message())
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode identity response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// verify проверяет подпись access token (HS256, секрет проекта) и совпадение email.
func (g *GoTrue) verify(token, email string) error {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.jwtSecret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !strings.EqualFold(claims.Email, email) {
		return errors.Join(ErrInvalidCredentials, errors.New("token email mismatch"))
	}
	return nil
}

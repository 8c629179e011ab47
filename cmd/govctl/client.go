package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiPrefix = "/api/governance/v1alpha1"

type govClient struct {
	baseURL string
	http    *http.Client
}

func newClient() *govClient {
	return &govClient{
		baseURL: serverURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do performs a request with identity and tenancy headers applied.
func (c *govClient) do(method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if company := resolvedCompany(); company != "" {
		req.Header.Set("X-Company-Id", company)
	}
	if user := resolvedUser(); user != "" {
		req.Header.Set("X-Remote-User", user)
	}
	if role := resolvedRole(); role != "" {
		req.Header.Set("X-Remote-Role", role)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *govClient) getJSON(path string, v any) error {
	return c.do(http.MethodGet, path, nil, v)
}

func (c *govClient) postJSON(path string, body any, v any) error {
	return c.do(http.MethodPost, path, body, v)
}

func (c *govClient) putJSON(path string, body any, v any) error {
	return c.do(http.MethodPut, path, body, v)
}

func (c *govClient) putRaw(path string, body []byte, v any) error {
	return c.doRaw(http.MethodPut, path, body, v)
}

func (c *govClient) postRaw(path string, body []byte, v any) error {
	return c.doRaw(http.MethodPost, path, body, v)
}

// doRaw performs a request with a pre-encoded JSON body.
func (c *govClient) doRaw(method, path string, body []byte, v any) error {
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if company := resolvedCompany(); company != "" {
		req.Header.Set("X-Company-Id", company)
	}
	if user := resolvedUser(); user != "" {
		req.Header.Set("X-Remote-User", user)
	}
	if role := resolvedRole(); role != "" {
		req.Header.Set("X-Remote-Role", role)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

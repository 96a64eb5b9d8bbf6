package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"devcoach/internal/config"
)

// Client talks to the Ollama REST API using a resolved LLM config.
// Requests are bounded by the resolved timeout and never retried.
type Client struct {
	cfg    config.Resolved
	client *http.Client
}

// New creates a client for the resolved config.
func New(cfg config.Resolved) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// TransportError reports a failed LLM call: connection refused, timeout or
// a non-success response.
type TransportError struct {
	URL    string
	Status int // 0 when the request never got a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("LLM request to %s failed with status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("LLM request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Ping checks connectivity and returns the model names the server reports.
func (c *Client) Ping() ([]string, error) {
	url := c.cfg.BaseURL() + "/api/tags"
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &TransportError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("%s", string(body))}
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate sends a prompt to /api/generate and returns the completion text.
func (c *Client) Generate(prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := c.post("/api/generate", reqBody, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Chat sends a single user message to /api/chat and returns the reply.
func (c *Client) Chat(prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}

	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := c.post("/api/chat", reqBody, &out); err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

func (c *Client) post(path string, reqBody, out interface{}) error {
	url := c.cfg.BaseURL() + path

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &TransportError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("%s", string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

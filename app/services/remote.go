package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteStore moves raw backup envelopes to and from the remote backup
// endpoint. Fetch returns nil bytes when the remote holds nothing yet.
type RemoteStore interface {
	Fetch() ([]byte, error)
	Push(body []byte) error
}

// HTTPRemote talks to the remote backup endpoint over its GET/PUT contract.
type HTTPRemote struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPRemote(url, token string) *HTTPRemote {
	return &HTTPRemote{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *HTTPRemote) Fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote fetch: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (r *HTTPRemote) Push(body []byte) error {
	req, err := http.NewRequest(http.MethodPut, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote push: unexpected status %d", resp.StatusCode)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// remoteLedger sends mutations to a running subledger server so its
// in-memory ledger and the slot stay in step.
type remoteLedger struct {
	base   string
	client *http.Client
}

type remoteSubscription struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	RenewalDate string      `json:"renewalDate"`
}

var errRemoteIncomplete = errors.New("name, price and renewal date are required")

func newRemoteLedger(base string) *remoteLedger {
	return &remoteLedger{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *remoteLedger) add(ctx context.Context, name, price, renewal, category string) (remoteSubscription, error) {
	body, err := json.Marshal(map[string]string{
		"name":        name,
		"price":       price,
		"renewalDate": renewal,
		"category":    category,
	})
	if err != nil {
		return remoteSubscription{}, err
	}

	resp, err := r.do(ctx, http.MethodPost, "/api/subscriptions", body)
	if err != nil {
		return remoteSubscription{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var sub remoteSubscription
		if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
			return remoteSubscription{}, fmt.Errorf("decode response: %w", err)
		}
		return sub, nil
	case http.StatusNoContent:
		return remoteSubscription{}, errRemoteIncomplete
	default:
		return remoteSubscription{}, remoteError(resp)
	}
}

func (r *remoteLedger) remove(ctx context.Context, id string) (bool, error) {
	resp, err := r.do(ctx, http.MethodDelete, "/api/subscriptions/"+url.PathEscape(id), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, remoteError(resp)
	}
	var out struct {
		Removed bool `json:"removed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return out.Removed, nil
}

func (r *remoteLedger) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func remoteError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

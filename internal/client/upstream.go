package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UpstreamError is returned when a third-party API answers with a non-2xx status.
// Message is the human-readable text the upstream sent, or a fallback when it sent none.
type UpstreamError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

type messageExtractor func(body []byte) string

func doJSON(
	ctx context.Context,
	hc *http.Client,
	method, url string,
	headers map[string]string,
	payload any,
	fallback string,
	extract messageExtractor,
) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extract(respBody)
		if msg == "" {
			msg = fallback
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Message: msg, Body: respBody}
	}
	return respBody, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

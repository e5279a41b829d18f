package services

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "cryptoboard/internal/errors"

	"github.com/go-resty/resty/v2"
)

const maxErrorBody = 256

// NewRestClient builds the resty client shared by the market API clients.
func NewRestClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	return client
}

// Get sends req and returns the body of a 2xx answer. Failures come back
// as *errors.Error classified transient or fatal.
func Get(req *resty.Request, path, what string) ([]byte, error) {
	resp, err := req.Get(path)
	if err != nil {
		return nil, apperrors.FromTransport(err, fmt.Sprintf("%s request failed", what))
	}
	if !resp.IsSuccess() {
		body := string(resp.Body())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, apperrors.FromStatus(resp.StatusCode(), fmt.Sprintf("%s: API error %s - %s", what, resp.Status(), body))
	}
	return resp.Body(), nil
}

// Decode unmarshals a JSON body, reporting failures as malformed payloads.
func Decode(body []byte, v any, what string) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.Fatal(apperrors.MalformedPayload, fmt.Sprintf("%s: invalid payload", what), err)
	}
	return nil
}

package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Client moves value out of the protocol's custody by calling the external
// ledger transfer service over HTTP. It implements service.TransferClient.
type Client struct {
	baseURL    string
	account    string
	httpClient *http.Client
}

// NewClient creates a transfer client. account is the protocol's own account
// name on the external ledger, used as the sender of every payout.
func NewClient(baseURL, account string) *Client {
	return &Client{
		baseURL: baseURL,
		account: account,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type payRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

// Pay asks the transfer service to move shells from the protocol account to
// the recipient.
func (c *Client) Pay(ctx context.Context, to string, amount int64, memo string) error {
	body, err := json.Marshal(payRequest{
		From:   c.account,
		To:     to,
		Amount: amount,
		Memo:   memo,
	})
	if err != nil {
		return fmt.Errorf("failed to encode pay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build pay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call transfer service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("transfer service refused payment to %s: status %d: %s", to, resp.StatusCode, detail)
	}

	log.WithFields(log.Fields{
		"to":     to,
		"amount": amount,
		"memo":   memo,
	}).Info("Payment sent")

	return nil
}

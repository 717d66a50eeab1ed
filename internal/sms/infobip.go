package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"unisms/internal/config"
)

const infobipSendPath = "/sms/2/text/advanced"

type InfobipClient struct {
	baseURL string
	apiKey  string
	sender  string
	http    *http.Client
}

func NewInfobipClient(cfg config.SMSConfig, httpClient *http.Client) *InfobipClient {
	return &InfobipClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		http:    httpClient,
	}
}

type infobipDestination struct {
	To string `json:"to"`
}

type infobipMessage struct {
	From         string               `json:"from"`
	Destinations []infobipDestination `json:"destinations"`
	Text         string               `json:"text"`
}

type infobipRequest struct {
	Messages []infobipMessage `json:"messages"`
}

func (c *InfobipClient) Send(ctx context.Context, to string, text string) error {
	body, err := json.Marshal(infobipRequest{
		Messages: []infobipMessage{{
			From:         c.sender,
			Destinations: []infobipDestination{{To: to}},
			Text:         text,
		}},
	})
	if err != nil {
		return fmt.Errorf("encode sms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+infobipSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "App "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

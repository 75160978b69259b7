// Package pdf talks to the external document-generation webhook that fills
// the studio's consent form from a reservation.
package pdf

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

	"krampus/internal/model"
)

// ErrWebhookMisconfigured signals the webhook scenario answered with a bare
// "Accepted" instead of the JSON response module output. A known
// misconfiguration worth reporting in full.
var ErrWebhookMisconfigured = errors.New("document webhook returned 'Accepted': the scenario is missing a JSON webhook response")

// Client posts field maps to the webhook and downloads the resulting
// document.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type field struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// webhookPayload carries the same fields twice: once as a fillable-form
// field array and once flat, because the downstream scenario reads both.
type webhookPayload struct {
	Fields          []field `json:"fields"`
	FirstName       string  `json:"FirstName"`
	LastName        string  `json:"LastName"`
	Phone           string  `json:"Phone"`
	Price           string  `json:"Price"`
	Deposit         string  `json:"Deposit"`
	Rest            string  `json:"Rest"`
	AppointmentDate string  `json:"AppointmentDate"`
	Time            string  `json:"Time"`
	Note            string  `json:"Note"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Generate fills the form for a reservation and returns the document bytes
// and the suggested file name. Missing webhook configuration is a call-time
// error.
func (c *Client) Generate(ctx context.Context, r *model.Reservation, artistName string) ([]byte, string, error) {
	if c.webhookURL == "" {
		return nil, "", fmt.Errorf("document webhook URL not configured")
	}

	payload := buildPayload(r)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("webhook request failed: %d %s", resp.StatusCode, resp.Status)
	}

	var result webhookResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		if strings.TrimSpace(string(raw)) == "Accepted" {
			return nil, "", ErrWebhookMisconfigured
		}
		return nil, "", fmt.Errorf("invalid JSON response from webhook: %s", truncate(string(raw), 200))
	}

	// Some scenarios answer {success, url}, others bare {url}.
	if result.URL == "" {
		if result.Error != "" {
			return nil, "", fmt.Errorf("document generation failed: %s", result.Error)
		}
		return nil, "", fmt.Errorf("document generation failed: no document URL returned")
	}

	doc, err := c.download(ctx, result.URL)
	if err != nil {
		return nil, "", err
	}
	return doc, fmt.Sprintf("reservation-%d.pdf", r.ReservationNumber), nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download document: http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func buildPayload(r *model.Reservation) webhookPayload {
	price := fmt.Sprintf("€%.2f", r.TotalPrice)
	deposit := fmt.Sprintf("€%.2f", r.DepositPaid)
	rest := fmt.Sprintf("€%.2f", r.Remaining())
	date := formattedDate(r.AppointmentDate)

	return webhookPayload{
		Fields: []field{
			{Name: "first_name", Text: r.FirstName},
			{Name: "last_name", Text: r.LastName},
			{Name: "phone", Text: r.Phone},
			{Name: "reservation_number", Text: fmt.Sprintf("%d", r.ReservationNumber)},
			{Name: "price", Text: price},
			{Name: "deposit", Text: deposit},
			{Name: "rest", Text: rest},
			{Name: "appointment_date", Text: date},
			{Name: "appointment_time", Text: r.AppointmentTime},
			{Name: "notes", Text: r.Notes},
		},
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Phone:           r.Phone,
		Price:           fmt.Sprintf("%g", r.TotalPrice),
		Deposit:         fmt.Sprintf("%g", r.DepositPaid),
		Rest:            fmt.Sprintf("%g", r.Remaining()),
		AppointmentDate: date,
		Time:            r.AppointmentTime,
		Note:            r.Notes,
	}
}

func formattedDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/freee021022/onco/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue   = 3447003  // New request
	ColorGreen  = 65280    // Accepted or completed
	ColorOrange = 16753920 // Rejected

	Username = "Onconet24"
	footer   = "Onconet24 Second Opinion"
)

// WebhookPublisher posts second-opinion activity to Slack and Discord
// incoming webhooks. Other event types are ignored.
type WebhookPublisher struct {
	slackURL   string
	discordURL string
	client     *http.Client
}

func NewWebhookPublisher(slackURL, discordURL string) *WebhookPublisher {
	return &WebhookPublisher{
		slackURL:   slackURL,
		discordURL: discordURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, event Event) error {
	request, ok := event.Payload.(*models.SecondOpinionRequest)
	if !ok {
		return nil
	}

	var title string
	switch event.Type {
	case SecondOpinionCreated:
		title = "New second opinion request"
	case SecondOpinionStatusChanged:
		title = "Second opinion request " + string(request.Status)
	default:
		return nil
	}

	if p.discordURL != "" {
		if err := p.post(ctx, p.discordURL, discordPayload(title, request)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if p.slackURL != "" {
		if err := p.post(ctx, p.slackURL, slackPayload(title, request)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func (p *WebhookPublisher) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func statusColor(status models.RequestStatus) (int, string) {
	switch status {
	case models.StatusAccepted, models.StatusCompleted:
		return ColorGreen, "good"
	case models.StatusRejected:
		return ColorOrange, "warning"
	default:
		return ColorBlue, "#3498db"
	}
}

func documentCount(request *models.SecondOpinionRequest) string {
	return fmt.Sprintf("%d", len(request.DocumentLinks))
}

func discordPayload(title string, request *models.SecondOpinionRequest) DiscordWebhookRequest {
	color, _ := statusColor(request.Status)

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "**" + strings.ToUpper(title) + "**",
				Description: request.Diagnosis,
				Color:       color,
				Fields: []DiscordWebhookField{
					{Name: "Request", Value: fmt.Sprintf("#%d", request.ID), Inline: true},
					{Name: "Patient", Value: fmt.Sprintf("#%d", request.PatientID), Inline: true},
					{Name: "Doctor", Value: fmt.Sprintf("#%d", request.DoctorID), Inline: true},
					{Name: "Status", Value: "**" + string(request.Status) + "**", Inline: true},
					{Name: "Documents", Value: documentCount(request), Inline: true},
				},
				Footer:    &DiscordFooter{Text: footer},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}
}

func slackPayload(title string, request *models.SecondOpinionRequest) SlackWebhookRequest {
	_, color := statusColor(request.Status)

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":stethoscope:",
		Text:      "*" + title + "*",
		Attachments: []SlackAttachment{
			{
				Color: color,
				Title: request.Diagnosis,
				Text:  request.Description,
				Fields: []SlackField{
					{Title: "Request", Value: fmt.Sprintf("#%d", request.ID), Short: true},
					{Title: "Status", Value: string(request.Status), Short: true},
					{Title: "Patient", Value: fmt.Sprintf("#%d", request.PatientID), Short: true},
					{Title: "Doctor", Value: fmt.Sprintf("#%d", request.DoctorID), Short: true},
					{Title: "Documents", Value: documentCount(request), Short: true},
				},
				Footer:    footer,
				Timestamp: time.Now().Unix(),
			},
		},
	}
}

func (p *WebhookPublisher) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

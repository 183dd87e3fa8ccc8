package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/empoweryouth/apiprobe/packages/report"
)

// SlackNotifier sends notifications to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
	now        func() time.Time
}

// SlackOption is a functional option for SlackNotifier
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the Slack channel
func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

// WithSlackUsername sets the Slack bot username
func WithSlackUsername(username string) SlackOption {
	return func(s *SlackNotifier) {
		s.username = username
	}
}

// WithSlackIconEmoji sets the Slack bot icon emoji
func WithSlackIconEmoji(emoji string) SlackOption {
	return func(s *SlackNotifier) {
		s.iconEmoji = emoji
	}
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "apiprobe",
		iconEmoji:  ":test_tube:",
		client:     &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the name of the notifier
func (s *SlackNotifier) Name() string {
	return "slack"
}

// slackMessage represents a Slack webhook message
type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

// slackAttachment represents a Slack message attachment
type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

// slackField represents a field in a Slack attachment
type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify sends a notification to Slack
func (s *SlackNotifier) Notify(summary *RunSummary) error {
	color := "good"
	emoji := ":white_check_mark:"

	switch {
	case summary.Failed > 0:
		color = "danger"
		emoji = ":x:"
	case summary.IsRecovery:
		emoji = ":tada:"
	case summary.Verdict != report.AllPassed:
		color = "warning"
	}

	fields := []slackField{
		{Title: "Scenarios", Value: fmt.Sprintf("%d", summary.Total), Short: true},
		{Title: "Passed", Value: fmt.Sprintf("%d (%.1f%%)", summary.Passed, summary.Percentage), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.Failed), Short: true},
		{Title: "Warnings", Value: fmt.Sprintf("%d", summary.Warnings), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Short: true},
	}

	if summary.BaseURL != "" {
		fields = append(fields, slackField{
			Title: "API",
			Value: summary.BaseURL,
			Short: true,
		})
	}

	var text strings.Builder
	if len(summary.Failures) > 0 {
		text.WriteString("*Failed scenarios:*\n")
		for _, fs := range summary.Failures {
			fmt.Fprintf(&text, "• `%s`\n", fs.Name)
			for _, err := range fs.Errors {
				fmt.Fprintf(&text, "  - %s\n", err)
			}
		}
	}

	attachment := slackAttachment{
		Color:  color,
		Title:  fmt.Sprintf("%s %s", emoji, summary.title()),
		Text:   text.String(),
		Fields: fields,
		Footer: "apiprobe",
		TS:     s.now().Unix(),
	}

	msg := slackMessage{
		Channel:     s.channel,
		Username:    s.username,
		IconEmoji:   s.iconEmoji,
		Attachments: []slackAttachment{attachment},
	}

	return s.send(msg)
}

func (s *SlackNotifier) send(msg slackMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

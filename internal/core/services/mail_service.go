package services

import (
	"context"
	"fmt"
	"time"

	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// MailService sends account emails through an HTTP mail API
// (SendGrid-compatible v3 mail/send payload).
type MailService struct {
	client  *resty.Client
	cfg     config.MailConfig
	enabled bool
	log     *zap.Logger
}

// NewMailService creates a new mail service. Without MAIL_API_URL it only logs.
func NewMailService(cfg config.MailConfig, log *zap.Logger) *MailService {
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &MailService{
		client:  client,
		cfg:     cfg,
		enabled: cfg.APIURL != "",
		log:     log,
	}
}

// IsEnabled checks if mail delivery is configured
func (s *MailService) IsEnabled() bool {
	return s.enabled
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailRequest struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

// SendAccountCreated emails the generated credentials to a new staff account
func (s *MailService) SendAccountCreated(ctx context.Context, msg AccountCreatedMail) error {
	if !s.enabled {
		s.log.Warn("mail API not configured, account email skipped", zap.String("to", msg.To))
		return nil
	}

	req := mailRequest{
		Personalizations: []mailPersonalization{{
			To: []mailAddress{{Email: msg.To, Name: msg.FirstName + " " + msg.MiddleName}},
		}},
		From:    mailAddress{Email: s.cfg.From, Name: s.cfg.FromName},
		Subject: "Your pledge tracking account",
		Content: []mailContent{{Type: "text/plain", Value: accountCreatedBody(msg, s.cfg.LoginURL)}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("")
	if err != nil {
		return fmt.Errorf("send account email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send account email: mail API returned %d", resp.StatusCode())
	}

	s.log.Info("account email sent", zap.String("to", msg.To), zap.String("role", string(msg.Role)))
	return nil
}

func roleLabel(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "administrator"
	case domain.RoleFollowUp:
		return "follow-up"
	default:
		return string(r)
	}
}

func accountCreatedBody(msg AccountCreatedMail, loginURL string) string {
	body := fmt.Sprintf(`Hello %s %s,

A %s account has been created for you.

Email:    %s
Password: %s

Please sign in and change your password.`,
		msg.FirstName,
		msg.MiddleName,
		roleLabel(msg.Role),
		msg.To,
		msg.Password,
	)
	if loginURL != "" {
		body += "\n\n" + loginURL
	}
	return body
}

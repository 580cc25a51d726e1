// Package mail delivers the shopping list to a user's inbox over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"przepisnik/internal/config"
)

// ErrNotConfigured reports that the SMTP settings are incomplete.
var ErrNotConfigured = errors.New("mail: smtp is not configured")

// categoryIcons decorate the plain-text list headings.
var categoryIcons = map[string]string{
	"Warzywa i owoce":  "🥦",
	"Nabiał":           "🧀",
	"Mięso i ryby":     "🥩",
	"Przyprawy i sosy": "🫙",
	"Inne":             "🛒",
}

const shoppingListSubject = "Twoja lista zakupów"

// Mailer sends shopping-list email through the configured SMTP relay.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether host and credentials are all present.
func (m *Mailer) Configured() bool {
	return strings.TrimSpace(m.cfg.Host) != "" &&
		strings.TrimSpace(m.cfg.Username) != "" &&
		strings.TrimSpace(m.cfg.Password) != ""
}

// SendShoppingList renders the categorized items as plain text and delivers
// them to the given address. Categories follow the given order and empty
// buckets are omitted from the body.
func (m *Mailer) SendShoppingList(ctx context.Context, toEmail string, categories []string, items map[string][]string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail: set sender: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("mail: set recipient: %w", err)
	}
	msg.Subject(shoppingListSubject)
	msg.SetBodyString(gomail.TypeTextPlain, renderBody(categories, items))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("mail: build client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func renderBody(categories []string, items map[string][]string) string {
	var body strings.Builder
	body.WriteString("Lista zakupów\n")
	body.WriteString(strings.Repeat("=", 30))

	for _, category := range categories {
		ingredients := items[category]
		if len(ingredients) == 0 {
			continue
		}
		body.WriteString("\n\n")
		if icon := categoryIcons[category]; icon != "" {
			body.WriteString(icon)
			body.WriteString(" ")
		}
		body.WriteString(category)
		body.WriteString(":")
		for _, ingredient := range ingredients {
			body.WriteString("\n  - ")
			body.WriteString(ingredient)
		}
	}

	return body.String()
}

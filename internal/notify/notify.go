// Package notify fans an alert event out to the enabled delivery channels.
// Each channel attempt is independent: one failure is recorded in its
// result entry and never aborts or taints a sibling channel.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-ai/internal/alert"
)

// Channel is an alert delivery medium.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// SMSSender is the SMS transport collaborator.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (id string, err error)
}

// EmailSender is the email transport collaborator.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) (id string, err error)
}

// Result is the outcome of one channel attempt.
type Result struct {
	Success bool    `json:"success"`
	Channel Channel `json:"channel"`
	ID      string  `json:"id,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Dispatcher builds channel payloads and sends them. Either provider may be
// nil, which disables that channel regardless of policy.
type Dispatcher struct {
	sms   SMSSender
	email EmailSender
	log   zerolog.Logger
}

// NewDispatcher creates a Dispatcher with the given providers.
func NewDispatcher(sms SMSSender, email EmailSender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sms: sms, email: email, log: log}
}

// Dispatch attempts delivery on every channel that is enabled in policy,
// has a destination configured, and has a provider. Channels failing any of
// the three gates are skipped without a result entry. Results accumulate in
// evaluation order: SMS before email.
func (d *Dispatcher) Dispatch(ctx context.Context, policy alert.Policy, event alert.Event) []Result {
	var results []Result

	if policy.SMSEnabled && policy.Phone != "" && d.sms != nil {
		results = append(results, d.sendSMS(ctx, policy.Phone, event))
	}

	if policy.EmailEnabled && policy.Email != "" && d.email != nil {
		results = append(results, d.sendEmail(ctx, policy.Email, event))
	}

	return results
}

func (d *Dispatcher) sendSMS(ctx context.Context, to string, event alert.Event) Result {
	id, err := d.sms.SendSMS(ctx, to, BuildSMSMessage(event))
	if err != nil {
		d.log.Error().Err(err).Str("channel", string(ChannelSMS)).Msg("Failed to send alert")
		return Result{Channel: ChannelSMS, Error: err.Error()}
	}
	return Result{Success: true, Channel: ChannelSMS, ID: id}
}

func (d *Dispatcher) sendEmail(ctx context.Context, to string, event alert.Event) Result {
	subject, html, text := BuildEmailContent(event)
	id, err := d.email.SendEmail(ctx, to, subject, html, text)
	if err != nil {
		d.log.Error().Err(err).Str("channel", string(ChannelEmail)).Msg("Failed to send alert")
		return Result{Channel: ChannelEmail, Error: err.Error()}
	}
	return Result{Success: true, Channel: ChannelEmail, ID: id}
}

// BuildSMSMessage renders the compact SMS payload for an alert event.
func BuildSMSMessage(event alert.Event) string {
	status := "High Spending"
	if event.OverBudget {
		status = "OVER BUDGET"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Finance AI Alert: %s\n", status)
	fmt.Fprintf(&b, "Category: %s\n", event.Category)
	fmt.Fprintf(&b, "Spent: %s\n", FormatCurrency(event.CurrentSpending))
	fmt.Fprintf(&b, "Budget: %s\n", FormatCurrency(event.BudgetLimit))
	fmt.Fprintf(&b, "Used: %.0f%%", event.PctUsed)
	if event.ForecastTrend == "increasing" {
		b.WriteString("\nForecast trending up")
	}
	return b.String()
}

// BuildEmailContent renders the subject, HTML body and plain-text body for
// an alert event.
func BuildEmailContent(event alert.Event) (subject, html, text string) {
	subject = fmt.Sprintf("Finance AI Alert: %s spending at %.0f%%", event.Category, event.PctUsed)

	status := "Normal"
	statusHTML := "Normal"
	if event.OverBudget {
		status = "Over Budget"
		statusHTML = `<span style="color: red;">Over Budget</span>`
	}

	trendHTML := ""
	trendText := ""
	if event.ForecastTrend == "increasing" {
		trendHTML = "<p><strong>Forecast suggests spending may increase</strong></p>\n"
		trendText = "Forecast suggests spending may increase\n"
	}

	html = fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
<h2 style="color: #d32f2f;">Spending Alert</h2>
<p><strong>Category:</strong> %s</p>
<p><strong>Current Spending:</strong> %s</p>
<p><strong>Budget Limit:</strong> %s</p>
<p><strong>Budget Used:</strong> %.1f%%</p>
<p><strong>Status:</strong> %s</p>
%s<hr>
<p style="color: #666; font-size: 12px;">Manage your alerts at your dashboard.</p>
</body>
</html>`,
		event.Category,
		FormatCurrency(event.CurrentSpending),
		FormatCurrency(event.BudgetLimit),
		event.PctUsed,
		statusHTML,
		trendHTML,
	)

	text = fmt.Sprintf(`Spending Alert

Category: %s
Current Spending: %s
Budget Limit: %s
Budget Used: %.1f%%
Status: %s
%s`,
		event.Category,
		FormatCurrency(event.CurrentSpending),
		FormatCurrency(event.BudgetLimit),
		event.PctUsed,
		status,
		trendText,
	)

	return subject, html, text
}

// FormatCurrency renders a decimal amount as ₹ with thousands separators
// and two decimal places.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "₹" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

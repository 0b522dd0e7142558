package services

import (
	"fmt"
	"log"
	"strings"

	"brewtrack/internal/models"

	"github.com/resend/resend-go/v3"
)

// statusMessages maps each status to the customer-facing update line.
var statusMessages = map[string]string{
	models.StatusPreparing: "Your order is being prepared.",
	models.StatusReady:     "Your order is ready for pickup or delivery.",
	models.StatusDelivered: "Your order has been delivered. Enjoy!",
	models.StatusCancelled: "Your order has been cancelled.",
}

// EmailService sends customer notifications through Resend. All sends are
// fire-and-forget: they run on their own goroutine and failures are logged,
// never returned to the order workflow.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService creates a new email service instance. An empty API key
// disables sending; notifications are then logged only.
func NewEmailService(apiKey, from string) *EmailService {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &EmailService{client: client, from: from}
}

// NotifyOrderCreated emails the order confirmation. Orders without a
// customer email are skipped, which is not an error.
func (es *EmailService) NotifyOrderCreated(order *models.Order) {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return
	}
	subject := fmt.Sprintf("Order confirmation #%s", shortID(order))
	go es.send(*order.CustomerEmail, subject, confirmationBody(order))
}

// NotifyStatusChanged emails the status update for a transition.
func (es *EmailService) NotifyStatusChanged(order *models.Order) {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return
	}
	subject := fmt.Sprintf("Order update #%s", shortID(order))
	go es.send(*order.CustomerEmail, subject, statusBody(order))
}

func (es *EmailService) send(to, subject, html string) {
	if es.client == nil {
		log.Printf("email disabled, skipping %q to %s", subject, to)
		return
	}
	params := &resend.SendEmailRequest{
		From:    es.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := es.client.Emails.Send(params); err != nil {
		log.Printf("ERROR: failed to send email %q to %s: %v", subject, to, err)
	}
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Order confirmed!</h2>")
	fmt.Fprintf(&b, "<p>Hi %s, your order #%s has been received.</p>", order.CustomerName, shortID(order))
	b.WriteString("<ul>")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "<li>%s &times; %d &mdash; %s</li>", line.ProductName, line.Quantity, line.Subtotal.StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<h3>Total: %s</h3>", order.Total.StringFixed(2))
	b.WriteString("<p>Thank you for choosing our café!</p>")
	return b.String()
}

func statusBody(order *models.Order) string {
	message, ok := statusMessages[order.Status]
	if !ok {
		message = fmt.Sprintf("Your order is now %s.", order.Status)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Order update</h2>")
	fmt.Fprintf(&b, "<p>Hi %s,</p><p>%s</p>", order.CustomerName, message)
	fmt.Fprintf(&b, "<p>Order: #%s<br>Status: <strong>%s</strong></p>", shortID(order), strings.ToUpper(order.Status))
	return b.String()
}

// shortID is the first UUID block, enough for customers to reference an order
func shortID(order *models.Order) string {
	id := order.ID.String()
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	return id
}

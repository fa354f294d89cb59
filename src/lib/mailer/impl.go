// Package mailer sends booking confirmations to guests.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"hotelbooking/src/models"
	"hotelbooking/src/pricing"
	"hotelbooking/src/types"
	"text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sesTypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Notifier interface {
	BookingConfirmed(ctx context.Context, user *models.User, room *models.Room, booking *models.Booking) error
}

const confirmationSubject = "Your booking is confirmed"

var confirmationBody = template.Must(template.New("confirmation").Parse(`Hi {{.Name}},

Thanks for booking {{.Room}}.

Check-in:  {{.Checkin}}
Check-out: {{.Checkout}}
Nights:    {{.Nights}}
Guests:    {{.Adults}} adult(s), {{.Children}} child(ren)
Total:     {{.Total}} {{.Currency}}

Booking reference: {{.Reference}}
`))

type Message struct {
	To      string
	Subject string
	Body    string
}

// RenderConfirmation builds the confirmation email for a committed booking.
func RenderConfirmation(user *models.User, room *models.Room, booking *models.Booking, currency string) (*Message, error) {
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("user has no email address")
	}
	name := user.Name
	if name == "" {
		name = "guest"
	}
	roomName := "your room"
	if room != nil {
		roomName = room.Name
	}
	var buf bytes.Buffer
	err := confirmationBody.Execute(&buf, map[string]any{
		"Name":      name,
		"Room":      roomName,
		"Checkin":   booking.CheckinDate.Format(types.DATE_FORMAT),
		"Checkout":  booking.CheckoutDate.Format(types.DATE_FORMAT),
		"Nights":    booking.NumberOfNights,
		"Adults":    booking.Adults,
		"Children":  booking.Children,
		"Total":     fmt.Sprintf("%.2f", pricing.FromMinorUnits(booking.TotalPrice)),
		"Currency":  currency,
		"Reference": booking.ID.String(),
	})
	if err != nil {
		return nil, err
	}
	return &Message{To: user.Email, Subject: confirmationSubject, Body: buf.String()}, nil
}

type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, *models.User, *models.Room, *models.Booking) error {
	return nil
}

type SMTPNotifier struct {
	client   *mail.Client
	from     string
	currency string
	logger   *zap.Logger
}

func NewSMTPNotifier(client *mail.Client, from, currency string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{client: client, from: from, currency: currency, logger: logger}
}

func (n *SMTPNotifier) BookingConfirmed(ctx context.Context, user *models.User, room *models.Room, booking *models.Booking) error {
	m, err := RenderConfirmation(user, room, booking, n.currency)
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	n.logger.Info("confirmation email sent", zap.String("booking", booking.ID.String()))
	return nil
}

// SESAPI is the subset of the SES client used to send mail.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESNotifier struct {
	client   SESAPI
	from     string
	currency string
	logger   *zap.Logger
}

func NewSESNotifier(client SESAPI, from, currency string, logger *zap.Logger) *SESNotifier {
	return &SESNotifier{client: client, from: from, currency: currency, logger: logger}
}

func (n *SESNotifier) BookingConfirmed(ctx context.Context, user *models.User, room *models.Room, booking *models.Booking) error {
	m, err := RenderConfirmation(user, room, booking, n.currency)
	if err != nil {
		return err
	}
	out, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.from),
		Destination: &sesTypes.Destination{ToAddresses: []string{m.To}},
		Message: &sesTypes.Message{
			Subject: &sesTypes.Content{Data: aws.String(m.Subject)},
			Body:    &sesTypes.Body{Text: &sesTypes.Content{Data: aws.String(m.Body)}},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	n.logger.Info("confirmation email sent",
		zap.String("booking", booking.ID.String()),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

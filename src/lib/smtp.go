package lib

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient(host string, port int, user, pass string) (*mail.Client, error) {
	if port == 0 {
		port = 587
	}
	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
	)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	return c, nil
}

package utils

import (
	"fmt"
	"io"

	"donation-portal/config"

	"gopkg.in/gomail.v2"
)

// SendReceiptEmail mails a copy of the rendered receipt to a donor who gave
// an email address. Callers treat failures as best-effort.
func SendReceiptEmail(to, donorName, fileName string, pdf []byte) error {
	cfg := config.App
	if cfg == nil || cfg.SMTPHost == "" {
		return fmt.Errorf("smtp not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Donation Receipt")

	body := fmt.Sprintf(`
		<h2>Thank you for your donation, %s!</h2>
		<p>Your payment was received successfully. The receipt is attached as a PDF.</p>
		<p>Please keep it for your records.</p>
	`, donorName)
	m.SetBody("text/html", body)

	m.Attach(fileName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

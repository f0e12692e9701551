package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SMTPConfig holds outbound mail credentials, populated from env.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func ConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		Host:     os.Getenv("MAIL_SERVER"),
		Port:     os.Getenv("MAIL_PORT"),
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     os.Getenv("MAIL_DEFAULT_SENDER"),
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

// send delivers one message. Port 465 uses implicit TLS, anything else goes
// through the plain/STARTTLS path.
func (c SMTPConfig) send(to []string, subject, body string, html bool) error {
	if c.Username == "" {
		return fmt.Errorf("notify: MAIL_USERNAME not configured")
	}

	raw := buildRaw(c.From, to, subject, body, html)
	addr := c.Host + ":" + c.Port
	auth := smtp.PlainAuth("", c.Username, c.Password, c.Host)

	if c.Port == "465" {
		return c.sendTLS(addr, auth, to, raw)
	}
	return smtp.SendMail(addr, auth, c.From, to, raw)
}

func (c SMTPConfig) sendTLS(addr string, auth smtp.Auth, to []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: c.Host})
	if err != nil {
		return fmt.Errorf("notify: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, c.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(c.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

func buildRaw(from string, to []string, subject, body string, html bool) []byte {
	contentType := "text/plain"
	if html {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

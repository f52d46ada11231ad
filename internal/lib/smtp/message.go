// Package smtp отправляет текстовые письма через SMTP-сервер с STARTTLS.
package smtp

import (
	"mime"
	"strings"
)

// Message текстовое письмо.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer доставляет письма.
type Mailer interface {
	Send(msg Message) error
}

// Bytes собирает письмо в формате RFC 5322. Тема кодируется в UTF-8.
func (m Message) Bytes(from string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", m.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

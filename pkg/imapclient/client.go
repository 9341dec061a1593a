package imapclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"

	"suppliermail-backend/pkg/mailsource"
)

// Service fetches mail over IMAP. It implements mailsource.Source.
// A fresh connection is dialed per call; fetches are infrequent enough
// that keeping a session alive is not worth the reconnect handling.
type Service struct {
	addr     string
	username string
	password string
	mailbox  string
}

func NewService(addr, username, password, mailbox string) *Service {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &Service{
		addr:     addr,
		username: username,
		password: password,
		mailbox:  mailbox,
	}
}

// Ping implements mailsource.Source
func (s *Service) Ping(ctx context.Context) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	_ = c.Logout()
	return nil
}

// FetchSince implements mailsource.Source
func (s *Service) FetchSince(ctx context.Context, since time.Time) ([]mailsource.Message, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Logout() }()

	if _, err := c.Select(s.mailbox, true); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", s.mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since

	uids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(uids))
	if err := c.Fetch(seqset, items, messages); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var results []mailsource.Message
	for msg := range messages {
		if msg.Envelope == nil || msg.Envelope.MessageId == "" {
			continue
		}

		body := ""
		if raw := msg.GetBody(section); raw != nil {
			body = extractTextBody(raw)
		}

		results = append(results, mailsource.Message{
			MessageID:  msg.Envelope.MessageId,
			Subject:    msg.Envelope.Subject,
			Sender:     formatSender(msg.Envelope),
			Body:       body,
			ReceivedAt: msg.Envelope.Date,
		})
	}

	return results, nil
}

// connect dials a fresh session bounded by the caller's context: the dial
// honors ctx directly, and the ctx deadline becomes the connection deadline
// so the TLS handshake, greeting, and every later command stay bounded too.
func (s *Service) connect(ctx context.Context) (*client.Client, error) {
	host := s.addr
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := client.New(tls.Client(conn, &tls.Config{ServerName: host}))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(s.username, s.password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	return c, nil
}

func formatSender(env *imap.Envelope) string {
	if len(env.From) == 0 {
		return ""
	}
	from := env.From[0]
	addr := from.MailboxName + "@" + from.HostName
	if from.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", from.PersonalName, addr)
	}
	return addr
}

// extractTextBody walks the MIME structure and returns the first text/plain
// part, falling back to text/html when no plain part exists.
func extractTextBody(raw io.Reader) string {
	entity, err := message.Read(raw)
	if err != nil {
		return ""
	}

	text, html := walkEntity(entity)
	if text != "" {
		return text
	}
	return html
}

func walkEntity(entity *message.Entity) (text, html string) {
	mediaType, _, _ := entity.Header.ContentType()

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := entity.MultipartReader()
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}

			partText, partHTML := walkEntity(part)
			if text == "" {
				text = partText
			}
			if html == "" {
				html = partHTML
			}
		}
		return text, html
	}

	body, _ := io.ReadAll(entity.Body)
	switch mediaType {
	case "text/plain":
		return string(body), ""
	case "text/html":
		return "", string(body)
	}
	return "", ""
}

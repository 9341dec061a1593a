package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"suppliermail-backend/pkg/mailsource"
)

// Service fetches mail through the Gmail API. It implements mailsource.Source.
type Service struct {
	svc *gmailapi.Service
}

// NewService builds a Gmail client from an OAuth2 refresh token.
func NewService(ctx context.Context, clientID, clientSecret, refreshToken string) (*Service, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmailapi.GmailReadonlyScope},
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Service{svc: svc}, nil
}

// Ping implements mailsource.Source
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail profile check failed: %w", err)
	}
	return nil
}

// FetchSince implements mailsource.Source
func (s *Service) FetchSince(ctx context.Context, since time.Time) ([]mailsource.Message, error) {
	query := fmt.Sprintf("after:%s", since.Format("2006/01/02"))

	var results []mailsource.Message
	pageToken := ""
	for {
		call := s.svc.Users.Messages.List("me").Q(query).MaxResults(100).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gmail list failed: %w", err)
		}

		for _, ref := range list.Messages {
			msg, err := s.svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			if err != nil {
				return nil, fmt.Errorf("gmail get %s failed: %w", ref.Id, err)
			}

			parsed := parseMessage(msg)
			if parsed.MessageID == "" {
				// No RFC Message-ID header; fall back to the Gmail id so the
				// message is still addressable and dedupable.
				parsed.MessageID = ref.Id
			}
			results = append(results, parsed)
		}

		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	return results, nil
}

func parseMessage(msg *gmailapi.Message) mailsource.Message {
	out := mailsource.Message{
		ReceivedAt: time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload == nil {
		return out
	}

	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "message-id":
			out.MessageID = strings.Trim(h.Value, "<>")
		case "subject":
			out.Subject = h.Value
		case "from":
			out.Sender = h.Value
		}
	}

	out.Body = extractBody(msg.Payload)
	return out
}

// extractBody prefers text/plain parts, walking nested multiparts.
func extractBody(payload *gmailapi.MessagePart) string {
	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}

	var html string
	for _, part := range payload.Parts {
		if body := extractBody(part); body != "" {
			if part.MimeType == "text/html" && html == "" {
				html = body
				continue
			}
			return body
		}
	}
	if html != "" {
		return html
	}

	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMService struct {
	client *messaging.Client
}

// NewFCMService builds the Firebase messaging client. Base64 credentials in
// FCM_SERVICE_ACCOUNT_JSON win over the key file at credentialsFile.
func NewFCMService(ctx context.Context, credentialsFile string) (*FCMService, error) {
	opt, err := credentialsOption(credentialsFile)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

func credentialsOption(credentialsFile string) (option.ClientOption, error) {
	if encoded := os.Getenv("FCM_SERVICE_ACCOUNT_JSON"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FCM_SERVICE_ACCOUNT_JSON: %w", err)
		}
		log.Println("FCM Service: using credentials from FCM_SERVICE_ACCOUNT_JSON")
		return option.WithCredentialsJSON(decoded), nil
	}

	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("firebase credentials file %s unavailable and FCM_SERVICE_ACCOUNT_JSON not set: %w", credentialsFile, err)
	}
	log.Printf("FCM Service: using credentials file %s", credentialsFile)
	return option.WithCredentialsFile(credentialsFile), nil
}

// SendPush sends one message per device token. It returns an error only when
// every send failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []DeviceToken, title, body string, data map[string]any) error {
	messages := BuildMessages(tokens, title, body, data)
	if len(messages) == 0 {
		return nil
	}

	sent, failed := 0, 0
	for _, msg := range messages {
		if _, err := s.client.Send(ctx, msg); err != nil {
			log.Printf("FCM: send to token %s failed: %v", msg.Token, err)
			failed++
			continue
		}
		sent++
	}

	log.Printf("FCM: sent %d messages, %d failed", sent, failed)
	if sent == 0 {
		return fmt.Errorf("all %d push notifications failed", failed)
	}
	return nil
}

// BuildMessages turns device tokens into FCM messages. Web tokens are skipped;
// FCM data payloads only carry strings.
func BuildMessages(tokens []DeviceToken, title, body string, data map[string]any) []*messaging.Message {
	payload := make(map[string]string, len(data))
	for k, v := range data {
		payload[k] = fmt.Sprintf("%v", v)
	}

	var out []*messaging.Message
	for _, t := range tokens {
		if t.Token == "" || t.Platform == "web" {
			continue
		}

		msg := &messaging.Message{
			Token:        t.Token,
			Notification: &messaging.Notification{Title: title, Body: body},
			Data:         payload,
		}
		switch t.Platform {
		case "ios":
			msg.APNS = &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
			}
		default:
			msg.Android = &messaging.AndroidConfig{
				Priority:     "high",
				Notification: &messaging.AndroidNotification{Sound: "default"},
			}
		}
		out = append(out, msg)
	}
	return out
}

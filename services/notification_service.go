package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inzichtCoachAPI/internal/achievement"
	"inzichtCoachAPI/internal/notification"
)

type NotificationService struct {
	db         *pgxpool.Pool
	dispatcher *NotificationDispatcher
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	s := &NotificationService{db: db}
	s.dispatcher = NewNotificationDispatcher(s, 5, 100)
	return s
}

func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

func (s *NotificationService) Close() {
	s.dispatcher.Stop()
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	query := `
	INSERT INTO device_tokens (user_id, token, platform)
	VALUES ($1, $2, $3)
	ON CONFLICT (token)
	DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, userID, req.Token, req.Platform); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `SELECT token, platform FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
	INSERT INTO notifications (id, user_id, type, status, title, body, data)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, user_id, type, status, title, body, is_read, created_at
	`

	n := &notification.Notification{Data: req.Data}
	var notifType, status string
	err = s.db.QueryRow(ctx, query,
		uuid.New(), req.UserID, string(req.Type), string(notification.StatusPending), req.Title, req.Body, dataJSON,
	).Scan(&n.ID, &n.UserID, &notifType, &status, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	n.Type = notification.NotificationType(notifType)
	n.Status = notification.NotificationStatus(status)

	tokens, err := s.deviceTokens(ctx, req.UserID)
	if err != nil {
		log.Printf("CreateNotification: %v", err)
	}
	if !s.dispatcher.Dispatch(ctx, &DispatchJob{Notification: n, Tokens: tokens}) {
		s.markAsFailed(ctx, n.ID, fmt.Errorf("dispatch queue unavailable"))
	}

	return n, nil
}

func (s *NotificationService) NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, def achievement.Definition) error {
	_, err := s.CreateNotification(ctx, &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeBadgeEarned,
		Title:  fmt.Sprintf("%s %s", def.Emoji, def.Title),
		Body:   def.Description,
		Data: map[string]any{
			"badge_type": string(def.Type),
		},
	})
	return err
}

// SendDailyReminders nudges every user with a registered device who has not
// logged day yet. Users already reminded for day are skipped, so a rerun after
// a restart does not notify twice.
func (s *NotificationService) SendDailyReminders(ctx context.Context, day time.Time) (int, error) {
	dayKey := day.Format("2006-01-02")

	query := `
	SELECT DISTINCT p.id
	FROM profiles p
	JOIN device_tokens dt ON dt.user_id = p.id
	WHERE NOT EXISTS (
		SELECT 1 FROM daily_logs dl WHERE dl.user_id = p.id AND dl.date = $1
	)
	AND NOT EXISTS (
		SELECT 1 FROM notifications n
		WHERE n.user_id = p.id AND n.type = $2 AND n.data->>'day' = $3
	)
	`

	rows, err := s.db.Query(ctx, query, day, string(notification.TypeDailyReminder), dayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to find users to remind: %w", err)
	}
	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read users to remind: %w", err)
	}

	sent := 0
	for _, userID := range userIDs {
		_, err := s.CreateNotification(ctx, &notification.CreateNotificationRequest{
			UserID: userID,
			Type:   notification.TypeDailyReminder,
			Title:  "Hoe ging je dag?",
			Body:   "Je hebt vandaag nog niets gelogd. Houd je streak vast!",
			Data:   map[string]any{"day": dayKey},
		})
		if err != nil {
			log.Printf("SendDailyReminders: user %s: %v", userID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *NotificationService) markAsSent(ctx context.Context, notificationID uuid.UUID) {
	_, err := s.db.Exec(ctx, `UPDATE notifications SET status = 'sent', sent_at = NOW() WHERE id = $1`, notificationID)
	if err != nil {
		log.Printf("Failed to mark notification %s as sent: %v", notificationID, err)
	}
}

func (s *NotificationService) markAsFailed(ctx context.Context, notificationID uuid.UUID, cause error) {
	query := `
	UPDATE notifications
	SET status = 'failed', failed_at = NOW(), failure_reason = $2, retry_count = retry_count + 1
	WHERE id = $1
	`
	if _, err := s.db.Exec(ctx, query, notificationID, cause.Error()); err != nil {
		log.Printf("Failed to mark notification %s as failed: %v", notificationID, err)
	}
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/pkg/retry"
)

// NotificationService posts operational events to a webhook
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
	retryCfg   retry.Config
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		enabled:    url != "",
		client:     &http.Client{Timeout: 10 * time.Second},
		retryCfg:   retry.DefaultConfig,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// send posts a JSON payload to the webhook with retry
func (s *NotificationService) send(ctx context.Context, payload map[string]interface{}) error {
	if !s.enabled {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return retry.Do(ctx, s.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return nil
	})
}

// NotifyRedemption sends notification for a confirmed redemption
func (s *NotificationService) NotifyRedemption(ctx context.Context, partner *models.Partner, member *models.Member, event *models.RedemptionEvent) {
	if !s.enabled {
		return
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := s.send(bg, map[string]interface{}{
			"event":       "redemption.confirmed",
			"partner":     partner.Name,
			"member":      member.Name,
			"offer_id":    event.OfferID,
			"redeemed_at": event.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			log.Printf("⚠️ Redemption notification failed: %v", err)
		}
	}()
}

// NotifyExpiringCards sends the daily digest of cards expiring soon
func (s *NotificationService) NotifyExpiringCards(ctx context.Context, members []*models.Member) error {
	if !s.enabled || len(members) == 0 {
		return nil
	}

	items := make([]map[string]interface{}, 0, len(members))
	for _, m := range members {
		items = append(items, map[string]interface{}{
			"member":     m.Name,
			"school_id":  m.SchoolID,
			"expires_at": m.ExpiresAt.Format("2006-01-02"),
		})
	}

	err := s.send(ctx, map[string]interface{}{
		"event": "cards.expiring",
		"count": len(members),
		"cards": items,
	})
	if err != nil {
		log.Printf("⚠️ Expiring cards digest failed: %v", err)
		return err
	}

	log.Printf("✅ Expiring cards digest sent (%d cards)", len(members))
	return nil
}

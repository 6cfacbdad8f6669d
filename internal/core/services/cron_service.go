package services

import (
	"context"
	"log"
	"time"

	"unipass-backend/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs daily maintenance jobs
type CronService struct {
	cron        *cron.Cron
	memberRepo  repositories.MemberRepository
	promoRepo   *repositories.PromotionRepository
	refreshRepo repositories.RefreshTokenRepository
	notifier    *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(
	memberRepo repositories.MemberRepository,
	promoRepo *repositories.PromotionRepository,
	refreshRepo repositories.RefreshTokenRepository,
	notifier *NotificationService,
) *CronService {
	return &CronService{
		cron:        cron.New(),
		memberRepo:  memberRepo,
		promoRepo:   promoRepo,
		refreshRepo: refreshRepo,
		notifier:    notifier,
	}
}

// Start registers the daily jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 6 * * *", s.runDailyMaintenance); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("✅ Cron scheduler started (daily maintenance at 06:00)")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron scheduler stopped")
}

func (s *CronService) runDailyMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()

	if n, err := s.promoRepo.DeactivateExpired(ctx, now); err != nil {
		log.Printf("❌ Cron: deactivate expired promotions failed: %v", err)
	} else if n > 0 {
		log.Printf("✅ Cron: deactivated %d expired promotions", n)
	}

	if n, err := s.memberRepo.DeactivateExpired(ctx, now); err != nil {
		log.Printf("❌ Cron: deactivate expired cards failed: %v", err)
	} else if n > 0 {
		log.Printf("✅ Cron: deactivated %d expired cards", n)
	}

	if err := s.refreshRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Cron: purge expired refresh tokens failed: %v", err)
	}

	expiring, err := s.memberRepo.ListExpiringBetween(ctx, now, now.AddDate(0, 0, 30))
	if err != nil {
		log.Printf("❌ Cron: expiring cards lookup failed: %v", err)
		return
	}
	if err := s.notifier.NotifyExpiringCards(ctx, expiring); err != nil {
		log.Printf("⚠️ Cron: expiring cards digest failed: %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/core/domain"
	"unipass-backend/internal/core/eligibility"
	"unipass-backend/internal/pkg/cpf"

	"gorm.io/gorm"
)

// ValidationService runs the card validation flow at a partner's
// counter: resolve the member, evaluate the partner's offer catalog
// against the member's redemption history, and confirm redemptions.
type ValidationService struct {
	memberRepo     repositories.MemberRepository
	partnerRepo    *repositories.PartnerRepository
	promoRepo      *repositories.PromotionRepository
	redemptionRepo repositories.RedemptionRepository
	notifier       *NotificationService

	// now is swappable in tests
	now func() time.Time
}

// NewValidationService creates a new validation service
func NewValidationService(
	memberRepo repositories.MemberRepository,
	partnerRepo *repositories.PartnerRepository,
	promoRepo *repositories.PromotionRepository,
	redemptionRepo repositories.RedemptionRepository,
	notifier *NotificationService,
) *ValidationService {
	return &ValidationService{
		memberRepo:     memberRepo,
		partnerRepo:    partnerRepo,
		promoRepo:      promoRepo,
		redemptionRepo: redemptionRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

// SetNowFunc overrides the clock. Tests only.
func (s *ValidationService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// ValidationResult is what the partner's operator sees after a scan
type ValidationResult struct {
	Member *models.MemberResponse    `json:"member"`
	Offers []eligibility.OfferStatus `json:"offers"`
}

// ResolveByCardToken resolves a scanned QR card token and evaluates
// the partner's offers for that member
func (s *ValidationService) ResolveByCardToken(ctx context.Context, partnerID uint, token string) (*ValidationResult, error) {
	member, err := s.memberRepo.GetByCardToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return s.evaluate(ctx, partnerID, member)
}

// ResolveByCPF resolves a member by CPF for partners without a scanner
func (s *ValidationService) ResolveByCPF(ctx context.Context, partnerID uint, rawCPF string) (*ValidationResult, error) {
	if !cpf.IsValid(rawCPF) {
		return nil, domain.ErrInvalidCPF
	}
	member, err := s.memberRepo.GetByCPF(ctx, cpf.Normalize(rawCPF))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return s.evaluate(ctx, partnerID, member)
}

// evaluate checks card state, builds the offer catalog and runs the
// eligibility engine against the member's history with this partner
func (s *ValidationService) evaluate(ctx context.Context, partnerID uint, member *models.Member) (*ValidationResult, error) {
	now := s.now()

	if !member.IsActive {
		return nil, domain.ErrCardInactive
	}
	if !now.Before(member.ExpiresAt) {
		return nil, domain.ErrCardExpired
	}

	offers, err := s.buildCatalog(ctx, partnerID, now)
	if err != nil {
		return nil, err
	}

	events, err := s.loadEvents(ctx, member.ID, partnerID)
	if err != nil {
		return nil, err
	}

	statuses, err := eligibility.Evaluate(member.ID, partnerID, offers, events, now)
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		Member: member.ToResponse(),
		Offers: statuses,
	}, nil
}

// buildCatalog assembles the partner's active offer set: the standard
// benefit first (when defined), then active unexpired promotions.
// Promotion offer ids are the decimal database id, which can never
// collide with the reserved standard benefit identifier.
func (s *ValidationService) buildCatalog(ctx context.Context, partnerID uint, now time.Time) ([]eligibility.Offer, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	var offers []eligibility.Offer
	if partner.StandardBenefit != "" {
		offers = append(offers, eligibility.Offer{
			ID:    eligibility.StandardBenefitID,
			Title: partner.StandardBenefit,
			Limit: eligibility.LimitUnlimited,
		})
	}

	promos, err := s.promoRepo.ListActiveByPartner(ctx, partnerID, now)
	if err != nil {
		return nil, err
	}
	for _, p := range promos {
		offers = append(offers, eligibility.Offer{
			ID:    strconv.FormatUint(uint64(p.ID), 10),
			Title: p.Title,
			Limit: eligibility.Limit(p.UsageLimit),
		})
	}

	return offers, nil
}

// loadEvents maps the stored redemption log into engine events
func (s *ValidationService) loadEvents(ctx context.Context, memberID, partnerID uint) ([]eligibility.Event, error) {
	rows, err := s.redemptionRepo.ListByMemberAndPartner(ctx, memberID, partnerID)
	if err != nil {
		return nil, err
	}
	events := make([]eligibility.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, eligibility.Event{
			MemberID:   r.MemberID,
			PartnerID:  r.PartnerID,
			OfferID:    r.OfferID,
			OccurredAt: r.CreatedAt,
		})
	}
	return events, nil
}

// RedemptionResult carries the appended event plus refreshed statuses
type RedemptionResult struct {
	Event  *models.RedemptionEventResponse `json:"event"`
	Offers []eligibility.OfferStatus       `json:"offers"`
}

// BlockedOfferError wraps a rejected redemption with the engine's
// verdict so handlers can surface the reason to the operator
type BlockedOfferError struct {
	Status eligibility.OfferStatus
}

func (e *BlockedOfferError) Error() string {
	return "offer is not available for this member"
}

func (e *BlockedOfferError) Unwrap() error {
	return domain.ErrOfferNotAvailable
}

// ConfirmRedemption re-checks the offer's availability on the server
// and, when available, appends the event to the redemption log.
// There is no storage-level uniqueness guard, so two truly concurrent
// confirmations can both land; the re-check is the guard rail.
func (s *ValidationService) ConfirmRedemption(ctx context.Context, partnerID, memberID uint, offerID string, operatorID uint) (*RedemptionResult, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	// 1. Re-run the evaluation with fresh state
	result, err := s.evaluate(ctx, partnerID, member)
	if err != nil {
		return nil, err
	}

	// 2. The requested offer must be in the catalog and available
	var requested *eligibility.OfferStatus
	for i := range result.Offers {
		if result.Offers[i].OfferID == offerID {
			requested = &result.Offers[i]
			break
		}
	}
	if requested == nil {
		return nil, domain.ErrOfferNotFound
	}
	if !requested.Available {
		return nil, &BlockedOfferError{Status: *requested}
	}

	// 3. Append to the log, stamped with the same clock the engine saw
	event := &models.RedemptionEvent{
		PartnerID:  partnerID,
		MemberID:   memberID,
		OfferID:    offerID,
		OperatorID: operatorID,
		CreatedAt:  s.now(),
	}
	if err := s.redemptionRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Redemption confirmed: member %d, offer %s (partner %d)", memberID, offerID, partnerID)

	// 4. Notify (best effort, async)
	if s.notifier != nil {
		if partner, perr := s.partnerRepo.GetByID(ctx, partnerID); perr == nil {
			s.notifier.NotifyRedemption(ctx, partner, member, event)
		}
	}

	// 5. Return the refreshed statuses
	refreshed, err := s.evaluate(ctx, partnerID, member)
	if err != nil {
		return nil, err
	}

	return &RedemptionResult{
		Event:  event.ToResponse(),
		Offers: refreshed.Offers,
	}, nil
}

// History lists the partner's redemption log, newest first
func (s *ValidationService) History(ctx context.Context, partnerID uint, filter repositories.RedemptionFilter, offset, limit int) ([]*models.RedemptionEventResponse, int64, error) {
	rows, total, err := s.redemptionRepo.ListByPartner(ctx, partnerID, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*models.RedemptionEventResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToResponse())
	}
	return out, total, nil
}

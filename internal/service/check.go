package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/card"
	"cardcheck_api_gateway/internal/classifier"
	"cardcheck_api_gateway/internal/messaging"
	"cardcheck_api_gateway/internal/model"
	"cardcheck_api_gateway/internal/notify"
	"cardcheck_api_gateway/internal/provider"
	"cardcheck_api_gateway/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("invalid or missing credentials")
	ErrForbidden       = errors.New("account is banned")
	ErrInvalidRequest  = errors.New("invalid request")
)

// Status labels for the apiStatus response field.
const (
	apiStatusCharged  = "CHARGED"
	apiStatusDeclined = "DECLINED"
	apiStatusUnknown  = "UNKNOWN"
	apiStatusError    = "ERROR"
)

type CheckService interface {
	Check(ctx context.Context, token string, req *model.CheckRequest) (*model.CheckResult, error)
	GetRecentChecks(ctx context.Context, token string, limit int32) ([]*model.CheckLog, error)
}

type checkService struct {
	users         repository.UserRepository
	checkLogs     repository.CheckLogRepository
	provider      provider.Client
	sink          notify.Sink
	nats          messaging.NATSClient
	defaultAmount float64
	gatewayLabel  string
	logger        *zap.Logger
}

func NewCheckService(
	users repository.UserRepository,
	checkLogs repository.CheckLogRepository,
	providerClient provider.Client,
	sink notify.Sink,
	nats messaging.NATSClient,
	defaultAmount float64,
	gatewayLabel string,
	logger *zap.Logger,
) CheckService {
	return &checkService{
		users:         users,
		checkLogs:     checkLogs,
		provider:      providerClient,
		sink:          sink,
		nats:          nats,
		defaultAmount: defaultAmount,
		gatewayLabel:  gatewayLabel,
		logger:        logger,
	}
}

// Check runs one verification: authenticate, validate, call the
// provider, classify, dispatch alerts and record the outcome. All
// rejections happen before the provider call, so a rejected request has
// no side effects at all. Any other failure anywhere in the flow raises
// a plain-text admin alert and still yields a result with the verdict
// forced to unknown.
func (s *checkService) Check(ctx context.Context, token string, req *model.CheckRequest) (*model.CheckResult, error) {
	result, err := s.check(ctx, token, req)
	if err != nil && !isRejection(err) {
		s.sink.AlertError(ctx, "GATEWAY CHECK ERROR\n"+err.Error())
		if result == nil {
			result = errorResult(err)
		}
	}
	return result, err
}

func (s *checkService) check(ctx context.Context, token string, req *model.CheckRequest) (*model.CheckResult, error) {
	user, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	c, err := card.Parse(req.CC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	amount := s.defaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	amountStr := strconv.FormatFloat(amount, 'f', -1, 64)

	raw, err := s.provider.Check(ctx, amountStr, req.CC)
	if err != nil {
		s.logger.Error("provider check failed", zap.Error(err), zap.String("card", c.Masked()))
		return nil, fmt.Errorf("provider check failed for %s: %w", c.Masked(), err)
	}

	outcome := classifier.Classify(raw)

	resultAmount := amountStr
	if outcome.MCP != nil {
		resultAmount = *outcome.MCP
	}

	s.dispatchAlerts(ctx, req.CC, c, outcome, resultAmount, raw)
	s.recordCheck(ctx, user, c, outcome, resultAmount, raw)

	result := &model.CheckResult{
		Status:      outcome.Verdict,
		APIStatus:   statusLabel(outcome.Verdict),
		APIMessage:  outcome.Message,
		RawResponse: raw,
		MCP:         outcome.MCP,
	}
	if outcome.MCP != nil {
		result.Amount = *outcome.MCP
	} else {
		result.Amount = amount
	}

	s.logger.Info("check completed",
		zap.String("user_id", user.ID),
		zap.String("card", c.Masked()),
		zap.String("verdict", string(outcome.Verdict)))

	return result, nil
}

func (s *checkService) GetRecentChecks(ctx context.Context, token string, limit int32) ([]*model.CheckLog, error) {
	user, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.checkLogs.GetRecentByUser(ctx, user.ID, limit)
}

func (s *checkService) authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByAPIToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve api token: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if user.Status == model.UserStatusBanned {
		return nil, ErrForbidden
	}

	return user, nil
}

// dispatchAlerts fires the side-channel notifications. Live and unknown
// verdicts go to the admin debug channel with the card masked; live
// verdicts additionally go to the charged-card channel with the full
// payload. The sink never errors, so delivery cannot fail the response.
func (s *checkService) dispatchAlerts(ctx context.Context, cc string, c *card.Card, outcome classifier.Outcome, amount, raw string) {
	if outcome.Verdict == model.VerdictLive || outcome.Verdict == model.VerdictUnknown {
		s.sink.AlertAdmin(ctx, c.Masked(), outcome.Verdict, raw)
	}
	if outcome.Verdict == model.VerdictLive {
		s.sink.AlertLiveCard(ctx, cc, outcome.Message, amount, s.gatewayLabel, raw)
	}
}

// recordCheck persists the outcome and mirrors it onto the event
// stream. Both are best effort: the caller's result is already
// computed and failures here are logged only.
func (s *checkService) recordCheck(ctx context.Context, user *model.User, c *card.Card, outcome classifier.Outcome, amount, raw string) {
	log := &model.CheckLog{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		MaskedCard:  c.Masked(),
		Verdict:     outcome.Verdict,
		Message:     outcome.Message,
		Amount:      amount,
		Gateway:     s.gatewayLabel,
		RawResponse: raw,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.checkLogs.Insert(ctx, log); err != nil {
		s.logger.Error("failed to record check", zap.Error(err), zap.String("check_id", log.ID))
	}
	if err := s.nats.PublishCheckCompleted(ctx, log); err != nil {
		s.logger.Error("failed to publish check completed event", zap.Error(err), zap.String("check_id", log.ID))
	}
}

// isRejection reports whether an error is one of the fail-fast
// rejections rather than an internal failure.
func isRejection(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidRequest)
}

// errorResult is the caller-visible shape of an internal failure: the
// verdict is forced to unknown, never omitted.
func errorResult(err error) *model.CheckResult {
	return &model.CheckResult{
		Status:     model.VerdictUnknown,
		APIStatus:  apiStatusError,
		APIMessage: err.Error(),
		MCP:        nil,
	}
}

func statusLabel(v model.Verdict) string {
	switch v {
	case model.VerdictLive:
		return apiStatusCharged
	case model.VerdictDead:
		return apiStatusDeclined
	default:
		return apiStatusUnknown
	}
}

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/infrastructure/messaging/kafka"
)

const MaxBatchSize = 1000

type CaptureService interface {
	Capture(ctx context.Context, cmd *event.CaptureEventCommand, ip string) (*dto.CaptureResponse, error)
	CaptureBatch(ctx context.Context, cmd *event.CaptureBatchCommand, ip string) (*dto.BatchCaptureResponse, error)
}

type captureService struct {
	producer kafka.EventPublisher
	accounts account.AccountRepository
	clock    clockwork.Clock
}

func NewCaptureService(producer kafka.EventPublisher, accounts account.AccountRepository, clock clockwork.Clock) CaptureService {
	return &captureService{
		producer: producer,
		accounts: accounts,
		clock:    clock,
	}
}

func (s *captureService) team(ctx context.Context, apiKey string) (*account.Team, error) {
	if apiKey == "" {
		validationErr := apperror.NewValidationError()
		validationErr.Add(apperror.ErrorDetail{
			Field:   "api_key",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "api_key is required",
		})
		return nil, validationErr
	}

	team, err := s.accounts.TeamByAPIToken(ctx, apiKey)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to resolve team: %w", err)
	}
	return team, nil
}

func (s *captureService) Capture(ctx context.Context, cmd *event.CaptureEventCommand, ip string) (*dto.CaptureResponse, error) {
	team, err := s.team(ctx, cmd.APIKey)
	if err != nil {
		return nil, err
	}

	e := cmd.ToEvent(team.ID, ip, s.clock.Now())
	if err := e.ValidateAll(); err != nil {
		return nil, err
	}
	e.GenerateID()

	if err := s.producer.Publish(ctx, e); err != nil {
		return nil, err
	}

	return &dto.CaptureResponse{
		EventID: e.ID,
		Status:  "queued",
	}, nil
}

func (s *captureService) CaptureBatch(ctx context.Context, cmd *event.CaptureBatchCommand, ip string) (*dto.BatchCaptureResponse, error) {
	if len(cmd.Batch) > MaxBatchSize {
		validationErr := apperror.NewValidationError()
		validationErr.Add(apperror.ErrorDetail{
			Field:   "batch",
			Code:    apperror.ErrCodeValidationMaxLength,
			Message: fmt.Sprintf("batch must have at most %d items", MaxBatchSize),
		})
		return nil, validationErr
	}

	team, err := s.team(ctx, cmd.APIKey)
	if err != nil {
		return nil, err
	}

	response := &dto.BatchCaptureResponse{
		Errors: make([]dto.BatchItemError, 0),
	}

	now := s.clock.Now()
	validEvents := make([]*event.Event, 0, len(cmd.Batch))
	for i := range cmd.Batch {
		e := cmd.Batch[i].ToEvent(team.ID, ip, now)
		if err := e.ValidateAll(); err != nil {
			response.FailedCount++
			response.Errors = append(response.Errors, dto.BatchItemError{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		e.GenerateID()
		validEvents = append(validEvents, e)
	}

	if len(validEvents) > 0 {
		if err := s.producer.PublishBatch(ctx, validEvents); err != nil {
			failed := make(map[int]bool, len(response.Errors))
			for _, itemErr := range response.Errors {
				failed[itemErr.Index] = true
			}
			for i := range cmd.Batch {
				if !failed[i] {
					response.Errors = append(response.Errors, dto.BatchItemError{
						Index: i,
						Error: "failed to publish event",
					})
				}
			}
			response.FailedCount = len(cmd.Batch)
			response.SuccessCount = 0
			return response, nil
		}
	}

	response.SuccessCount = len(validEvents)

	return response, nil
}

package mocks

import (
	"context"
	"time"

	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/domain/trend"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of kafka.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, events []*event.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository is a mock implementation of event.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) InsertBatch(ctx context.Context, events []*event.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context, query *event.ListQuery) ([]*event.Event, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Get(ctx context.Context, teamID int64, id string) (*event.Event, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) Names(ctx context.Context, teamID int64) ([]event.NameCount, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.NameCount), args.Error(1)
}

func (m *MockEventRepository) PropertyKeys(ctx context.Context, teamID int64) ([]event.NameCount, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.NameCount), args.Error(1)
}

func (m *MockEventRepository) PropertyValues(ctx context.Context, teamID int64, key, contains string) ([]event.NameCount, error) {
	args := m.Called(ctx, teamID, key, contains)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.NameCount), args.Error(1)
}

func (m *MockEventRepository) LastSeen(ctx context.Context, teamID int64, distinctIDs []string) (*time.Time, error) {
	args := m.Called(ctx, teamID, distinctIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockActionRepository is a mock implementation of action.ActionRepository
type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) List(ctx context.Context, teamID int64, filter action.ListFilter) ([]*action.Action, error) {
	args := m.Called(ctx, teamID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*action.Action), args.Error(1)
}

func (m *MockActionRepository) Get(ctx context.Context, teamID, id int64) (*action.Action, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*action.Action), args.Error(1)
}

func (m *MockActionRepository) FindByName(ctx context.Context, teamID int64, name string) (*action.Action, error) {
	args := m.Called(ctx, teamID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*action.Action), args.Error(1)
}

func (m *MockActionRepository) Create(ctx context.Context, a *action.Action) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActionRepository) Update(ctx context.Context, a *action.Action, plan action.StepPlan) error {
	args := m.Called(ctx, a, plan)
	return args.Error(0)
}

func (m *MockActionRepository) Delete(ctx context.Context, teamID, id int64) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

// MockEventMatcher is a mock implementation of action.EventMatcher
type MockEventMatcher struct {
	mock.Mock
}

func (m *MockEventMatcher) Count(ctx context.Context, a *action.Action, opts action.MatchOptions) (int64, error) {
	args := m.Called(ctx, a, opts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventMatcher) CountByDay(ctx context.Context, a *action.Action, opts action.MatchOptions) ([]trend.DailyCount, error) {
	args := m.Called(ctx, a, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trend.DailyCount), args.Error(1)
}

func (m *MockEventMatcher) Events(ctx context.Context, a *action.Action, opts action.MatchOptions) ([]*event.Event, error) {
	args := m.Called(ctx, a, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventMatcher) CountByProperty(ctx context.Context, a *action.Action, opts action.MatchOptions, property string) ([]trend.BreakdownEntry, error) {
	args := m.Called(ctx, a, opts, property)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trend.BreakdownEntry), args.Error(1)
}

// MockPersonRepository is a mock implementation of person.PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) List(ctx context.Context, query *person.ListQuery) ([]*person.Person, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*person.Person), args.Error(1)
}

func (m *MockPersonRepository) Get(ctx context.Context, teamID, id int64) (*person.Person, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPersonRepository) GetByDistinctID(ctx context.Context, teamID int64, distinctID string) (*person.Person, error) {
	args := m.Called(ctx, teamID, distinctID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPersonRepository) Create(ctx context.Context, p *person.Person) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPersonRepository) UpdateProperties(ctx context.Context, teamID, id int64, properties map[string]any) (*person.Person, error) {
	args := m.Called(ctx, teamID, id, properties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPersonRepository) Delete(ctx context.Context, teamID, id int64) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockPersonRepository) EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) (int, error) {
	args := m.Called(ctx, teamID, distinctIDs)
	return args.Int(0), args.Error(1)
}

// MockPersonResolver is a mock implementation of person.Resolver
type MockPersonResolver struct {
	mock.Mock
}

func (m *MockPersonResolver) EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) error {
	args := m.Called(ctx, teamID, distinctIDs)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of account.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) TeamByAPIToken(ctx context.Context, token string) (*account.Team, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Team), args.Error(1)
}

func (m *MockAccountRepository) Team(ctx context.Context, id int64) (*account.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Team), args.Error(1)
}

func (m *MockAccountRepository) UserByTemporaryToken(ctx context.Context, token string) (*account.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) UserByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAccountRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CreateTeamWithUser(ctx context.Context, team *account.Team, user *account.User) error {
	args := m.Called(ctx, team, user)
	return args.Error(0)
}

// MockCapturer is a mock implementation of telemetry.Capturer
type MockCapturer struct {
	mock.Mock
}

func (m *MockCapturer) Capture(distinctID, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

// MockCaptureService is a mock implementation of application.CaptureService
type MockCaptureService struct {
	mock.Mock
}

func (m *MockCaptureService) Capture(ctx context.Context, cmd *event.CaptureEventCommand, ip string) (*dto.CaptureResponse, error) {
	args := m.Called(ctx, cmd, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CaptureResponse), args.Error(1)
}

func (m *MockCaptureService) CaptureBatch(ctx context.Context, cmd *event.CaptureBatchCommand, ip string) (*dto.BatchCaptureResponse, error) {
	args := m.Called(ctx, cmd, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchCaptureResponse), args.Error(1)
}

// MockTrendService is a mock implementation of application.TrendService
type MockTrendService struct {
	mock.Mock
}

func (m *MockTrendService) GetTrends(ctx context.Context, teamID int64, query *trend.Query) ([]dto.TrendResponse, error) {
	args := m.Called(ctx, teamID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TrendResponse), args.Error(1)
}

// MockActionService is a mock implementation of application.ActionService
type MockActionService struct {
	mock.Mock
}

func (m *MockActionService) List(ctx context.Context, teamID int64, query *dto.ListActionsQuery) (*dto.ActionListResponse, error) {
	args := m.Called(ctx, teamID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ActionListResponse), args.Error(1)
}

func (m *MockActionService) Get(ctx context.Context, teamID, id int64) (*dto.ActionResponse, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ActionResponse), args.Error(1)
}

func (m *MockActionService) Create(ctx context.Context, user *account.User, cmd *action.CreateActionCommand) (*dto.ActionResponse, error) {
	args := m.Called(ctx, user, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ActionResponse), args.Error(1)
}

func (m *MockActionService) Update(ctx context.Context, teamID, id int64, cmd *action.UpdateActionCommand) (*dto.ActionResponse, error) {
	args := m.Called(ctx, teamID, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ActionResponse), args.Error(1)
}

func (m *MockActionService) Delete(ctx context.Context, teamID, id int64) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

// MockPersonService is a mock implementation of application.PersonService
type MockPersonService struct {
	mock.Mock
}

func (m *MockPersonService) List(ctx context.Context, teamID int64, query *dto.ListPersonsQuery) (*dto.PersonListResponse, error) {
	args := m.Called(ctx, teamID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PersonListResponse), args.Error(1)
}

func (m *MockPersonService) Get(ctx context.Context, teamID, id int64, includeLastEvent bool) (*dto.PersonResponse, error) {
	args := m.Called(ctx, teamID, id, includeLastEvent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PersonResponse), args.Error(1)
}

func (m *MockPersonService) GetByDistinctID(ctx context.Context, teamID int64, distinctID string, includeLastEvent bool) (*dto.PersonResponse, error) {
	args := m.Called(ctx, teamID, distinctID, includeLastEvent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PersonResponse), args.Error(1)
}

func (m *MockPersonService) Create(ctx context.Context, teamID int64, cmd *person.CreatePersonCommand) (*dto.PersonResponse, error) {
	args := m.Called(ctx, teamID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PersonResponse), args.Error(1)
}

func (m *MockPersonService) Update(ctx context.Context, teamID, id int64, cmd *person.UpdatePersonCommand) (*dto.PersonResponse, error) {
	args := m.Called(ctx, teamID, id, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PersonResponse), args.Error(1)
}

func (m *MockPersonService) Delete(ctx context.Context, teamID, id int64) error {
	args := m.Called(ctx, teamID, id)
	return args.Error(0)
}

func (m *MockPersonService) EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) error {
	args := m.Called(ctx, teamID, distinctIDs)
	return args.Error(0)
}

// MockEventService is a mock implementation of application.EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context, teamID int64, params map[string]string) (*dto.EventListResponse, error) {
	args := m.Called(ctx, teamID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventListResponse), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, teamID int64, id string) (*dto.EventDetailResponse, error) {
	args := m.Called(ctx, teamID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventDetailResponse), args.Error(1)
}

func (m *MockEventService) Names(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NameCountResponse), args.Error(1)
}

func (m *MockEventService) Properties(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NameCountResponse), args.Error(1)
}

func (m *MockEventService) Values(ctx context.Context, teamID int64, key, contains string) ([]dto.NameCountResponse, error) {
	args := m.Called(ctx, teamID, key, contains)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NameCountResponse), args.Error(1)
}

// MockAuthService is a mock implementation of application.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) AuthenticateToken(ctx context.Context, token string) (*account.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAuthService) AuthenticateBasic(ctx context.Context, email, password string) (*account.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *MockAuthService) Bootstrap(ctx context.Context, email, password, teamName string) (*account.User, error) {
	args := m.Called(ctx, email, password, teamName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

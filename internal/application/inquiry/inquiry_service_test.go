package inquiry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/sanitize"
)

// MockInquiryRepository is a mock implementation of inquiry.InquiryRepository
type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) Create(ctx context.Context, inq *inquiry.Inquiry) error {
	args := m.Called(ctx, inq)
	return args.Error(0)
}

func (m *MockInquiryRepository) Update(ctx context.Context, inq *inquiry.Inquiry) error {
	args := m.Called(ctx, inq)
	return args.Error(0)
}

func (m *MockInquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inquiry.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inquiry.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) FindAll(ctx context.Context, filter inquiry.InquiryFilter) ([]*inquiry.Inquiry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*inquiry.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInquiryRepository) CountByStatus(ctx context.Context, status inquiry.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInquiryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeNotifier records which emails were attempted
type fakeNotifier struct {
	notifications int
	confirmations int
	deliver       bool
}

func (f *fakeNotifier) SendInquiryNotification(*inquiry.Inquiry) bool {
	f.notifications++
	return f.deliver
}

func (f *fakeNotifier) SendInquiryConfirmation(*inquiry.Inquiry) bool {
	f.confirmations++
	return f.deliver
}

func createInquiryService(repo *MockInquiryRepository, notifier Notifier) *InquiryService {
	return NewInquiryService(repo, sanitize.New(), notifier, zap.NewNop())
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:     "Dana Smith",
		Email:    "dana@example.com",
		Phone:    "+1 (555) 010-2233",
		Message:  "I would like a quote for a garden redesign.",
		SourceIP: "198.51.100.7",
	}
}

func TestInquiryService_Submit_CreatesNewRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)
	notifier := &fakeNotifier{deliver: true}

	var saved *inquiry.Inquiry
	repo.On("Create", ctx, mock.AnythingOfType("*inquiry.Inquiry")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*inquiry.Inquiry) }).
		Return(nil)

	dto, err := createInquiryService(repo, notifier).Submit(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, "new", dto.Status)
	assert.Equal(t, inquiry.StatusNew, saved.Status)
	assert.Equal(t, 1, notifier.notifications)
	assert.Equal(t, 1, notifier.confirmations)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestInquiryService_Submit_StripsMarkup(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	var saved *inquiry.Inquiry
	repo.On("Create", ctx, mock.AnythingOfType("*inquiry.Inquiry")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*inquiry.Inquiry) }).
		Return(nil)

	input := validInput()
	input.Message = `Please call me <script>alert("x")</script> about the hedges soon.`

	_, err := createInquiryService(repo, &fakeNotifier{deliver: true}).Submit(ctx, input)

	require.NoError(t, err)
	assert.NotContains(t, saved.Message, "<script>")
	assert.Contains(t, saved.Message, "about the hedges")
}

func TestInquiryService_Submit_MailFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)
	notifier := &fakeNotifier{deliver: false}

	repo.On("Create", ctx, mock.AnythingOfType("*inquiry.Inquiry")).Return(nil)

	dto, err := createInquiryService(repo, notifier).Submit(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, "new", dto.Status)
	assert.Equal(t, 1, notifier.notifications)
}

func TestInquiryService_Submit_ValidationFailureSkipsStorage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	input := validInput()
	input.Message = "too short"

	_, err := createInquiryService(repo, &fakeNotifier{}).Submit(ctx, input)

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func newStoredInquiry(t *testing.T) *inquiry.Inquiry {
	t.Helper()
	inq, err := inquiry.NewInquiry("Dana Smith", "dana@example.com", "",
		"I would like a quote for a garden redesign.", "198.51.100.7")
	require.NoError(t, err)
	return inq
}

func TestInquiryService_GetByID_MarksNewAsRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	inq := newStoredInquiry(t)
	repo.On("FindByID", ctx, inq.ID).Return(inq, nil)
	repo.On("Update", ctx, inq).Return(nil)

	dto, err := createInquiryService(repo, nil).GetByID(ctx, inq.ID)

	require.NoError(t, err)
	assert.Equal(t, "read", dto.Status)
	repo.AssertExpectations(t)
}

func TestInquiryService_GetByID_RespondedStaysResponded(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	inq := newStoredInquiry(t)
	inq.MarkResponded()
	repo.On("FindByID", ctx, inq.ID).Return(inq, nil)

	dto, err := createInquiryService(repo, nil).GetByID(ctx, inq.ID)

	require.NoError(t, err)
	assert.Equal(t, "responded", dto.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInquiryService_Update_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	inq := newStoredInquiry(t)
	repo.On("FindByID", ctx, inq.ID).Return(inq, nil)

	status := "archived"
	_, err := createInquiryService(repo, nil).Update(ctx, UpdateInput{ID: inq.ID, Status: &status})

	assert.Error(t, err)
}

func TestInquiryService_CountNew(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	repo.On("CountByStatus", ctx, inquiry.StatusNew).Return(int64(7), nil)

	n, err := createInquiryService(repo, nil).CountNew(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestInquiryService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInquiryRepository)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := createInquiryService(repo, nil).GetByID(ctx, id)

	require.Error(t, err)
	assert.Equal(t, "INQUIRY_NOT_FOUND", err.(*shared.DomainError).Code)
}

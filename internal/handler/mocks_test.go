package handler_test

import (
	"context"
	"io"

	"backoffice/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SearchByName(ctx context.Context, name string) ([]model.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]model.User), args.Error(1)
}

type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error {
	args := m.Called(ctx, meeting, participants)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id uint) (*model.Meeting, error) {
	args := m.Called(ctx, id)
	meeting := args.Get(0)
	if meeting == nil {
		return nil, args.Error(1)
	}
	return meeting.(*model.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) List(ctx context.Context, status string) ([]model.Meeting, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *model.Meeting, participants []model.MeetingParticipant) error {
	args := m.Called(ctx, meeting, participants)
	return args.Error(0)
}

func (m *MockMeetingRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMeetingRepository) SaveNotes(ctx context.Context, id uint, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockMeetingRepository) SaveAttachment(ctx context.Context, id uint, path, link string) error {
	args := m.Called(ctx, id, path, link)
	return args.Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error {
	args := m.Called(ctx, project, userIDs, tasks)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	args := m.Called(ctx, id)
	project := args.Get(0)
	if project == nil {
		return nil, args.Error(1)
	}
	return project.(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, search, status string) ([]model.Project, error) {
	args := m.Called(ctx, search, status)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error {
	args := m.Called(ctx, project, userIDs, tasks)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveAttachment(ctx context.Context, id uint, path, link string) error {
	args := m.Called(ctx, id, path, link)
	return args.Error(0)
}

func (m *MockProjectRepository) ClearAttachment(ctx context.Context, id uint, kind string) error {
	args := m.Called(ctx, id, kind)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMeetClient struct {
	mock.Mock
}

func (m *MockMeetClient) UpdateEvent(ctx context.Context, meeting *model.Meeting) (bool, string) {
	args := m.Called(ctx, meeting)
	return args.Bool(0), args.String(1)
}

func (m *MockMeetClient) DeleteEvent(ctx context.Context, eventID string) (bool, string) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.String(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRatingInvitation(meeting *model.Meeting, emails []string) error {
	args := m.Called(meeting, emails)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(namespace, filename string, r io.Reader) (string, error) {
	args := m.Called(namespace, filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Exists(ref string) bool {
	args := m.Called(ref)
	return args.Bool(0)
}

func (m *MockStore) Delete(ref string) error {
	args := m.Called(ref)
	return args.Error(0)
}

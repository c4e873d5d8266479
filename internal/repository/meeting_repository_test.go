package repository_test

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func testMeeting() *model.Meeting {
	return &model.Meeting{
		Title:     "Sprint review",
		Type:      model.MeetingOffline,
		Agenda:    "Review sprint results",
		Place:     "Room 2",
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    model.MeetingScheduled,
	}
}

func TestMeetingRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	meeting := testMeeting()
	participants := []model.MeetingParticipant{
		{UserID: 1, Role: model.RoleAttendee},
		{UserID: 2, Role: model.RoleAttendee},
		{UserID: 1, Role: model.RolePIC},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "meetings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "meeting_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectCommit()

	// Act
	err := meetingRepo.Create(context.Background(), meeting, participants)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(7), meeting.ID)
	for _, p := range participants {
		assert.Equal(t, uint(7), p.MeetingID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_Update_ReplacesParticipants(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	meeting := testMeeting()
	meeting.ID = 7
	participants := []model.MeetingParticipant{
		{UserID: 3, Role: model.RoleAttendee},
		{UserID: 4, Role: model.RolePIC},
	}

	// One transaction: field update, wholesale delete, re-insert
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "meetings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "meeting_participants" WHERE meeting_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "meeting_participants"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectCommit()

	// Act
	err := meetingRepo.Update(context.Background(), meeting, participants)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_UpdateStatus_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "meetings" SET "status"=.*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := meetingRepo.UpdateStatus(context.Background(), 99, model.MeetingCompleted)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMeetingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_SaveAttachment_OnlyProvidedParts(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "meetings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act: link only, the path column must be left alone
	err := meetingRepo.SaveAttachment(context.Background(), 7, "", "https://example.com/minutes.pdf")

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_Delete(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "meeting_participants" WHERE meeting_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "meetings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := meetingRepo.Delete(context.Background(), 7)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	meetingRepo := repository.NewMeetingRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "meeting_participants" WHERE meeting_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "meetings"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Act
	err := meetingRepo.Delete(context.Background(), 99)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMeetingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

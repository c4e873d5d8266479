package handler

import (
	"fmt"
	"net/http"
	"time"

	"backoffice/internal/integration"
	"backoffice/internal/model"
	"backoffice/internal/notify"
	"backoffice/internal/repository"
	"backoffice/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

type MeetingHandler struct {
	meetingRepo repository.MeetingRepositoryInterface
	userRepo    repository.UserRepositoryInterface
	meet        integration.MeetClient
	notifier    notify.Notifier
	store       storage.Store
}

func NewMeetingHandler(
	meetingRepo repository.MeetingRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	meet integration.MeetClient,
	notifier notify.Notifier,
	store storage.Store,
) *MeetingHandler {
	return &MeetingHandler{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		meet:        meet,
		notifier:    notifier,
		store:       store,
	}
}

// MeetingRequest carries a meeting submission. Participants and PICs are
// separate lists; both end up as participant rows with their own role.
type MeetingRequest struct {
	Title        string `json:"title" binding:"required"`
	Type         string `json:"type" binding:"required,oneof=offline online"`
	MeetLink     string `json:"meet_link" binding:"omitempty,url"`
	EventID      string `json:"event_id"`
	Agenda       string `json:"agenda" binding:"required"`
	Place        string `json:"place"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Notes        string `json:"notes"`
	Status       string `json:"status" binding:"omitempty,oneof=scheduled completed"`
	Participants []uint `json:"participants" binding:"required,min=1"`
	PICs         []uint `json:"pics" binding:"required,min=1"`
}

type ParticipantResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type MeetingResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Type           string                `json:"type"`
	MeetLink       string                `json:"meet_link,omitempty"`
	EventID        string                `json:"event_id,omitempty"`
	Agenda         string                `json:"agenda"`
	Place          string                `json:"place,omitempty"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	StartTime      string                `json:"start_time"`
	EndTime        string                `json:"end_time"`
	Notes          string                `json:"notes,omitempty"`
	Status         string                `json:"status"`
	AttachmentPath string                `json:"attachment_path,omitempty"`
	AttachmentLink string                `json:"attachment_link,omitempty"`
	Participants   []ParticipantResponse `json:"participants"`
}

type meetingDates struct {
	start time.Time
	end   time.Time
}

// validateMeetingFields checks everything binding tags cannot: date and time
// parsing plus the end-after-start ordering.
func validateMeetingFields(req *MeetingRequest) (meetingDates, *multierror.Error) {
	var errs *multierror.Error
	var dates meetingDates

	start, err := parseDate(req.StartDate)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("start_date must be a valid date (YYYY-MM-DD)"))
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("end_date must be a valid date (YYYY-MM-DD)"))
	}
	startClock, err := time.Parse(clockLayout, req.StartTime)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("start_time must be a valid time (HH:MM)"))
	}
	endClock, err := time.Parse(clockLayout, req.EndTime)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("end_time must be a valid time (HH:MM)"))
	}
	if errs.ErrorOrNil() != nil {
		return dates, errs
	}

	if end.Before(start) {
		errs = multierror.Append(errs, fmt.Errorf("end_date must be on or after start_date"))
	} else if end.Equal(start) && !endClock.After(startClock) {
		errs = multierror.Append(errs, fmt.Errorf("end_time must be after start_time"))
	}

	dates.start = start
	dates.end = end
	return dates, errs
}

// participantRows builds one row per submitted list entry. The lists are not
// deduplicated against each other: a user in both lists gets an attendee row
// and a pic row.
func participantRows(participants, pics []uint, users []model.User) []model.MeetingParticipant {
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := make([]model.MeetingParticipant, 0, len(participants)+len(pics))
	for _, id := range participants {
		rows = append(rows, model.MeetingParticipant{UserID: id, Role: model.RoleAttendee, User: byID[id]})
	}
	for _, id := range pics {
		rows = append(rows, model.MeetingParticipant{UserID: id, Role: model.RolePIC, User: byID[id]})
	}
	return rows
}

func distinctEmails(users []model.User) []string {
	emails := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if _, ok := seen[u.Email]; ok {
			continue
		}
		seen[u.Email] = struct{}{}
		emails = append(emails, u.Email)
	}
	return emails
}

// Create validates the submission, persists the meeting with its participant
// rows and best-effort sends the rating invitation to every distinct email.
// A failed send is logged and does not undo the creation.
func (h *MeetingHandler) Create(c *gin.Context) {
	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	dates, verrs := validateMeetingFields(&req)

	users, missing, err := lookupUsers(c.Request.Context(), h.userRepo, append(append([]uint{}, req.Participants...), req.PICs...))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify participants"})
		return
	}
	for _, id := range missing {
		verrs = multierror.Append(verrs, fmt.Errorf("user %d does not exist", id))
	}
	if verrs.ErrorOrNil() != nil {
		respondValidationErrors(c, verrs)
		return
	}

	meeting := &model.Meeting{
		Title:     req.Title,
		Type:      req.Type,
		MeetLink:  req.MeetLink,
		EventID:   req.EventID,
		Agenda:    req.Agenda,
		Place:     req.Place,
		StartDate: dates.start,
		EndDate:   dates.end,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		Status:    model.MeetingScheduled,
	}
	participants := participantRows(req.Participants, req.PICs, users)

	if err := h.meetingRepo.Create(c.Request.Context(), meeting, participants); err != nil {
		zap.L().Error("Failed to create meeting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	if err := h.notifier.SendRatingInvitation(meeting, distinctEmails(users)); err != nil {
		zap.L().Error("Failed to send rating invitations",
			zap.Uint("meetingID", meeting.ID), zap.Error(err))
	}

	meeting.Participants = participants
	c.JSON(http.StatusCreated, toMeetingResponse(meeting))
}

func (h *MeetingHandler) GetAll(c *gin.Context) {
	meetings, err := h.meetingRepo.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meetings"})
		return
	}

	out := make([]MeetingResponse, 0, len(meetings))
	for i := range meetings {
		out = append(out, toMeetingResponse(&meetings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *MeetingHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	meeting, err := h.meetingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		}
		return
	}
	c.JSON(http.StatusOK, toMeetingResponse(meeting))
}

// Update re-validates the full submission. For an online meeting that
// already has a remote event, the collaborator is called first; if it
// reports failure the update is aborted before anything is written, and the
// collaborator's message is surfaced as-is.
func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	meeting, err := h.meetingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		}
		return
	}

	var req MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	dates, verrs := validateMeetingFields(&req)
	if req.Status == "" {
		verrs = multierror.Append(verrs, fmt.Errorf("status is required"))
	}

	users, missing, err := lookupUsers(c.Request.Context(), h.userRepo, append(append([]uint{}, req.Participants...), req.PICs...))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify participants"})
		return
	}
	for _, id := range missing {
		verrs = multierror.Append(verrs, fmt.Errorf("user %d does not exist", id))
	}
	if verrs.ErrorOrNil() != nil {
		respondValidationErrors(c, verrs)
		return
	}

	// The stored type and event id decide whether the collaborator is
	// involved, not the submitted ones.
	if meeting.Type == model.MeetingOnline && meeting.EventID != "" {
		candidate := *meeting
		applyMeetingRequest(&candidate, &req, dates)
		candidate.EventID = meeting.EventID

		if ok, msg := h.meet.UpdateEvent(c.Request.Context(), &candidate); !ok {
			zap.L().Error("Failed to update meeting event",
				zap.Uint("meetingID", meeting.ID), zap.String("message", msg))
			c.JSON(http.StatusBadGateway, gin.H{"error": msg})
			return
		}
	}

	applyMeetingRequest(meeting, &req, dates)
	participants := participantRows(req.Participants, req.PICs, users)

	if err := h.meetingRepo.Update(c.Request.Context(), meeting, participants); err != nil {
		zap.L().Error("Failed to update meeting", zap.Uint("meetingID", meeting.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meeting"})
		return
	}

	meeting.Participants = participants
	c.JSON(http.StatusOK, toMeetingResponse(meeting))
}

func applyMeetingRequest(meeting *model.Meeting, req *MeetingRequest, dates meetingDates) {
	meeting.Title = req.Title
	meeting.Type = req.Type
	meeting.MeetLink = req.MeetLink
	if req.EventID != "" {
		meeting.EventID = req.EventID
	}
	meeting.Agenda = req.Agenda
	meeting.Place = req.Place
	meeting.StartDate = dates.start
	meeting.EndDate = dates.end
	meeting.StartTime = req.StartTime
	meeting.EndTime = req.EndTime
	meeting.Notes = req.Notes
	if req.Status != "" {
		meeting.Status = req.Status
	}
}

// UploadAttachment accepts exactly one of a file or a link. The previous
// attachment reference is overwritten, not replaced atomically.
func (h *MeetingHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.meetingRepo.GetByID(c.Request.Context(), id); err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		}
		return
	}

	file, fileErr := c.FormFile("attachment")
	link := c.PostForm("attachment_link")
	hasFile := fileErr == nil && file != nil

	if !hasFile && link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload a file or provide a link first"})
		return
	}
	if hasFile && link != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either a file or a link, not both"})
		return
	}

	var ref string
	if hasFile {
		if file.Size > maxAttachmentSize {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "File may not be larger than 2MB"})
			return
		}
		if !allowedAttachmentExt(file.Filename) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "File must be a PDF, JPG, JPEG or PNG"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		defer src.Close()

		ref, err = h.store.Save("meeting-attachments", file.Filename, src)
		if err != nil {
			zap.L().Error("Failed to store attachment", zap.Uint("meetingID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
			return
		}
	} else if !isURL(link) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Attachment link must be a valid URL"})
		return
	}

	if err := h.meetingRepo.SaveAttachment(c.Request.Context(), id, ref, link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment uploaded"})
}

func (h *MeetingHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.meetingRepo.UpdateStatus(c.Request.Context(), id, model.MeetingCompleted); err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete meeting"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meeting completed"})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// SaveNotes overwrites the notes field unconditionally.
func (h *MeetingHandler) SaveNotes(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.meetingRepo.SaveNotes(c.Request.Context(), id, req.Notes); err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save notes"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes saved"})
}

// Delete removes a meeting and its participants. For an online meeting with
// a remote event the collaborator must succeed first; otherwise nothing is
// deleted.
func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	meeting, err := h.meetingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrMeetingNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		}
		return
	}

	if meeting.Type == model.MeetingOnline && meeting.EventID != "" {
		if ok, msg := h.meet.DeleteEvent(c.Request.Context(), meeting.EventID); !ok {
			zap.L().Error("Failed to delete meeting event",
				zap.Uint("meetingID", meeting.ID), zap.String("message", msg))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete meeting event: " + msg})
			return
		}
	}

	if err := h.meetingRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete meeting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted"})
}

func toMeetingResponse(meeting *model.Meeting) MeetingResponse {
	resp := MeetingResponse{
		ID:             meeting.ID,
		Title:          meeting.Title,
		Type:           meeting.Type,
		MeetLink:       meeting.MeetLink,
		EventID:        meeting.EventID,
		Agenda:         meeting.Agenda,
		Place:          meeting.Place,
		StartDate:      formatDate(meeting.StartDate),
		EndDate:        formatDate(meeting.EndDate),
		StartTime:      meeting.StartTime,
		EndTime:        meeting.EndTime,
		Notes:          meeting.Notes,
		Status:         meeting.Status,
		AttachmentPath: meeting.AttachmentPath,
		AttachmentLink: meeting.AttachmentLink,
		Participants:   make([]ParticipantResponse, 0, len(meeting.Participants)),
	}
	for _, p := range meeting.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			UserID: p.UserID,
			Name:   p.User.Name,
			Email:  p.User.Email,
			Role:   p.Role,
		})
	}
	return resp
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectRepo repository.ProjectRepositoryInterface
	userRepo    repository.UserRepositoryInterface
	store       storage.Store
}

func NewProjectHandler(
	projectRepo repository.ProjectRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	store storage.Store,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		store:       store,
	}
}

// TaskPayload is one task entry in a project submission. An entry with an id
// updates the existing task; without one it creates a new task.
type TaskPayload struct {
	ID          uint   `json:"id"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required,oneof=pending in_progress done"`
	DueDate     string `json:"due_date"`
}

type ProjectRequest struct {
	Name         string        `json:"name" binding:"required,max=255"`
	Description  string        `json:"description"`
	Status       string        `json:"status" binding:"required,oneof=pending in_progress completed"`
	Deadline     string        `json:"deadline"`
	Participants []uint        `json:"participants" binding:"required,min=1"`
	Tasks        []TaskPayload `json:"tasks" binding:"omitempty,dive"`
}

type TaskResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date,omitempty"`
}

type ProjectResponse struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Status         string         `json:"status"`
	Deadline       string         `json:"deadline,omitempty"`
	AttachmentPath string         `json:"attachment_path,omitempty"`
	AttachmentLink string         `json:"attachment_link,omitempty"`
	Participants   []UserResponse `json:"participants"`
	Tasks          []TaskResponse `json:"tasks"`
	CreatedAt      string         `json:"created_at"`
}

// buildTasks turns payloads into task models, reporting per-entry date
// errors into errs.
func buildTasks(payloads []TaskPayload, errs *multierror.Error) ([]model.Task, *multierror.Error) {
	tasks := make([]model.Task, 0, len(payloads))
	for i, p := range payloads {
		task := model.Task{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Status:      p.Status,
		}
		if p.DueDate != "" {
			due, err := parseDate(p.DueDate)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("tasks[%d].due_date must be a valid date (YYYY-MM-DD)", i))
				continue
			}
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}
	return tasks, errs
}

func (h *ProjectHandler) checkParticipants(c *gin.Context, ids []uint, errs *multierror.Error) (*multierror.Error, bool) {
	_, missing, err := lookupUsers(c.Request.Context(), h.userRepo, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify participants"})
		return errs, false
	}
	for _, id := range missing {
		errs = multierror.Append(errs, fmt.Errorf("user %d does not exist", id))
	}
	return errs, true
}

// Create validates the submission (including name uniqueness and the
// deadline-not-in-the-past rule, which applies at creation only) and persists
// the project with its participants and tasks.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var verrs *multierror.Error
	if req.Description == "" {
		verrs = multierror.Append(verrs, fmt.Errorf("description is required"))
	}

	var deadline *time.Time
	if req.Deadline == "" {
		verrs = multierror.Append(verrs, fmt.Errorf("deadline is required"))
	} else if d, err := parseDate(req.Deadline); err != nil {
		verrs = multierror.Append(verrs, fmt.Errorf("deadline must be a valid date (YYYY-MM-DD)"))
	} else if d.Before(today()) {
		verrs = multierror.Append(verrs, fmt.Errorf("deadline must be today or later"))
	} else {
		deadline = &d
	}

	exists, err := h.projectRepo.NameExists(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check project name"})
		return
	}
	if exists {
		verrs = multierror.Append(verrs, fmt.Errorf("a project with this name already exists"))
	}

	verrs, ok := h.checkParticipants(c, req.Participants, verrs)
	if !ok {
		return
	}

	var tasks []model.Task
	tasks, verrs = buildTasks(req.Tasks, verrs)
	for i, t := range tasks {
		if t.ID != 0 {
			verrs = multierror.Append(verrs, fmt.Errorf("tasks[%d] must not carry an id on creation", i))
		}
	}

	if verrs.ErrorOrNil() != nil {
		respondValidationErrors(c, verrs)
		return
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    deadline,
	}

	if err := h.projectRepo.Create(c.Request.Context(), project, req.Participants, tasks); err != nil {
		zap.L().Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	created, err := h.projectRepo.GetByID(c.Request.Context(), project.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	c.JSON(http.StatusCreated, toProjectResponse(created))
}

func (h *ProjectHandler) GetAll(c *gin.Context) {
	projects, err := h.projectRepo.List(c.Request.Context(), c.Query("search"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update runs the reconciliation routine: scalar fields are replaced, the
// participant set is diffed rather than rebuilt, and the submitted task list
// becomes the project's exact task list while surviving tasks keep their
// identity. Unlike creation, the deadline may be in the past and the name is
// not re-checked for uniqueness.
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var verrs *multierror.Error

	var deadline *time.Time
	if req.Deadline != "" {
		if d, err := parseDate(req.Deadline); err != nil {
			verrs = multierror.Append(verrs, fmt.Errorf("deadline must be a valid date (YYYY-MM-DD)"))
		} else {
			deadline = &d
		}
	}

	verrs, ok = h.checkParticipants(c, req.Participants, verrs)
	if !ok {
		return
	}

	var tasks []model.Task
	tasks, verrs = buildTasks(req.Tasks, verrs)

	if verrs.ErrorOrNil() != nil {
		respondValidationErrors(c, verrs)
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Status = req.Status
	project.Deadline = deadline

	if err := h.projectRepo.Update(c.Request.Context(), project, req.Participants, tasks); err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Task does not belong to this project"})
			return
		}
		zap.L().Error("Failed to update project", zap.Uint("projectID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	updated, err := h.projectRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(updated))
}

// UploadAttachment accepts a file, a link, or both in one submission, each
// overwriting its own slot.
func (h *ProjectHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.projectRepo.GetByID(c.Request.Context(), id); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
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
	// Validate the link before writing anything to the store, so a bad link
	// cannot leave an orphaned file behind.
	if link != "" && !isURL(link) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Attachment link must be a valid URL"})
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

		ref, err = h.store.Save("attachments", file.Filename, src)
		if err != nil {
			zap.L().Error("Failed to store attachment", zap.Uint("projectID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
			return
		}
	}

	if err := h.projectRepo.SaveAttachment(c.Request.Context(), id, ref, link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment uploaded"})
}

type deleteAttachmentRequest struct {
	Type string `json:"type" binding:"required,oneof=file link"`
}

// DeleteAttachment clears one attachment slot; for files the stored object
// is removed from the attachment store before the reference is cleared.
func (h *ProjectHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var req deleteAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: type must be file or link"})
		return
	}

	if req.Type == "file" && project.AttachmentPath != "" && h.store.Exists(project.AttachmentPath) {
		if err := h.store.Delete(project.AttachmentPath); err != nil {
			zap.L().Error("Failed to delete stored attachment",
				zap.Uint("projectID", id), zap.String("ref", project.AttachmentPath), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachment"})
			return
		}
	}

	if err := h.projectRepo.ClearAttachment(c.Request.Context(), id, req.Type); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attachment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.projectRepo.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrProjectNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			zap.L().Error("Failed to delete project", zap.Uint("projectID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func toProjectResponse(project *model.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Status:         project.Status,
		AttachmentPath: project.AttachmentPath,
		AttachmentLink: project.AttachmentLink,
		Participants:   toUserResponses(project.Users),
		Tasks:          make([]TaskResponse, 0, len(project.Tasks)),
		CreatedAt:      project.CreatedAt.Format(time.RFC3339),
	}
	if project.Deadline != nil {
		resp.Deadline = formatDate(*project.Deadline)
	}
	for _, t := range project.Tasks {
		tr := TaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
		}
		if t.DueDate != nil {
			tr.DueDate = formatDate(*t.DueDate)
		}
		resp.Tasks = append(resp.Tasks, tr)
	}
	return resp
}

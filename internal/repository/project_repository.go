package repository

import (
	"context"
	"errors"

	"backoffice/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	List(ctx context.Context, search, status string) ([]model.Project, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error
	SaveAttachment(ctx context.Context, id uint, path, link string) error
	ClearAttachment(ctx context.Context, id uint, kind string) error
	Delete(ctx context.Context, id uint) error
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists the project, attaches the participants (set semantics, so
// duplicate ids collapse to one row) and creates the submitted tasks, all in
// one transaction.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		links := make([]model.ProjectUser, 0, len(userIDs))
		seen := make(map[uint]struct{}, len(userIDs))
		for _, id := range userIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, model.ProjectUser{ProjectID: project.ID, UserID: id})
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		for i := range tasks {
			tasks[i].ProjectID = project.ID
		}
		if len(tasks) > 0 {
			if err := tx.Omit(clause.Associations).Create(&tasks).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Tasks").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns projects with participants and tasks eagerly loaded, newest
// first. search matches the name case-insensitively; status matches exactly.
func (r *ProjectRepository) List(ctx context.Context, search, status string) ([]model.Project, error) {
	var projects []model.Project
	query := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Tasks")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Update runs the reconciliation routine in one transaction:
//
//  1. scalar fields are written unconditionally;
//  2. the participant set is synchronized by diff — newly listed users are
//     inserted, absent ones removed, surviving rows untouched so their
//     created_at (date joined) is preserved;
//  3. tasks carrying an id are updated in place, tasks without an id are
//     created, and whatever pre-update task id was not touched is deleted.
//
// A task id that does not belong to this project fails the whole update with
// ErrTaskNotFound.
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project, userIDs []uint, tasks []model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Project{}).Where("id = ?", project.ID).Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"deadline":    project.Deadline,
		}).Error; err != nil {
			return err
		}

		if err := syncParticipants(tx, project.ID, userIDs); err != nil {
			return err
		}
		return reconcileTasks(tx, project.ID, tasks)
	})
}

func syncParticipants(tx *gorm.DB, projectID uint, userIDs []uint) error {
	var current []model.ProjectUser
	if err := tx.Where("project_id = ?", projectID).Find(&current).Error; err != nil {
		return err
	}

	want := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}
	have := make(map[uint]struct{}, len(current))
	for _, link := range current {
		have[link.UserID] = struct{}{}
	}

	var added []model.ProjectUser
	for id := range want {
		if _, ok := have[id]; !ok {
			added = append(added, model.ProjectUser{ProjectID: projectID, UserID: id})
		}
	}
	var removed []uint
	for id := range have {
		if _, ok := want[id]; !ok {
			removed = append(removed, id)
		}
	}

	if len(added) > 0 {
		if err := tx.Create(&added).Error; err != nil {
			return err
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("project_id = ? AND user_id IN ?", projectID, removed).
			Delete(&model.ProjectUser{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func reconcileTasks(tx *gorm.DB, projectID uint, tasks []model.Task) error {
	var existingIDs []uint
	if err := tx.Model(&model.Task{}).Where("project_id = ?", projectID).
		Pluck("id", &existingIDs).Error; err != nil {
		return err
	}
	existing := make(map[uint]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	touched := make(map[uint]struct{}, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if task.ID != 0 {
			if _, ok := existing[task.ID]; !ok {
				return ErrTaskNotFound
			}
			if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
				"title":       task.Title,
				"status":      task.Status,
				"description": task.Description,
				"due_date":    task.DueDate,
			}).Error; err != nil {
				return err
			}
		} else {
			task.ProjectID = projectID
			if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
				return err
			}
		}
		touched[task.ID] = struct{}{}
	}

	var toDelete []uint
	for _, id := range existingIDs {
		if _, ok := touched[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	if len(toDelete) > 0 {
		if err := tx.Where("id IN ?", toDelete).Delete(&model.Task{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectRepository) SaveAttachment(ctx context.Context, id uint, path, link string) error {
	updates := map[string]interface{}{}
	if path != "" {
		updates["attachment_path"] = path
	}
	if link != "" {
		updates["attachment_link"] = link
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// ClearAttachment clears one attachment slot. kind is "file" or "link"; the
// stored file itself is removed by the caller before the reference is
// cleared.
func (r *ProjectRepository) ClearAttachment(ctx context.Context, id uint, kind string) error {
	column := "attachment_link"
	if kind == "file" {
		column = "attachment_path"
	}
	result := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		Update(column, "")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Delete removes the project together with its tasks and participant links.
// The schema also declares cascades, but the transaction does not rely on
// them.
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectUser{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Project{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}

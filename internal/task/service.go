package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/apperr"
	"github.com/zulandar/tasktrail/internal/models"
	"github.com/zulandar/tasktrail/internal/tree"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CloneSuffix is appended to the title of a cloned task.
const CloneSuffix = " (Copy)"

// CreateInput holds parameters for creating a task.
type CreateInput struct {
	Title               string
	Description         *string
	ParentTaskID        *string
	Priority            *models.Priority
	PredictedFinishDate *time.Time
}

// View is a task together with its association sets.
type View struct {
	models.Task
	PossibleStatusIDs []string
	AssigneeIDs       []string
	LabelIDs          []string
	SubtaskCount      int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp mutations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCommitHook registers fn to receive the entries of every committed
// mutation.
func WithCommitHook(fn func([]models.ActivityLog)) Option {
	return func(s *Service) { s.hooks = append(s.hooks, fn) }
}

// Service is the task mutation engine.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	now   func() time.Time
	hooks []func([]models.ActivityLog)
}

// NewService returns a Service writing to db.
func NewService(db *gorm.DB, log *zap.Logger, opts ...Option) *Service {
	s := &Service{db: db, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// mutate runs fn and the activity entries it records in one transaction.
func (s *Service) mutate(ctx context.Context, actor, op string, fn func(tx *gorm.DB, rec *activity.Recorder) error) error {
	rec := activity.NewRecorder(actor, s.now())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx, rec); err != nil {
			return err
		}
		return activity.AppendBatch(tx, rec.Entries())
	})
	if err != nil {
		return err
	}

	s.log.Debug("task mutation committed",
		zap.String("op", op),
		zap.String("actor", actor),
		zap.Int("entries", rec.Len()),
	)
	for _, hook := range s.hooks {
		hook(rec.Entries())
	}
	return nil
}

// Create inserts a task assigned by actor.
func (s *Service) Create(ctx context.Context, actor string, in CreateInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("title is required")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperr.Invalid("invalid priority: %s", *in.Priority)
	}

	var created models.Task
	err := s.mutate(ctx, actor, "create", func(tx *gorm.DB, rec *activity.Recorder) error {
		if err := requireUser(tx, actor); err != nil {
			return err
		}
		if in.ParentTaskID != nil {
			if err := requireExists(tx, &models.Task{}, "parent task", *in.ParentTaskID); err != nil {
				return err
			}
		}

		at := rec.At()
		created = models.Task{
			ID:                  uuid.NewString(),
			Title:               title,
			Description:         in.Description,
			ParentTaskID:        in.ParentTaskID,
			AssignorID:          actor,
			Priority:            in.Priority,
			PredictedFinishDate: in.PredictedFinishDate,
			CreatedAt:           at,
			CreatedBy:           &actor,
			UpdatedAt:           at,
		}
		if err := insert(tx, &created); err != nil {
			return err
		}
		rec.Event(created.ID, models.ActionTaskCreated, nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies p to the task and records one TASK_UPDATED entry per
// attribute that actually changed.
func (s *Service) Update(ctx context.Context, actor, id string, p Patch) (*models.Task, error) {
	if p.Title.Set {
		if p.Title.Value == nil || strings.TrimSpace(*p.Title.Value) == "" {
			return nil, apperr.Invalid("title cannot be empty")
		}
		trimmed := strings.TrimSpace(*p.Title.Value)
		p.Title.Value = &trimmed
	}
	if p.Priority.Set && p.Priority.Value != nil && !p.Priority.Value.Valid() {
		return nil, apperr.Invalid("invalid priority: %s", *p.Priority.Value)
	}
	if p.Empty() {
		return Get(s.db.WithContext(ctx), id)
	}

	var result models.Task
	err := s.mutate(ctx, actor, "update", func(tx *gorm.DB, rec *activity.Recorder) error {
		current, err := Get(tx, id)
		if err != nil {
			return err
		}
		updated := Apply(*current, p)
		changes := Diff(*current, updated)
		if len(changes) == 0 {
			result = *current
			return nil
		}

		for _, c := range changes {
			if c.Field == FieldParentTaskID && updated.ParentTaskID != nil {
				if err := s.checkParent(tx, id, *updated.ParentTaskID); err != nil {
					return err
				}
			}
		}

		cols := Columns(updated, changes)
		cols["updated_at"] = rec.At()
		cols["updated_by"] = actor
		if err := update(tx, id, cols); err != nil {
			return err
		}
		for _, c := range changes {
			rec.Change(id, models.ActionTaskUpdated, c)
		}
		updated.UpdatedAt = rec.At()
		updated.UpdatedBy = &actor
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// checkParent rejects a new parent that is the task itself, missing, or
// inside the task's own subtree.
func (s *Service) checkParent(tx *gorm.DB, id, parentID string) error {
	if parentID == id {
		return apperr.Invalid("task cannot be its own parent")
	}
	if err := requireExists(tx, &models.Task{}, "parent task", parentID); err != nil {
		return err
	}
	tasks, err := All(tx)
	if err != nil {
		return err
	}
	if tree.IsDescendant(id, parentID, tree.Nodes(tasks)) {
		return apperr.Invalid("parent task %s is a descendant of task %s", parentID, id)
	}
	return nil
}

// Delete soft-deletes the task. Children keep their parent reference.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	return s.mutate(ctx, actor, "delete", func(tx *gorm.DB, rec *activity.Recorder) error {
		if err := requireTask(tx, id); err != nil {
			return err
		}
		err := update(tx, id, map[string]interface{}{
			"deleted_at": rec.At(),
			"deleted_by": actor,
		})
		if err != nil {
			return err
		}
		rec.Event(id, models.ActionTaskDeleted, nil, nil)
		return nil
	})
}

// Clone copies the task's attributes and possible statuses into a new
// task assigned by actor. Assignees and labels are not copied.
func (s *Service) Clone(ctx context.Context, actor, id string) (*View, error) {
	var view View
	err := s.mutate(ctx, actor, "clone", func(tx *gorm.DB, rec *activity.Recorder) error {
		source, err := Get(tx, id)
		if err != nil {
			return err
		}
		if err := requireUser(tx, actor); err != nil {
			return err
		}
		statuses, err := PossibleStatuses.Members(tx, id)
		if err != nil {
			return err
		}

		at := rec.At()
		clone := models.Task{
			ID:                  uuid.NewString(),
			Title:               source.Title + CloneSuffix,
			Description:         source.Description,
			ParentTaskID:        source.ParentTaskID,
			AssignorID:          actor,
			Priority:            source.Priority,
			PredictedFinishDate: source.PredictedFinishDate,
			CreatedAt:           at,
			CreatedBy:           &actor,
			UpdatedAt:           at,
		}
		if err := insert(tx, &clone); err != nil {
			return err
		}
		for _, statusID := range statuses {
			if err := PossibleStatuses.Add(tx, clone.ID, statusID); err != nil {
				return err
			}
		}

		cloneID := clone.ID
		rec.Event(source.ID, models.ActionTaskCloned, nil, &cloneID)
		rec.Event(clone.ID, models.ActionTaskCreated, nil, nil)

		view = View{
			Task:              clone,
			PossibleStatusIDs: statuses,
			AssigneeIDs:       []string{},
			LabelIDs:          []string{},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// AddAssignee adds userID to the task's assignees.
func (s *Service) AddAssignee(ctx context.Context, actor, taskID, userID string) error {
	return s.addMember(ctx, actor, Assignees, models.ActionAssigneeAdded, taskID, userID)
}

// RemoveAssignee removes userID from the task's assignees.
func (s *Service) RemoveAssignee(ctx context.Context, actor, taskID, userID string) error {
	return s.removeMember(ctx, actor, Assignees, models.ActionAssigneeRemoved, taskID, userID)
}

// AddPossibleStatus adds statusID to the statuses the task may be placed in.
func (s *Service) AddPossibleStatus(ctx context.Context, actor, taskID, statusID string) error {
	return s.addMember(ctx, actor, PossibleStatuses, models.ActionStatusAdded, taskID, statusID)
}

// RemovePossibleStatus removes statusID from the task's possible statuses,
// clearing the current status first when it is the one removed.
func (s *Service) RemovePossibleStatus(ctx context.Context, actor, taskID, statusID string) error {
	return s.mutate(ctx, actor, "remove possible status", func(tx *gorm.DB, rec *activity.Recorder) error {
		t, err := Get(tx, taskID)
		if err != nil {
			return err
		}
		if err := requireStatus(tx, statusID); err != nil {
			return err
		}
		if t.CurrentStatusID != nil && *t.CurrentStatusID == statusID {
			err := update(tx, taskID, map[string]interface{}{
				"current_status_id": nil,
				"updated_at":        rec.At(),
				"updated_by":        actor,
			})
			if err != nil {
				return err
			}
		}
		if err := PossibleStatuses.Remove(tx, taskID, statusID); err != nil {
			return err
		}
		removed := statusID
		rec.Event(taskID, models.ActionStatusRemoved, &removed, nil)
		return nil
	})
}

// SetCurrentStatus places the task in statusID, which must already be one
// of its possible statuses. Setting the status it already has is a no-op.
func (s *Service) SetCurrentStatus(ctx context.Context, actor, taskID, statusID string) (*models.Task, error) {
	var result models.Task
	err := s.mutate(ctx, actor, "set current status", func(tx *gorm.DB, rec *activity.Recorder) error {
		t, err := Get(tx, taskID)
		if err != nil {
			return err
		}
		ok, err := PossibleStatuses.Has(tx, taskID, statusID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Invalid("status not in possible statuses, add it first")
		}
		result = *t
		if t.CurrentStatusID != nil && *t.CurrentStatusID == statusID {
			return nil
		}

		err = update(tx, taskID, map[string]interface{}{
			"current_status_id": statusID,
			"updated_at":        rec.At(),
			"updated_by":        actor,
		})
		if err != nil {
			return err
		}
		next := statusID
		rec.Change(taskID, models.ActionCurrentStatusChanged, activity.FieldChange{
			Field: FieldCurrentStatusID,
			Old:   t.CurrentStatusID,
			New:   &next,
		})
		result.CurrentStatusID = &next
		result.UpdatedAt = rec.At()
		result.UpdatedBy = &actor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AddLabel attaches labelID to the task.
func (s *Service) AddLabel(ctx context.Context, actor, taskID, labelID string) error {
	return s.addMember(ctx, actor, Labels, models.ActionLabelAdded, taskID, labelID)
}

// RemoveLabel detaches labelID from the task.
func (s *Service) RemoveLabel(ctx context.Context, actor, taskID, labelID string) error {
	return s.removeMember(ctx, actor, Labels, models.ActionLabelRemoved, taskID, labelID)
}

func (s *Service) addMember(ctx context.Context, actor string, set Set, action models.Action, taskID, memberID string) error {
	return s.mutate(ctx, actor, "add "+set.noun, func(tx *gorm.DB, rec *activity.Recorder) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		if err := set.require(tx, memberID); err != nil {
			return err
		}
		if err := set.Add(tx, taskID, memberID); err != nil {
			return err
		}
		added := memberID
		rec.Event(taskID, action, nil, &added)
		return nil
	})
}

func (s *Service) removeMember(ctx context.Context, actor string, set Set, action models.Action, taskID, memberID string) error {
	return s.mutate(ctx, actor, "remove "+set.noun, func(tx *gorm.DB, rec *activity.Recorder) error {
		if err := requireTask(tx, taskID); err != nil {
			return err
		}
		if err := set.require(tx, memberID); err != nil {
			return err
		}
		if err := set.Remove(tx, taskID, memberID); err != nil {
			return err
		}
		removed := memberID
		rec.Event(taskID, action, &removed, nil)
		return nil
	})
}

// Get returns a live task with its association sets.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	db := s.db.WithContext(ctx)
	t, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	view := View{Task: *t}
	if view.PossibleStatusIDs, err = PossibleStatuses.Members(db, id); err != nil {
		return nil, err
	}
	if view.AssigneeIDs, err = Assignees.Members(db, id); err != nil {
		return nil, err
	}
	if view.LabelIDs, err = Labels.Members(db, id); err != nil {
		return nil, err
	}
	view.SubtaskCount, err = s.subtaskCount(db, id)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) subtaskCount(db *gorm.DB, id string) (int, error) {
	tasks, err := All(db)
	if err != nil {
		return 0, err
	}
	return len(tree.DescendantIDs(id, tree.Nodes(tasks))), nil
}

// List returns every live task with its association sets and the number
// of descendants under it.
func (s *Service) List(ctx context.Context) ([]View, error) {
	db := s.db.WithContext(ctx)
	tasks, err := All(db)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	statuses, err := PossibleStatuses.MembersOf(db, ids)
	if err != nil {
		return nil, err
	}
	assignees, err := Assignees.MembersOf(db, ids)
	if err != nil {
		return nil, err
	}
	labels, err := Labels.MembersOf(db, ids)
	if err != nil {
		return nil, err
	}
	counts := tree.DescendantCounts(tree.Nodes(tasks))

	views := make([]View, len(tasks))
	for i, t := range tasks {
		views[i] = View{
			Task:              t,
			PossibleStatusIDs: orEmpty(statuses[t.ID]),
			AssigneeIDs:       orEmpty(assignees[t.ID]),
			LabelIDs:          orEmpty(labels[t.ID]),
			SubtaskCount:      counts[t.ID],
		}
	}
	return views, nil
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

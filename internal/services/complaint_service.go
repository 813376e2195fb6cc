package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/access"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ComplaintService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// ComplaintFilter narrows List. Zero values mean "no restriction".
// ActiveOnly restricts to lifecycle.ActiveStatuses and cannot be combined with Statuses.
type ComplaintFilter struct {
	Query        string
	Status       lifecycle.Status
	Priority     lifecycle.Priority
	Statuses     []lifecycle.Status
	ActiveOnly   bool
	CategoryID   *uuid.UUID
	AssignedToMe bool
	Limit        int
	Offset       int
	Ascending    bool
}

type StatsScope string

const (
	StatsScopeMine StatsScope = "mine"
	StatsScopeAll  StatsScope = "all"
)

// visibleTo restricts a complaint query to what the actor may see.
func visibleTo(actor access.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if actor.Can(access.OpViewAllComplaints) {
			return db
		}
		return db.Where("complaints.student_id = ?", actor.ID)
	}
}

func canView(actor access.Actor, c *models.Complaint) bool {
	return actor.Can(access.OpViewAllComplaints) || c.StudentID == actor.ID
}

// rowLock adds SELECT ... FOR <strength> on dialects that support it.
func rowLock(tx *gorm.DB, strength string) *gorm.DB {
	if tx.Dialector.Name() != "postgres" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: strength})
}

// loadComplaint fetches a complaint inside tx and checks the actor may see it.
func loadComplaint(tx *gorm.DB, actor access.Actor, id uuid.UUID, lock string) (*models.Complaint, error) {
	var c models.Complaint
	q := tx
	if lock != "" {
		q = rowLock(tx, lock)
	}
	if err := q.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}
	if !canView(actor, &c) {
		return nil, ErrNotOwner
	}
	return &c, nil
}

func (s *ComplaintService) Create(ctx context.Context, actor access.Actor, req *dto.CreateComplaintRequest) (*models.Complaint, error) {
	if !actor.Can(access.OpFileComplaint) {
		return nil, ErrStudentOnly
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	trimOptional(&req.Location)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var mood *lifecycle.Mood
	if req.Mood != nil {
		m, _ := lifecycle.ParseMood(*req.Mood)
		mood = &m
	}

	db := s.db.WithContext(ctx)
	if req.CategoryID != nil {
		var count int64
		if err := db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if count == 0 {
			return nil, validationError("category does not exist")
		}
	}

	now := s.now()
	complaint := models.Complaint{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      lifecycle.StatusOpen,
		Priority:    lifecycle.DefaultPriority,
		StudentID:   actor.ID,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
		Mood:        mood,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	slog.Info("complaint created", "complaint_id", complaint.ID, "actor_id", actor.ID)
	return &complaint, nil
}

func (s *ComplaintService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Complaint, error) {
	c, err := loadComplaint(s.db.WithContext(ctx).Preload("Category"), actor, id, "")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Detail returns the complaint with its progress stages.
func (s *ComplaintService) Detail(ctx context.Context, actor access.Actor, id uuid.UUID) (*dto.ComplaintDetail, error) {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &dto.ComplaintDetail{
		Complaint: *c,
		Rank:      c.Status.Rank(),
		Progress:  lifecycle.Progress(c.Status),
	}, nil
}

func (f *ComplaintFilter) normalize() error {
	if f.Status != "" && !f.Status.Valid() {
		return validationError(fmt.Sprintf("unknown status %q", f.Status))
	}
	if f.Priority != "" {
		if _, ok := lifecycle.ParsePriority(string(f.Priority)); !ok {
			return validationError(fmt.Sprintf("unknown priority %q", f.Priority))
		}
	}
	for _, st := range f.Statuses {
		if !st.Valid() {
			return validationError(fmt.Sprintf("unknown status %q", st))
		}
	}
	if f.ActiveOnly {
		if len(f.Statuses) > 0 {
			return validationError("status_in and active cannot be combined")
		}
		f.Statuses = lifecycle.ActiveStatuses
	}
	if f.Limit < 0 || f.Offset < 0 {
		return validationError("limit and offset must not be negative")
	}
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f ComplaintFilter) scope(actor access.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(f.Query); q != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if f.Status != "" {
			db = db.Where("status = ?", string(f.Status))
		}
		if f.Priority != "" {
			db = db.Where("priority = ?", string(f.Priority))
		}
		if len(f.Statuses) > 0 {
			db = db.Where("status IN ?", lifecycle.StatusStrings(f.Statuses))
		}
		if f.CategoryID != nil {
			db = db.Where("category_id = ?", *f.CategoryID)
		}
		if f.AssignedToMe && actor.IsStaff() {
			db = db.Where("assigned_admin_id = ?", actor.ID)
		}
		return db
	}
}

// List returns the complaints visible to actor that match f, newest first
// unless f.Ascending is set. Ties on created_at fall back to id.
func (s *ComplaintService) List(ctx context.Context, actor access.Actor, f ComplaintFilter) ([]models.Complaint, error) {
	if err := f.normalize(); err != nil {
		return nil, err
	}

	order := "created_at DESC"
	if f.Ascending {
		order = "created_at ASC"
	}

	complaints := make([]models.Complaint, 0)
	err := s.db.WithContext(ctx).
		Scopes(visibleTo(actor), f.scope(actor)).
		Preload("Category").
		Order(order).
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Stats aggregates over the unfiltered visible set. Students only ever see
// their own complaints; for staff "mine" means assigned to them.
func (s *ComplaintService) Stats(ctx context.Context, actor access.Actor, scope StatsScope) (*dto.ComplaintStats, error) {
	if scope == "" {
		scope = StatsScopeAll
	}
	if scope != StatsScopeMine && scope != StatsScopeAll {
		return nil, validationError(fmt.Sprintf("unknown stats scope %q", scope))
	}

	q := s.db.WithContext(ctx).Model(&models.Complaint{}).Scopes(visibleTo(actor))
	if scope == StatsScopeMine && actor.IsStaff() {
		q = q.Where("assigned_admin_id = ?", actor.ID)
	}

	var groups []statusPriorityCount
	err := q.Select("status, priority, COUNT(*) AS count").
		Group("status, priority").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	stats := computeStats(groups)
	return &stats, nil
}

// statusPriorityCount is one row of the stats GROUP BY.
type statusPriorityCount struct {
	Status   lifecycle.Status
	Priority lifecycle.Priority
	Count    int64
}

func computeStats(groups []statusPriorityCount) dto.ComplaintStats {
	var st dto.ComplaintStats
	for _, g := range groups {
		st.Total += g.Count
		switch g.Status {
		case lifecycle.StatusOpen:
			st.Open += g.Count
		case lifecycle.StatusAssigned, lifecycle.StatusInProgress:
			st.InProgress += g.Count
		case lifecycle.StatusResolved, lifecycle.StatusClosed:
			st.Resolved += g.Count
		}
		if g.Priority == lifecycle.PriorityUrgent {
			st.Urgent += g.Count
		}
	}
	return st
}

type fieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// complaintPatch is the set of column writes an update resolves to.
type complaintPatch struct {
	updates map[string]interface{}
	changes map[string]fieldChange
}

func (p *complaintPatch) set(column string, from, to, value interface{}) {
	p.updates[column] = value
	p.changes[column] = fieldChange{From: from, To: to}
}

// Update applies a staff change to a complaint as one compare-and-set on its
// version. A concurrent writer makes the call fail with ErrStaleComplaint and
// nothing is written.
func (s *ComplaintService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *dto.UpdateComplaintRequest) (*models.Complaint, error) {
	if !actor.Can(access.OpUpdateComplaint) {
		return nil, ErrStaffOnly
	}

	trimOptional(&req.ResolutionNotes)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var (
		updated models.Complaint
		from    lifecycle.Status
		to      lifecycle.Status
		applied bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadComplaint(tx, actor, id, "UPDATE")
		if err != nil {
			return err
		}

		now := s.now()
		patch, next, err := s.plan(tx, actor, current, req, now)
		if err != nil {
			return err
		}
		from, to = current.Status, next

		if len(patch.updates) > 0 {
			if err := s.apply(tx, actor, current, next, patch, now); err != nil {
				return err
			}
			applied = true
		}

		return tx.Preload("Category").First(&updated, "id = ?", current.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if applied {
		slog.Info("complaint updated", "complaint_id", id, "actor_id", actor.ID, "from", from, "to", to)
	}
	return &updated, nil
}

// apply writes patch guarded by the version read in current and records the
// history row in the same transaction.
func (s *ComplaintService) apply(tx *gorm.DB, actor access.Actor, current *models.Complaint, next lifecycle.Status, patch *complaintPatch, now time.Time) error {
	patch.updates["version"] = gorm.Expr("version + 1")
	patch.updates["updated_at"] = now

	res := tx.Model(&models.Complaint{}).
		Where("id = ? AND version = ?", current.ID, current.Version).
		Updates(patch.updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleComplaint
	}

	changes, err := json.Marshal(patch.changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}
	history := models.ComplaintStatusHistory{
		ComplaintID: current.ID,
		FromStatus:  current.Status,
		ToStatus:    next,
		ChangedBy:   actor.ID,
		Changes:     datatypes.JSON(changes),
		CreatedAt:   now,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// plan validates req against the current row and works out the column writes.
func (s *ComplaintService) plan(tx *gorm.DB, actor access.Actor, current *models.Complaint, req *dto.UpdateComplaintRequest, now time.Time) (*complaintPatch, lifecycle.Status, error) {
	patch := &complaintPatch{
		updates: make(map[string]interface{}),
		changes: make(map[string]fieldChange),
	}

	next := current.Status
	if req.Status != nil {
		st, _ := lifecycle.ParseStatus(*req.Status)
		if err := lifecycle.ValidateTransition(current.Status, st); err != nil {
			return nil, "", validationError(err.Error())
		}
		next = st
	}
	statusChanged := next != current.Status
	if statusChanged {
		patch.set("status", current.Status, next, string(next))
	}

	if req.Priority != nil {
		p, _ := lifecycle.ParsePriority(*req.Priority)
		if p != current.Priority {
			patch.set("priority", current.Priority, p, string(p))
		}
	}

	if req.ResolutionNotes != nil {
		if !next.IsResolution() {
			return nil, "", validationError("resolution_notes can only be set when the complaint is resolved or closed")
		}
		if current.ResolutionNotes == nil || *current.ResolutionNotes != *req.ResolutionNotes {
			patch.set("resolution_notes", current.ResolutionNotes, *req.ResolutionNotes, *req.ResolutionNotes)
		}
	}

	switch {
	case req.AssignedAdminID != nil:
		var assignee models.User
		if err := tx.First(&assignee, "id = ?", *req.AssignedAdminID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", validationError("assigned_admin_id does not reference an existing user")
			}
			return nil, "", fmt.Errorf("failed to load assignee: %w", err)
		}
		if !assignee.Role.IsStaff() {
			return nil, "", validationError("assigned_admin_id must reference an admin")
		}
		if current.AssignedAdminID == nil || *current.AssignedAdminID != assignee.ID {
			patch.set("assigned_admin_id", current.AssignedAdminID, assignee.ID, assignee.ID)
		}
	case statusChanged && next != lifecycle.StatusOpen && current.AssignedAdminID == nil:
		patch.set("assigned_admin_id", nil, actor.ID, actor.ID)
	}

	if next.IsResolution() {
		if statusChanged || current.ResolvedAt == nil {
			patch.set("resolved_at", current.ResolvedAt, now, now)
		}
	} else if current.ResolvedAt != nil {
		patch.set("resolved_at", current.ResolvedAt, nil, nil)
	}

	return patch, next, nil
}

// Transitions lists the statuses a staff member may move the complaint to.
func (s *ComplaintService) Transitions(ctx context.Context, actor access.Actor, id uuid.UUID) (*dto.TransitionsResponse, error) {
	if !actor.Can(access.OpUpdateComplaint) {
		return nil, ErrStaffOnly
	}
	c, err := loadComplaint(s.db.WithContext(ctx), actor, id, "")
	if err != nil {
		return nil, err
	}
	return &dto.TransitionsResponse{Current: c.Status, Next: lifecycle.NextStatuses(c.Status)}, nil
}

// History returns the applied updates of a complaint, oldest first.
func (s *ComplaintService) History(ctx context.Context, actor access.Actor, id uuid.UUID) ([]models.ComplaintStatusHistory, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadComplaint(db, actor, id, ""); err != nil {
		return nil, err
	}

	history := make([]models.ComplaintStatusHistory, 0)
	if err := db.Where("complaint_id = ?", id).Order("created_at ASC").Order("id ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}

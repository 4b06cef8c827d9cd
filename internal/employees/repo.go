package employees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/pkg/db/models"
)

// Repository persists employees and their time entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, employee *models.Employee) error
	Save(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, filter ListFilter) ([]models.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindOpenEntry(ctx context.Context, employeeID uuid.UUID) (*models.TimeEntry, error)
	CreateEntry(ctx context.Context, entry *models.TimeEntry) error
	CloseEntry(ctx context.Context, entry *models.TimeEntry) error
	ListEntries(ctx context.Context, employeeID uuid.UUID, filter TimeEntryFilter) ([]models.TimeEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repository) Save(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	rows := []models.Employee{}
	if err := query.Order("last_name ASC").Order("first_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.TimeEntry{}, "employee_id = ?", id).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindOpenEntry returns the entry without a clock-out, or gorm.ErrRecordNotFound.
func (r *repository) FindOpenEntry(ctx context.Context, employeeID uuid.UUID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out IS NULL", employeeID).
		Order("clock_in DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CloseEntry writes the clock-out and hours of an open entry. It matches only
// while the entry is still open so concurrent clock-outs cannot both succeed.
func (r *repository) CloseEntry(ctx context.Context, entry *models.TimeEntry) error {
	res := r.db.WithContext(ctx).
		Model(&models.TimeEntry{}).
		Where("id = ? AND clock_out IS NULL", entry.ID).
		Updates(map[string]any{
			"clock_out":    entry.ClockOut,
			"hours_worked": entry.HoursWorked,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListEntries(ctx context.Context, employeeID uuid.UUID, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	query := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if filter.From != nil {
		query = query.Where("clock_in >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("clock_in < ?", *filter.To)
	}
	rows := []models.TimeEntry{}
	if err := query.Order("clock_in DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}


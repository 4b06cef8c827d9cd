package employees

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/poiu748/cafe-alya/pkg/db"
	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

const shiftClockLayout = "15:04"

var (
	validate  = validator.New()
	hourNanos = decimal.NewFromInt(int64(time.Hour))
)

// Service manages staff records and time tracking.
type Service interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*EmployeeDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EmployeeDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*EmployeeDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]EmployeeDTO, error)
	ClockIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*TimeEntryDTO, error)
	ClockOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*TimeEntryDTO, error)
	TimeEntries(ctx context.Context, employeeID uuid.UUID, filter TimeEntryFilter) ([]TimeEntryDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(repo Repository, tx txRunner, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employees repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, now: now}, nil
}

// HoursBetween returns the elapsed hours rounded to 2 decimal places.
func HoursBetween(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(to.Sub(from))).Div(hourNanos).Round(2)
}

func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (*EmployeeDTO, error) {
	employee := &models.Employee{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      normalizeEmail(input.Email),
		Phone:      trimmedOrNil(input.Phone),
		Role:       input.Role,
		HourlyRate: input.HourlyRate.Round(2),
		HireDate:   input.HireDate,
		Active:     true,
		Schedule:   models.Schedule(input.Schedule),
	}
	if employee.Role == "" {
		employee.Role = enums.EmployeeRoleServer
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}
	if employee.Schedule == nil {
		employee.Schedule = models.Schedule{}
	}
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, mapWriteError(err, "create employee")
	}
	dto := NewEmployeeDTO(*employee)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EmployeeDTO, error) {
	employee, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := NewEmployeeDTO(*employee)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*EmployeeDTO, error) {
	employee, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(employee, input)
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}
	employee.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, mapWriteError(err, "update employee")
	}
	dto := NewEmployeeDTO(*employee)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete employee")
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]EmployeeDTO, error) {
	if filter.Role != nil && !filter.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}
	out := make([]EmployeeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewEmployeeDTO(row))
	}
	return out, nil
}

func (s *service) ClockIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*TimeEntryDTO, error) {
	if at.IsZero() {
		at = s.now()
	}
	var entry *models.TimeEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		employee, err := s.load(ctx, repo, employeeID)
		if err != nil {
			return err
		}
		if !employee.Active {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "employee is inactive")
		}
		if _, err := repo.FindOpenEntry(ctx, employeeID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "employee is already clocked in")
		} else if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open time entry")
		}

		entry = &models.TimeEntry{
			EmployeeID: employeeID,
			ClockIn:    at.UTC(),
			CreatedAt:  s.now().UTC(),
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "employee is already clocked in")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create time entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := NewTimeEntryDTO(*entry)
	return &dto, nil
}

func (s *service) ClockOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*TimeEntryDTO, error) {
	if at.IsZero() {
		at = s.now()
	}
	var entry *models.TimeEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.load(ctx, repo, employeeID); err != nil {
			return err
		}
		open, err := repo.FindOpenEntry(ctx, employeeID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "employee is not clocked in")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open time entry")
		}
		if at.Before(open.ClockIn) {
			return pkgerrors.New(pkgerrors.CodeValidation, "clock-out cannot precede clock-in")
		}

		out := at.UTC()
		hours := HoursBetween(open.ClockIn, out)
		open.ClockOut = &out
		open.HoursWorked = &hours
		if err := repo.CloseEntry(ctx, open); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "employee is not clocked in")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close time entry")
		}
		entry = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := NewTimeEntryDTO(*entry)
	return &dto, nil
}

func (s *service) TimeEntries(ctx context.Context, employeeID uuid.UUID, filter TimeEntryFilter) ([]TimeEntryDTO, error) {
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if _, err := s.load(ctx, s.repo, employeeID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListEntries(ctx, employeeID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list time entries")
	}
	out := make([]TimeEntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewTimeEntryDTO(row))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Employee, error) {
	employee, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func applyUpdate(employee *models.Employee, input UpdateEmployeeInput) {
	if input.FirstName != nil {
		employee.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		employee.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		employee.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		employee.Phone = trimmedOrNil(input.Phone)
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.HourlyRate != nil {
		employee.HourlyRate = input.HourlyRate.Round(2)
	}
	if input.HireDate != nil {
		employee.HireDate = input.HireDate
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}
	if input.Schedule != nil {
		employee.Schedule = models.Schedule(*input.Schedule)
		if employee.Schedule == nil {
			employee.Schedule = models.Schedule{}
		}
	}
}

func validateEmployee(e *models.Employee) error {
	if e.FirstName == "" || e.LastName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "firstName and lastName are required")
	}
	if err := validate.Var(e.Email, "required,email"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if !e.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if e.HourlyRate.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "hourlyRate must be non-negative")
	}
	for i, shift := range e.Schedule {
		if err := validateShift(shift); err != nil {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "schedule[%d]: %s", i, err.Error())
		}
	}
	return nil
}

func validateShift(shift models.Shift) error {
	if shift.DayOfWeek < 0 || shift.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek must be between 0 and 6")
	}
	start, err := time.Parse(shiftClockLayout, shift.StartTime)
	if err != nil {
		return fmt.Errorf("startTime must be HH:MM")
	}
	end, err := time.Parse(shiftClockLayout, shift.EndTime)
	if err != nil {
		return fmt.Errorf("endTime must be HH:MM")
	}
	if !end.After(start) {
		return fmt.Errorf("endTime must be after startTime")
	}
	return nil
}

func mapWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

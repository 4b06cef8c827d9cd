package employees

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poiu748/cafe-alya/api/middleware"
	"github.com/poiu748/cafe-alya/api/responses"
	"github.com/poiu748/cafe-alya/api/validators"
	internalemployees "github.com/poiu748/cafe-alya/internal/employees"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/logger"
)

func serviceMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "employee service unavailable"))
}

// List filters by ?active=true and ?role=.
func List(svc internalemployees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}

		var filter internalemployees.ListFilter
		activeOnly, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.ActiveOnly = activeOnly
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseEmployeeRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			filter.Role = &role
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func Detail(svc internalemployees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

func Create(svc internalemployees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		var body internalemployees.CreateEmployeeInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

func Update(svc internalemployees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body internalemployees.UpdateEmployeeInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employee, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

func Delete(svc internalemployees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		id, err := validators.ParseUUIDParam(r, "employeeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ClockIn opens a shift at the server's clock. Staff accounts may only clock
// their own employee record.
func ClockIn(svc internalemployees.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	return clockHandler(svc, now, logg, internalemployees.Service.ClockIn)
}

func ClockOut(svc internalemployees.Service, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	return clockHandler(svc, now, logg, internalemployees.Service.ClockOut)
}

type clockFunc func(svc internalemployees.Service, ctx context.Context, employeeID uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error)

func clockHandler(svc internalemployees.Service, now func() time.Time, logg *logger.Logger, clock clockFunc) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		id, err := authorizedEmployee(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := clock(svc, r.Context(), id, now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

// TimeEntries lists shifts in [from, to). Dates are read in loc.
func TimeEntries(svc internalemployees.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceMissing(w, r, logg)
			return
		}
		id, err := authorizedEmployee(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryTime(r, "from", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.TimeEntries(r.Context(), id, internalemployees.TimeEntryFilter{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// authorizedEmployee resolves {employeeId} and checks that a non-admin
// caller is acting on their own record.
func authorizedEmployee(r *http.Request) (uuid.UUID, error) {
	id, err := validators.ParseUUIDParam(r, "employeeId")
	if err != nil {
		return uuid.Nil, err
	}
	if enums.UserRole(middleware.RoleFromContext(r.Context())) == enums.UserRoleAdmin {
		return id, nil
	}
	own, err := uuid.Parse(middleware.EmployeeIDFromContext(r.Context()))
	if err != nil || own != id {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "employees may only manage their own shifts")
	}
	return id, nil
}

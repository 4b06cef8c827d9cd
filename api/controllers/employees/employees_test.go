package employees

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/poiu748/cafe-alya/api/middleware"
	internalemployees "github.com/poiu748/cafe-alya/internal/employees"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

type stubEmployeeService struct {
	internalemployees.Service

	list        func(ctx context.Context, filter internalemployees.ListFilter) ([]internalemployees.EmployeeDTO, error)
	create      func(ctx context.Context, input internalemployees.CreateEmployeeInput) (*internalemployees.EmployeeDTO, error)
	clockIn     func(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error)
	clockOut    func(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error)
	timeEntries func(ctx context.Context, id uuid.UUID, filter internalemployees.TimeEntryFilter) ([]internalemployees.TimeEntryDTO, error)
}

func (s stubEmployeeService) List(ctx context.Context, filter internalemployees.ListFilter) ([]internalemployees.EmployeeDTO, error) {
	return s.list(ctx, filter)
}

func (s stubEmployeeService) Create(ctx context.Context, input internalemployees.CreateEmployeeInput) (*internalemployees.EmployeeDTO, error) {
	return s.create(ctx, input)
}

func (s stubEmployeeService) ClockIn(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error) {
	return s.clockIn(ctx, id, at)
}

func (s stubEmployeeService) ClockOut(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error) {
	return s.clockOut(ctx, id, at)
}

func (s stubEmployeeService) TimeEntries(ctx context.Context, id uuid.UUID, filter internalemployees.TimeEntryFilter) ([]internalemployees.TimeEntryDTO, error) {
	return s.timeEntries(ctx, id, filter)
}

var fixedNow = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

func newRouter(svc internalemployees.Service) http.Handler {
	now := func() time.Time { return fixedNow }
	r := chi.NewRouter()
	r.Get("/employees", List(svc, nil))
	r.Post("/employees", Create(svc, nil))
	r.Post("/employees/{employeeId}/clock-in", ClockIn(svc, now, nil))
	r.Post("/employees/{employeeId}/clock-out", ClockOut(svc, now, nil))
	r.Get("/employees/{employeeId}/time-entries", TimeEntries(svc, time.UTC, nil))
	return r
}

func asCaller(req *http.Request, role enums.UserRole, employeeID string) *http.Request {
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	if employeeID != "" {
		ctx = middleware.WithEmployeeID(ctx, employeeID)
	}
	return req.WithContext(ctx)
}

func TestListFilters(t *testing.T) {
	var got internalemployees.ListFilter
	svc := stubEmployeeService{
		list: func(ctx context.Context, filter internalemployees.ListFilter) ([]internalemployees.EmployeeDTO, error) {
			got = filter
			return []internalemployees.EmployeeDTO{}, nil
		},
	}

	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/employees?active=true&role=barista", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !got.ActiveOnly || got.Role == nil || *got.Role != enums.EmployeeRoleBarista {
		t.Fatalf("unexpected filter %+v", got)
	}

	resp = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/employees?role=chef", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateValidatesBody(t *testing.T) {
	svc := stubEmployeeService{
		create: func(ctx context.Context, input internalemployees.CreateEmployeeInput) (*internalemployees.EmployeeDTO, error) {
			return &internalemployees.EmployeeDTO{ID: uuid.New(), FirstName: input.FirstName}, nil
		},
	}

	body := `{"firstName":"Alya","lastName":"Martin","email":"alya@cafe.test","hourlyRate":"12.50"}`
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"firstName":"Alya","email":"nope"}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClockInOwnership(t *testing.T) {
	own := uuid.New()
	other := uuid.New()
	var clocked []uuid.UUID
	svc := stubEmployeeService{
		clockIn: func(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error) {
			if !at.Equal(fixedNow) {
				t.Fatalf("expected server clock, got %v", at)
			}
			clocked = append(clocked, id)
			return &internalemployees.TimeEntryDTO{ID: uuid.New(), EmployeeID: id, ClockIn: at}, nil
		},
	}
	router := newRouter(svc)

	cases := []struct {
		name     string
		role     enums.UserRole
		employee string
		target   uuid.UUID
		want     int
	}{
		{name: "self", role: enums.UserRoleEmployee, employee: own.String(), target: own, want: http.StatusOK},
		{name: "someone else", role: enums.UserRoleEmployee, employee: own.String(), target: other, want: http.StatusForbidden},
		{name: "unlinked account", role: enums.UserRoleEmployee, target: own, want: http.StatusForbidden},
		{name: "admin", role: enums.UserRoleAdmin, target: other, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/employees/"+tc.target.String()+"/clock-in", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, asCaller(req, tc.role, tc.employee))
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
	if len(clocked) != 2 || clocked[0] != own || clocked[1] != other {
		t.Fatalf("unexpected clock-ins %v", clocked)
	}
}

func TestClockOutConflict(t *testing.T) {
	own := uuid.New()
	svc := stubEmployeeService{
		clockOut: func(ctx context.Context, id uuid.UUID, at time.Time) (*internalemployees.TimeEntryDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no open shift")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/employees/"+own.String()+"/clock-out", nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, asCaller(req, enums.UserRoleEmployee, own.String()))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestTimeEntriesRange(t *testing.T) {
	own := uuid.New()
	var got internalemployees.TimeEntryFilter
	svc := stubEmployeeService{
		timeEntries: func(ctx context.Context, id uuid.UUID, filter internalemployees.TimeEntryFilter) ([]internalemployees.TimeEntryDTO, error) {
			got = filter
			return []internalemployees.TimeEntryDTO{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/employees/"+own.String()+"/time-entries?from=2026-03-01&to=2026-03-08T00:00:00Z", nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, asCaller(req, enums.UserRoleAdmin, ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.From == nil || got.To == nil || got.To.Sub(*got.From) != 7*24*time.Hour {
		t.Fatalf("unexpected filter %+v", got)
	}
}

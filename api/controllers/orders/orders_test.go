package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/poiu748/cafe-alya/api/middleware"
	"github.com/poiu748/cafe-alya/internal/events"
	internalorders "github.com/poiu748/cafe-alya/internal/orders"
	"github.com/poiu748/cafe-alya/pkg/enums"
	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
	"github.com/poiu748/cafe-alya/pkg/pagination"
)

type stubOrderService struct {
	create       func(ctx context.Context, input internalorders.CreateOrderInput, actor *events.ActorRef) (*internalorders.OrderDTO, error)
	get          func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error)
	list         func(ctx context.Context, filter internalorders.ListFilter, params pagination.Params) (*internalorders.OrderList, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, actor *events.ActorRef) (*internalorders.OrderDTO, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (s stubOrderService) Create(ctx context.Context, input internalorders.CreateOrderInput, actor *events.ActorRef) (*internalorders.OrderDTO, error) {
	return s.create(ctx, input, actor)
}

func (s stubOrderService) Get(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error) {
	return s.get(ctx, id)
}

func (s stubOrderService) List(ctx context.Context, filter internalorders.ListFilter, params pagination.Params) (*internalorders.OrderList, error) {
	return s.list(ctx, filter, params)
}

func (s stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, actor *events.ActorRef) (*internalorders.OrderDTO, error) {
	return s.updateStatus(ctx, id, status, actor)
}

func (s stubOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func newRouter(svc internalorders.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", List(svc, time.UTC, nil))
	r.Post("/orders", Create(svc, nil))
	r.Get("/orders/{orderId}", Detail(svc, nil))
	r.Patch("/orders/{orderId}/status", UpdateStatus(svc, nil))
	r.Delete("/orders/{orderId}", Delete(svc, nil))
	return r
}

func TestListParsesFilters(t *testing.T) {
	var gotFilter internalorders.ListFilter
	var gotParams pagination.Params
	svc := stubOrderService{
		list: func(ctx context.Context, filter internalorders.ListFilter, params pagination.Params) (*internalorders.OrderList, error) {
			gotFilter = filter
			gotParams = params
			return &internalorders.OrderList{Items: []internalorders.OrderDTO{{OrderNumber: "CMD-1"}}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/orders?status=ready&type=takeaway&from=2026-03-01&to=2026-03-02&limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotFilter.Status == nil || *gotFilter.Status != enums.OrderStatusReady {
		t.Fatalf("unexpected status filter %v", gotFilter.Status)
	}
	if gotFilter.Type == nil || *gotFilter.Type != enums.OrderTypeTakeaway {
		t.Fatalf("unexpected type filter %v", gotFilter.Type)
	}
	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if gotFilter.From == nil || !gotFilter.From.Equal(wantFrom) {
		t.Fatalf("unexpected from %v", gotFilter.From)
	}
	if gotParams.Limit != 10 || gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", gotParams)
	}

	var envelope struct {
		Data internalorders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].OrderNumber != "CMD-1" {
		t.Fatalf("unexpected body %+v", envelope.Data)
	}
}

func TestListRejectsBadFilters(t *testing.T) {
	svc := stubOrderService{}
	cases := []string{
		"/orders?status=eaten",
		"/orders?type=delivery",
		"/orders?from=yesterday",
		"/orders?from=2026-03-02&to=2026-03-01",
		"/orders?limit=0",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			resp := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
		})
	}
}

func TestCreateAttributesActor(t *testing.T) {
	userID := uuid.New()
	var gotActor *events.ActorRef
	var gotInput internalorders.CreateOrderInput
	svc := stubOrderService{
		create: func(ctx context.Context, input internalorders.CreateOrderInput, actor *events.ActorRef) (*internalorders.OrderDTO, error) {
			gotActor = actor
			gotInput = input
			return &internalorders.OrderDTO{ID: uuid.New(), Status: "pending"}, nil
		},
	}

	body := `{"type":"dine-in","tableNumber":4,"items":[{"productId":"` + uuid.NewString() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleEmployee))
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotActor == nil || gotActor.UserID != userID || gotActor.Role != "employee" {
		t.Fatalf("unexpected actor %+v", gotActor)
	}
	if gotInput.Type != enums.OrderTypeDineIn || gotInput.TableNumber == nil || *gotInput.TableNumber != 4 {
		t.Fatalf("unexpected input %+v", gotInput)
	}
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"type":"takeaway","items":[]}`))
	resp := httptest.NewRecorder()
	newRouter(stubOrderService{}).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	orderID := uuid.New()
	svc := stubOrderService{
		updateStatus: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, actor *events.ActorRef) (*internalorders.OrderDTO, error) {
			if id != orderID {
				t.Fatalf("unexpected id %s", id)
			}
			if status == enums.OrderStatusDelivered {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid transition")
			}
			return &internalorders.OrderDTO{ID: id, Status: string(status)}, nil
		},
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "ok", body: `{"status":"preparing"}`, want: http.StatusOK},
		{name: "unknown status", body: `{"status":"eaten"}`, want: http.StatusBadRequest},
		{name: "missing status", body: `{}`, want: http.StatusBadRequest},
		{name: "illegal transition", body: `{"status":"delivered"}`, want: http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestDetailAndDelete(t *testing.T) {
	known := uuid.New()
	svc := stubOrderService{
		get: func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDTO, error) {
			if id != known {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return &internalorders.OrderDTO{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	router := newRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/"+known.String(), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/orders/"+known.String(), nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}

func TestNilServiceIsInternalError(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

package router

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/handler"
	"TourCore/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type apiClient struct {
	t *testing.T
	h *server.Hertz
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	seq := 0
	deps := service.Deps{
		Now: func() time.Time { return now },
		NewID: func() (string, error) {
			seq++
			return strconv.Itoa(seq), nil
		},
		NewNumber: func() (string, error) { return "TB-TEST", nil },
	}

	h := server.New()
	Register(h, handler.NewInMemory(deps))
	return &apiClient{t: t, h: h}
}

func (a *apiClient) do(method, path, body string) (int, envelope) {
	a.t.Helper()

	var b *ut.Body
	if body != "" {
		b = &ut.Body{Body: strings.NewReader(body), Len: len(body)}
	}
	w := ut.PerformRequest(a.h.Engine, method, path, b, ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()

	var env envelope
	if len(resp.Body()) > 0 {
		require.NoError(a.t, json.Unmarshal(resp.Body(), &env))
	}
	return resp.StatusCode(), env
}

func (a *apiClient) id(env envelope) string {
	a.t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(a.t, v.ID)
	return v.ID
}

const tourBody = `{
	"provider_id": "prov-1",
	"title": "Coastal Week",
	"pricing": {"adult": 100, "child": 50},
	"max_participants": 10,
	"available_dates": [{"date": "2026-11-02", "slots": 4}],
	"cancellation_policy": {"kind": "fixed", "percent": 80}
}`

func TestBookingFlowOverHTTP(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodPost, "/v1/tours", tourBody)
	require.Equal(t, http.StatusCreated, status)
	tourID := api.id(env)

	status, env = api.do(http.MethodPost, "/v1/bookings", `{
		"customer_id": "cust-1",
		"tour_date": "2026-11-02",
		"resource": {"kind": "tour", "id": "`+tourID+`"},
		"contact": {"name": "Ana", "email": "ana@example.com"},
		"participants": {"adults": 2}
	}`)
	require.Equal(t, http.StatusCreated, status)
	bookingID := api.id(env)

	var created struct {
		Status           string   `json:"status"`
		AvailableActions []string `json:"available_actions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, []string{"confirm", "cancel"}, created.AvailableActions)

	status, env = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/payment", `{"method":"card","status":"completed"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	status, env = api.do(http.MethodGet, "/v1/bookings/by-number/TB-TEST", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bookingID, api.id(env))

	status, _ = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/confirm", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/payment", `{"method":"card","status":"completed"}`)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_REASON", env.Error.Code)

	status, env = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", `{"reason":"weather"}`)
	require.Equal(t, http.StatusOK, status)
	var cancelled struct {
		Status       string `json:"status"`
		Cancellation struct {
			RefundAmount float64 `json:"refund_amount"`
			RefundStatus string  `json:"refund_status"`
		} `json:"cancellation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, 160.0, cancelled.Cancellation.RefundAmount)
	assert.Equal(t, "pending", cancelled.Cancellation.RefundStatus)

	status, env = api.do(http.MethodGet, "/v1/providers/prov-1/booking-stats", "")
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		TotalBookings      int     `json:"total_bookings"`
		TotalCancellations int     `json:"total_cancellations"`
		CancellationRate   float64 `json:"cancellation_rate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 1, stats.TotalCancellations)
	assert.Equal(t, 100.0, stats.CancellationRate)

	status, env = api.do(http.MethodGet, "/v1/bookings?provider_id=prov-1&status=cancelled", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, env.Meta["count"])
}

func TestBookingCapacityOverHTTP(t *testing.T) {
	api := newAPI(t)

	_, env := api.do(http.MethodPost, "/v1/tours", tourBody)
	tourID := api.id(env)

	status, env := api.do(http.MethodPost, "/v1/bookings", `{
		"customer_id": "cust-1",
		"tour_date": "2026-11-02",
		"resource": {"kind": "tour", "id": "`+tourID+`"},
		"participants": {"adults": 5}
	}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CAPACITY_EXCEEDED", env.Error.Code)

	status, env = api.do(http.MethodGet, "/v1/bookings/999", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = api.do(http.MethodPost, "/v1/bookings", `{"participants": "many"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}

func TestCancelReturnsSeatsOverHTTP(t *testing.T) {
	api := newAPI(t)

	_, env := api.do(http.MethodPost, "/v1/tours", tourBody)
	tourID := api.id(env)

	book := func() (int, envelope) {
		return api.do(http.MethodPost, "/v1/bookings", `{
			"customer_id": "cust-1",
			"tour_date": "2026-11-02",
			"resource": {"kind": "tour", "id": "`+tourID+`"},
			"participants": {"adults": 4}
		}`)
	}

	status, env := book()
	require.Equal(t, http.StatusCreated, status)
	bookingID := api.id(env)

	status, env = book()
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CAPACITY_EXCEEDED", env.Error.Code)

	status, _ = api.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", `{"reason":"sick"}`)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodGet, "/v1/tours/"+tourID, "")
	require.Equal(t, http.StatusOK, status)
	var tour struct {
		CurrentBookings int `json:"current_bookings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tour))
	assert.Equal(t, 0, tour.CurrentBookings)

	status, env = book()
	assert.Equal(t, http.StatusCreated, status, env.Error.Code)
}

func TestItineraryFlowOverHTTP(t *testing.T) {
	api := newAPI(t)

	_, env := api.do(http.MethodPost, "/v1/tours", tourBody)
	tourID := api.id(env)

	status, env := api.do(http.MethodPost, "/v1/itineraries",
		`{"tour_id":"`+tourID+`","title":"Coastal Week","duration":{"days":2,"nights":1}}`)
	require.Equal(t, http.StatusCreated, status)
	itID := api.id(env)

	status, env = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/activities",
		`{"title":"Harbour walk","type":"sightseeing","start_time":"09:00","end_time":"11:00","day_number":3}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "day_number", env.Error.Details["field"])

	for _, title := range []string{"Harbour walk", "Lunch"} {
		status, _ = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/activities",
			`{"title":"`+title+`","type":"sightseeing","start_time":"09:00","end_time":"11:00","day_number":1}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/budget-items",
		`{"category":"meals","item_name":"Lunch","quantity":2,"unit_price":12.5,"day_number":1,"total_price":999}`)
	require.Equal(t, http.StatusCreated, status)

	status, env = api.do(http.MethodGet, "/v1/itineraries/"+itID+"/days", "")
	require.Equal(t, http.StatusOK, status)
	var view struct {
		Days []struct {
			Day        int `json:"day"`
			Activities []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Order int    `json:"order"`
			} `json:"activities"`
			Budget float64 `json:"budget"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Days, 2)
	require.Len(t, view.Days[0].Activities, 2)
	assert.Equal(t, "Harbour walk", view.Days[0].Activities[0].Title)
	assert.Equal(t, 25.0, view.Days[0].Budget)

	first, second := view.Days[0].Activities[0].ID, view.Days[0].Activities[1].ID
	status, _ = api.do(http.MethodPut, "/v1/itineraries/"+itID+"/days/1/order",
		`{"activity_ids":["`+second+`","`+first+`"]}`)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPut, "/v1/itineraries/"+itID+"/days/1/order", `{"activity_ids":["`+second+`"]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodGet, "/v1/itineraries/"+itID+"/budget", "")
	require.Equal(t, http.StatusOK, status)
	var budget struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &budget))
	assert.Equal(t, 25.0, budget.Total)

	status, _ = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/publish", "")
	require.Equal(t, http.StatusOK, status)
	status, env = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/publish", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	status, env = api.do(http.MethodPost, "/v1/itineraries/"+itID+"/fork", "")
	require.Equal(t, http.StatusCreated, status)
	forkID := api.id(env)
	assert.NotEqual(t, itID, forkID)

	status, env = api.do(http.MethodGet, "/v1/itineraries/"+itID+"/forks", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, env.Meta["count"])
	assert.Contains(t, string(env.Data), `"id":"`+forkID+`"`)

	status, env = api.do(http.MethodGet, "/v1/tours/"+tourID+"/itineraries?status=draft", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, env.Meta["count"])

	status, env = api.do(http.MethodGet, "/v1/tours/"+tourID+"/itineraries", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, env.Meta["count"])
}

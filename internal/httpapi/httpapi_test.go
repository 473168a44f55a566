package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/httpapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTimer struct {
	mock.Mock
}

func (m *MockTimer) Start() { m.Called() }
func (m *MockTimer) Pause() { m.Called() }
func (m *MockTimer) Reset() { m.Called() }

func (m *MockTimer) Snapshot() focustimer.Snapshot {
	return m.Called().Get(0).(focustimer.Snapshot)
}

func (m *MockTimer) Remaining() int {
	return m.Called().Int(0)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) httpapi.TimerResponse {
	t.Helper()
	var resp httpapi.TimerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetTimer_Paused(t *testing.T) {
	timer := new(MockTimer)
	timer.On("Snapshot").Return(focustimer.Snapshot{Mode: focustimer.ModeBreak, SessionsCompleted: 2, TimeRemaining: 245})
	timer.On("Remaining").Return(245)

	rec := httptest.NewRecorder()
	httpapi.New("127.0.0.1:0", timer).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timer/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.Equal(t, "break", resp.Mode)
	assert.Equal(t, 2, resp.SessionsCompleted)
	assert.False(t, resp.IsRunning)
	assert.Equal(t, 245, resp.RemainingSeconds)
	assert.Equal(t, "04:05", resp.Display)
	assert.Nil(t, resp.Deadline)
}

func TestGetTimer_RunningIncludesDeadline(t *testing.T) {
	deadline := time.Date(2024, 1, 15, 12, 25, 0, 0, time.UTC)
	timer := new(MockTimer)
	timer.On("Snapshot").Return(focustimer.Snapshot{Mode: focustimer.ModeWork, IsRunning: true, Deadline: deadline})
	timer.On("Remaining").Return(1500)

	rec := httptest.NewRecorder()
	httpapi.New("127.0.0.1:0", timer).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timer/", nil))

	resp := decode(t, rec)
	require.NotNil(t, resp.Deadline)
	assert.Equal(t, "2024-01-15T12:25:00Z", *resp.Deadline)
	assert.True(t, resp.IsRunning)
}

func TestPostTimer_Actions(t *testing.T) {
	for _, action := range []string{"Start", "Pause", "Reset"} {
		t.Run(action, func(t *testing.T) {
			timer := new(MockTimer)
			timer.On(action).Return().Once()
			timer.On("Snapshot").Return(focustimer.Snapshot{Mode: focustimer.ModeWork, TimeRemaining: 1500})
			timer.On("Remaining").Return(1500)

			path := "/timer/" + map[string]string{"Start": "start", "Pause": "pause", "Reset": "reset"}[action]
			rec := httptest.NewRecorder()
			httpapi.New("127.0.0.1:0", timer).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			timer.AssertExpectations(t)
		})
	}
}

func TestPostTimer_UnknownAction(t *testing.T) {
	timer := new(MockTimer)

	rec := httptest.NewRecorder()
	httpapi.New("127.0.0.1:0", timer).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/timer/explode", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	timer.AssertNotCalled(t, "Start")
	timer.AssertNotCalled(t, "Snapshot")
}

func TestGetTimer_WrongMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	httpapi.New("127.0.0.1:0", new(MockTimer)).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/timer/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := httpapi.New("127.0.0.1:0", new(MockTimer))

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_RefusesNonLoopbackAddress(t *testing.T) {
	for _, addr := range []string{"0.0.0.0:7435", ":7435", "192.168.1.10:7435"} {
		server := httpapi.New(addr, new(MockTimer))

		err := server.Run(context.Background())

		assert.ErrorIs(t, err, model.ErrNotLoopback, addr)
	}
}

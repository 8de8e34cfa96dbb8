package notifications_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit-dev/shopkit/modules/notifications"
	"github.com/shopkit-dev/shopkit/pkg/jsonstore"
	"github.com/shopkit-dev/shopkit/pkg/notification"
)

func newTestRouter(t *testing.T) (http.Handler, *notification.Repository) {
	t.Helper()

	store, err := jsonstore.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	repo := notification.NewRepository(store)
	factory := notification.NewFactory(notification.FactoryConfig{})
	dispatcher := notification.NewDispatcher(repo, factory)

	return notifications.Router(dispatcher), repo
}

func TestRouter_SendNotification(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t)

	body := `{"user_id": 7, "channel": "email", "title": "Welcome!", "message": "Glad to have you."}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Delivered bool `json:"delivered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Delivered)

	saved, err := repo.FindByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, notification.StatusSent, saved[0].Status)
}

func TestRouter_SendDefaultsToEmail(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t)

	body := `{"user_id": 7, "title": "Hi", "message": "No channel given."}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	saved, err := repo.FindByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, notification.ChannelEmail, saved[0].Channel)
}

func TestRouter_SendValidationError(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	body := `{"user_id": 7, "channel": "email", "title": "", "message": "no title"}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SendBadBody(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UserNotifications(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t)
	ctx := context.Background()

	first, err := repo.Save(ctx, notification.New(7, notification.ChannelEmail, "A", "a"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, notification.New(7, notification.ChannelSMS, "B", "b"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, notification.New(8, notification.ChannelPush, "C", "c"))
	require.NoError(t, err)

	_, err = repo.MarkSent(ctx, first.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []notification.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	req = httptest.NewRequest(http.MethodGet, "/users/7?status=sent", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestRouter_UserNotificationsBadStatus(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/7?status=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PendingNotifications(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, notification.New(7, notification.ChannelEmail, "A", "a"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []notification.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, notification.StatusPending, list[0].Status)
}

func TestRouter_RetryFailed(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, notification.New(7, notification.ChannelEmail, "A", "a"))
	require.NoError(t, err)
	_, err = repo.MarkFailed(ctx, saved.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/retry", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["recovered"])

	remaining, err := repo.FindByStatus(ctx, notification.StatusFailed)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

package subjects_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/gateway"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/subjects"
	"github.com/Paul200287/GradeTracker/users"
	"github.com/stretchr/testify/require"
)

type request struct {
	method string
	path   string
	body   map[string]any
}

type fixture struct {
	store    *clientstore.Store
	client   *subjects.Client
	requests []request
}

func setupFixture(t *testing.T, status int, response string) *fixture {
	t.Helper()
	f := &fixture{store: clientstore.New(clientstore.NewMemoryStorage())}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{method: r.Method, path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &req.body))
		}
		f.requests = append(f.requests, req)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	api, err := gateway.New(srv.URL, f.store, nil)
	require.NoError(t, err)
	f.client = subjects.NewClient(api, f.store)
	return f
}

const subjectJSON = `{"id":4,"user_id":7,"name":"Maths","description":null,"semester":"WS25","teacher_name":"Dr. Rossi","created_at":"2025-10-01T09:00:00.123456","updated_at":null}`

func TestClient_List(t *testing.T) {
	f := setupFixture(t, http.StatusOK, "["+subjectJSON+"]")

	list, err := f.client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Maths", list[0].Name)
	require.Nil(t, list[0].Description)
	require.Equal(t, "WS25", *list[0].Semester)
	require.Equal(t, "Oct 1, 2025, 09:00 AM", list[0].CreatedAt.Display())
	require.Equal(t, []request{{method: http.MethodGet, path: "/api/v1/subjects/"}}, f.requests)
}

func TestClient_Get(t *testing.T) {
	f := setupFixture(t, http.StatusOK, subjectJSON)

	s, err := f.client.Get(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, 4, s.ID)
	require.Equal(t, "/api/v1/subjects/4", f.requests[0].path)
}

func TestClient_Create(t *testing.T) {
	t.Run("sends the cached user id and nulls for blanks", func(t *testing.T) {
		f := setupFixture(t, http.StatusCreated, subjectJSON)
		f.store.Set(context.Background(), "token", &users.User{ID: 7, Email: "a@example.com"})

		s, err := f.client.Create(context.Background(), subjects.Input{Name: "  Maths ", Semester: "WS25", TeacherName: "Dr. Rossi", Description: "   "})
		require.NoError(t, err)
		require.Equal(t, 4, s.ID)

		require.Len(t, f.requests, 1)
		require.Equal(t, http.MethodPost, f.requests[0].method)
		require.Equal(t, "/api/v1/subjects/create-subject", f.requests[0].path)
		require.Equal(t, map[string]any{
			"user_id":      float64(7),
			"name":         "Maths",
			"description":  nil,
			"semester":     "WS25",
			"teacher_name": "Dr. Rossi",
		}, f.requests[0].body)
	})

	t.Run("without a cached user id", func(t *testing.T) {
		snapshots := map[string]*users.User{
			"no snapshot":         nil,
			"snapshot without id": {Email: "a@example.com"},
		}
		for name, snapshot := range snapshots {
			t.Run(name, func(t *testing.T) {
				f := setupFixture(t, http.StatusCreated, subjectJSON)
				f.store.Set(context.Background(), "token", snapshot)

				_, err := f.client.Create(context.Background(), subjects.Input{Name: "Maths"})
				require.ErrorIs(t, err, apperrors.ErrNotLoggedIn)
				require.Empty(t, f.requests)
			})
		}
	})

	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		f := setupFixture(t, http.StatusCreated, subjectJSON)
		f.store.Set(context.Background(), "token", &users.User{ID: 7})

		_, err := f.client.Create(context.Background(), subjects.Input{Name: " ", Semester: strings.Repeat("s", 21)})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Contains(t, err.Error(), "name is required")
		require.Contains(t, err.Error(), "semester must be at most 20 characters")
		require.Empty(t, f.requests)
	})

	t.Run("backend rejection", func(t *testing.T) {
		f := setupFixture(t, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`)
		f.store.Set(context.Background(), "token", &users.User{ID: 7})

		_, err := f.client.Create(context.Background(), subjects.Input{Name: "Maths"})
		require.ErrorIs(t, err, apperrors.ErrBackend)
		require.Equal(t, "body.name: field required", gateway.ErrorMessage(err))
	})
}

func TestClient_Update(t *testing.T) {
	f := setupFixture(t, http.StatusCreated, subjectJSON)

	_, err := f.client.Update(context.Background(), 4, subjects.Input{Name: "Maths", Description: "Linear algebra"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, f.requests[0].method)
	require.Equal(t, "/api/v1/subjects/update-subject/4", f.requests[0].path)
	require.Equal(t, map[string]any{
		"name":         "Maths",
		"description":  "Linear algebra",
		"semester":     nil,
		"teacher_name": nil,
	}, f.requests[0].body)
}

func TestClient_Delete(t *testing.T) {
	f := setupFixture(t, http.StatusOK, `true`)

	require.NoError(t, f.client.Delete(context.Background(), 4))
	require.Equal(t, request{method: http.MethodDelete, path: "/api/v1/subjects/delete-subject/4"}, f.requests[0])
}

func TestClient_UnauthorizedClearsStore(t *testing.T) {
	f := setupFixture(t, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
	ctx := context.Background()
	f.store.Set(ctx, "stale", &users.User{ID: 7})

	_, err := f.client.List(ctx)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, ok := f.store.Get(ctx)
	require.False(t, ok)
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/api"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
)

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (apiconnect.BillServiceClient, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewBillService(store, jwtManager, nil)
	path, handler := apiconnect.NewBillServiceHandler(svc,
		connect.WithInterceptors(middleware.EditToken(jwtManager)),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return client, cleanup
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestCalculate_SharedDish(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		People:   []api.Person{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}},
		Dishes:   []api.Dish{{ID: "d1", Name: "Pizza", Price: 100}},
		Ratios:   map[string]map[string]int{"p1": {"d1": 1}, "p2": {"d1": 1}},
		Payments: []api.Payment{{PersonID: "p1", Amount: 100}},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if resp.Msg.Total != 100 {
		t.Errorf("expected total 100, got %f", resp.Msg.Total)
	}
	if len(resp.Msg.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(resp.Msg.Settlements))
	}
	s := resp.Msg.Settlements[0]
	if s.DebtorName != "Bob" || s.CreditorName != "Alice" || s.Amount != 50 {
		t.Errorf("expected Bob pays Alice 50, got %+v", s)
	}
	if len(resp.Msg.People) != 2 || resp.Msg.People[0].PersonID != "p1" {
		t.Errorf("expected summaries in input order, got %+v", resp.Msg.People)
	}
}

func TestCalculate_EmptyBill(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if resp.Msg.Total != 0 || len(resp.Msg.Settlements) != 0 {
		t.Errorf("expected empty result, got %+v", resp.Msg)
	}
}

func TestCalculate_InvalidRequest(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		People: []api.Person{{ID: "", Name: "Nobody"}},
	}))
	if err == nil {
		t.Fatal("expected error for person without id")
	}
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", connect.CodeOf(err))
	}
}

func TestSessionLifecycle(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	data := json.RawMessage(`{"people":[{"id":"p1","name":"Alice"}]}`)
	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Title: "Friday dinner",
		Data:  data,
	}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if created.Msg.SessionID == "" || created.Msg.EditToken == "" {
		t.Fatalf("expected session id and edit token, got %+v", created.Msg)
	}
	id, token := created.Msg.SessionID, created.Msg.EditToken

	t.Run("get without token", func(t *testing.T) {
		got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: id}))
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.Msg.Title != "Friday dinner" {
			t.Errorf("expected title 'Friday dinner', got %q", got.Msg.Title)
		}
		if string(got.Msg.Data) != string(data) {
			t.Errorf("expected data %s, got %s", data, got.Msg.Data)
		}
	})

	t.Run("update without token", func(t *testing.T) {
		_, err := client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
			SessionID: id,
			Data:      json.RawMessage(`{}`),
		}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("update with garbage token", func(t *testing.T) {
		_, err := client.UpdateSession(ctx, withToken(&api.UpdateSessionRequest{
			SessionID: id,
			Data:      json.RawMessage(`{}`),
		}, "not-a-jwt"))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("update keeps title when empty", func(t *testing.T) {
		newData := json.RawMessage(`{"people":[]}`)
		resp, err := client.UpdateSession(ctx, withToken(&api.UpdateSessionRequest{
			SessionID: id,
			Data:      newData,
		}, token))
		if err != nil {
			t.Fatalf("UpdateSession failed: %v", err)
		}
		if resp.Msg.UpdatedAt < created.Msg.CreatedAt {
			t.Errorf("updated_at %d before created_at %d", resp.Msg.UpdatedAt, created.Msg.CreatedAt)
		}

		got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: id}))
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.Msg.Title != "Friday dinner" {
			t.Errorf("expected title to be kept, got %q", got.Msg.Title)
		}
		if string(got.Msg.Data) != string(newData) {
			t.Errorf("expected data %s, got %s", newData, got.Msg.Data)
		}
	})

	t.Run("token for another session", func(t *testing.T) {
		other, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
			Data: json.RawMessage(`[]`),
		}))
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		_, err = client.DeleteSession(ctx, withToken(&api.DeleteSessionRequest{SessionID: id}, other.Msg.EditToken))
		if connect.CodeOf(err) != connect.CodePermissionDenied {
			t.Errorf("expected PermissionDenied, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_, err := client.DeleteSession(ctx, withToken(&api.DeleteSessionRequest{SessionID: id}, token))
		if err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}

		_, err = client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: id}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound after delete, got %v", err)
		}

		_, err = client.DeleteSession(ctx, withToken(&api.DeleteSessionRequest{SessionID: id}, token))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("expected NotFound on second delete, got %v", err)
		}
	})
}

func TestCreateSession_GeneratesTitle(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{
		Data: json.RawMessage(`{}`),
	}))
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	want := "Bill - " + time.Unix(resp.Msg.CreatedAt, 0).UTC().Format("Jan 2, 2006")
	if resp.Msg.Title != want {
		t.Errorf("expected title %q, got %q", want, resp.Msg.Title)
	}
}

func TestCreateSession_InvalidData(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		data json.RawMessage
	}{
		{name: "missing data", data: nil},
		{name: "null data", data: json.RawMessage(`null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateSession(context.Background(), connect.NewRequest(&api.CreateSessionRequest{
				Data: tt.data,
			}))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestGetSession_NotFound(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.GetSession(context.Background(), connect.NewRequest(&api.GetSessionRequest{
		SessionID: "does-not-exist",
	}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

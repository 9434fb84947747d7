package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hisab-app/hisab/internal/models"
	"github.com/hisab-app/hisab/internal/service"
	"github.com/hisab-app/hisab/internal/storage"
	"github.com/hisab-app/hisab/internal/storage/sqlite"
)

// testServer hosts the API with a switchable authenticated caller.
type testServer struct {
	router *gin.Engine
	store  storage.Store
	caller string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tempDir, err := os.MkdirTemp("", "hisab-handlers-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ts := &testServer{store: store}
	h := New(
		service.NewUserService(store),
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewSettlementService(store),
		service.NewBalanceService(store),
	)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("auth_user_id", ts.caller)
		c.Next()
	})
	h.RegisterRoutes(api)
	ts.router = router
	return ts
}

// do performs a request as the current caller and decodes the JSON body.
func (ts *testServer) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

func (ts *testServer) seedUsers(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := ts.store.UpsertUser(context.Background(), &models.User{
			ID: id, Name: id, Email: id + "@example.com",
		})
		if err != nil {
			t.Fatalf("UpsertUser(%s) failed: %v", id, err)
		}
	}
}

func TestGroupEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUsers(t, "alice", "bob", "carol")
	ts.caller = "alice"

	var group groupResponse
	code := ts.do(t, http.MethodPost, "/api/groups", gin.H{
		"name":       "Trip to Goa",
		"category":   "trip",
		"member_ids": []string{"bob"},
	}, &group)
	if code != http.StatusCreated {
		t.Fatalf("create group status = %d", code)
	}
	if len(group.MemberIDs) != 2 {
		t.Errorf("MemberIDs = %v", group.MemberIDs)
	}

	t.Run("members can fetch the group", func(t *testing.T) {
		ts.caller = "bob"
		var got groupResponse
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID, nil, &got); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if got.Name != "Trip to Goa" {
			t.Errorf("Name = %q", got.Name)
		}
	})

	t.Run("outsiders get 403", func(t *testing.T) {
		ts.caller = "carol"
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID, nil, nil); code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
	})

	t.Run("missing group gets 404", func(t *testing.T) {
		ts.caller = "alice"
		if code := ts.do(t, http.MethodGet, "/api/groups/nope", nil, nil); code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", code)
		}
	})

	t.Run("empty name gets 400", func(t *testing.T) {
		ts.caller = "alice"
		if code := ts.do(t, http.MethodPost, "/api/groups", gin.H{}, nil); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("only the creator deletes", func(t *testing.T) {
		ts.caller = "bob"
		if code := ts.do(t, http.MethodDelete, "/api/groups/"+group.ID, nil, nil); code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", code)
		}
		ts.caller = "alice"
		if code := ts.do(t, http.MethodDelete, "/api/groups/"+group.ID, nil, nil); code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", code)
		}
	})
}

func TestExpenseAndBalanceEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUsers(t, "alice", "bob", "carol")
	ts.caller = "alice"

	var group groupResponse
	if code := ts.do(t, http.MethodPost, "/api/groups", gin.H{
		"name":       "Flat 402",
		"member_ids": []string{"bob", "carol"},
	}, &group); code != http.StatusCreated {
		t.Fatalf("create group status = %d", code)
	}

	var expense expenseResponse
	code := ts.do(t, http.MethodPost, "/api/expenses", gin.H{
		"group_id":    group.ID,
		"amount":      "300.00",
		"description": "Dinner",
		"splits": []gin.H{
			{"user_id": "alice"}, {"user_id": "bob"}, {"user_id": "carol"},
		},
	}, &expense)
	if code != http.StatusCreated {
		t.Fatalf("create expense status = %d", code)
	}
	if expense.Amount != "300.00" {
		t.Errorf("Amount = %q", expense.Amount)
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("got %d splits", len(expense.Splits))
	}
	for _, s := range expense.Splits {
		if s.Amount != "100.00" {
			t.Errorf("split %s = %q, want 100.00", s.UserID, s.Amount)
		}
	}

	t.Run("amounts with sub-paise precision get 400", func(t *testing.T) {
		code := ts.do(t, http.MethodPost, "/api/expenses", gin.H{
			"amount":      "10.005",
			"description": "Weird",
		}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})

	t.Run("group balances for the payer", func(t *testing.T) {
		var resp struct {
			Balances []balanceResponse `json:"balances"`
			Summary  summaryResponse   `json:"summary"`
		}
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID+"/balances", nil, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if len(resp.Balances) != 2 {
			t.Fatalf("got %d balances: %+v", len(resp.Balances), resp.Balances)
		}
		for _, b := range resp.Balances {
			if b.Amount != "100.00" {
				t.Errorf("balance %s = %q, want 100.00", b.UserID, b.Amount)
			}
		}
		want := summaryResponse{
			TotalExpenses:  "300.00",
			YourTotalPaid:  "300.00",
			YourTotalShare: "100.00",
		}
		if resp.Summary != want {
			t.Errorf("summary = %+v, want %+v", resp.Summary, want)
		}
	})

	t.Run("settlement plan clears the group", func(t *testing.T) {
		var resp struct {
			Transfers []transferResponse `json:"transfers"`
		}
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID+"/settlements/plan", nil, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if len(resp.Transfers) != 2 {
			t.Fatalf("got %d transfers: %+v", len(resp.Transfers), resp.Transfers)
		}
		for _, tr := range resp.Transfers {
			if tr.ToUserID != "alice" || tr.Amount != "100.00" {
				t.Errorf("transfer = %+v", tr)
			}
		}
	})

	t.Run("recording a settlement updates balances", func(t *testing.T) {
		ts.caller = "bob"
		var settlement settlementResponse
		code := ts.do(t, http.MethodPost, "/api/settlements", gin.H{
			"group_id":       group.ID,
			"to_user_id":     "alice",
			"amount":         "100.00",
			"payment_method": "upi",
		}, &settlement)
		if code != http.StatusCreated {
			t.Fatalf("status = %d", code)
		}
		if settlement.FromUserID != "bob" {
			t.Errorf("FromUserID = %q, want caller default", settlement.FromUserID)
		}

		var resp struct {
			Balances []balanceResponse `json:"balances"`
		}
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID+"/balances", nil, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if len(resp.Balances) != 0 {
			t.Errorf("bob still has balances: %+v", resp.Balances)
		}
	})

	t.Run("deleting the expense removes it from balances", func(t *testing.T) {
		ts.caller = "alice"
		if code := ts.do(t, http.MethodDelete, "/api/expenses/"+expense.ID, nil, nil); code != http.StatusNoContent {
			t.Fatalf("status = %d", code)
		}

		var resp struct {
			Balances []balanceResponse `json:"balances"`
		}
		if code := ts.do(t, http.MethodGet, "/api/groups/"+group.ID+"/balances", nil, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		// Only bob's now-unmatched settlement remains.
		if len(resp.Balances) != 1 || resp.Balances[0].Amount != "-100.00" {
			t.Errorf("balances = %+v", resp.Balances)
		}
	})
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUsers(t, "bob")
	ts.caller = "alice"

	t.Run("profile update and fetch", func(t *testing.T) {
		var user userResponse
		code := ts.do(t, http.MethodPut, "/api/users/me", gin.H{
			"name":   "Alice",
			"email":  "alice@example.com",
			"upi_id": "alice@okbank",
		}, &user)
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if user.UPIID != "alice@okbank" {
			t.Errorf("UPIID = %q", user.UPIID)
		}

		var me userResponse
		if code := ts.do(t, http.MethodGet, "/api/users/me", nil, &me); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if me.Name != "Alice" {
			t.Errorf("Name = %q", me.Name)
		}
	})

	t.Run("upi link for a payee", func(t *testing.T) {
		var resp struct {
			Link   string `json:"link"`
			Amount string `json:"amount"`
		}
		code := ts.do(t, http.MethodGet, "/api/settlements/upi-link?payee_id=bob&amount=42.50", nil, &resp)
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if resp.Amount != "42.50" {
			t.Errorf("Amount = %q", resp.Amount)
		}
		if resp.Link == "" {
			t.Error("expected a upi link")
		}
	})

	t.Run("upi link without payee gets 400", func(t *testing.T) {
		if code := ts.do(t, http.MethodGet, "/api/settlements/upi-link?amount=1.00", nil, nil); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	})
}

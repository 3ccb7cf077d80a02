package interfaces

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoisensee/MyFinances/internal/auth"
	"github.com/gustavoisensee/MyFinances/internal/finance/application"
	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	"github.com/gustavoisensee/MyFinances/internal/finance/infrastructure"
)

// flowServer wires the real services over the in-memory store. The caller id
// comes from the X-Test-User header.
func flowServer(t *testing.T) (*httptest.Server, *infrastructure.MemoryStore) {
	t.Helper()
	store := infrastructure.NewMemoryStore()
	owners := application.NewOwnership(store.Ownership())
	budgets := application.NewBudgetService(store.Budgets(),
		application.NewOrderedCollection(domain.KindBudget, store.BudgetSiblings(), owners, store), owners, store)
	months := application.NewMonthService(store.Months(), store.Years(), store.Budgets(), store.Incomes(), owners, store)

	budgetHandler := NewBudgetHandler(budgets, RespondJSON, RespondError)
	monthHandler := NewMonthHandler(months, RespondJSON, RespondError)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /budget", budgetHandler.GetBudgets)
	mux.HandleFunc("POST /budget", budgetHandler.CreateBudget)
	mux.HandleFunc("PUT /budget/reorder", budgetHandler.ReorderBudgets)
	mux.HandleFunc("PUT /budget/{id}", budgetHandler.UpdateBudget)
	mux.HandleFunc("DELETE /budget/{id}", budgetHandler.DeleteBudget)
	mux.HandleFunc("POST /month", monthHandler.CreateMonth)
	mux.HandleFunc("GET /month/{id}", monthHandler.GetMonth)

	withUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID int64
		fmt.Sscan(r.Header.Get("X-Test-User"), &userID)
		mux.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})

	server := httptest.NewServer(withUser)
	t.Cleanup(server.Close)
	return server, store
}

func call(t *testing.T, server *httptest.Server, userID int64, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("X-Test-User", fmt.Sprint(userID))
	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return res.StatusCode, payload
}

func dataID(t *testing.T, payload map[string]interface{}) int64 {
	t.Helper()
	data, ok := payload["data"].(map[string]interface{})
	require.True(t, ok, "payload has no data object: %v", payload)
	return int64(data["id"].(float64))
}

func indexesOf(t *testing.T, payload map[string]interface{}) map[int64]int {
	t.Helper()
	out := map[int64]int{}
	for _, item := range payload["data"].([]interface{}) {
		b := item.(map[string]interface{})
		out[int64(b["id"].(float64))] = int(b["index"].(float64))
	}
	return out
}

func TestFlow_AppendDeleteReorder(t *testing.T) {
	server, store := flowServer(t)
	year := store.AddYear(2024)
	const user = int64(7)

	status, payload := call(t, server, user, http.MethodPost, "/month", fmt.Sprintf(`{"value":3,"yearId":%d}`, year.ID))
	require.Equal(t, http.StatusCreated, status)
	monthID := dataID(t, payload)

	status, payload = call(t, server, user, http.MethodPost, "/budget", fmt.Sprintf(`{"description":"Rent","value":900,"monthId":%d}`, monthID))
	require.Equal(t, http.StatusCreated, status)
	first := dataID(t, payload)
	status, payload = call(t, server, user, http.MethodPost, "/budget", fmt.Sprintf(`{"description":"Food","value":"250.50","monthId":%d}`, monthID))
	require.Equal(t, http.StatusCreated, status)
	second := dataID(t, payload)

	_, payload = call(t, server, user, http.MethodGet, fmt.Sprintf("/budget?monthId=%d", monthID), "")
	assert.Equal(t, map[int64]int{first: 0, second: 1}, indexesOf(t, payload))

	status, _ = call(t, server, user, http.MethodDelete, fmt.Sprintf("/budget/%d", first), "")
	require.Equal(t, http.StatusOK, status)

	_, payload = call(t, server, user, http.MethodGet, fmt.Sprintf("/budget?monthId=%d", monthID), "")
	assert.Equal(t, map[int64]int{second: 0}, indexesOf(t, payload))

	status, payload = call(t, server, user, http.MethodPut, "/budget/reorder", fmt.Sprintf(`{"monthId":%d,"ids":[%d]}`, monthID, second))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[int64]int{second: 0}, indexesOf(t, payload))
}

func TestFlow_ReorderMismatchLeavesOrder(t *testing.T) {
	server, store := flowServer(t)
	year := store.AddYear(2024)
	const user = int64(7)
	month := store.AddMonth(user, year.ID, 1)

	var ids []int64
	for _, name := range []string{"One", "Two", "Three"} {
		status, payload := call(t, server, user, http.MethodPost, "/budget", fmt.Sprintf(`{"description":%q,"value":10,"monthId":%d}`, name, month.ID))
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, dataID(t, payload))
	}

	bodies := []string{
		fmt.Sprintf(`{"monthId":%d,"ids":[]}`, month.ID),
		fmt.Sprintf(`{"monthId":%d,"ids":[%d,%d]}`, month.ID, ids[2], ids[1]),
		fmt.Sprintf(`{"monthId":%d,"ids":[%d,%d,%d,999]}`, month.ID, ids[2], ids[1], ids[0]),
		fmt.Sprintf(`{"monthId":%d,"ids":[%d,%d,%d]}`, month.ID, ids[2], ids[2], ids[0]),
	}
	for _, body := range bodies {
		status, _ := call(t, server, user, http.MethodPut, "/budget/reorder", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
	}

	status, payload := call(t, server, user, http.MethodPut, "/budget/reorder", fmt.Sprintf(`{"monthId":%d,"ids":[%d,%d,%d]}`, month.ID, ids[2], ids[0], ids[1]))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[int64]int{ids[2]: 0, ids[0]: 1, ids[1]: 2}, indexesOf(t, payload))
}

func TestFlow_ForeignUserSeesNotFound(t *testing.T) {
	server, store := flowServer(t)
	year := store.AddYear(2024)
	month := store.AddMonth(7, year.ID, 1)

	status, payload := call(t, server, 7, http.MethodPost, "/budget", fmt.Sprintf(`{"description":"Rent","value":10,"monthId":%d}`, month.ID))
	require.Equal(t, http.StatusCreated, status)
	budgetID := dataID(t, payload)

	status, _ = call(t, server, 8, http.MethodGet, fmt.Sprintf("/month/%d", month.ID), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, 8, http.MethodPost, "/budget", fmt.Sprintf(`{"description":"Rent","value":10,"monthId":%d}`, month.ID))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, 8, http.MethodPut, fmt.Sprintf("/budget/%d", budgetID), `{"description":"Mine now"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, 8, http.MethodDelete, fmt.Sprintf("/budget/%d", budgetID), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, payload = call(t, server, 8, http.MethodGet, "/budget", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, payload["data"])

	status, payload = call(t, server, 7, http.MethodGet, fmt.Sprintf("/month/%d", month.ID), "")
	require.Equal(t, http.StatusOK, status)
	budgets := payload["data"].(map[string]interface{})["budgets"].([]interface{})
	assert.Len(t, budgets, 1)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastoria/orders-api/internal/domain/analytics"
	"github.com/tastoria/orders-api/internal/domain/cart"
	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/domain/identity"
	"github.com/tastoria/orders-api/internal/domain/order"
)

// --- Mock implementations ---

type mockItemRepo struct {
	byID map[string]catalog.MenuItem
}

func (m *mockItemRepo) ListByRestaurant(_ context.Context, restaurant string) ([]catalog.MenuItem, error) {
	var out []catalog.MenuItem
	for _, it := range m.byID {
		if it.Restaurant == restaurant {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id string) (*catalog.MenuItem, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	return &it, nil
}

func (m *mockItemRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.MenuItem, error) {
	var out []catalog.MenuItem
	for _, id := range ids {
		if it, ok := m.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockItemRepo) Count(_ context.Context) (int, error) { return len(m.byID), nil }

func (m *mockItemRepo) Create(_ context.Context, item *catalog.MenuItem) error {
	m.byID[item.ID] = *item
	return nil
}

func (m *mockItemRepo) Update(_ context.Context, restaurant string, item *catalog.MenuItem) error {
	cur, ok := m.byID[item.ID]
	if !ok || cur.Restaurant != restaurant {
		return catalog.ErrItemNotFound
	}
	m.byID[item.ID] = *item
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, restaurant, id string) error {
	cur, ok := m.byID[id]
	if !ok || cur.Restaurant != restaurant {
		return catalog.ErrItemNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockRestaurantRepo struct {
	byID map[string]catalog.Restaurant
}

func (m *mockRestaurantRepo) List(_ context.Context) ([]catalog.Restaurant, error) {
	var out []catalog.Restaurant
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRestaurantRepo) Create(_ context.Context, rest *catalog.Restaurant) error {
	m.byID[rest.ID] = *rest
	return nil
}

func (m *mockRestaurantRepo) Update(_ context.Context, rest *catalog.Restaurant) error {
	if _, ok := m.byID[rest.ID]; !ok {
		return catalog.ErrRestaurantNotFound
	}
	m.byID[rest.ID] = *rest
	return nil
}

func (m *mockRestaurantRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return catalog.ErrRestaurantNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockOrderRepo struct {
	orders []order.Order
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.CreatedAt = time.Now()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]order.Order, error) {
	return m.orders, nil
}

func (m *mockOrderRepo) ListByRestaurant(_ context.Context, restaurant string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.Restaurant == restaurant {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status order.Status, restaurant string) (*order.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID != id {
			continue
		}
		if restaurant != "" && m.orders[i].Restaurant != restaurant {
			return nil, order.ErrNotFound
		}
		m.orders[i].Status = status
		o := m.orders[i]
		return &o, nil
	}
	return nil, order.ErrNotFound
}

type mockCartRepo struct {
	byEmail map[string][]cart.Line
}

func (m *mockCartRepo) Get(_ context.Context, email string) ([]cart.Line, error) {
	lines := m.byEmail[email]
	if lines == nil {
		lines = []cart.Line{}
	}
	return lines, nil
}

func (m *mockCartRepo) Replace(_ context.Context, email string, lines []cart.Line) error {
	m.byEmail[email] = lines
	return nil
}

func (m *mockCartRepo) MergeAdd(_ context.Context, email string, lines []cart.Line) error {
	existing := m.byEmail[email]
	for _, l := range lines {
		merged := false
		for i := range existing {
			if existing[i].ItemID == l.ItemID {
				existing[i].Quantity += l.Quantity
				merged = true
				break
			}
		}
		if !merged {
			existing = append(existing, l)
		}
	}
	m.byEmail[email] = existing
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, email string) error {
	delete(m.byEmail, email)
	return nil
}

type mockUserRepo struct {
	byEmail map[string]*identity.User
}

func (m *mockUserRepo) Create(_ context.Context, u *identity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return identity.ErrEmailTaken
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*identity.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *identity.User) error {
	for email, cur := range m.byEmail {
		if cur.ID == u.ID {
			cp := *u
			m.byEmail[email] = &cp
			return nil
		}
	}
	return identity.ErrUserNotFound
}

type noopSender struct{}

func (noopSender) Send(_ context.Context, _, _, _ string) error { return nil }

type stubUploader struct {
	url    string
	err    error
	folder string
}

func (s *stubUploader) Upload(_ context.Context, folder string, _ io.Reader) (string, error) {
	s.folder = folder
	return s.url, s.err
}

// --- Helpers ---

type testEnv struct {
	handler *Handler
	mux     *http.ServeMux

	items   *mockItemRepo
	orders  *mockOrderRepo
	carts   *mockCartRepo
	users   *mockUserRepo
	ident   *identity.Service
	uploads *stubUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	items := &mockItemRepo{byID: make(map[string]catalog.MenuItem)}
	rests := &mockRestaurantRepo{byID: make(map[string]catalog.Restaurant)}
	orders := &mockOrderRepo{}
	carts := &mockCartRepo{byEmail: make(map[string][]cart.Line)}
	users := &mockUserRepo{byEmail: make(map[string]*identity.User)}

	ident := identity.NewService(ctx, users, noopSender{},
		identity.NewTokenIssuer([]byte("test-secret"), time.Hour), identity.Config{})

	uploads := &stubUploader{url: "https://cdn.test/img.jpg"}
	h := NewHandler(
		catalog.NewService(rests, items),
		cart.NewService(carts),
		order.NewService(items, orders),
		analytics.NewReporter(orders, items),
		ident,
		uploads,
	)

	return &testEnv{
		handler: h, mux: h.Routes(),
		items: items, orders: orders, carts: carts, users: users,
		ident: ident, uploads: uploads,
	}
}

func (e *testEnv) addItem(id, name, price string) {
	e.items.byID[id] = catalog.MenuItem{
		ID:          id,
		Restaurant:  "tastoria-downtown",
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Category:    catalog.CategoryMainCourse,
		IsAvailable: true,
	}
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin := &identity.User{ID: "admin-1", Name: "Admin", Email: "admin@tastoria.dev", Role: identity.RoleAdmin, Verified: true}
	e.users.byEmail[admin.Email] = admin

	session, err := e.ident.GoogleSignIn(context.Background(), admin.Name, admin.Email, "fb-admin")
	require.NoError(t, err)
	return session.Token
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends a multipart form with the given fields and, when
// filePart is non-empty, one small file part under that name.
func (e *testEnv) doMultipart(t *testing.T, method, target, token string, fields map[string]string, filePart string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filePart != "" {
		fw, err := mw.CreateFormFile(filePart, "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- Tests ---

func TestPlaceOrder_Success(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("plov", "Plov", "10.00")
	env.addItem("tea", "Green Tea", "2.50")

	rec := env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{
		CustomerName: "Aziz",
		Phone:        "+998901234567",
		Restaurant:   "tastoria-downtown",
		Items: []orderItemRequest{
			{ItemID: "plov", Quantity: 2},
			{ItemID: "tea", Quantity: 2},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[orderResponse](t, rec)
	assert.Equal(t, "25", resp.Total.String())
	assert.Equal(t, order.StatusPending, resp.Status)
	assert.Len(t, resp.OrderNumber, 8)
	assert.Len(t, resp.Items, 2)
}

func TestPlaceOrder_UnknownItem(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("plov", "Plov", "10.00")

	rec := env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{
		CustomerName: "Aziz",
		Restaurant:   "tastoria-downtown",
		Items: []orderItemRequest{
			{ItemID: "plov", Quantity: 1},
			{ItemID: "ghost", Quantity: 1},
		},
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[errorResponse](t, rec)
	assert.Equal(t, kindNotFound, resp.Kind)
	assert.Empty(t, env.orders.orders)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{CustomerName: "Aziz"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, kindValidation, decodeBody[errorResponse](t, rec).Kind)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("plov", "Plov", "10.00")

	placed := decodeBody[orderResponse](t, env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{
		CustomerName: "Aziz",
		Restaurant:   "tastoria-downtown",
		Items:        []orderItemRequest{{ItemID: "plov", Quantity: 1}},
	}))

	rec := env.do(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", "",
		updateStatusRequest{Status: "Preparing"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.StatusPreparing, decodeBody[orderResponse](t, rec).Status)

	rec = env.do(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", "",
		updateStatusRequest{Status: "Vanished"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", "",
		updateStatusRequest{Status: "Ready", Restaurant: "tastoria-riverside"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders", env.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGuard_RejectsCustomerToken(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.ident.GoogleSignIn(context.Background(), "Aziz", "aziz@example.com", "fb-1")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/orders", session.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCart_MergeFlow(t *testing.T) {
	env := newTestEnv(t)
	const email = "aziz@example.com"

	line := cart.Line{ItemID: "plov", Name: "Plov", Price: decimal.RequireFromString("10.00"), Quantity: 2, Restaurant: "tastoria-downtown"}

	rec := env.do(t, http.MethodPost, "/api/cart/"+email+"/add-multiple", "", cartRequest{Items: []cart.Line{line}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/cart/"+email+"/add-multiple", "", cartRequest{Items: []cart.Line{line}})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[cartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Quantity)

	rec = env.do(t, http.MethodDelete, "/api/cart/"+email, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp = decodeBody[cartResponse](t, env.do(t, http.MethodGet, "/api/cart/"+email, "", nil))
	assert.Empty(t, resp.Items)
}

func TestCart_MergeRejectsMissingRestaurant(t *testing.T) {
	env := newTestEnv(t)
	const email = "aziz@example.com"

	rec := env.do(t, http.MethodPost, "/api/cart/"+email+"/add-multiple", "", cartRequest{
		Items: []cart.Line{{ItemID: "plov", Quantity: 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[cartResponse](t, env.do(t, http.MethodGet, "/api/cart/"+email, "", nil))
	assert.Empty(t, resp.Items)
}

func TestGetCart_AbsentIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/cart/nobody@example.com", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[cartResponse](t, rec)
	require.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestMenuCRUD_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	item := catalog.MenuItem{
		ID:          "plov",
		Name:        "Plov",
		Price:       decimal.RequireFromString("10.00"),
		Category:    catalog.CategoryMainCourse,
		IsAvailable: true,
	}

	rec := env.do(t, http.MethodPost, "/api/menu/tastoria-downtown", "", item)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/menu/tastoria-downtown", token, item)
	require.Equal(t, http.StatusCreated, rec.Code)

	menu := decodeBody[[]catalog.MenuItem](t, env.do(t, http.MethodGet, "/api/menu/tastoria-downtown", "", nil))
	require.Len(t, menu, 1)
	assert.Equal(t, "tastoria-downtown", menu[0].Restaurant)

	rec = env.do(t, http.MethodDelete, "/api/menu/tastoria-downtown/plov", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/menu/tastoria-downtown/plov", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMenuItem_WithoutID(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/menu/tastoria-downtown", token, catalog.MenuItem{
		Name:        "Lagman",
		Price:       decimal.RequireFromString("8.00"),
		Category:    catalog.CategoryMainCourse,
		IsAvailable: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody[catalog.MenuItem](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tastoria-downtown", created.Restaurant)
}

func TestTrendingItems_LimitValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/menu/trending?limit=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/menu/trending", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSales_EmptyIsJSONArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/menu/sales", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestStats_CountsDeliveredRevenue(t *testing.T) {
	env := newTestEnv(t)
	env.addItem("plov", "Plov", "10.00")
	token := env.adminToken(t)

	placed := decodeBody[orderResponse](t, env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{
		CustomerName: "Aziz",
		Phone:        "+998901234567",
		Restaurant:   "tastoria-downtown",
		Items:        []orderItemRequest{{ItemID: "plov", Quantity: 3}},
	}))
	env.do(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", "", updateStatusRequest{Status: "Delivered"})

	rec := env.do(t, http.MethodGet, "/api/orders/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody[statsResponse](t, rec)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 0, stats.ActiveOrders)
	assert.Equal(t, "30", stats.TotalRevenue.String())
	assert.Equal(t, 1, stats.TotalCustomers)
}

func TestAuth_SignupVerifyLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/signup", "", signupRequest{
		Name: "Aziz", Email: "aziz@example.com", Password: "s3cret!", ConfirmPassword: "s3cret!",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The account does not exist until the code is verified.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "aziz@example.com", Password: "s3cret!"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", verifyOTPRequest{Email: "aziz@example.com", Code: "000000"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, kindUnauthorized, decodeBody[errorResponse](t, rec).Kind)
}

func TestAuth_MeRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	session, err := env.ident.GoogleSignIn(context.Background(), "Aziz", "aziz@example.com", "fb-1")
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/api/auth/me", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeBody[userResponse](t, rec)
	assert.Equal(t, "aziz@example.com", me.Email)
	assert.Equal(t, identity.RoleCustomer, me.Role)
}

func TestGoogleSignIn_RequiresEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/google-signin", "", googleSignInRequest{Name: "Aziz"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.ident.GoogleSignIn(context.Background(), "Aziz", "aziz@example.com", "fb-1")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/auth/profile", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aziz@example.com", decodeBody[userResponse](t, rec).Email)

	rec = env.do(t, http.MethodPut, "/api/auth/profile", session.Token, profileUpdateRequest{Name: "Aziza"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Aziza", decodeBody[userResponse](t, rec).Name)

	env.users.byEmail["taken@example.com"] = &identity.User{ID: "u-2", Email: "taken@example.com"}
	rec = env.do(t, http.MethodPut, "/api/auth/profile", session.Token, profileUpdateRequest{Email: "taken@example.com"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfile_PhotoUpload(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.ident.GoogleSignIn(context.Background(), "Aziz", "aziz@example.com", "fb-1")
	require.NoError(t, err)

	rec := env.doMultipart(t, http.MethodPut, "/api/auth/profile", session.Token,
		map[string]string{"name": "Aziz A."}, "photo")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[userResponse](t, rec)
	assert.Equal(t, "https://cdn.test/img.jpg", resp.ProfileImage)
	assert.Equal(t, "Aziz A.", resp.Name)
	assert.Equal(t, "profile_images", env.uploads.folder)
}

func TestRestaurantImageUpload_AdminOnly(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(t, http.MethodPost, "/api/restaurants/upload-image", "", nil, "file")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doMultipart(t, http.MethodPost, "/api/restaurants/upload-image", env.adminToken(t), nil, "file")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.test/img.jpg", decodeBody[map[string]string](t, rec)["url"])
	assert.Equal(t, "restaurants", env.uploads.folder)
}

func TestRestaurantCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/restaurants", token,
		catalog.Restaurant{ID: "tastoria-downtown", Name: "Tastoria Downtown"})
	require.Equal(t, http.StatusCreated, rec.Code)

	list := decodeBody[[]catalog.Restaurant](t, env.do(t, http.MethodGet, "/api/restaurants", "", nil))
	require.Len(t, list, 1)

	rec = env.do(t, http.MethodPut, "/api/restaurants/tastoria-downtown", token,
		catalog.Restaurant{Name: "Tastoria DT"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/restaurants/tastoria-downtown", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/restaurants/tastoria-downtown", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorBody_Shape(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/orders", "", placeOrderRequest{})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"code", "kind", "message"} {
		assert.Contains(t, body, key, fmt.Sprintf("error body must carry %q", key))
	}
}

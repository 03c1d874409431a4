package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/auth"
	"staffdash/internal/devapi"
	"staffdash/internal/domain"
	"staffdash/internal/listing"
)

var secret = []byte("api-test")

type fixture struct {
	server     *httptest.Server
	store      *devapi.Store
	session    *auth.Session
	client     *Client
	resetToken string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := devapi.NewStore()
	store.Seed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	resetToken, err := store.AddUser(domain.User{ID: "admin", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Role: domain.RoleAdmin}, "password123")
	require.NoError(t, err)

	srv := httptest.NewServer(devapi.NewServer(store, devapi.Options{Secret: secret, RequestsPerMinute: 10000}).Handler())
	t.Cleanup(srv.Close)

	session := auth.NewSession()
	return &fixture{
		server:     srv,
		store:      store,
		session:    session,
		client:     New(Options{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, session),
		resetToken: resetToken,
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	res, err := f.client.Login(context.Background(), "admin@example.com", "password123")
	require.NoError(t, err)
	f.session.Start(res.Token, res.User)
}

func TestLoginStartsSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), "admin@example.com", "nope")
	assert.True(t, domain.IsUnauthorized(err))

	f.login(t)
	assert.True(t, f.session.HasToken())
	assert.True(t, f.session.IsAdmin())
	assert.Equal(t, "Ada", f.session.User().FirstName)
}

func TestListWithoutTokenIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListEmployees(context.Background(), listing.Query{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestListEmployeesPage(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	page, err := f.client.ListEmployees(context.Background(), listing.Query{
		SortField:     "firstName",
		SortDirection: listing.Asc,
		Page:          4,
		PageSize:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 27, page.Total)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Items, 7)
}

func TestListFiltersUseEntityParams(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	projects, err := f.client.ListProjects(ctx, listing.Query{Status: string(domain.ProjectStatusCompleted), Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.NotEmpty(t, projects.Items)
	for _, p := range projects.Items {
		assert.Equal(t, domain.ProjectStatusCompleted, p.ProjectStatus)
	}

	invoices, err := f.client.ListInvoices(ctx, listing.Query{Search: "atlas", Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.NotEmpty(t, invoices.Items)
	for _, i := range invoices.Items {
		assert.Contains(t, i.Client, "Atlas")
	}
}

func TestQueryEncoding(t *testing.T) {
	v := employeeParams.values(listing.Query{Search: "ana", Status: "true", SortField: "salary", SortDirection: listing.Desc, Page: 2, PageSize: 20})
	assert.Equal(t, "ana", v.Get("searchTerm"))
	assert.Equal(t, "true", v.Get("isEmployed"))
	assert.Equal(t, "salary", v.Get("orderByField"))
	assert.Equal(t, "desc", v.Get("orderDirection"))
	assert.Equal(t, "20", v.Get("take"))
	assert.Equal(t, "2", v.Get("page"))

	v = invoiceParams.values(listing.Query{Page: 1, PageSize: 10})
	assert.False(t, v.Has("client"), "empty search is not sent")
	assert.False(t, v.Has("invoiceStatus"))
}

func TestMutationsRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	id, err := f.client.Create(ctx, domain.EntityInvoices, map[string]interface{}{
		"client": "Zeta", "industryType": "Retail", "totalHoursBilled": 10, "amount": 500, "invoiceStatus": "Sent",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, f.client.Update(ctx, domain.EntityInvoices, id, map[string]interface{}{"invoiceStatus": "Paid"}))

	err = f.client.Update(ctx, domain.EntityInvoices, id, map[string]interface{}{"client": ""})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client", verr.Field)

	require.NoError(t, f.client.Delete(ctx, domain.EntityInvoices, id))

	err = f.client.Delete(ctx, domain.EntityInvoices, id)
	assert.True(t, domain.IsNotFound(err))
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)

	msg, err := f.client.ResetPassword(context.Background(), "admin", f.resetToken, "brand-new-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = f.client.Login(context.Background(), "admin@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestProjectsInfo(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	info, err := f.client.ProjectsInfo(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, info.SalesChannelPercentage)
	assert.Contains(t, info.ProjectScope, "Fixed")
}

func TestTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, nil)
	_, err := c.ListInvoices(context.Background(), listing.Query{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	assert.Equal(t, "upstream down", domain.UserMessage(err))

	srv.Close()
	_, err = c.ListInvoices(context.Background(), listing.Query{Page: 1, PageSize: 10})
	assert.True(t, domain.IsTransport(err), "connection failures are transport errors")
}

func TestFetcherFeedsSource(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	src := listing.NewSource(f.client.Employees(), f.session, nil)
	applied, err := src.Fetch(context.Background(), listing.Query{Page: 1, PageSize: 10}, false)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, src.Page().Items, 10)
}

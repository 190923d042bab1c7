package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnishaShende/UPTIQ-HRM-System-sub002/internal/util"
)

func TestExactMatcher(t *testing.T) {
	m := Exact{Method: http.MethodPost, Path: "/api/v1/auth/login"}

	_, ok, err := m.Match(http.MethodPost, "/api/v1/auth/login")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, _ = m.Match(http.MethodGet, "/api/v1/auth/login")
	assert.False(t, ok)

	_, ok, _ = m.Match(http.MethodPost, "/api/v1/auth/login/extra")
	assert.False(t, ok)
}

func TestPrefixMatcher(t *testing.T) {
	m := Prefix{Method: http.MethodGet, Path: "/api/v1/employees"}

	_, ok, _ := m.Match(http.MethodGet, "/api/v1/employees")
	assert.True(t, ok)
	_, ok, _ = m.Match(http.MethodGet, "/api/v1/employees/search")
	assert.True(t, ok)
	_, ok, _ = m.Match(http.MethodPost, "/api/v1/employees")
	assert.False(t, ok)
}

func TestTemplateMatcher(t *testing.T) {
	m := NewTemplate("", "/api/v1/employees/{id:uuid}")

	params, ok, err := m.Match(http.MethodGet, "/api/v1/employees/6f1c2b3a-0d4e-4f5a-8b6c-7d8e9f0a1b2c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "6f1c2b3a-0d4e-4f5a-8b6c-7d8e9f0a1b2c", params["id"])

	_, ok, _ = m.Match(http.MethodGet, "/api/v1/employees")
	assert.False(t, ok)
	_, ok, _ = m.Match(http.MethodGet, "/api/v1/departments/6f1c2b3a-0d4e-4f5a-8b6c-7d8e9f0a1b2c")
	assert.False(t, ok)
}

func TestTemplateMatcherInvalidUUID(t *testing.T) {
	m := NewTemplate("", "/api/v1/employees/{id:uuid}")

	_, ok, err := m.Match(http.MethodGet, "/api/v1/employees/not-a-uuid")
	assert.True(t, ok)
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestBodySchemaValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"secret1"}`))

	s := Body{New: func() any { return &LoginRequest{} }}
	require.NoError(t, s.Apply(req, nil))

	// The body is rewritten in canonical form.
	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var got LoginRequest
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "user@example.com", got.Email)
}

func TestBodySchemaFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":"x"}`))

	s := Body{New: func() any { return &LoginRequest{} }}
	err := s.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	details := appErr.Details.([]FieldError)
	require.Len(t, details, 2)
	assert.Equal(t, "email", details[0].Field)
	assert.Contains(t, details[0].Message, "valid email")
}

func TestBodySchemaEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(""))

	s := Body{New: func() any { return &LoginRequest{} }}
	err := s.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Request body is required", appErr.Message)
}

func TestBodySchemaStripsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"secret1","rememberMe":true}`))

	s := Body{New: func() any { return &LoginRequest{} }}
	require.NoError(t, s.Apply(req, nil))

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "user@example.com")
	assert.NotContains(t, string(raw), "rememberMe")
}

func TestBodySchemaMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":`))

	s := Body{New: func() any { return &LoginRequest{} }}
	err := s.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Request body is not valid JSON", appErr.Message)
}

func TestRegisterRoleDefaultsToEmployee(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"longenough","firstName":"A","lastName":"B"}`))

	s := Body{New: func() any { return &RegisterRequest{} }}
	require.NoError(t, s.Apply(req, nil))

	var got RegisterRequest
	require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
	assert.Equal(t, "employee", got.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"longenough","firstName":"A","lastName":"B","role":"superuser"}`))

	s := Body{New: func() any { return &RegisterRequest{} }}
	err := s.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details.([]FieldError)
	require.Len(t, details, 1)
	assert.Equal(t, "role", details[0].Field)
}

func TestPaginationDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	require.NoError(t, Pagination{}.Apply(req, nil))

	q := req.URL.Query()
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "asc", q.Get("order"))
}

func TestPaginationKeepsSortField(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?sort=lastName&order=desc", nil)
	require.NoError(t, Pagination{}.Apply(req, nil))

	q := req.URL.Query()
	assert.Equal(t, "lastName", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("order"))
}

func TestPaginationBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?page=0&limit=500", nil)
	err := Pagination{}.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details.([]FieldError)
	assert.Len(t, details, 2)
}

func TestPaginationNonNumeric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?page=abc", nil)
	err := Pagination{}.Apply(req, nil)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details.([]FieldError)
	require.Len(t, details, 1)
	assert.Equal(t, "page", details[0].Field)
}

func TestMiddlewareRejectsInvalidLogin(t *testing.T) {
	h := Middleware(DefaultRules())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"bad"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestMiddlewareInvalidResourceID(t *testing.T) {
	h := Middleware(DefaultRules())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/42", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UUID")
}

func TestMiddlewareUnmatchedPassesThrough(t *testing.T) {
	var reached bool
	h := Middleware(DefaultRules())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/leave-types/custom", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, reached)
}

func TestMiddlewareNormalizesPagination(t *testing.T) {
	var gotQuery string
	h := Middleware(DefaultRules())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit=25", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, gotQuery, "limit=25")
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "order=asc")
}

func TestRuleTableCoversEveryResourcePrefix(t *testing.T) {
	rules := DefaultRules()

	match := func(method, path string) (Rule, bool) {
		for _, rule := range rules {
			if _, ok, _ := rule.Matcher.Match(method, path); ok {
				return rule, true
			}
		}
		return Rule{}, false
	}

	prefixes := []string{
		"employees", "departments", "positions",
		"leaves", "leave-types",
		"payroll", "payslips", "salary-structures",
		"jobs", "applications", "interviews", "recruitment",
	}
	for _, p := range prefixes {
		rule, ok := match(http.MethodGet, "/api/v1/"+p)
		require.True(t, ok, "no list rule for %s", p)
		assert.IsType(t, Pagination{}, rule.Schema, "list rule for %s", p)

		_, ok = match(http.MethodGet, "/api/v1/"+p+"/6f1c2b3a-0d4e-4f5a-8b6c-7d8e9f0a1b2c")
		assert.True(t, ok, "no id rule for %s", p)
	}
}

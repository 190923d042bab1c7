package validate

import "net/http"

// LoginRequest is the credential payload accepted on behalf of the auth
// service.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=admin hr_manager recruiter employee"`
}

// applyDefaults fills the role so callers that omit it register as a regular
// employee.
func (r *RegisterRequest) applyDefaults() {
	if r.Role == "" {
		r.Role = "employee"
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Rule pairs a matcher with the schema to run when it matches.
type Rule struct {
	Matcher Matcher
	Schema  Schema
}

// DefaultRules is the gateway's rule table, evaluated in order. Auth payloads
// are validated before proxying so obviously bad credentials never leave the
// gateway; resource IDs must be UUIDs; list endpoints get canonical
// pagination.
func DefaultRules() []Rule {
	return []Rule{
		{Matcher: Exact{Method: http.MethodPost, Path: "/api/v1/auth/login"},
			Schema: Body{New: func() any { return &LoginRequest{} }}},
		{Matcher: Exact{Method: http.MethodPost, Path: "/api/v1/auth/register"},
			Schema: Body{New: func() any { return &RegisterRequest{} }}},
		{Matcher: Exact{Method: http.MethodPost, Path: "/api/v1/auth/refresh"},
			Schema: Body{New: func() any { return &RefreshRequest{} }}},
		{Matcher: Exact{Method: http.MethodPost, Path: "/api/v1/auth/forgot-password"},
			Schema: Body{New: func() any { return &ForgotPasswordRequest{} }}},
		{Matcher: Exact{Method: http.MethodPost, Path: "/api/v1/auth/reset-password"},
			Schema: Body{New: func() any { return &ResetPasswordRequest{} }}},

		{Matcher: NewTemplate("", "/api/v1/employees/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/departments/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/positions/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/leaves/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/leave-types/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/payroll/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/payslips/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/salary-structures/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/jobs/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/applications/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/interviews/{id:uuid}")},
		{Matcher: NewTemplate("", "/api/v1/recruitment/{id:uuid}")},

		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/employees"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/departments"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/positions"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/leaves"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/leave-types"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/payroll"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/payslips"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/salary-structures"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/jobs"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/applications"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/interviews"}, Schema: Pagination{}},
		{Matcher: Prefix{Method: http.MethodGet, Path: "/api/v1/recruitment"}, Schema: Pagination{}},
	}
}

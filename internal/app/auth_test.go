package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/moviehub/catalog-service/api"
	"github.com/moviehub/catalog-service/internal/domain"
	"github.com/moviehub/catalog-service/internal/mocks"
)

func TestRegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFunc     func(context.Context, *domain.User) error
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "successful registration",
			body: api.RegisterUserRequest{Email: "new@example.com", Password: "Pa55word!"},
			createFunc: func(ctx context.Context, user *domain.User) error {
				user.ID = 1
				return nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid email",
			body:           api.RegisterUserRequest{Email: "not-an-email", Password: "Pa55word!"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be a valid email address",
		},
		{
			name:       "weak password",
			body:       api.RegisterUserRequest{Email: "new@example.com", Password: "password"},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrMessage: "must be at least 8 characters long and include at least one uppercase letter, one lowercase letter, " +
				"one number, and one special character (!@#$%^&*).",
		},
		{
			name: "duplicate email stays opaque",
			body: api.RegisterUserRequest{Email: "taken@example.com", Password: "Pa55word!"},
			createFunc: func(ctx context.Context, user *domain.User) error {
				return domain.ErrUserAlreadyExists
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "invalid input data",
		},
		{
			name: "database error",
			body: api.RegisterUserRequest{Email: "new@example.com", Password: "Pa55word!"},
			createFunc: func(ctx context.Context, user *domain.User) error {
				return fmt.Errorf("database connection error")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *application) {
				a.userRepo = &mocks.MockUserRepo{
					CreateFunc: tt.createFunc,
				}
			})

			w, r := executeRequest(t, http.MethodPost, "/auth/register", tt.body)

			app.RegisterUser(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("RegisterUser() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusCreated {
				var response api.UserResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if response.Id != 1 {
					t.Errorf("RegisterUser() id = %v, want %v", response.Id, 1)
				}
				if response.Role != string(domain.RoleUser) {
					t.Errorf("RegisterUser() role = %v, want %v", response.Role, domain.RoleUser)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func TestLoginUser(t *testing.T) {
	knownUser := &domain.User{ID: 7, Email: "user@example.com", Role: domain.RoleUser}
	if err := knownUser.Password.Set("Pa55word!"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		body           any
		getByEmailFunc func(context.Context, string) (*domain.User, error)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "successful login",
			body: api.LoginRequest{Email: "user@example.com", Password: "Pa55word!"},
			getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return knownUser, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: api.LoginRequest{Email: "user@example.com", Password: "WrongPa55!"},
			getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return knownUser, nil
			},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Invalid email or password",
		},
		{
			name: "unknown email",
			body: api.LoginRequest{Email: "nobody@example.com", Password: "Pa55word!"},
			getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, domain.ErrRecordNotFound
			},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Invalid email or password",
		},
		{
			name:           "missing password",
			body:           api.LoginRequest{Email: "user@example.com"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *application) {
				a.userRepo = &mocks.MockUserRepo{
					GetByEmailFunc: tt.getByEmailFunc,
				}
			})

			w, r := executeRequest(t, http.MethodPost, "/auth/login", tt.body)
			r = setupTestSession(t, app, r, 0)

			app.LoginUser(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("LoginUser() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				gotUserId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
				if gotUserId != 7 {
					t.Errorf("session user id = %v, want %v", gotUserId, 7)
				}

				gotRole := app.sessionManager.GetString(r.Context(), SessionKeyUserRole.String())
				if gotRole != string(domain.RoleUser) {
					t.Errorf("session role = %v, want %v", gotRole, domain.RoleUser)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func TestLogoutUser(t *testing.T) {
	app := newTestApplication()

	w, r := executeRequest(t, http.MethodPost, "/auth/logout", nil)
	r = setupTestSession(t, app, r, 7)

	app.LogoutUser(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("LogoutUser() status = %v, want %v", w.Code, http.StatusNoContent)
	}

	if app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()) != 0 {
		t.Error("session user id survived logout")
	}
}

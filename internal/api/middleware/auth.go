package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	HeaderCompanyID = "X-Company-ID"
	HeaderUserRole  = "X-User-Role"

	msgMissingActor = "не указана компания сотрудника"
	msgInvalidActor = "некорректный ID компании"
	msgForbidden    = "доступ запрещен"
)

type contextKey string

const (
	companyIDKey contextKey = "company_id"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "request_id"
)

// Auth извлекает актора из заголовков внешнего шлюза аутентификации
// X-Company-ID - компания сотрудника, X-User-Role - staff или owner
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companyIDStr := strings.TrimSpace(r.Header.Get(HeaderCompanyID))
		if companyIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingActor)
			return
		}

		companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
		if err != nil || companyID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidActor)
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
		if role != domain.RoleStaff && role != domain.RoleOwner {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), companyIDKey, companyID)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCompanyID компания актора, установленная Auth
func GetCompanyID(ctx context.Context) (int64, bool) {
	companyID, ok := ctx.Value(companyIDKey).(int64)
	return companyID, ok
}

// GetRole роль актора, установленная Auth
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// WithActor кладет актора в контекст в обход заголовков (для тестов обработчиков)
func WithActor(ctx context.Context, companyID int64, role string) context.Context {
	ctx = context.WithValue(ctx, companyIDKey, companyID)
	return context.WithValue(ctx, roleKey, role)
}

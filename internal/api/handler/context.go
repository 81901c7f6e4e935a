package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/nsqtech/record-tracker/internal/api/middleware"
	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. A
// missing principal means the route was mounted without the gate.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.ID == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs the registered
// validator. Both failures surface as domain validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validationf("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.Validationf("%s", err.Error())
	}
	return nil
}

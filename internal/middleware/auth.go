package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// demo identity used when no session token is presented
const (
	demoCustomerID    = "demo-customer-001"
	demoCustomerEmail = "demo@craftshop.test"
)

// SessionMiddleware resolves the customer identity from the session store's
// bearer token. The token is issued elsewhere; this service only verifies
// it and reads the customer id and email claims. Without a token (or with
// no secret configured) the demo identity is used.
func SessionMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			customerID, customerEmail := demoCustomerID, demoCustomerEmail

			authz := c.Request().Header.Get("Authorization")
			if jwtSecret != "" && strings.HasPrefix(authz, "Bearer ") {
				id, email, err := parseSessionToken(strings.TrimPrefix(authz, "Bearer "), jwtSecret)
				if err != nil {
					return echo.NewHTTPError(401, "invalid session token")
				}
				customerID, customerEmail = id, email
			}

			c.Set("customer_id", customerID)
			c.Set("customer_email", customerEmail)
			return next(c)
		}
	}
}

func parseSessionToken(raw, secret string) (string, string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return "", "", fmt.Errorf("session token has no subject")
	}
	return sub, email, nil
}

func CustomerID(c echo.Context) string {
	id, _ := c.Get("customer_id").(string)
	return id
}

func CustomerEmail(c echo.Context) string {
	email, _ := c.Get("customer_email").(string)
	return email
}

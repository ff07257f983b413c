package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

var errMissingClaims = errors.New("missing identity claims")

// identity extracts the authenticated employee and company from the JWT
// claims. Every authenticated route needs both; the claims are written
// by our own token issuer so absence means a malformed token.
func identity(r *http.Request) (companyID string, employeeID string, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", err
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", errMissingClaims
	}

	employeeID, ok = claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", errMissingClaims
	}

	return companyID, employeeID, nil
}

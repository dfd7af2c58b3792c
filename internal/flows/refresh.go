package flows

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ekstion/tokenauth/jwt"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureEmptyToken
	RefreshFailureVerify
	RefreshFailureTokenType
	RefreshFailureSubject
	RefreshFailureIssueAccess
	RefreshFailureIssueRefresh
)

// RefreshResult carries either the issued token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	Subject      uuid.UUID
	IsVerified   bool
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Verify        func(string) (*jwt.Claims, error)
	IssueAccess   func(uuid.UUID, bool) (string, error)
	IssueRefresh  func(uuid.UUID, bool) (string, error)
	RotateRefresh bool
}

// RunRefresh validates a raw refresh token and mints a new access token for
// the same subject. With RotateRefresh set, a brand-new refresh token is
// returned in place of the original; otherwise the original is echoed back.
//
// Rotation does not revoke the superseded refresh token: it stays
// independently valid until its own expiry, and two concurrent refreshes of
// the same token both succeed. Callers wanting strict single-use must
// blacklist the consumed token themselves.
func RunRefresh(refreshToken string, deps RefreshDeps) RefreshResult {
	trimmed := strings.TrimSpace(refreshToken)
	if trimmed == "" {
		return RefreshResult{
			Failure: RefreshFailureEmptyToken,
			Err:     errors.New("refresh token cannot be empty"),
		}
	}

	claims, err := deps.Verify(trimmed)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureVerify, Err: err}
	}
	if claims.TokenType != jwt.TypeRefresh {
		return RefreshResult{
			Failure: RefreshFailureTokenType,
			Err:     &jwt.InvalidTokenTypeError{Expected: jwt.TypeRefresh},
		}
	}

	subject, err := claims.UserID()
	if err != nil {
		return RefreshResult{Failure: RefreshFailureSubject, Err: err}
	}

	access, err := deps.IssueAccess(subject, claims.IsVerified)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureIssueAccess,
			Err:     err,
			Subject: subject,
		}
	}

	refresh := trimmed
	if deps.RotateRefresh {
		rotated, err := deps.IssueRefresh(subject, claims.IsVerified)
		if err != nil {
			return RefreshResult{
				Failure: RefreshFailureIssueRefresh,
				Err:     err,
				Subject: subject,
			}
		}
		refresh = rotated
	}

	return RefreshResult{
		Subject:      subject,
		IsVerified:   claims.IsVerified,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

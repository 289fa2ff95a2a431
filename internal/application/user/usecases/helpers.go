package usecases

import (
	"context"
	"net/http"
	"strconv"

	"github.com/meidasupport/supportdesk/internal/domain/permission"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// failure maps err to an AppError and logs it when it is a server-side fault.
func failure(log logger.Interface, msg string, err error, keysAndValues ...any) error {
	appErr := toAppError(err)
	if e := errors.GetAppError(appErr); e != nil && e.Code >= http.StatusInternalServerError {
		log.Errorw(msg, append(keysAndValues, "error", err)...)
	}
	return appErr
}

func userTarget(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// passwordFingerprint identifies a password hash without exposing it.
func passwordFingerprint(hash string) string {
	return user.HashToken(hash)[:16]
}

// sessionIssuer opens refresh-token sessions and signs their token pairs.
type sessionIssuer struct {
	sessionRepo user.SessionRepository
	tokens      TokenService
	settings    AuthSettings
}

// issue creates the session row and returns the tokens bound to it. A non-nil prev puts the
// new session in prev's rotation family. Callers run it inside their transaction.
func (s sessionIssuer) issue(ctx context.Context, userID uint, prev *user.SessionToken, userAgent, ip string) (*user.SessionToken, *TokenPair, error) {
	session, err := user.NewSessionToken(userID, userAgent, ip, biztime.NowUTC().Add(s.settings.RefreshTTL))
	if err != nil {
		return nil, nil, err
	}
	session.ContinueFamily(prev)
	pair, err := s.tokens.Generate(userID, session.ID)
	if err != nil {
		return nil, nil, err
	}
	session.AttachRefreshToken(pair.RefreshToken)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, pair, nil
}

func roleNamesOf(ctx context.Context, roleRepo permission.RoleRepository, log logger.Interface, userID uint) []string {
	roles, err := roleRepo.GetUserRoles(ctx, userID)
	if err != nil {
		log.Warnw("failed to load user roles", "user_id", userID, "error", err)
		return nil
	}
	return permission.RoleNames(roles)
}

// resolveRoles loads roles by name and rejects unknown names.
func resolveRoles(ctx context.Context, roleRepo permission.RoleRepository, names []string) ([]uint, error) {
	if len(names) == 0 {
		return nil, nil
	}
	roles, err := roleRepo.GetByNames(ctx, names)
	if err != nil {
		return nil, errors.NewInternalError("failed to load roles")
	}
	found := make(map[string]uint, len(roles))
	for _, r := range roles {
		found[r.Name()] = r.ID()
	}
	ids := make([]uint, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		id, ok := found[n]
		if !ok {
			return nil, errors.NewValidationError("unknown role", n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

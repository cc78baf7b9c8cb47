package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/legacy"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/pkg/config"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgTooManyAttempts   = "Too many attempts. Try again in %d minutes."
	msgInvalidCreds      = "Invalid credentials."
	msgLegacyAuthFailed  = "Legacy authentication failed."
	msgInvalidSuperAdmin = "Invalid Super Admin credentials."
)

// LoginResult is everything the controller needs to finish the login:
// issue tokens, expose the roles, and tell the front end to force a
// profile reload on a first login.
type LoginResult struct {
	User       *entities.User
	Roles      []string
	FirstLogin bool
}

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO, clientIP string) (*LoginResult, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

// AuthService bridges the legacy student-portal session with the local
// user record: classify the identifier, find or create the user, let the
// legacy portal judge the password, then enrich the profile from clearance
// data where it can. The legacy portal is the sole authority on passwords
// for everyone except the seeded super admin.
type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	resolver *UserResolver
	portal   legacy.Client
	enricher *ClearanceEnricher
	sessions *LegacySessionStore
	limiter  *LoginRateLimiter
	logger   *zap.Logger
	cfg      *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	resolver *UserResolver,
	portal legacy.Client,
	enricher *ClearanceEnricher,
	sessions *LegacySessionStore,
	limiter *LoginRateLimiter,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo: userRepo,
		resolver: resolver,
		portal:   portal,
		enricher: enricher,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
		cfg:      cfg,
	}
}

func identifierError(code int, message string) error {
	return &apperrors.HttpError{
		Code:    code,
		Message: message,
		Details: map[string]string{"identifier": message},
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO, clientIP string) (*LoginResult, error) {
	identifier := payload.Identifier
	logger := s.logger.With(zap.String("identifier", identifier), zap.String("ip", clientIP))

	locked, minutes, err := s.limiter.TooManyAttempts(ctx, clientIP, identifier)
	if err != nil {
		logger.Warn("rate limiter check failed, allowing attempt", zap.Error(err))
	}
	if locked {
		logger.Warn("login locked out", zap.Int("retry_minutes", minutes))
		return nil, identifierError(http.StatusTooManyRequests, fmt.Sprintf(msgTooManyAttempts, minutes))
	}

	classified := ClassifyIdentifier(identifier, s.cfg.SuperAdminEmail)
	logger = logger.With(zap.String("kind", classified.Kind.String()))

	if classified.Kind == KindSuperAdmin {
		return s.loginSuperAdmin(ctx, payload, clientIP, logger)
	}

	user, strategy, err := s.resolver.Resolve(ctx, classified)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Login failed", err, nil)
	}
	if user != nil {
		logger = logger.With(zap.Uint64("userID", user.ID), zap.String("strategy", strategy))
	}

	sess, err := s.authenticateAgainstPortal(ctx, classified, payload.Password)
	if err != nil {
		s.limiter.Hit(ctx, clientIP, identifier)
		if errors.Is(err, legacy.ErrAuthRejected) {
			logger.Info("legacy portal rejected credentials")
			return nil, identifierError(http.StatusUnprocessableEntity, msgInvalidCreds)
		}
		// Outages and scrape breakage are logged apart from bad passwords
		// even though the user sees a single failure.
		var netErr *legacy.NetworkError
		var parseErr *legacy.ParseError
		switch {
		case errors.As(err, &netErr):
			logger.Error("legacy portal unreachable during login", zap.Error(err))
		case errors.As(err, &parseErr):
			logger.Error("legacy portal response unparseable during login", zap.Error(err))
		default:
			logger.Error("legacy authentication failed", zap.Error(err))
		}
		return nil, identifierError(http.StatusUnprocessableEntity, msgLegacyAuthFailed)
	}

	isStaff := classified.Kind == KindStaff
	firstLogin := false

	if user == nil {
		user, err = s.provisionNewUser(ctx, classified, sess, logger)
		if err != nil {
			return nil, apperrors.NewHttpError(http.StatusInternalServerError, "Login failed", err, nil)
		}
		firstLogin = true
	} else {
		s.reconcileExistingUser(ctx, user, classified, logger)
	}

	s.grantLoginRole(ctx, user.ID, isStaff, logger)

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		logger.Warn("could not load user roles", zap.Error(err))
		roles = []string{user.Role}
	}
	user.Roles = roles

	// Local login has succeeded from here on; everything below trades
	// data completeness for availability.
	s.sessions.StoreSession(ctx, user.ID, sess)
	s.sessions.MarkPendingEnrichment(ctx, user.ID, isStaff)
	s.backfillClearance(ctx, user, sess, logger)

	s.limiter.Clear(ctx, clientIP, identifier)
	logger.Info("login succeeded", zap.Bool("first_login", firstLogin))

	return &LoginResult{User: user, Roles: roles, FirstLogin: firstLogin}, nil
}

// loginSuperAdmin is the only path checked against the local password
// hash. The super-admin row is seeded; it is never created at login, so a
// wrong password can never lead to a second row.
func (s *AuthService) loginSuperAdmin(ctx context.Context, payload dto.LoginDTO, clientIP string, logger *zap.Logger) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, s.cfg.SuperAdminEmail)
	if err != nil {
		logger.Error("super admin row missing", zap.Error(err))
		s.limiter.Hit(ctx, clientIP, payload.Identifier)
		return nil, identifierError(http.StatusUnprocessableEntity, msgInvalidSuperAdmin)
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		logger.Info("super admin password mismatch")
		s.limiter.Hit(ctx, clientIP, payload.Identifier)
		return nil, identifierError(http.StatusUnprocessableEntity, msgInvalidSuperAdmin)
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil || len(roles) == 0 {
		roles = []string{constants.RoleSuperAdmin}
	}
	user.Roles = roles

	s.limiter.Clear(ctx, clientIP, payload.Identifier)
	logger.Info("super admin login succeeded", zap.Uint64("userID", user.ID))
	return &LoginResult{User: user, Roles: roles, FirstLogin: false}, nil
}

func (s *AuthService) authenticateAgainstPortal(ctx context.Context, classified ClassifiedIdentifier, password string) (*legacy.Session, error) {
	if classified.Kind == KindStudent {
		return s.portal.Login(ctx, classified.NumericID, password)
	}
	return s.portal.LoginCoordinator(ctx, classified.Raw, password)
}

// provisionNewUser creates the local row after the portal has vouched for
// the credentials. For students it first tries the clearance prefetch;
// when that fails the user starts with placeholder names and gets enriched
// later. Two concurrent first logins under different identifier formats
// can both land here and create duplicates — there is no idempotency key.
func (s *AuthService) provisionNewUser(ctx context.Context, classified ClassifiedIdentifier, sess *legacy.Session, logger *zap.Logger) (*entities.User, error) {
	password, err := utils.RandomUnusablePassword()
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:     NormalizeEmail(classified.Raw, s.cfg.EmailDomain),
		FirstName: entities.PlaceholderFirstName,
		LastName:  entities.PlaceholderLastName,
		Password:  password,
		Role:      constants.RoleFaculty,
	}

	if classified.Kind == KindStudent {
		user.Role = constants.RoleStudent
		sn := classified.NumericID
		user.StudentNumber = &sn

		rec, err := s.enricher.PrefetchForNewStudent(ctx, sess, classified.NumericID)
		if err != nil {
			logger.Warn("clearance prefetch failed, creating placeholder user", zap.Error(err))
		} else {
			user.FirstName = rec.Firstname
			user.LastName = rec.Lastname
			user.MiddleName = rec.Middlename
			ApplyClearanceRecord(user, rec, time.Now())
		}
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("provisioned new user", zap.Uint64("userID", created.ID), zap.String("role", created.Role))
	return created, nil
}

// reconcileExistingUser backfills identifiers and promotes staff roles.
// Populated fields are never overwritten, and an established staff role
// (Coordinator, Faculty, Dean, Chair) is never demoted to Faculty.
func (s *AuthService) reconcileExistingUser(ctx context.Context, user *entities.User, classified ClassifiedIdentifier, logger *zap.Logger) {
	if classified.NumericID != "" {
		needsBackfill := user.StudentNumber == nil || *user.StudentNumber == "" ||
			user.SchoolID == nil || *user.SchoolID == ""
		if needsBackfill {
			id := classified.NumericID
			if err := s.userRepo.UpdateIdentifiers(ctx, user.ID, &id, &id); err != nil {
				logger.Warn("identifier backfill failed", zap.Error(err))
			} else {
				if user.StudentNumber == nil || *user.StudentNumber == "" {
					user.StudentNumber = &id
				}
				if user.SchoolID == nil || *user.SchoolID == "" {
					user.SchoolID = &id
				}
			}
		}
	}

	if classified.Kind == KindStaff && !constants.StaffRoles[user.Role] && user.Role != constants.RoleSuperAdmin {
		if err := s.userRepo.UpdateDisplayRole(ctx, user.ID, constants.RoleFaculty); err != nil {
			logger.Warn("role promotion failed", zap.Error(err))
		} else {
			user.Role = constants.RoleFaculty
			logger.Info("promoted user to Faculty")
		}
	}
}

func (s *AuthService) grantLoginRole(ctx context.Context, userID uint64, isStaff bool, logger *zap.Logger) {
	role := constants.RoleStudent
	if isStaff {
		role = constants.RoleFaculty
	}
	if err := s.userRepo.GrantRole(ctx, userID, role); err != nil {
		logger.Warn("role grant failed", zap.String("role", role), zap.Error(err))
	}
}

// backfillClearance re-fetches clearance with the fresh portal session for
// students whose legacy join key or clearance status is still missing.
// Failures never fail the login.
func (s *AuthService) backfillClearance(ctx context.Context, user *entities.User, sess *legacy.Session, logger *zap.Logger) {
	if !user.HasRole(constants.RoleStudent) {
		return
	}
	if user.LegacyAccountID != nil && user.ClearanceStatusCode != nil {
		return
	}
	if user.HasPlaceholderName() {
		return
	}

	records, err := s.portal.FetchClearanceByKeyword(ctx, sess, user.LastName)
	if err != nil {
		logger.Warn("clearance backfill fetch failed", zap.Error(err))
		return
	}

	var studentNumber string
	if user.StudentNumber != nil {
		studentNumber = *user.StudentNumber
	}
	rec := MatchClearanceRecord(records, studentNumber, user.FirstName, user.LastName)
	if rec == nil {
		logger.Info("clearance backfill found no matching record", zap.Int("records", len(records)))
		return
	}

	if !ApplyClearanceRecord(user, rec, time.Now()) {
		return
	}
	if err := s.userRepo.UpdateLegacyProfile(ctx, user); err != nil {
		logger.Warn("clearance backfill persist failed", zap.Error(err))
	}
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: user lookup failed", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrUserNotFound
	}
	if roles, err := s.userRepo.GetRoles(ctx, userID); err == nil {
		user.Roles = roles
	}
	return user, nil
}

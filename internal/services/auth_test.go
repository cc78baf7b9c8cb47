package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gradschool-portal/internal/dto"
	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/legacy"
	"gradschool-portal/pkg/config"
	"gradschool-portal/pkg/constants"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(repo *fakeUserRepo, portal *fakePortal, cache *fakeCache) AuthServiceInterface {
	logger := zap.NewNop()
	cfg := &config.AuthConfig{
		MaxLoginAttempts: 5,
		LockoutDuration:  15 * time.Minute,
		SuperAdminEmail:  testSuperAdminEmail,
		EmailDomain:      testDomain,
	}
	return NewAuthService(
		repo,
		NewUserResolver(repo, testDomain, logger),
		portal,
		NewClearanceEnricher(portal, logger),
		NewLegacySessionStore(cache, 30*time.Minute, 10*time.Minute, logger),
		NewLoginRateLimiter(cache, cfg.MaxLoginAttempts, cfg.LockoutDuration, logger),
		logger,
		cfg,
	)
}

func login(identifier, password string) dto.LoginDTO {
	return dto.LoginDTO{Identifier: identifier, Password: password}
}

func httpErrFrom(t *testing.T, err error) *apperrors.HttpError {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestLoginRejectedCredentials(t *testing.T) {
	portal := &fakePortal{loginErr: legacy.ErrAuthRejected}
	svc := newTestAuthService(newFakeUserRepo(), portal, newFakeCache())

	_, err := svc.Login(context.Background(), login("1234567", "wrong"), "10.0.0.1")
	httpErr := httpErrFrom(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	assert.Equal(t, "Invalid credentials.", httpErr.Message)
	assert.Equal(t, map[string]string{"identifier": "Invalid credentials."}, httpErr.Details)
}

func TestLoginLegacyOutage(t *testing.T) {
	portal := &fakePortal{loginErr: &legacy.NetworkError{Op: "login", Err: errors.New("timeout")}}
	svc := newTestAuthService(newFakeUserRepo(), portal, newFakeCache())

	_, err := svc.Login(context.Background(), login("1234567", "pw"), "10.0.0.1")
	httpErr := httpErrFrom(t, err)
	assert.Equal(t, "Legacy authentication failed.", httpErr.Message)
}

func TestLoginLockoutStopsBeforeLegacyCall(t *testing.T) {
	portal := &fakePortal{loginErr: legacy.ErrAuthRejected}
	svc := newTestAuthService(newFakeUserRepo(), portal, newFakeCache())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, login("1234567", "wrong"), "10.0.0.1")
		require.Error(t, err)
	}
	require.Equal(t, 5, portal.loginCalls)

	_, err := svc.Login(ctx, login("1234567", "wrong"), "10.0.0.1")
	httpErr := httpErrFrom(t, err)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, "Too many attempts. Try again in 15 minutes.", httpErr.Message)
	assert.Equal(t, 5, portal.loginCalls, "locked-out attempt must not reach the portal")
}

func TestLoginProvisionsNewStudentFromClearance(t *testing.T) {
	repo := newFakeUserRepo()
	cache := newFakeCache()
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	svc := newTestAuthService(repo, portal, cache)

	result, err := svc.Login(context.Background(), login("1234567", "pw"), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, result.FirstLogin)

	user := result.User
	assert.Equal(t, "1234567@uic.edu.ph", user.Email)
	assert.Equal(t, "Ana Marie", user.FirstName)
	assert.Equal(t, "Cruz", user.LastName)
	assert.Equal(t, constants.RoleStudent, user.Role)
	require.NotNil(t, user.LegacyAccountID)
	assert.Equal(t, int64(42), *user.LegacyAccountID)
	assert.Contains(t, result.Roles, constants.RoleStudent)

	// Session and enrichment marker are left behind for the worker.
	_, err = cache.Get(context.Background(), fmt.Sprintf("legacy_session_%d", user.ID))
	assert.NoError(t, err)
	marker, err := cache.Get(context.Background(), fmt.Sprintf("pending_enrichment_%d", user.ID))
	require.NoError(t, err)
	assert.Contains(t, marker, `"is_staff":false`)
}

func TestLoginProvisionsPlaceholderWhenClearanceFails(t *testing.T) {
	repo := newFakeUserRepo()
	portal := &fakePortal{homeErr: &legacy.NetworkError{Op: "home", Err: errors.New("timeout")}}
	svc := newTestAuthService(repo, portal, newFakeCache())

	result, err := svc.Login(context.Background(), login("1234567", "pw"), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, entities.PlaceholderFirstName, result.User.FirstName)
	assert.Equal(t, entities.PlaceholderLastName, result.User.LastName)
	require.NotNil(t, result.User.StudentNumber)
	assert.Equal(t, "1234567", *result.User.StudentNumber)
}

func TestLoginExistingStaffKeepsRole(t *testing.T) {
	repo := newFakeUserRepo()
	created, _ := repo.CreateUser(context.Background(), &entities.User{
		Email: "mreyes@uic.edu.ph",
		Role:  constants.RoleCoordinator,
	})
	repo.GrantRole(context.Background(), created.ID, constants.RoleCoordinator)
	svc := newTestAuthService(repo, &fakePortal{}, newFakeCache())

	result, err := svc.Login(context.Background(), login("mreyes", "pw"), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.FirstLogin)
	assert.Equal(t, constants.RoleCoordinator, result.User.Role, "staff role must not be demoted")
	assert.Contains(t, result.Roles, constants.RoleFaculty, "faculty grant is additive")
	assert.Contains(t, result.Roles, constants.RoleCoordinator)
}

func TestLoginStaffIdentifierPromotesStudentDisplayRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.CreateUser(context.Background(), &entities.User{
		Email: "jsantos@uic.edu.ph",
		Role:  constants.RoleStudent,
	})
	svc := newTestAuthService(repo, &fakePortal{}, newFakeCache())

	result, err := svc.Login(context.Background(), login("jsantos", "pw"), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleFaculty, result.User.Role)
}

func TestLoginBackfillsIdentifiers(t *testing.T) {
	repo := newFakeUserRepo()
	repo.CreateUser(context.Background(), &entities.User{
		Email:     "acruz_1234567@uic.edu.ph",
		FirstName: "Ana Marie",
		LastName:  "Cruz",
		Role:      constants.RoleStudent,
	})
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	svc := newTestAuthService(repo, portal, newFakeCache())

	result, err := svc.Login(context.Background(), login("1234567", "pw"), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.FirstLogin)
	require.NotNil(t, result.User.StudentNumber)
	assert.Equal(t, "1234567", *result.User.StudentNumber)
	// Post-login backfill pulled the clearance profile.
	require.NotNil(t, result.User.LegacyAccountID)
	assert.Equal(t, int64(42), *result.User.LegacyAccountID)
}

func TestSuperAdminLogin(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	created, _ := repo.CreateUser(context.Background(), &entities.User{
		Email:    testSuperAdminEmail,
		Password: hash,
		Role:     constants.RoleSuperAdmin,
	})
	repo.GrantRole(context.Background(), created.ID, constants.RoleSuperAdmin)
	portal := &fakePortal{}
	svc := newTestAuthService(repo, portal, newFakeCache())

	result, err := svc.Login(context.Background(), login(testSuperAdminEmail, "s3cret"), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.User.ID)
	assert.Zero(t, portal.loginCalls, "super admin never touches the portal")
	assert.Zero(t, portal.coordinatorLoginCalls)
}

func TestSuperAdminWrongPasswordNeverCreatesSecondRow(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := utils.HashPassword("s3cret")
	repo.CreateUser(context.Background(), &entities.User{
		Email:    testSuperAdminEmail,
		Password: hash,
		Role:     constants.RoleSuperAdmin,
	})
	svc := newTestAuthService(repo, &fakePortal{}, newFakeCache())

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), login(testSuperAdminEmail, "wrong"), "10.0.0.1")
		httpErr := httpErrFrom(t, err)
		assert.Equal(t, "Invalid Super Admin credentials.", httpErr.Message)
	}
	assert.Len(t, repo.users, 1)
}

func TestSuperAdminWrongPasswordHitsLimiter(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := utils.HashPassword("s3cret")
	repo.CreateUser(context.Background(), &entities.User{
		Email:    testSuperAdminEmail,
		Password: hash,
		Role:     constants.RoleSuperAdmin,
	})
	svc := newTestAuthService(repo, &fakePortal{}, newFakeCache())

	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), login(testSuperAdminEmail, "wrong"), "10.0.0.1")
		require.Error(t, err)
	}
	_, err := svc.Login(context.Background(), login(testSuperAdminEmail, "s3cret"), "10.0.0.1")
	httpErr := httpErrFrom(t, err)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestLoginClearsLimiterOnSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	cache := newFakeCache()
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	svc := newTestAuthService(repo, portal, cache)
	ctx := context.Background()

	portal.loginErr = legacy.ErrAuthRejected
	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, login("1234567", "wrong"), "10.0.0.1")
		require.Error(t, err)
	}

	portal.loginErr = nil
	_, err := svc.Login(ctx, login("1234567", "pw"), "10.0.0.1")
	require.NoError(t, err)

	// The counter is gone; four more failures are allowed again.
	portal.loginErr = legacy.ErrAuthRejected
	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, login("1234567", "wrong"), "10.0.0.1")
		httpErr := httpErrFrom(t, err)
		assert.Equal(t, "Invalid credentials.", httpErr.Message)
	}
}

func TestLoginFailsOpenWhenLimiterCacheIsDown(t *testing.T) {
	repo := newFakeUserRepo()
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	portal := &fakePortal{homeHTML: studentHomeHTML, clearance: clearanceFixture()}
	svc := newTestAuthService(repo, portal, cache)

	result, err := svc.Login(context.Background(), login("1234567", "pw"), "10.0.0.1")
	require.NoError(t, err, "an unavailable limiter must not block logins")
	assert.True(t, result.FirstLogin)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/repositories"
	apperrors "gradschool-portal/pkg/errors"

	"go.uber.org/zap"
)

// ResolutionStrategy is one ordered attempt at mapping a login identifier
// onto an existing local user. Strategies report apperrors.ErrNotFound to
// pass control to the next one; any other error aborts the chain.
type ResolutionStrategy interface {
	Name() string
	Resolve(ctx context.Context, in ClassifiedIdentifier) (*entities.User, error)
}

// UserResolver walks its strategies in order and stops at the first hit.
// The chain is best-effort: an existing user stored under a differently
// formatted identifier can be missed, and concurrent first logins may then
// create a duplicate row. There is no locking around find-or-create.
type UserResolver struct {
	strategies []ResolutionStrategy
	logger     *zap.Logger
}

func NewUserResolver(userRepo repositories.UserRepositoryInterface, emailDomain string, logger *zap.Logger) *UserResolver {
	return &UserResolver{
		strategies: []ResolutionStrategy{
			&byStudentIdentifier{userRepo: userRepo, emailDomain: emailDomain},
			&byNormalizedEmail{userRepo: userRepo, emailDomain: emailDomain},
			&byEmbeddedSchoolID{userRepo: userRepo, emailDomain: emailDomain},
		},
		logger: logger,
	}
}

// Resolve returns the first matching user and the name of the strategy
// that found it, or apperrors.ErrNotFound when the whole chain misses.
func (r *UserResolver) Resolve(ctx context.Context, in ClassifiedIdentifier) (*entities.User, string, error) {
	for _, strategy := range r.strategies {
		user, err := strategy.Resolve(ctx, in)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				r.logger.Debug("resolution strategy missed",
					zap.String("strategy", strategy.Name()),
					zap.String("kind", in.Kind.String()))
				continue
			}
			return nil, strategy.Name(), err
		}
		r.logger.Info("user resolved",
			zap.String("strategy", strategy.Name()),
			zap.Uint64("userID", user.ID))
		return user, strategy.Name(), nil
	}
	return nil, "", apperrors.ErrNotFound
}

// byStudentIdentifier covers the widest student lookup: student_number or
// school_id equality, the synthesized "{id}@domain" address, and addresses
// whose local part ends in "_{id}".
type byStudentIdentifier struct {
	userRepo    repositories.UserRepositoryInterface
	emailDomain string
}

func (s *byStudentIdentifier) Name() string { return "by-student-identifier" }

func (s *byStudentIdentifier) Resolve(ctx context.Context, in ClassifiedIdentifier) (*entities.User, error) {
	if in.NumericID == "" {
		return nil, apperrors.ErrNotFound
	}
	return s.userRepo.FindByStudentIdentifier(ctx, in.NumericID, s.emailDomain)
}

// byNormalizedEmail lowercases the identifier and appends the campus
// domain when no "@" is present.
type byNormalizedEmail struct {
	userRepo    repositories.UserRepositoryInterface
	emailDomain string
}

func (s *byNormalizedEmail) Name() string { return "by-normalized-email" }

func (s *byNormalizedEmail) Resolve(ctx context.Context, in ClassifiedIdentifier) (*entities.User, error) {
	email := NormalizeEmail(in.Raw, s.emailDomain)
	return s.userRepo.FindByEmail(ctx, email)
}

// byEmbeddedSchoolID treats the second "_"-separated segment of a campus
// address local part as a candidate school id.
type byEmbeddedSchoolID struct {
	userRepo    repositories.UserRepositoryInterface
	emailDomain string
}

func (s *byEmbeddedSchoolID) Name() string { return "by-embedded-school-id" }

func (s *byEmbeddedSchoolID) Resolve(ctx context.Context, in ClassifiedIdentifier) (*entities.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Raw))
	suffix := "@" + s.emailDomain
	if !strings.HasSuffix(email, suffix) || !strings.Contains(email, "_") {
		return nil, apperrors.ErrNotFound
	}
	local := strings.TrimSuffix(email, suffix)
	parts := strings.Split(local, "_")
	if len(parts) < 2 || parts[1] == "" {
		return nil, apperrors.ErrNotFound
	}
	return s.userRepo.FindBySchoolID(ctx, parts[1])
}

// NormalizeEmail lowercases an identifier and anchors it to the campus
// domain when it is not already an address.
func NormalizeEmail(identifier, domain string) string {
	email := strings.ToLower(strings.TrimSpace(identifier))
	if !strings.Contains(email, "@") {
		email = fmt.Sprintf("%s@%s", email, domain)
	}
	return email
}

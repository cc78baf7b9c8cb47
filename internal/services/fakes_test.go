package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/legacy"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/types"

	"github.com/go-redis/redis/v8"
)

// fakeCache is an in-memory stand-in for the redis-backed cache. Misses
// surface as redis.Nil the way the real repository does.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration

	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case string:
		c.data[key] = v
	case []byte:
		c.data[key] = string(v)
	default:
		b, _ := json.Marshal(v)
		c.data[key] = string(b)
	}
	c.ttls[key] = expiration
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
		delete(c.ttls, key)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; !ok {
		return false, nil
	}
	c.ttls[key] = expiration
	return true, nil
}

func (c *fakeCache) TTL(_ context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ttl, ok := c.ttls[key]
	if !ok {
		return -2 * time.Second, fmt.Errorf("key %q not found", key)
	}
	return ttl, nil
}

// fakeUserRepo keeps users in a slice and answers the same lookups the
// postgres repository would.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  []*entities.User
	roles  map[uint64][]string

	findByStudentIdentifierErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, roles: map[uint64][]string{}}
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByStudentIdentifier(_ context.Context, numericID, emailDomain string) (*entities.User, error) {
	if r.findByStudentIdentifierErr != nil {
		return nil, r.findByStudentIdentifierErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exact := strings.ToLower(numericID + "@" + emailDomain)
	suffix := strings.ToLower("_" + numericID + "@" + emailDomain)
	for _, u := range r.users {
		email := strings.ToLower(u.Email)
		if (u.StudentNumber != nil && *u.StudentNumber == numericID) ||
			(u.SchoolID != nil && *u.SchoolID == numericID) ||
			email == exact || strings.HasSuffix(email, suffix) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindBySchoolID(_ context.Context, schoolID string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.SchoolID != nil && *u.SchoolID == schoolID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(_ context.Context, entity *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entity
	cp.ID = r.nextID
	r.nextID++
	r.users = append(r.users, &cp)
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) UpdateLegacyProfile(_ context.Context, entity *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == entity.ID {
			*u = *entity
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeUserRepo) UpdateIdentifiers(_ context.Context, userID uint64, studentNumber, schoolID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			if u.StudentNumber == nil && studentNumber != nil {
				sn := *studentNumber
				u.StudentNumber = &sn
			}
			if u.SchoolID == nil && schoolID != nil {
				sid := *schoolID
				u.SchoolID = &sid
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeUserRepo) UpdateDisplayRole(_ context.Context, userID uint64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.Role = role
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetRoles(_ context.Context, userID uint64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.roles[userID]...), nil
}

func (r *fakeUserRepo) GetAllRoles(_ context.Context) ([]entities.Role, error) {
	return []entities.Role{
		{ID: 1, Name: "Student"}, {ID: 2, Name: "Faculty"},
		{ID: 3, Name: "Coordinator"}, {ID: 4, Name: "Dean"},
		{ID: 5, Name: "Chair"}, {ID: 6, Name: "Super Admin"},
	}, nil
}

func (r *fakeUserRepo) GrantRole(_ context.Context, userID uint64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles[userID] {
		if existing == role {
			return nil
		}
	}
	r.roles[userID] = append(r.roles[userID], role)
	return nil
}

// fakePortal scripts the legacy portal's answers.
type fakePortal struct {
	loginErr            error
	coordinatorLoginErr error
	homeHTML            string
	homeErr             error
	clearance           []legacy.ClearanceRecord
	clearanceErr        error

	loginCalls            int
	coordinatorLoginCalls int
}

func (p *fakePortal) Login(_ context.Context, studentID, password string) (*legacy.Session, error) {
	p.loginCalls++
	if p.loginErr != nil {
		return nil, p.loginErr
	}
	return &legacy.Session{Cookie: "PORTALSESSID=test", IssuedAt: time.Now()}, nil
}

func (p *fakePortal) LoginCoordinator(_ context.Context, identifier, password string) (*legacy.Session, error) {
	p.coordinatorLoginCalls++
	if p.coordinatorLoginErr != nil {
		return nil, p.coordinatorLoginErr
	}
	return &legacy.Session{Cookie: "PORTALSESSID=test", IssuedAt: time.Now()}, nil
}

func (p *fakePortal) FetchHomeHTML(_ context.Context, _ *legacy.Session) (string, error) {
	if p.homeErr != nil {
		return "", p.homeErr
	}
	return p.homeHTML, nil
}

func (p *fakePortal) FetchClearanceByKeyword(_ context.Context, _ *legacy.Session, _ string) ([]legacy.ClearanceRecord, error) {
	if p.clearanceErr != nil {
		return nil, p.clearanceErr
	}
	return p.clearance, nil
}

// Package memory implements the repository interfaces in process memory. It
// backs STORAGE_DRIVER=memory and the service and API tests. Every operation
// holds the store mutex, so multi-step operations are atomic.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/repository"
)

// DefaultJobTypes mirrors the rows seeded by the initial migration.
var DefaultJobTypes = []string{"Cleaning", "Maintenance", "Yard", "Kitchen", "Laundry", "Other"}

type jobRecord struct {
	job     models.Job
	members []int64
}

// Store holds every table.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	seq      map[string]int64
	users    map[int64]*models.User
	jobTypes []*models.JobType
	jobs     map[int64]*jobRecord
	pairs    map[int64]*models.UserPair
	invites  map[int64]*models.JobInvite
}

// Option customises the Store.
type Option func(*Store)

// WithClock overrides the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store seeded with the default job types.
func New(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		seq:     make(map[string]int64),
		users:   make(map[int64]*models.User),
		jobs:    make(map[int64]*jobRecord),
		pairs:   make(map[int64]*models.UserPair),
		invites: make(map[int64]*models.JobInvite),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, label := range DefaultJobTypes {
		s.jobTypes = append(s.jobTypes, &models.JobType{ID: s.nextID("job_types"), Label: label})
	}
	return s
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// JobTypes returns the job type repository view of the store.
func (s *Store) JobTypes() repository.JobTypeRepository { return &jobTypeRepository{s} }

// Jobs returns the job repository view of the store.
func (s *Store) Jobs() repository.JobRepository { return &jobRepository{s} }

// UserPairs returns the friendship repository view of the store.
func (s *Store) UserPairs() repository.UserPairRepository { return &userPairRepository{s} }

// JobInvites returns the job invite repository view of the store.
func (s *Store) JobInvites() repository.JobInviteRepository { return &jobInviteRepository{s} }

// nextID returns the next serial id of table; callers hold s.mu.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cpy := *u
	if u.TelegramID != nil {
		id := *u.TelegramID
		cpy.TelegramID = &id
	}
	return &cpy
}

// userOrStub returns a copy of the user or an id-only placeholder.
func (s *Store) userOrStub(id int64) *models.User {
	if u, ok := s.users[id]; ok {
		return copyUser(u)
	}
	return &models.User{ID: id}
}

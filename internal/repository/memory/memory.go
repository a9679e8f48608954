// Package memory is an in-process implementation of the repositories and of
// db.Store, used by service and handler tests. Transactions are serialized
// and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errRawSQL = errors.New("memory store does not execute SQL")

var (
	_ db.Store           = (*Store)(nil)
	_ repository.Manager = (*Store)(nil)
)

type state struct {
	users      map[int64]domain.User
	tasks      map[int64]domain.Task
	audit      []domain.AuditLog
	nextUserID int64
	nextTaskID int64
}

func (s state) clone() state {
	c := state{
		users:      make(map[int64]domain.User, len(s.users)),
		tasks:      make(map[int64]domain.Task, len(s.tasks)),
		audit:      append([]domain.AuditLog(nil), s.audit...),
		nextUserID: s.nextUserID,
		nextTaskID: s.nextTaskID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.tasks {
		c.tasks[k] = copyTask(v)
	}
	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state
	now  func() time.Time
}

func New() *Store {
	return &Store{
		st: state{
			users: make(map[int64]domain.User),
			tasks: make(map[int64]domain.Task),
		},
		now: time.Now,
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// UserCount and TaskCount expose row counts for assertions.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.users)
}

func (s *Store) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.tasks)
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(ctx, s)
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
}

func (s *Store) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errRawSQL
}

func (s *Store) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errRawSQL
}

func (s *Store) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errRawSQL }

// Users and Tasks make Store a repository.Manager; the handle is ignored
// because all repositories share the same state.
func (s *Store) Users(db.DBTX) repository.UserRepository {
	return &userRepo{s: s}
}

func (s *Store) Tasks(db.DBTX) repository.TaskRepository {
	return &taskRepo{s: s}
}

func (s *Store) Audit(db.DBTX) repository.AuditRepository {
	return &auditRepo{s: s}
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.st.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.s.st.nextUserID++
	u.ID = r.s.st.nextUserID
	u.CreatedAt = r.s.now().UTC()
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.st.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.st.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Delete mirrors the ON DELETE CASCADE foreign key.
func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.st.users, id)
	for tid, t := range r.s.st.tasks {
		if t.UserID == id {
			delete(r.s.st.tasks, tid)
		}
	}
	return nil
}

type taskRepo struct{ s *Store }

func copyTask(t domain.Task) domain.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

func (r *taskRepo) Create(_ context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[t.UserID]; !ok {
		return errors.New("insert task: owner does not exist")
	}
	r.s.st.nextTaskID++
	now := r.s.now().UTC()
	t.ID = r.s.st.nextTaskID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.st.tasks[t.ID] = copyTask(*t)
	return nil
}

func (r *taskRepo) ListByOwner(_ context.Context, userID int64) ([]*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*domain.Task, 0)
	for _, t := range r.s.st.tasks {
		if t.UserID == userID {
			c := copyTask(t)
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *taskRepo) GetByOwner(_ context.Context, userID, id int64) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tasks[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	c := copyTask(t)
	return &c, nil
}

func (r *taskRepo) UpdateByOwner(_ context.Context, userID, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tasks[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.SetDescription {
		t.Description = patch.Description
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}

	now := r.s.now().UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now

	t = copyTask(t)
	r.s.st.tasks[id] = t
	c := copyTask(t)
	return &c, nil
}

func (r *taskRepo) DeleteByOwner(_ context.Context, userID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tasks[id]
	if !ok || t.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.s.st.tasks, id)
	return nil
}

func (r *taskRepo) DeleteAllByOwner(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.st.tasks {
		if t.UserID == userID {
			delete(r.s.st.tasks, id)
			n++
		}
	}
	return n, nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log.ID = int64(len(r.s.st.audit)) + 1
	log.CreatedAt = r.s.now()
	r.s.st.audit = append(r.s.st.audit, *log)
	return nil
}

func (r *auditRepo) ListByUser(_ context.Context, userID int64, limit int) ([]*domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.AuditLog
	for i := len(r.s.st.audit) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.s.st.audit[i]
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, &e)
		}
	}
	return out, nil
}

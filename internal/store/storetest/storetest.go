// Package storetest provides in-memory implementations of the store
// interfaces for tests. They mirror the Mongo implementations' observable
// behavior: sentinel errors, lowercase emails, token TTL, add-if-absent and
// remove-if-present list semantics.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// New returns a store.Store backed entirely by memory.
func New() *store.Store {
	return &store.Store{
		Users:    NewUsers(),
		Tokens:   NewTokens(),
		Projects: NewProjects(),
		Tasks:    NewTasks(),
		Notes:    NewNotes(),
	}
}

// Users is an in-memory store.Users.
type Users struct {
	mu   sync.Mutex
	byID map[string]*models.User
	seq  int
}

func NewUsers() *Users {
	return &Users{byID: map[string]*models.User{}}
}

func (f *Users) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range f.byID {
		if u.Email == email {
			return apperrors.ErrDuplicateEmail
		}
	}

	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.Email = email
	user.Confirmed = false
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range f.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *Users) Confirm(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (f *Users) UpdateProfile(_ context.Context, id, name, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Name = name
	u.Email = strings.ToLower(email)
	return nil
}

func (f *Users) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// Count returns the number of stored users.
func (f *Users) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// Tokens is an in-memory store.Tokens. Codes are sequential so tests can
// predict them; Now is swappable to test expiry.
type Tokens struct {
	mu     sync.Mutex
	byCode map[string]*models.Token
	TTL    time.Duration
	Now    func() time.Time
	seq    int
}

func NewTokens() *Tokens {
	return &Tokens{
		byCode: map[string]*models.Token{},
		TTL:    10 * time.Minute,
		Now:    time.Now,
	}
}

func (f *Tokens) Create(_ context.Context, userID string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	token := &models.Token{
		ID:        fmt.Sprintf("token-%d", f.seq),
		Token:     fmt.Sprintf("%06d", f.seq),
		UserID:    userID,
		CreatedAt: f.Now(),
	}
	f.byCode[token.Token] = token
	return token, nil
}

func (f *Tokens) live(code string) *models.Token {
	t, ok := f.byCode[code]
	if !ok || f.Now().Sub(t.CreatedAt) >= f.TTL {
		return nil
	}
	return t
}

func (f *Tokens) Redeem(_ context.Context, code string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.live(code)
	if t == nil {
		return nil, apperrors.ErrInvalidOrExpiredToken
	}
	delete(f.byCode, code)
	return t, nil
}

func (f *Tokens) Peek(_ context.Context, code string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.live(code)
	if t == nil {
		return nil, apperrors.ErrInvalidOrExpiredToken
	}
	return t, nil
}

func (f *Tokens) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for code, t := range f.byCode {
		if f.Now().Sub(t.CreatedAt) >= f.TTL {
			delete(f.byCode, code)
			n++
		}
	}
	return n, nil
}

// Count returns the number of live plus expired-but-unswept tokens.
func (f *Tokens) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byCode)
}

// Latest returns the most recently issued code.
func (f *Tokens) Latest() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("%06d", f.seq)
}

// Projects is an in-memory store.Projects.
type Projects struct {
	mu   sync.Mutex
	byID map[string]*models.Project
	seq  int
}

func NewProjects() *Projects {
	return &Projects{byID: map[string]*models.Project{}}
}

func (f *Projects) Create(_ context.Context, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	p.ID = fmt.Sprintf("project-%d", f.seq)
	if p.Team == nil {
		p.Team = []string{}
	}
	if p.Tasks == nil {
		p.Tasks = []string{}
	}
	clone := *p
	f.byID[p.ID] = &clone
	return nil
}

func (f *Projects) GetByID(_ context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *p
	clone.Team = append([]string{}, p.Team...)
	clone.Tasks = append([]string{}, p.Tasks...)
	return &clone, nil
}

func (f *Projects) ListForUser(_ context.Context, userID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Project{}
	for _, p := range f.byID {
		if p.ManagerID == userID {
			out = append(out, *p)
			continue
		}
		for _, id := range p.Team {
			if id == userID {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (f *Projects) Update(_ context.Context, id, projectName, clientName, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.ProjectName = projectName
	p.ClientName = clientName
	p.Description = description
	return nil
}

func (f *Projects) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *Projects) AddTeamMember(_ context.Context, projectID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[projectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, id := range p.Team {
		if id == userID {
			return nil
		}
	}
	p.Team = append(p.Team, userID)
	return nil
}

func (f *Projects) RemoveTeamMember(_ context.Context, projectID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[projectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	team := p.Team[:0]
	for _, id := range p.Team {
		if id != userID {
			team = append(team, id)
		}
	}
	p.Team = team
	return nil
}

func (f *Projects) AppendTask(_ context.Context, projectID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[projectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Tasks = append(p.Tasks, taskID)
	return nil
}

func (f *Projects) RemoveTask(_ context.Context, projectID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.byID[projectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	tasks := p.Tasks[:0]
	for _, id := range p.Tasks {
		if id != taskID {
			tasks = append(tasks, id)
		}
	}
	p.Tasks = tasks
	return nil
}

// Tasks is an in-memory store.Tasks.
type Tasks struct {
	mu   sync.Mutex
	byID map[string]*models.Task
	seq  int
}

func NewTasks() *Tasks {
	return &Tasks{byID: map[string]*models.Task{}}
}

func (f *Tasks) Create(_ context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t.ID = fmt.Sprintf("task-%d", f.seq)
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if t.CompletedBy == nil {
		t.CompletedBy = []models.StatusChange{}
	}
	if t.Notes == nil {
		t.Notes = []string{}
	}
	clone := *t
	f.byID[t.ID] = &clone
	return nil
}

func (f *Tasks) GetByID(_ context.Context, id string) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *Tasks) ListByProject(_ context.Context, projectID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Task{}
	for _, t := range f.byID {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *Tasks) Update(_ context.Context, id, name, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Name = name
	t.Description = description
	return nil
}

func (f *Tasks) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *Tasks) DeleteByProject(_ context.Context, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.byID {
		if t.ProjectID == projectID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *Tasks) AppendStatusChange(_ context.Context, id, userID string, status models.TaskStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Status = status
	t.CompletedBy = append(t.CompletedBy, models.StatusChange{
		UserID: userID,
		Status: status,
		At:     time.Now(),
	})
	return nil
}

func (f *Tasks) AppendNote(_ context.Context, taskID, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[taskID]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Notes = append(t.Notes, noteID)
	return nil
}

func (f *Tasks) RemoveNote(_ context.Context, taskID, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[taskID]
	if !ok {
		return apperrors.ErrNotFound
	}
	notes := t.Notes[:0]
	for _, id := range t.Notes {
		if id != noteID {
			notes = append(notes, id)
		}
	}
	t.Notes = notes
	return nil
}

// Notes is an in-memory store.Notes.
type Notes struct {
	mu   sync.Mutex
	byID map[string]*models.Note
	seq  int
}

func NewNotes() *Notes {
	return &Notes{byID: map[string]*models.Note{}}
}

func (f *Notes) Create(_ context.Context, n *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	n.ID = fmt.Sprintf("note-%d", f.seq)
	n.CreatedAt = time.Now()
	clone := *n
	f.byID[n.ID] = &clone
	return nil
}

func (f *Notes) GetByID(_ context.Context, id string) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (f *Notes) ListByTask(_ context.Context, taskID string) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Note{}
	for _, n := range f.byID {
		if n.TaskID == taskID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *Notes) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *Notes) DeleteByTask(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, n := range f.byID {
		if n.TaskID == taskID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *Notes) DeleteByTasks(ctx context.Context, taskIDs []string) error {
	for _, id := range taskIDs {
		if err := f.DeleteByTask(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored notes.
func (f *Notes) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

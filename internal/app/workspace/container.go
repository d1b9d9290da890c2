// internal/app/workspace/container.go
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"github.com/dalemusser/pmhub/internal/app/system/authutil"
	"github.com/dalemusser/pmhub/internal/app/system/timeouts"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"go.uber.org/zap"
)

// Default storage keys, matching what the browser demo wrote to local storage.
const (
	DefaultDataKey    = "pm-app-state"
	DefaultSessionKey = "pm-current-user"
)

// Options configure a Container.
type Options struct {
	DataKey       string // key holding the JSON AppState
	SessionKey    string // key holding the JSON session user
	SeedVariant   string // VariantHub or VariantWorkspace
	HashPasswords bool   // bcrypt passwords given to AddUser
}

func (o Options) withDefaults() Options {
	if o.DataKey == "" {
		o.DataKey = DefaultDataKey
	}
	if o.SessionKey == "" {
		o.SessionKey = DefaultSessionKey
	}
	if o.SeedVariant == "" {
		o.SeedVariant = VariantHub
	}
	return o
}

// Change is published to subscribers after every committed mutation.
type Change struct {
	Op    string
	State *models.AppState
}

// Container owns the current AppState and Session.
//
// Mutations are serialized; each computes a whole new tree, writes it to the store
// and only then swaps it in and notifies subscribers. Readers always see a complete
// tree. A failed write leaves the previous tree in place.
type Container struct {
	kv   kvstore.Store
	opts Options
	log  *zap.Logger

	writeMu sync.Mutex // serializes mutations and session changes

	mu      sync.RWMutex // guards state, session
	state   *models.AppState
	session *models.User

	subMu sync.RWMutex
	subs  map[chan Change]struct{}
}

// Open loads the persisted workspace.
//
// A missing data key yields the seed state. Unparsable text is logged and replaced by
// the seed; it is never reported to the caller. The same applies to the session key,
// which falls back to signed out. Storage I/O errors are returned.
func Open(ctx context.Context, kv kvstore.Store, opts Options, logger *zap.Logger) (*Container, error) {
	opts = opts.withDefaults()
	c := &Container{
		kv:   kv,
		opts: opts,
		log:  logger,
		subs: make(map[chan Change]struct{}),
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), logger, "load workspace")
	defer cancel()

	state, seeded, err := c.loadState(ctx)
	if err != nil {
		return nil, err
	}
	c.state = state
	if seeded {
		if err := c.save(ctx, state); err != nil {
			return nil, err
		}
	}

	session, err := c.loadSession(ctx)
	if err != nil {
		return nil, err
	}
	c.session = session

	logger.Info("workspace loaded",
		zap.Int("users", len(state.Users)),
		zap.Int("projects", len(state.Projects)),
		zap.Bool("seeded", seeded),
		zap.Bool("signed_in", session != nil))

	return c, nil
}

func (c *Container) loadState(ctx context.Context) (*models.AppState, bool, error) {
	text, err := c.kv.Get(ctx, c.opts.DataKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Seed(c.opts.SeedVariant), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", c.opts.DataKey, err)
	}
	state, err := Decode(text)
	if err != nil {
		c.log.Warn("stored workspace is unreadable; falling back to seed",
			zap.String("key", c.opts.DataKey), zap.Error(err))
		return Seed(c.opts.SeedVariant), true, nil
	}
	return state, false, nil
}

func (c *Container) loadSession(ctx context.Context) (*models.User, error) {
	text, err := c.kv.Get(ctx, c.opts.SessionKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.opts.SessionKey, err)
	}
	u, err := DecodeUser(text)
	if err != nil {
		c.log.Warn("stored session is unreadable; signing out",
			zap.String("key", c.opts.SessionKey), zap.Error(err))
		return nil, nil
	}
	return u, nil
}

// State returns the current tree. Callers must not modify it.
func (c *Container) State() *models.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Session returns the signed-in user, or nil.
func (c *Container) Session() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Subscribe returns a buffered channel that receives every committed Change.
func (c *Container) Subscribe() chan Change {
	ch := make(chan Change, 16)
	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (c *Container) Unsubscribe(ch chan Change) {
	c.subMu.Lock()
	if _, ok := c.subs[ch]; ok {
		delete(c.subs, ch)
		close(ch)
	}
	c.subMu.Unlock()
}

func (c *Container) publish(ch Change) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	for sub := range c.subs {
		select {
		case sub <- ch:
		default:
			// subscriber is behind; it will catch up from the next change
		}
	}
}

// save writes the whole tree under the data key.
func (c *Container) save(ctx context.Context, s *models.AppState) error {
	text, err := Encode(s)
	if err != nil {
		return err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), c.log, "save workspace")
	defer cancel()
	if err := c.kv.Set(ctx, c.opts.DataKey, text); err != nil {
		return fmt.Errorf("write %s: %w", c.opts.DataKey, err)
	}
	return nil
}

// commit applies fn to the current tree. If fn returns its input unchanged the
// target was missing: missing() supplies the error and nothing is written.
func (c *Container) commit(ctx context.Context, op string, fn func(*models.AppState) *models.AppState, missing func(*models.AppState) error) (*models.AppState, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	prev := c.State()
	next := fn(prev)
	if next == prev {
		return nil, missing(prev)
	}
	if err := c.save(ctx, next); err != nil {
		c.log.Error("workspace save failed", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.publish(Change{Op: op, State: next})
	return next, nil
}

func userMissing(id string) func(*models.AppState) error {
	return func(*models.AppState) error {
		return fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
}

func projectMissing(id string) func(*models.AppState) error {
	return func(*models.AppState) error {
		return fmt.Errorf("project %s: %w", id, ErrProjectNotFound)
	}
}

func taskMissing(projectID, taskID string) func(*models.AppState) error {
	return func(s *models.AppState) error {
		if s.FindProject(projectID) == nil {
			return fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
		}
		return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
	}
}

func never(*models.AppState) error { return errors.New("workspace: unexpected no-op") }

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// AddUser appends a user. Name and a known role are required; no duplicate-email
// check is made.
func (c *Container) AddUser(ctx context.Context, u models.User) (*models.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" {
		return nil, fmt.Errorf("user name is required: %w", ErrInvalidArgument)
	}
	if !models.IsValidRole(u.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", u.Role, ErrInvalidArgument)
	}
	u.Role = models.NormalizeRole(u.Role)
	if c.opts.HashPasswords && u.Password != "" && !authutil.IsHashed(u.Password) {
		hash, err := authutil.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
	}

	next, err := c.commit(ctx, "add_user", func(s *models.AppState) *models.AppState {
		return AddUser(s, u)
	}, never)
	if err != nil {
		return nil, err
	}
	return next.Users[len(next.Users)-1], nil
}

// RemoveUser drops the user and unassigns every task assigned to it.
func (c *Container) RemoveUser(ctx context.Context, userID string) error {
	_, err := c.commit(ctx, "remove_user", func(s *models.AppState) *models.AppState {
		return RemoveUser(s, userID)
	}, userMissing(userID))
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Projects                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateProject appends a project. Name is required. Any tasks on p are created
// with it; tasks without a title are skipped.
func (c *Container) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrInvalidArgument)
	}
	tasks := make([]*models.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if t == nil || strings.TrimSpace(t.Title) == "" {
			continue
		}
		if !models.IsValidStatus(t.Status) {
			return nil, fmt.Errorf("unknown status %q: %w", t.Status, ErrInvalidArgument)
		}
		tt := *t
		tt.Title = strings.TrimSpace(tt.Title)
		tasks = append(tasks, &tt)
	}
	p.Tasks = tasks

	next, err := c.commit(ctx, "create_project", func(s *models.AppState) *models.AppState {
		return CreateProject(s, p)
	}, never)
	if err != nil {
		return nil, err
	}
	return next.Projects[len(next.Projects)-1], nil
}

// UpdateProject merges patch into the project.
func (c *Container) UpdateProject(ctx context.Context, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("project name cannot be blank: %w", ErrInvalidArgument)
	}
	next, err := c.commit(ctx, "update_project", func(s *models.AppState) *models.AppState {
		return UpdateProject(s, projectID, patch)
	}, projectMissing(projectID))
	if err != nil {
		return nil, err
	}
	return next.FindProject(projectID), nil
}

// DeleteProject removes the project with all of its tasks.
func (c *Container) DeleteProject(ctx context.Context, projectID string) error {
	_, err := c.commit(ctx, "delete_project", func(s *models.AppState) *models.AppState {
		return DeleteProject(s, projectID)
	}, projectMissing(projectID))
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Tasks                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateTask appends a task to the project. Title is required.
func (c *Container) CreateTask(ctx context.Context, projectID string, t models.Task) (*models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, fmt.Errorf("task title is required: %w", ErrInvalidArgument)
	}
	if !models.IsValidStatus(t.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", t.Status, ErrInvalidArgument)
	}
	next, err := c.commit(ctx, "create_task", func(s *models.AppState) *models.AppState {
		return CreateTask(s, projectID, t)
	}, projectMissing(projectID))
	if err != nil {
		return nil, err
	}
	tasks := next.FindProject(projectID).Tasks
	return tasks[len(tasks)-1], nil
}

// UpdateTask merges patch into the task.
func (c *Container) UpdateTask(ctx context.Context, projectID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("task title cannot be blank: %w", ErrInvalidArgument)
	}
	if patch.Status != nil && (*patch.Status == "" || !models.IsValidStatus(*patch.Status)) {
		return nil, fmt.Errorf("unknown status %q: %w", *patch.Status, ErrInvalidArgument)
	}
	next, err := c.commit(ctx, "update_task", func(s *models.AppState) *models.AppState {
		return UpdateTask(s, projectID, taskID, patch)
	}, taskMissing(projectID, taskID))
	if err != nil {
		return nil, err
	}
	return next.FindTask(projectID, taskID), nil
}

// DeleteTask removes the task.
func (c *Container) DeleteTask(ctx context.Context, projectID, taskID string) error {
	_, err := c.commit(ctx, "delete_task", func(s *models.AppState) *models.AppState {
		return DeleteTask(s, projectID, taskID)
	}, taskMissing(projectID, taskID))
	return err
}

// LogTime appends a time entry. Minutes must be positive.
func (c *Container) LogTime(ctx context.Context, projectID, taskID string, minutes int, note string) (*models.Task, error) {
	if minutes <= 0 {
		return nil, ErrInvalidMinutes
	}
	note = strings.TrimSpace(note)
	next, err := c.commit(ctx, "log_time", func(s *models.AppState) *models.AppState {
		return LogTime(s, projectID, taskID, minutes, note)
	}, taskMissing(projectID, taskID))
	if err != nil {
		return nil, err
	}
	return next.FindTask(projectID, taskID), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Login signs in the first user whose email matches exactly and whose password
// checks out. On failure the session is left as it was.
//
// This is a demo convenience, not a security boundary; see authutil.CheckPassword.
func (c *Container) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	var match *models.User
	for _, u := range c.State().Users {
		if u.Email == email {
			match = u
			break
		}
	}
	if match == nil || !authutil.CheckPassword(match.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if err := c.SetSession(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// Logout clears the session.
func (c *Container) Logout(ctx context.Context) error {
	return c.SetSession(ctx, nil)
}

// SetSession persists u as the session user, or removes the session key when u is nil.
// The stored copy never carries the password.
func (c *Container) SetSession(ctx context.Context, u *models.User) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), c.log, "save session")
	defer cancel()

	var session *models.User
	if u == nil {
		if err := c.kv.Remove(ctx, c.opts.SessionKey); err != nil {
			return fmt.Errorf("remove %s: %w", c.opts.SessionKey, err)
		}
	} else {
		pub := u.Public()
		text, err := EncodeUser(&pub)
		if err != nil {
			return err
		}
		if err := c.kv.Set(ctx, c.opts.SessionKey, text); err != nil {
			return fmt.Errorf("write %s: %w", c.opts.SessionKey, err)
		}
		session = &pub
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

package database

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"project-mgmt-backend/pkg/models"

	"github.com/google/uuid"
)

// MemoryDatabase is a map-backed DatabaseInterface used for local
// development and the test suite. All methods copy values in and out so
// callers never share memory with the store.
type MemoryDatabase struct {
	mu sync.RWMutex

	users    map[string]models.User
	orgs     map[string]models.Organization
	members  map[string]models.OrganizationMember
	projects map[string]models.Project
	tasks    map[string]models.Task
	comments map[string]models.Comment
}

func NewMemoryDatabase() DatabaseInterface {
	return &MemoryDatabase{
		users:    make(map[string]models.User),
		orgs:     make(map[string]models.Organization),
		members:  make(map[string]models.OrganizationMember),
		projects: make(map[string]models.Project),
		tasks:    make(map[string]models.Task),
		comments: make(map[string]models.Comment),
	}
}

func (d *MemoryDatabase) CreateUser(user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
	}

	now := time.Now()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	d.users[user.ID] = *user
	return nil
}

func (d *MemoryDatabase) GetUserByEmail(email string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDatabase) GetUserByID(id string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (d *MemoryDatabase) UpdateUser(user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.IsActive = user.IsActive
	stored.UpdatedAt = time.Now()
	d.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (d *MemoryDatabase) DeleteUser(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, id)
	return nil
}

func (d *MemoryDatabase) CreateOrganization(org *models.Organization) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, o := range d.orgs {
		if o.Slug == org.Slug {
			return fmt.Errorf("%w: slug %s", ErrDuplicate, org.Slug)
		}
	}

	now := time.Now()
	org.ID = uuid.New().String()
	org.CreatedAt = now
	org.UpdatedAt = now
	d.orgs[org.ID] = *org
	return nil
}

func (d *MemoryDatabase) GetOrganization(id string) (*models.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	o, ok := d.orgs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := o
	return &copied, nil
}

func (d *MemoryDatabase) GetOrganizationBySlug(slug string) (*models.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, o := range d.orgs {
		if o.Slug == slug {
			copied := o
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDatabase) ListOrganizationsByOwner(ownerID string) ([]models.Organization, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var orgs []models.Organization
	for _, o := range d.orgs {
		if o.OwnerID == ownerID {
			orgs = append(orgs, o)
		}
	}
	sortByCreated(orgs, func(o models.Organization) time.Time { return o.CreatedAt })
	return orgs, nil
}

func (d *MemoryDatabase) UpdateOrganization(org *models.Organization) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.orgs[org.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = org.Name
	stored.Description = org.Description
	stored.UpdatedAt = time.Now()
	d.orgs[org.ID] = stored
	org.UpdatedAt = stored.UpdatedAt
	return nil
}

func (d *MemoryDatabase) DeleteOrganization(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.orgs, id)
	// Cascade the way the relational schema would
	for mid, m := range d.members {
		if m.OrganizationID == id {
			delete(d.members, mid)
		}
	}
	for pid, p := range d.projects {
		if p.OrganizationID == id {
			d.deleteProjectLocked(pid)
		}
	}
	return nil
}

func (d *MemoryDatabase) AddOrganizationMember(m *models.OrganizationMember) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.members {
		if existing.OrganizationID == m.OrganizationID && existing.UserID == m.UserID {
			return fmt.Errorf("%w: user already a member", ErrDuplicate)
		}
	}

	m.ID = uuid.New().String()
	m.CreatedAt = time.Now()
	d.members[m.ID] = *m
	return nil
}

func (d *MemoryDatabase) GetOrganizationMember(orgID, userID string) (*models.OrganizationMember, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, m := range d.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			copied := m
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDatabase) ListOrganizationMembers(orgID string) ([]models.OrganizationMember, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var members []models.OrganizationMember
	for _, m := range d.members {
		if m.OrganizationID == orgID {
			members = append(members, m)
		}
	}
	sortByCreated(members, func(m models.OrganizationMember) time.Time { return m.CreatedAt })
	return members, nil
}

func (d *MemoryDatabase) RemoveOrganizationMember(orgID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Removing an absent membership is a no-op, matching DELETE semantics
	for id, m := range d.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			delete(d.members, id)
			return nil
		}
	}
	return nil
}

func (d *MemoryDatabase) CreateProject(p *models.Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	d.projects[p.ID] = *p
	return nil
}

func (d *MemoryDatabase) GetProject(id string) (*models.Project, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (d *MemoryDatabase) ListProjectsByOrganization(orgID string) ([]models.Project, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var projects []models.Project
	for _, p := range d.projects {
		if p.OrganizationID == orgID {
			projects = append(projects, p)
		}
	}
	sortByCreated(projects, func(p models.Project) time.Time { return p.CreatedAt })
	return projects, nil
}

func (d *MemoryDatabase) UpdateProject(p *models.Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.projects[p.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.UpdatedAt = time.Now()
	d.projects[p.ID] = stored
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (d *MemoryDatabase) DeleteProject(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteProjectLocked(id)
	return nil
}

func (d *MemoryDatabase) deleteProjectLocked(id string) {
	delete(d.projects, id)
	for tid, t := range d.tasks {
		if t.ProjectID == id {
			delete(d.tasks, tid)
			for cid, c := range d.comments {
				if c.TaskID == tid {
					delete(d.comments, cid)
				}
			}
		}
	}
}

func (d *MemoryDatabase) CreateTask(t *models.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	d.tasks[t.ID] = *t
	return nil
}

func (d *MemoryDatabase) GetTask(id string) (*models.Task, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (d *MemoryDatabase) ListTasksByProject(projectID string, filter models.TaskFilter, page, limit int) ([]models.Task, int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matched []models.Task
	for _, t := range d.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(t.Priority) != filter.Priority {
			continue
		}
		if filter.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != filter.AssignedTo) {
			continue
		}
		matched = append(matched, t)
	}
	sortByCreated(matched, func(t models.Task) time.Time { return t.CreatedAt })

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (d *MemoryDatabase) UpdateTask(t *models.Task) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.tasks[t.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.Status = t.Status
	stored.Priority = t.Priority
	stored.AssignedTo = t.AssignedTo
	stored.DueDate = t.DueDate
	stored.UpdatedAt = time.Now()
	d.tasks[t.ID] = stored
	t.UpdatedAt = stored.UpdatedAt
	return nil
}

func (d *MemoryDatabase) DeleteTask(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.tasks, id)
	for cid, c := range d.comments {
		if c.TaskID == id {
			delete(d.comments, cid)
		}
	}
	return nil
}

func (d *MemoryDatabase) CreateComment(c *models.Comment) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	c.ID = uuid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now
	d.comments[c.ID] = *c
	return nil
}

func (d *MemoryDatabase) GetComment(id string) (*models.Comment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (d *MemoryDatabase) ListCommentsByTask(taskID string) ([]models.Comment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var comments []models.Comment
	for _, c := range d.comments {
		if c.TaskID == taskID {
			comments = append(comments, c)
		}
	}
	sortByCreated(comments, func(c models.Comment) time.Time { return c.CreatedAt })
	return comments, nil
}

func (d *MemoryDatabase) UpdateComment(c *models.Comment) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.comments[c.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Content = c.Content
	stored.UpdatedAt = time.Now()
	d.comments[c.ID] = stored
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (d *MemoryDatabase) DeleteComment(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.comments, id)
	return nil
}

func (d *MemoryDatabase) HealthCheck() error { return nil }

func (d *MemoryDatabase) Close() error { return nil }

// sortByCreated keeps list ordering stable across calls; map iteration
// order would otherwise leak into responses.
func sortByCreated[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).Before(created(items[j]))
	})
}

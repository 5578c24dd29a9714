package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"project-mgmt-backend/pkg/models"

	"github.com/lib/pq"
)

// PostgresDatabase implements DatabaseInterface over lib/pq
type PostgresDatabase struct {
	db *sql.DB
}

// NewPostgresDatabase opens a connection pool against the given DSN
func NewPostgresDatabase(dsn string) (DatabaseInterface, error) {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresDatabase{db: db}, nil
}

// translateError maps driver errors onto the package sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		}
	}
	return err
}

// CreateUser inserts a user; email uniqueness is enforced by the store
func (d *PostgresDatabase) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (email, password, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := d.db.QueryRow(query, user.Email, user.Password, user.FirstName, user.LastName, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := d.db.QueryRow(query, email).Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (d *PostgresDatabase) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u models.User
	err := d.db.QueryRow(query, id).Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (d *PostgresDatabase) UpdateUser(user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := d.db.QueryRow(query, user.FirstName, user.LastName, user.IsActive, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) DeleteUser(id string) error {
	_, err := d.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) CreateOrganization(org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, slug, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := d.db.QueryRow(query, org.Name, org.Slug, org.Description, org.OwnerID).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetOrganization(id string) (*models.Organization, error) {
	return d.getOrganization(`id = $1`, id)
}

func (d *PostgresDatabase) GetOrganizationBySlug(slug string) (*models.Organization, error) {
	return d.getOrganization(`slug = $1`, slug)
}

func (d *PostgresDatabase) getOrganization(where string, arg interface{}) (*models.Organization, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, ''), owner_id, created_at, updated_at
		FROM organizations
		WHERE ` + where
	var o models.Organization
	err := d.db.QueryRow(query, arg).Scan(
		&o.ID, &o.Name, &o.Slug, &o.Description, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}

func (d *PostgresDatabase) ListOrganizationsByOwner(ownerID string) ([]models.Organization, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, ''), owner_id, created_at, updated_at
		FROM organizations
		WHERE owner_id = $1
		ORDER BY created_at
	`
	rows, err := d.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (d *PostgresDatabase) UpdateOrganization(org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := d.db.QueryRow(query, org.Name, org.Description, org.ID).Scan(&org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) DeleteOrganization(id string) error {
	_, err := d.db.Exec(`DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) AddOrganizationMember(m *models.OrganizationMember) error {
	query := `
		INSERT INTO organization_members (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := d.db.QueryRow(query, m.OrganizationID, m.UserID, m.Role).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add organization member: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetOrganizationMember(orgID, userID string) (*models.OrganizationMember, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2
	`
	var m models.OrganizationMember
	err := d.db.QueryRow(query, orgID, userID).Scan(
		&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (d *PostgresDatabase) ListOrganizationMembers(orgID string) ([]models.OrganizationMember, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM organization_members
		WHERE organization_id = $1
		ORDER BY created_at
	`
	rows, err := d.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}
	defer rows.Close()

	var members []models.OrganizationMember
	for rows.Next() {
		var m models.OrganizationMember
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (d *PostgresDatabase) RemoveOrganizationMember(orgID, userID string) error {
	_, err := d.db.Exec(
		`DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove organization member: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) CreateProject(p *models.Project) error {
	query := `
		INSERT INTO projects (name, description, organization_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := d.db.QueryRow(query, p.Name, p.Description, p.OrganizationID, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetProject(id string) (*models.Project, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), organization_id, created_by, created_at, updated_at
		FROM projects
		WHERE id = $1
	`
	var p models.Project
	err := d.db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.OrganizationID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (d *PostgresDatabase) ListProjectsByOrganization(orgID string) ([]models.Project, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), organization_id, created_by, created_at, updated_at
		FROM projects
		WHERE organization_id = $1
		ORDER BY created_at
	`
	rows, err := d.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OrganizationID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (d *PostgresDatabase) UpdateProject(p *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := d.db.QueryRow(query, p.Name, p.Description, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) DeleteProject(id string) error {
	_, err := d.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) CreateTask(t *models.Task) error {
	query := `
		INSERT INTO tasks (title, description, status, priority, project_id, created_by, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := d.db.QueryRow(query,
		t.Title, t.Description, t.Status, t.Priority, t.ProjectID, t.CreatedBy, t.AssignedTo, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetTask(id string) (*models.Task, error) {
	query := `
		SELECT id, title, COALESCE(description, ''), status, priority, project_id, created_by, assigned_to, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	var t models.Task
	err := d.db.QueryRow(query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.CreatedBy,
		&t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// ListTasksByProject filters server-side and pages with LIMIT/OFFSET. Filters
// are ANDed; zero-value filter fields are skipped.
func (d *PostgresDatabase) ListTasksByProject(projectID string, filter models.TaskFilter, page, limit int) ([]models.Task, int, error) {
	where := []string{"project_id = $1"}
	args := []interface{}{projectID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		where = append(where, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT id, title, COALESCE(description, ''), status, priority, project_id, created_by, assigned_to, due_date, created_at, updated_at
		FROM tasks
		WHERE %s
		ORDER BY created_at
		LIMIT $%d OFFSET $%d
	`, cond, len(args)-1, len(args))

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID,
			&t.CreatedBy, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (d *PostgresDatabase) UpdateTask(t *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, assigned_to = $5, due_date = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := d.db.QueryRow(query, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.DueDate, t.ID).
		Scan(&t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) DeleteTask(id string) error {
	_, err := d.db.Exec(`DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) CreateComment(c *models.Comment) error {
	query := `
		INSERT INTO comments (content, task_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := d.db.QueryRow(query, c.Content, c.TaskID, c.CreatedBy).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) GetComment(id string) (*models.Comment, error) {
	query := `
		SELECT id, content, task_id, created_by, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var c models.Comment
	err := d.db.QueryRow(query, id).Scan(
		&c.ID, &c.Content, &c.TaskID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (d *PostgresDatabase) ListCommentsByTask(taskID string) ([]models.Comment, error) {
	query := `
		SELECT id, content, task_id, created_by, created_at, updated_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at
	`
	rows, err := d.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.TaskID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (d *PostgresDatabase) UpdateComment(c *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	err := d.db.QueryRow(query, c.Content, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) DeleteComment(id string) error {
	_, err := d.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", translateError(err))
	}
	return nil
}

func (d *PostgresDatabase) HealthCheck() error {
	return d.db.Ping()
}

func (d *PostgresDatabase) Close() error {
	return d.db.Close()
}

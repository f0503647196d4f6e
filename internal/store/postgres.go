package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/avelasquez/courseapi/internal/models"
	"github.com/avelasquez/courseapi/internal/store/migrations"
)

const uniqueViolation = "23505"

// PostgresStore handles user and course persistence against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// RunMigrations applies the embedded goose migrations. Goose wants a
// *sql.DB, so it gets a short-lived connection over the pgx stdlib driver.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// CreateUser inserts a user whose Password field already holds the bcrypt
// digest. A duplicate email surfaces as a ValidationError.
func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email_address, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.FirstName, u.LastName, u.EmailAddress, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &ValidationError{Messages: []string{"Such email already exists"}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email_address, password, created_at
		 FROM users WHERE email_address = $1`, email,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.EmailAddress, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// ListCourses returns every course joined with its owner's names.
func (s *PostgresStore) ListCourses(ctx context.Context) ([]models.CourseDetail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed,
		        c.user_id, u.first_name, u.last_name
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.CourseDetail
	for rows.Next() {
		var c models.CourseDetail
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.EstimatedTime,
			&c.MaterialsNeeded, &c.UserID, &c.User.FirstName, &c.User.LastName); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *PostgresStore) GetCourse(ctx context.Context, id string) (*models.CourseDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var c models.CourseDetail
	err := s.pool.QueryRow(ctx,
		`SELECT c.id, c.title, c.description, c.estimated_time, c.materials_needed,
		        c.user_id, u.first_name, u.last_name
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.EstimatedTime,
		&c.MaterialsNeeded, &c.UserID, &c.User.FirstName, &c.User.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, estimated_time, materials_needed, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Title, c.Description, c.EstimatedTime, c.MaterialsNeeded, c.UserID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

// UpdateCourse applies a partial update to a course owned by ownerID. The
// ownership check and the write happen inside one transaction with the row
// locked, so the course cannot change hands between check and act.
func (s *PostgresStore) UpdateCourse(ctx context.Context, id, ownerID string, upd *models.CoursePayload) error {
	return s.withOwnedCourse(ctx, id, ownerID, func(tx pgx.Tx, c *models.Course) error {
		if upd.Title != nil {
			c.Title = *upd.Title
		}
		if upd.Description != nil {
			c.Description = *upd.Description
		}
		if upd.EstimatedTime != nil {
			c.EstimatedTime = *upd.EstimatedTime
		}
		if upd.MaterialsNeeded != nil {
			c.MaterialsNeeded = *upd.MaterialsNeeded
		}
		_, err := tx.Exec(ctx,
			`UPDATE courses
			 SET title = $2, description = $3, estimated_time = $4, materials_needed = $5
			 WHERE id = $1`,
			c.ID, c.Title, c.Description, c.EstimatedTime, c.MaterialsNeeded)
		return err
	})
}

// DeleteCourse removes a course owned by ownerID, under the same
// transactional ownership check as UpdateCourse.
func (s *PostgresStore) DeleteCourse(ctx context.Context, id, ownerID string) error {
	return s.withOwnedCourse(ctx, id, ownerID, func(tx pgx.Tx, c *models.Course) error {
		_, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, c.ID)
		return err
	})
}

// withOwnedCourse locks the course row, verifies ownership, and runs fn in
// the same transaction. Returns ErrNotFound for a missing course and
// ErrNotOwner for an ownership mismatch.
func (s *PostgresStore) withOwnedCourse(ctx context.Context, id, ownerID string, fn func(pgx.Tx, *models.Course) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var c models.Course
	err = tx.QueryRow(ctx,
		`SELECT id, title, description, estimated_time, materials_needed, user_id
		 FROM courses WHERE id = $1
		 FOR UPDATE`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.EstimatedTime, &c.MaterialsNeeded, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock course: %w", err)
	}
	if c.UserID != ownerID {
		return ErrNotOwner
	}

	if err := fn(tx, &c); err != nil {
		return fmt.Errorf("mutate course: %w", err)
	}
	return tx.Commit(ctx)
}

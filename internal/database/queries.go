package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Queries bundles the hand-written SQL against the connection pool.
type Queries struct {
	pool *pgxpool.Pool
}

func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

/* =================================================================================
									USERS
=================================================================================*/

const userColumns = `id, auth_user_id, email, role, first_name, last_name, signature_path, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.AuthUserID, &u.Email, &u.Role, &u.FirstName, &u.LastName,
		&u.SignaturePath, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetUserByAuthID looks a user up by the external identity id.
func (q *Queries) GetUserByAuthID(ctx context.Context, authUserID string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth_user_id = $1`, authUserID)
	return scanUser(row)
}

// GetUserByEmail looks a user up by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// CreateUser inserts a doctor account and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, authUserID, email, role string, firstName, lastName *string) (User, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO users (auth_user_id, email, role, first_name, last_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		authUserID, email, role, firstName, lastName)
	return scanUser(row)
}

// UpdateUserSignaturePath records (or clears, with nil) the stored signature
// object path for a user.
func (q *Queries) UpdateUserSignaturePath(ctx context.Context, authUserID string, path *string) error {
	tag, err := q.pool.Exec(ctx,
		`UPDATE users SET signature_path = $2, updated_at = now() WHERE auth_user_id = $1`,
		authUserID, path)
	if err != nil {
		return fmt.Errorf("update signature path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StoreCredentials upserts the bcrypt hash for a user.
func (q *Queries) StoreCredentials(ctx context.Context, authUserID, passwordHash string) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO credentials (auth_user_id, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (auth_user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		authUserID, passwordHash)
	return err
}

// GetCredentials returns the stored bcrypt hash for a user.
func (q *Queries) GetCredentials(ctx context.Context, authUserID string) (string, error) {
	var hash string
	err := q.pool.QueryRow(ctx,
		`SELECT password_hash FROM credentials WHERE auth_user_id = $1`, authUserID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

/* =================================================================================
								SUBMISSIONS & ANSWERS
=================================================================================*/

// GetSubmission fetches one submission by id.
func (q *Queries) GetSubmission(ctx context.Context, id string) (Submission, error) {
	var s Submission
	err := q.pool.QueryRow(ctx,
		`SELECT id, secure_key, status, submitted_by_user_id, submission_count,
		        locked_by_user_id, created_at, updated_at
		 FROM submissions WHERE id = $1`, id).
		Scan(&s.ID, &s.SecureKey, &s.Status, &s.SubmittedByUserID, &s.SubmissionCount,
			&s.LockedByUserID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

// CreateSubmission inserts a new submission shell.
func (q *Queries) CreateSubmission(ctx context.Context, id, secureKey string, submittedBy *int64) (Submission, error) {
	var s Submission
	err := q.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, secure_key, status, submitted_by_user_id, submission_count)
		 VALUES ($1, $2, 'draft', $3, 0)
		 RETURNING id, secure_key, status, submitted_by_user_id, submission_count,
		           locked_by_user_id, created_at, updated_at`,
		id, secureKey, submittedBy).
		Scan(&s.ID, &s.SecureKey, &s.Status, &s.SubmittedByUserID, &s.SubmissionCount,
			&s.LockedByUserID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ListAnswersBySubmission returns every answer recorded for a submission.
func (q *Queries) ListAnswersBySubmission(ctx context.Context, submissionID string) ([]Answer, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT id, submission_id, question_id, value, additional_notes, created_at
		 FROM answers WHERE submission_id = $1 ORDER BY question_id`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ID, &a.SubmissionID, &a.QuestionID, &a.Value,
			&a.AdditionalNotes, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

/* =================================================================================
							QUESTIONS & SECTIONS
=================================================================================*/

// ListQuestions returns the full questionnaire definition in display order.
func (q *Queries) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT id, section_id, parent_id, text, type, order_index, is_required, notes
		 FROM questions ORDER BY order_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var qu Question
		if err := rows.Scan(&qu.ID, &qu.SectionID, &qu.ParentID, &qu.Text, &qu.Type,
			&qu.OrderIndex, &qu.IsRequired, &qu.Notes); err != nil {
			return nil, err
		}
		questions = append(questions, qu)
	}
	return questions, rows.Err()
}

// ListSections returns the questionnaire sections in display order.
func (q *Queries) ListSections(ctx context.Context) ([]Section, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT id, name, description, order_index FROM sections ORDER BY order_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.OrderIndex); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

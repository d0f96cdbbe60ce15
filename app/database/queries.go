package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
)

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserRoles(db *sql.DB, userID string) ([]*models.Role, error) {
	query := `SELECT r.id, r.name, r.is_active, r.created_at, r.updated_at
			  FROM roles r
			  JOIN user_roles ur ON ur.role_id = r.id
			  WHERE ur.user_id = $1 AND ur.deleted_at IS NULL AND r.is_active = true`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func UpdateUserPassword(db *sql.DB, userID string, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}

// CreateUser inserts a staff user and assigns the given role, creating the
// role if it does not exist yet.
func CreateUser(db *sql.DB, user *models.User, roleName string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryUser := `INSERT INTO users (email, password, first_name, last_name, is_active)
				  VALUES ($1, $2, $3, $4, true)
				  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(queryUser, user.Email, user.Password, user.FirstName, user.LastName).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}

	var roleID string
	err = tx.QueryRow(`SELECT id FROM roles WHERE name = $1`, roleName).Scan(&roleID)
	if err == sql.ErrNoRows {
		err = tx.QueryRow(`INSERT INTO roles (name, is_active) VALUES ($1, true) RETURNING id`, roleName).Scan(&roleID)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve role %s: %v", roleName, err)
	}

	if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, user.ID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %v", err)
	}

	return tx.Commit()
}

func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	student := &models.Student{}
	var className sql.NullString
	query := `SELECT id, admission_number, first_name, last_name, class_name, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND is_active = true AND deleted_at IS NULL`

	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
		&className, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	student.ClassName = className.String
	return student, nil
}

func GetStudentByAdmissionNumber(db *sql.DB, admissionNumber string) (*models.Student, error) {
	student := &models.Student{}
	var className sql.NullString
	query := `SELECT id, admission_number, first_name, last_name, class_name, is_active, created_at, updated_at
			  FROM students WHERE admission_number = $1 AND is_active = true AND deleted_at IS NULL`

	err := db.QueryRow(query, admissionNumber).Scan(
		&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
		&className, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	student.ClassName = className.String
	return student, nil
}

// SearchStudents finds active students by admission number or name, with
// pagination for the billing page's student picker.
func SearchStudents(db *sql.DB, search string, limit, offset int) ([]*models.Student, error) {
	query := `SELECT id, admission_number, first_name, last_name, class_name, is_active, created_at, updated_at
			  FROM students
			  WHERE is_active = true AND deleted_at IS NULL`
	var args []interface{}

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query += ` AND (LOWER(admission_number) LIKE $1
				   OR LOWER(first_name) LIKE $1
				   OR LOWER(last_name) LIKE $1
				   OR LOWER(first_name || ' ' || last_name) LIKE $1)`
		args = append(args, pattern)
	}

	query += fmt.Sprintf(" ORDER BY first_name, last_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student := &models.Student{}
		var className sql.NullString
		err := rows.Scan(
			&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
			&className, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
		)
		if err != nil {
			continue
		}
		student.ClassName = className.String
		students = append(students, student)
	}
	return students, nil
}

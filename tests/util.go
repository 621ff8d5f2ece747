package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/database"
)

// OpenDB opens a fresh, fully migrated sqlite database in a per-test temp
// dir; it is removed with the dir when the test ends.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := &core.Config{
		Database: core.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func CreateUser(t *testing.T, repo user.Repository, uname, pwd string) user.User {
	t.Helper()

	usr := user.User{
		Username:  uname,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo school.Repository, name, email string) school.Student {
	t.Helper()

	s, err := repo.CreateStudent(school.Student{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateCourse(t *testing.T, repo school.Repository, title string) school.Course {
	t.Helper()

	c, err := repo.CreateCourse(school.Course{
		Title:     title,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateMark(t *testing.T, repo school.Repository, studentID, courseID, value int) school.Mark {
	t.Helper()

	m, err := repo.CreateMark(school.Mark{
		StudentID: studentID,
		CourseID:  courseID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateMark() failed: %v", err)
	}
	return m
}

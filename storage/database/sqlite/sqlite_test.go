package sqliterepos

import (
	"testing"
	"time"

	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_userRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)

	hasUsers, err := repo.HasUsers()
	if err != nil {
		t.Fatalf("HasUsers() failed: %v", err)
	}
	if hasUsers {
		t.Error("HasUsers() = true on an empty database")
	}

	usr := testutil.CreateUser(t, repo, "awe", "mdr")
	if usr.ID == 0 {
		t.Fatal("CreateUser() did not assign an ID")
	}

	if err = repo.CheckUsernameUniqueness("awe"); err != user.ErrUsernameExists {
		t.Errorf("CheckUsernameUniqueness() error = %v, want %v", err, user.ErrUsernameExists)
	}
	if err = repo.CheckUsernameUniqueness("other"); err != nil {
		t.Errorf("CheckUsernameUniqueness() failed: %v", err)
	}

	// the UNIQUE constraint backs up the uniqueness check
	if _, err = repo.CreateUser(user.User{Username: "awe", CreatedAt: time.Now().UTC()}); err != user.ErrUsernameExists {
		t.Errorf("CreateUser() error = %v, want %v", err, user.ErrUsernameExists)
	}

	got, err := repo.GetUserByUsername("awe")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("GetUserByUsername() ID = %d, want %d", got.ID, usr.ID)
	}
	if err = got.CheckPassword("mdr"); err != nil {
		t.Errorf("stored password hash is unusable: %v", err)
	}

	if _, err = repo.GetUserByUsername("lol"); err != user.ErrNotFound {
		t.Errorf("GetUserByUsername() error = %v, want %v", err, user.ErrNotFound)
	}
	if _, err = repo.GetUserByID(999); err != user.ErrNotFound {
		t.Errorf("GetUserByID() error = %v, want %v", err, user.ErrNotFound)
	}

	hasUsers, err = repo.HasUsers()
	if err != nil {
		t.Fatalf("HasUsers() failed: %v", err)
	}
	if !hasUsers {
		t.Error("HasUsers() = false after a user was created")
	}
}

func Test_schoolRepository_students(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSchoolRepository(db)

	bob := testutil.CreateStudent(t, repo, "Bob", "bob@test.cd")
	alice := testutil.CreateStudent(t, repo, "Alice", "alice@test.cd")

	if err := repo.CheckStudentEmailUniqueness("bob@test.cd"); err != school.ErrEmailExists {
		t.Errorf("CheckStudentEmailUniqueness() error = %v, want %v", err, school.ErrEmailExists)
	}
	// matching is case-sensitive
	if err := repo.CheckStudentEmailUniqueness("BOB@test.cd"); err != nil {
		t.Errorf("CheckStudentEmailUniqueness() failed for a different-case email: %v", err)
	}

	if _, err := repo.CreateStudent(school.Student{Name: "Bobby", Email: "bob@test.cd", CreatedAt: time.Now().UTC()}); err != school.ErrEmailExists {
		t.Errorf("CreateStudent() error = %v, want %v", err, school.ErrEmailExists)
	}

	students, err := repo.QueryAllStudents()
	if err != nil {
		t.Fatalf("QueryAllStudents() failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("QueryAllStudents() len = %d, want 2", len(students))
	}
	// newest first
	if students[0].ID != alice.ID || students[1].ID != bob.ID {
		t.Errorf("QueryAllStudents() order = [%d %d], want [%d %d]", students[0].ID, students[1].ID, alice.ID, bob.ID)
	}
}

func Test_schoolRepository_courses(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSchoolRepository(db)

	math := testutil.CreateCourse(t, repo, "Math")
	bio := testutil.CreateCourse(t, repo, "Biology")

	if err := repo.CheckCourseTitleUniqueness("Math"); err != school.ErrTitleExists {
		t.Errorf("CheckCourseTitleUniqueness() error = %v, want %v", err, school.ErrTitleExists)
	}
	if _, err := repo.CreateCourse(school.Course{Title: "Math", CreatedAt: time.Now().UTC()}); err != school.ErrTitleExists {
		t.Errorf("CreateCourse() error = %v, want %v", err, school.ErrTitleExists)
	}

	courses, err := repo.QueryAllCourses()
	if err != nil {
		t.Fatalf("QueryAllCourses() failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("QueryAllCourses() len = %d, want 2", len(courses))
	}
	// newest first
	if courses[0].ID != bio.ID || courses[1].ID != math.ID {
		t.Errorf("QueryAllCourses() order = [%d %d], want [%d %d]", courses[0].ID, courses[1].ID, bio.ID, math.ID)
	}
}

func Test_schoolRepository_marks(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewSchoolRepository(db)

	bob := testutil.CreateStudent(t, repo, "Bob", "bob@test.cd")
	alice := testutil.CreateStudent(t, repo, "Alice", "alice@test.cd")
	math := testutil.CreateCourse(t, repo, "Math")
	bio := testutil.CreateCourse(t, repo, "Biology")

	m1 := testutil.CreateMark(t, repo, bob.ID, math.ID, 85)
	m2 := testutil.CreateMark(t, repo, alice.ID, bio.ID, 92)
	m3 := testutil.CreateMark(t, repo, bob.ID, bio.ID, 70)

	// the FOREIGN KEY constraints back up the reference checks
	if _, err := repo.CreateMark(school.Mark{StudentID: 999, CourseID: math.ID, Value: 1, CreatedAt: time.Now().UTC()}); err != school.ErrStudentNotFound {
		t.Errorf("CreateMark() error = %v, want %v", err, school.ErrStudentNotFound)
	}
	if _, err := repo.CreateMark(school.Mark{StudentID: bob.ID, CourseID: 999, Value: 1, CreatedAt: time.Now().UTC()}); err != school.ErrCourseNotFound {
		t.Errorf("CreateMark() error = %v, want %v", err, school.ErrCourseNotFound)
	}

	marks, err := repo.QueryAllMarks()
	if err != nil {
		t.Fatalf("QueryAllMarks() failed: %v", err)
	}
	if len(marks) != 3 {
		t.Fatalf("QueryAllMarks() len = %d, want 3", len(marks))
	}
	// insertion order
	for i, want := range []school.Mark{m1, m2, m3} {
		if marks[i].ID != want.ID {
			t.Errorf("QueryAllMarks()[%d].ID = %d, want %d", i, marks[i].ID, want.ID)
		}
	}

	rows, err := repo.QueryMarkRows()
	if err != nil {
		t.Fatalf("QueryMarkRows() failed: %v", err)
	}
	want := []school.MarkRow{
		{ID: m1.ID, StudentName: "Bob", CourseTitle: "Math", Value: 85},
		{ID: m2.ID, StudentName: "Alice", CourseTitle: "Biology", Value: 92},
		{ID: m3.ID, StudentName: "Bob", CourseTitle: "Biology", Value: 70},
	}
	if len(rows) != len(want) {
		t.Fatalf("QueryMarkRows() len = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("QueryMarkRows()[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

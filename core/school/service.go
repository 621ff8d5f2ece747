package school

import (
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrEmailExists     = errors.New("a student with this email already exists")
	ErrTitleExists     = errors.New("a course with this title already exists")
)

type (
	// Repository is the persistence contract for Student, Course and Mark rows.
	// All entities are append-only: no update, no delete.
	Repository interface {
		CheckStudentEmailUniqueness(email string) error
		CreateStudent(s Student) (Student, error)
		// QueryAllStudents returns students ordered by id descending (newest first).
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int) (Student, error)

		CheckCourseTitleUniqueness(title string) error
		CreateCourse(c Course) (Course, error)
		// QueryAllCourses returns courses ordered by id descending (newest first).
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id int) (Course, error)

		CreateMark(m Mark) (Mark, error)
		// QueryAllMarks returns marks ordered by id ascending (insertion order).
		QueryAllMarks() ([]Mark, error)
		// QueryMarkRows returns marks joined with student names and course
		// titles, ordered by mark id ascending.
		QueryMarkRows() ([]MarkRow, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkEmailUniqueness(email string) error {
	if err := svc.repo.CheckStudentEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkTitleUniqueness(title string) error {
	if err := svc.repo.CheckCourseTitleUniqueness(title); err != nil {
		if err == ErrTitleExists {
			return core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkReferences(studentID, courseID int) error {
	if _, err := svc.repo.GetStudentByID(studentID); err != nil {
		if err == ErrStudentNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return err
	}
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		if err == ErrCourseNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

// CreateStudent persists a new Student. The NewStudent is expected to have been validated.
func (svc *Service) CreateStudent(ns NewStudent) (Student, error) {
	s := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		CreatedAt: time.Now().UTC(),
	}
	s, err := svc.repo.CreateStudent(s)
	if err != nil {
		// storage uniqueness backstop for check-then-insert races
		if err == ErrEmailExists {
			return Student{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return Student{}, err
	}
	return s, nil
}

func (svc *Service) QueryAllStudents() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetStudentByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// CreateCourse persists a new Course. The NewCourse is expected to have been validated.
func (svc *Service) CreateCourse(nc NewCourse) (Course, error) {
	c := Course{
		Title:     nc.Title,
		CreatedAt: time.Now().UTC(),
	}
	c, err := svc.repo.CreateCourse(c)
	if err != nil {
		if err == ErrTitleExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return Course{}, err
	}
	return c, nil
}

func (svc *Service) QueryAllCourses() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetCourseByID(id int) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

// CreateMark persists a new Mark. The NewMark is expected to have been validated.
func (svc *Service) CreateMark(nm NewMark) (Mark, error) {
	m := Mark{
		StudentID: nm.StudentID,
		CourseID:  nm.CourseID,
		Value:     nm.Value,
		CreatedAt: time.Now().UTC(),
	}
	m, err := svc.repo.CreateMark(m)
	if err != nil {
		// storage FK backstop for check-then-insert races
		switch err {
		case ErrStudentNotFound:
			return Mark{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		case ErrCourseNotFound:
			return Mark{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return Mark{}, err
	}
	return m, nil
}

func (svc *Service) QueryAllMarks() ([]Mark, error) {
	return svc.repo.QueryAllMarks()
}

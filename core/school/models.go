package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type Student struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"` // UTC
}

type Course struct {
	ID        int       `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"` // UTC
}

type Mark struct {
	ID        int       `db:"id"`
	StudentID int       `db:"student_id"`
	CourseID  int       `db:"course_id"`
	Value     int       `db:"mark"`
	CreatedAt time.Time `db:"created_at"` // UTC
}

// MarkRow is a Mark joined with the referenced Student name and Course title.
type MarkRow struct {
	ID          int    `db:"id"`
	StudentName string `db:"student_name"`
	CourseTitle string `db:"course_title"`
	Value       int    `db:"mark"`
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(ns.Email)
}

// NewCourse contains information needed to open a new Course.
type NewCourse struct {
	Title string `form:"title" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, svc *Service) error {
	nc.Title = core.CleanString(nc.Title)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkTitleUniqueness(nc.Title)
}

// NewMark records a mark for a Student in a Course.
// The mark value itself is deliberately unbounded.
type NewMark struct {
	StudentID int `form:"student_id" validate:"required"`
	CourseID  int `form:"course_id" validate:"required"`
	Value     int `form:"mark"`
}

func (nm *NewMark) Validate(validate *validator.Validate, svc *Service) error {
	if err := validate.Struct(nm); err != nil {
		return err
	}
	return svc.checkReferences(nm.StudentID, nm.CourseID)
}

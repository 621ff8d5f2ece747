package sqliterepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
)

// list orderings; students & courses newest first, marks in insertion order
var (
	newestFirst    = core.DBOrdering{Field: "id"}
	insertionOrder = core.DBOrdering{Field: "id", Ascending: true}
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CheckStudentEmailUniqueness(email string) error {
	var exists bool
	err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM students WHERE email = ?)", email)
	if err != nil {
		return errors.Wrap(err, "checking student email uniqueness")
	}
	if exists {
		return school.ErrEmailExists
	}
	return nil
}

func (repo *schoolRepository) CreateStudent(s school.Student) (school.Student, error) {
	res, err := repo.db.Exec(
		"INSERT INTO students (name, email, created_at) VALUES (?, ?, ?)",
		s.Name, s.Email, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return school.Student{}, school.ErrEmailExists
		}
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Student{}, errors.Wrap(err, "getting inserted student id")
	}
	s.ID = int(id)
	return s, nil
}

func (repo *schoolRepository) QueryAllStudents() ([]school.Student, error) {
	var students []school.Student
	err := repo.db.Select(&students, "SELECT * FROM students ORDER BY "+newestFirst.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *schoolRepository) GetStudentByID(id int) (school.Student, error) {
	var s school.Student
	if err := repo.db.Get(&s, "SELECT * FROM students WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "getting student by id")
	}
	return s, nil
}

func (repo *schoolRepository) CheckCourseTitleUniqueness(title string) error {
	var exists bool
	err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM courses WHERE title = ?)", title)
	if err != nil {
		return errors.Wrap(err, "checking course title uniqueness")
	}
	if exists {
		return school.ErrTitleExists
	}
	return nil
}

func (repo *schoolRepository) CreateCourse(c school.Course) (school.Course, error) {
	res, err := repo.db.Exec(
		"INSERT INTO courses (title, created_at) VALUES (?, ?)",
		c.Title, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return school.Course{}, school.ErrTitleExists
		}
		return school.Course{}, errors.Wrap(err, "inserting course")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Course{}, errors.Wrap(err, "getting inserted course id")
	}
	c.ID = int(id)
	return c, nil
}

func (repo *schoolRepository) QueryAllCourses() ([]school.Course, error) {
	var courses []school.Course
	err := repo.db.Select(&courses, "SELECT * FROM courses ORDER BY "+newestFirst.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *schoolRepository) GetCourseByID(id int) (school.Course, error) {
	var c school.Course
	if err := repo.db.Get(&c, "SELECT * FROM courses WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return school.Course{}, school.ErrCourseNotFound
		}
		return school.Course{}, errors.Wrap(err, "getting course by id")
	}
	return c, nil
}

func (repo *schoolRepository) CreateMark(m school.Mark) (school.Mark, error) {
	res, err := repo.db.Exec(
		"INSERT INTO marks (student_id, course_id, mark, created_at) VALUES (?, ?, ?, ?)",
		m.StudentID, m.CourseID, m.Value, m.CreatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			// sqlite does not say which reference failed; find out
			if _, serr := repo.GetStudentByID(m.StudentID); serr == school.ErrStudentNotFound {
				return school.Mark{}, school.ErrStudentNotFound
			}
			return school.Mark{}, school.ErrCourseNotFound
		}
		return school.Mark{}, errors.Wrap(err, "inserting mark")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Mark{}, errors.Wrap(err, "getting inserted mark id")
	}
	m.ID = int(id)
	return m, nil
}

func (repo *schoolRepository) QueryAllMarks() ([]school.Mark, error) {
	var marks []school.Mark
	err := repo.db.Select(&marks, "SELECT * FROM marks ORDER BY "+insertionOrder.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	return marks, nil
}

func (repo *schoolRepository) QueryMarkRows() ([]school.MarkRow, error) {
	var rows []school.MarkRow
	err := repo.db.Select(&rows, `
		SELECT m.id AS id, s.name AS student_name, c.title AS course_title, m.mark AS mark
		FROM marks m
		JOIN students s ON s.id = m.student_id
		JOIN courses c ON c.id = m.course_id
		ORDER BY m.`+insertionOrder.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying mark rows")
	}
	return rows, nil
}

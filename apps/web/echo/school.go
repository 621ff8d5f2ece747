package echoweb

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/school"
)

type schoolApp struct {
	deps ServerDeps
}

func registerSchoolRoutes(app *echo.Echo, deps ServerDeps) {
	a := schoolApp{deps: deps}
	g := app.Group("", sessionMiddleware(deps))

	g.GET("/dashboard", a.dashboard)
	g.GET("/students", a.students)
	g.POST("/add_student", a.addStudent)
	g.GET("/courses", a.courses)
	g.POST("/add_course", a.addCourse)
	g.GET("/marks", a.marks)
	g.POST("/add_mark", a.addMark)
	g.GET("/download_marks", a.downloadMarks)
}

// dashboard doubles as a student overview, newest first.
func (a *schoolApp) dashboard(ctx echo.Context) error {
	data, err := a.studentsData(nil)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "dashboard.html", data)
}

func (a *schoolApp) studentsData(extra map[string]interface{}) (map[string]interface{}, error) {
	students, err := a.deps.SchoolSvc.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{"Students": students}
	for k, v := range extra {
		data[k] = v
	}
	return data, nil
}

func (a *schoolApp) students(ctx echo.Context) error {
	data, err := a.studentsData(nil)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "students.html", data)
}

func (a *schoolApp) addStudent(ctx echo.Context) error {
	var ns school.NewStudent
	if err := ctx.Bind(&ns); err != nil {
		return err
	}

	if err := ns.Validate(a.deps.Validate, a.deps.SchoolSvc); err != nil {
		return a.renderStudentsError(ctx, ns, err)
	}
	if _, err := a.deps.SchoolSvc.CreateStudent(ns); err != nil {
		return a.renderStudentsError(ctx, ns, err)
	}

	setFlash(ctx, fmt.Sprintf("Student %q added.", ns.Name))
	return ctx.Redirect(http.StatusFound, "/students")
}

func (a *schoolApp) renderStudentsError(ctx echo.Context, ns school.NewStudent, err error) error {
	flds := fieldErrors(err, a.deps.Translator)
	if flds == nil {
		return err
	}
	data, err := a.studentsData(map[string]interface{}{
		"Errors": flds,
		"Form":   ns,
	})
	if err != nil {
		return err
	}
	return render(ctx, http.StatusBadRequest, "students.html", data)
}

func (a *schoolApp) coursesData(extra map[string]interface{}) (map[string]interface{}, error) {
	courses, err := a.deps.SchoolSvc.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{"Courses": courses}
	for k, v := range extra {
		data[k] = v
	}
	return data, nil
}

func (a *schoolApp) courses(ctx echo.Context) error {
	data, err := a.coursesData(nil)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "courses.html", data)
}

func (a *schoolApp) addCourse(ctx echo.Context) error {
	var nc school.NewCourse
	if err := ctx.Bind(&nc); err != nil {
		return err
	}

	if err := nc.Validate(a.deps.Validate, a.deps.SchoolSvc); err != nil {
		return a.renderCoursesError(ctx, nc, err)
	}
	if _, err := a.deps.SchoolSvc.CreateCourse(nc); err != nil {
		return a.renderCoursesError(ctx, nc, err)
	}

	setFlash(ctx, fmt.Sprintf("Course %q added.", nc.Title))
	return ctx.Redirect(http.StatusFound, "/courses")
}

func (a *schoolApp) renderCoursesError(ctx echo.Context, nc school.NewCourse, err error) error {
	flds := fieldErrors(err, a.deps.Translator)
	if flds == nil {
		return err
	}
	data, err := a.coursesData(map[string]interface{}{
		"Errors": flds,
		"Form":   nc,
	})
	if err != nil {
		return err
	}
	return render(ctx, http.StatusBadRequest, "courses.html", data)
}

func (a *schoolApp) marksData(extra map[string]interface{}) (map[string]interface{}, error) {
	rows, err := a.deps.SchoolSvc.MarksReport()
	if err != nil {
		return nil, err
	}
	students, err := a.deps.SchoolSvc.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	courses, err := a.deps.SchoolSvc.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"Marks":    rows.Rows(),
		"Students": students,
		"Courses":  courses,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data, nil
}

func (a *schoolApp) marks(ctx echo.Context) error {
	data, err := a.marksData(nil)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "marks.html", data)
}

func (a *schoolApp) addMark(ctx echo.Context) error {
	nm, err := bindNewMark(ctx)
	if err != nil {
		// absent or non-numeric form values never reach validation
		data, derr := a.marksData(map[string]interface{}{
			"Error": "please select a student, a course and a valid mark",
		})
		if derr != nil {
			return derr
		}
		return render(ctx, http.StatusBadRequest, "marks.html", data)
	}

	if err := nm.Validate(a.deps.Validate, a.deps.SchoolSvc); err != nil {
		return a.renderMarksError(ctx, err)
	}
	if _, err := a.deps.SchoolSvc.CreateMark(nm); err != nil {
		return a.renderMarksError(ctx, err)
	}

	setFlash(ctx, "Mark recorded.")
	return ctx.Redirect(http.StatusFound, "/marks")
}

// bindNewMark parses the mark form by hand: the form binder coerces an empty
// or missing numeric field to 0, and 0 is a legitimate mark value.
func bindNewMark(ctx echo.Context) (school.NewMark, error) {
	var (
		nm  school.NewMark
		err error
	)
	if nm.StudentID, err = strconv.Atoi(ctx.FormValue("student_id")); err != nil {
		return school.NewMark{}, errors.Wrap(err, "parsing student_id")
	}
	if nm.CourseID, err = strconv.Atoi(ctx.FormValue("course_id")); err != nil {
		return school.NewMark{}, errors.Wrap(err, "parsing course_id")
	}
	if nm.Value, err = strconv.Atoi(ctx.FormValue("mark")); err != nil {
		return school.NewMark{}, errors.Wrap(err, "parsing mark")
	}
	return nm, nil
}

func (a *schoolApp) renderMarksError(ctx echo.Context, err error) error {
	flds := fieldErrors(err, a.deps.Translator)
	if flds == nil {
		return err
	}
	data, err := a.marksData(map[string]interface{}{"Errors": flds})
	if err != nil {
		return err
	}
	return render(ctx, http.StatusBadRequest, "marks.html", data)
}

func (a *schoolApp) downloadMarks(ctx echo.Context) error {
	report, err := a.deps.SchoolSvc.MarksReport()
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", report.Filename()))
	res.WriteHeader(http.StatusOK)
	return report.WriteCSV(res)
}

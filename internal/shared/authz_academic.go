package shared

// Academic structure permissions declared for RBAC.
const (
	PermCollegesView = "colleges.view"
	PermCollegesEdit = "colleges.edit"

	PermAcademicYearsView = "academicyears.view"
	PermAcademicYearsEdit = "academicyears.edit"

	PermCoursesView = "courses.view"
	PermCoursesEdit = "courses.edit"

	PermSemestersView = "semesters.view"
	PermSemestersEdit = "semesters.edit"

	PermSubjectsView = "subjects.view"
	PermSubjectsEdit = "subjects.edit"

	PermEducationTypesView = "educationtypes.view"
	PermEducationTypesEdit = "educationtypes.edit"

	PermFacultyView = "faculty.view"
	PermFacultyEdit = "faculty.edit"
)

// AcademicScopes lists all permissions related to academic structure modules.
func AcademicScopes() []string {
	return []string{
		PermCollegesView,
		PermCollegesEdit,
		PermAcademicYearsView,
		PermAcademicYearsEdit,
		PermCoursesView,
		PermCoursesEdit,
		PermSemestersView,
		PermSemestersEdit,
		PermSubjectsView,
		PermSubjectsEdit,
		PermEducationTypesView,
		PermEducationTypesEdit,
		PermFacultyView,
		PermFacultyEdit,
	}
}

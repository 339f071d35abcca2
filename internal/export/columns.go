package export

import "strings"

// dbColumns lists the section table columns after the batch metadata
// columns, in Row.values order.
func dbColumns() []string {
	header := Header()
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(h)
	}
	return cols
}

// metaColumns precede the section columns in database sinks.
var metaColumns = []string{"run_id", "source", "era", "position", "created_at"}

// values returns the row as database values in dbColumns order.
func (r Row) values() []any {
	vals := make([]any, 0, len(dbColumns()))
	vals = append(vals,
		r.Term,
		r.DepartmentList(),
		r.LevelList(),
		r.Size,
		r.Instructors,
		r.Sections,
	)
	for _, v := range r.InstructorMeans {
		vals = append(vals, v)
	}
	for _, v := range r.CourseScores {
		vals = append(vals, v)
	}
	return append(vals, r.InstructorN, r.CourseN)
}

// columnTypes returns the SQL type of every dbColumns entry.
func columnTypes(text, integer, real string) []string {
	types := []string{text, text, text, integer, integer, integer}
	for i := len(types); i < len(dbColumns()); i++ {
		types = append(types, real)
	}
	return types
}

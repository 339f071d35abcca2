package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{
			Term:        "fa10",
			Departments: []string{"CS", "MATH"},
			Levels:      []int{100, 200},
			Size:        30,
			Instructors: 2,
			Sections:    1,
			InstructorN: 12,
			CourseN:     11,
		},
	}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRows(), CSVOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header(), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "fa10,CS/MATH,100/200,30,2,1,0.0,"))
	assert.True(t, strings.HasSuffix(lines[1], ",12.0,11.0"))
}

func TestEncodeCSV_AppendOmitsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRows(), CSVOptions{Append: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "fa10,"))
}

func TestEncodeCSV_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRows(), CSVOptions{Delimiter: '\t'}))

	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Header(), "\t"), first)
}

func TestValidateDelimiter(t *testing.T) {
	for _, d := range []rune{',', ';', '\t', '|'} {
		assert.NoError(t, ValidateDelimiter(d), "%q", d)
	}
	for _, d := range []rune{0, '"', '\n', '\r'} {
		assert.Error(t, ValidateDelimiter(d), "%q", d)
	}
}

func TestCSVSink_TruncatesThenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "combined.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	sink := NewCSVSink(path, CSVOptions{})
	ctx := context.Background()
	batch := Batch{RunID: uuid.New(), Source: "fa10.xlsx", Rows: sampleRows()}

	require.NoError(t, sink.Write(ctx, batch))
	require.NoError(t, sink.Write(ctx, batch))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header(), ","), lines[0])
	assert.NotContains(t, string(data), "stale")
}

func TestCSVSink_AppendModeKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.csv")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	sink := NewCSVSink(path, CSVOptions{Append: true})
	require.NoError(t, sink.Write(context.Background(), Batch{Rows: sampleRows()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "existing", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "fa10,"))
}

func TestCSVSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewCSVSink(filepath.Join(t.TempDir(), "x.csv"), CSVOptions{})
	assert.ErrorIs(t, sink.Write(ctx, Batch{}), context.Canceled)
}

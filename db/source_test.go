package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"students-api-go/models"
)

const sampleCSV = `studentId,class
1,1A
2,1B
3,2A
4,1A
5,2B
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func idsOf(records []models.StudentRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		v, _ := r.StudentID.Get()
		out = append(out, v)
	}
	return out
}

func TestLoad_CSVFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "students.csv", sampleCSV)

	records, err := Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, models.StudentRecord{StudentID: models.NewStudentID(1), Class: "1A"}, records[0])
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, idsOf(records))

	assert.Equal(t, []int64{1, 4}, idsOf(models.FilterByClass(records, []string{"1A"})))
	assert.Equal(t, []int64{1, 3, 4}, idsOf(models.FilterByClass(records, []string{"1A", "2A"})))
}

func TestLoad_DefaultLocation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultSourceLocation, sampleCSV)
	chdir(t, dir)

	records, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestResolveLocation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	assert.Equal(t, DefaultSourceLocation, ResolveLocation(""))
	assert.Equal(t, "other.csv", ResolveLocation("other.csv"))

	writeFile(t, dir, fallbackSourceLocation, sampleCSV)
	assert.Equal(t, fallbackSourceLocation, ResolveLocation(""))

	writeFile(t, dir, DefaultSourceLocation, sampleCSV)
	assert.Equal(t, DefaultSourceLocation, ResolveLocation(""))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_Excel(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"studentId", "class"},
		{1, "1A"},
		{2, "1B"},
	})
	p := writeFile(t, t.TempDir(), "students.xlsx", string(data))

	records, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, idsOf(records))
}

func TestRowsToRecords(t *testing.T) {
	records, err := rowsToRecords([][]string{
		{"name", "class", "studentId"},
		{"ann", "1A", "7"},
		{},
		{"bob", "2B"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.NewStudentID(7), records[0].StudentID)
	assert.Equal(t, "1A", records[0].Class)
	assert.False(t, records[1].StudentID.Valid())
	assert.Equal(t, "2B", records[1].Class)
}

func TestRowsToRecords_DuplicateColumnsLastWins(t *testing.T) {
	records, err := rowsToRecords([][]string{
		{"studentId", "class", "studentId", "class"},
		{"1", "old", "2", "new"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.NewStudentID(2), records[0].StudentID)
	assert.Equal(t, "new", records[0].Class)
}

func TestRowsToRecords_BadHeader(t *testing.T) {
	tests := map[string][][]string{
		"empty":         nil,
		"missing class": {{"studentId"}, {"1"}},
		"missing id":    {{"class"}, {"1A"}},
		"wrong case":    {{"StudentID", "Class"}},
	}
	for name, rows := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := rowsToRecords(rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSourceUnavailable)
		})
	}
}

func TestIsExcelFile(t *testing.T) {
	assert.True(t, isExcelFile("a/b/students.xlsx"))
	assert.True(t, isExcelFile("STUDENTS.XLSM"))
	assert.False(t, isExcelFile("students.csv"))
	assert.False(t, isExcelFile("students"))
}

func TestLocationKinds(t *testing.T) {
	assert.True(t, isS3Location("s3://bucket/students.csv"))
	assert.True(t, isRedisLocation("redis://localhost:6379/0"))
	assert.True(t, isRedisLocation("rediss://localhost:6379/0"))
	assert.True(t, IsLocalFile("students.csv"))
	assert.False(t, IsLocalFile("s3://bucket/students.csv"))
	assert.False(t, IsLocalFile("redis://x:1/0"))
}

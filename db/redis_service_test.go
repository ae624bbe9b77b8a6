package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"students-api-go/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSeedAndLoadRedis(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	in := []models.StudentRecord{
		{StudentID: models.NewStudentID(1), Class: "1A"},
		{StudentID: models.ParseStudentID(""), Class: "1B"},
		{StudentID: models.NewStudentID(3), Class: "2A"},
	}
	require.NoError(t, SeedRedis(ctx, rdb, "students", in))

	out, err := LoadRedis(ctx, rdb, "students")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSeedRedis_Replaces(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	first := []models.StudentRecord{
		{StudentID: models.NewStudentID(1), Class: "1A"},
		{StudentID: models.NewStudentID(2), Class: "1B"},
		{StudentID: models.NewStudentID(3), Class: "2A"},
	}
	require.NoError(t, SeedRedis(ctx, rdb, "roster", first))

	second := []models.StudentRecord{{StudentID: models.NewStudentID(9), Class: "3C"}}
	require.NoError(t, SeedRedis(ctx, rdb, "roster", second))

	out, err := LoadRedis(ctx, rdb, "roster")
	require.NoError(t, err)
	assert.Equal(t, second, out)
	assert.False(t, mr.Exists("roster:2"))
	assert.False(t, mr.Exists("roster:3"))
}

func TestSeedRedis_Empty(t *testing.T) {
	_, rdb := newTestRedis(t)
	assert.Error(t, SeedRedis(context.Background(), rdb, "students", nil))
}

func TestLoadRedis_MissingKey(t *testing.T) {
	_, rdb := newTestRedis(t)

	_, err := LoadRedis(context.Background(), rdb, "students")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadRedis_MissingRowHash(t *testing.T) {
	mr, rdb := newTestRedis(t)
	_, err := mr.RPush("students", "1", "2")
	require.NoError(t, err)
	mr.HSet("students:1", "studentId", "1", "class", "1A")

	records, err := LoadRedis(context.Background(), rdb, "students")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1A", records[0].Class)
	assert.False(t, records[1].StudentID.Valid())
	assert.Equal(t, "", records[1].Class)
}

func TestLoad_RedisLocation(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	require.NoError(t, SeedRedis(ctx, rdb, "q11", []models.StudentRecord{
		{StudentID: models.NewStudentID(1), Class: "1A"},
		{StudentID: models.NewStudentID(4), Class: "1A"},
	}))

	records, err := Load(ctx, "redis://"+mr.Addr()+"/0?key=q11")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, idsOf(records))
}

func TestLoad_RedisUnreachable(t *testing.T) {
	mr, _ := newTestRedis(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Load(context.Background(), "redis://"+addr+"/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestParseRedisLocation(t *testing.T) {
	opts, key, err := ParseRedisLocation("redis://:secret@10.0.0.1:6380/8?key=roster")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:6380", opts.Addr)
	assert.Equal(t, 8, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, "roster", key)

	_, key, err = ParseRedisLocation("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.Equal(t, defaultRedisKey, key)

	_, _, err = ParseRedisLocation("redis://localhost:6379/notadb")
	assert.Error(t, err)
}

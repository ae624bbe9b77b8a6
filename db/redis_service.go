package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"students-api-go/models"
)

// Redis layout:
//
//	<key>          List: row IDs in source order
//	<key>:<rowId>  Hash: studentId, class
const defaultRedisKey = "students"

func isRedisLocation(location string) bool {
	return strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://")
}

// Helper to generate the hash key of one row
func getRowKey(key, rowID string) string {
	return key + ":" + rowID
}

// ParseRedisLocation splits a redis:// location into client options and the
// list key (the "key" query parameter, default "students").
func ParseRedisLocation(location string) (*redis.Options, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis location: %w", err)
	}
	q := u.Query()
	key := q.Get("key")
	if key == "" {
		key = defaultRedisKey
	}
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, "", fmt.Errorf("parse redis location: %w", err)
	}
	return opts, key, nil
}

// NewRedisClient creates a client for location and pings it
func NewRedisClient(ctx context.Context, location string) (*redis.Client, string, error) {
	opts, key, err := ParseRedisLocation(location)
	if err != nil {
		return nil, "", err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, "", fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}
	slog.Debug("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return rdb, key, nil
}

func loadRedisLocation(ctx context.Context, location string) ([]models.StudentRecord, error) {
	rdb, key, err := NewRedisClient(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer rdb.Close()

	return LoadRedis(ctx, rdb, key)
}

// LoadRedis reads the dataset stored under key, in list order
func LoadRedis(ctx context.Context, client redis.Cmdable, key string) ([]models.StudentRecord, error) {
	exists, err := client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: check redis key %s: %w", ErrSourceUnavailable, key, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: redis key %s not found", ErrSourceUnavailable, key)
	}

	rowIDs, err := client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read redis list %s: %w", ErrSourceUnavailable, key, err)
	}

	pipe := client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(rowIDs))
	for i, id := range rowIDs {
		cmds[i] = pipe.HGetAll(ctx, getRowKey(key, id))
	}
	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: read redis rows of %s: %w", ErrSourceUnavailable, key, err)
		}
	}

	records := make([]models.StudentRecord, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Keep the row; its values are simply absent
			slog.Warn("redis row has no fields", "key", getRowKey(key, rowIDs[i]))
		}
		records = append(records, models.StudentRecord{
			StudentID: models.ParseStudentID(fields[studentIDColumn]),
			Class:     fields[classColumn],
		})
	}
	return records, nil
}

// SeedRedis replaces the dataset stored under key with records
func SeedRedis(ctx context.Context, client redis.Cmdable, key string, records []models.StudentRecord) error {
	if len(records) == 0 {
		return errors.New("no records to seed")
	}

	oldIDs, err := client.LRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read existing rows of %s: %w", key, err)
	}

	_, err = client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range oldIDs {
			pipe.Del(ctx, getRowKey(key, id))
		}
		pipe.Del(ctx, key)

		rowIDs := make([]interface{}, len(records))
		for i, r := range records {
			rowID := strconv.Itoa(i + 1)
			rowIDs[i] = rowID
			pipe.HSet(ctx, getRowKey(key, rowID), map[string]interface{}{
				studentIDColumn: r.StudentID.String(),
				classColumn:     r.Class,
			})
		}
		pipe.RPush(ctx, key, rowIDs...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed %d records into %s: %w", len(records), key, err)
	}

	slog.Info("seeded redis dataset", "key", key, "records", len(records))
	return nil
}

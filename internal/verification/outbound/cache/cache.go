// Package cache stores issued passcodes in Redis.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
)

const keyPrefix = "otp:"

const (
	fieldCode     = "code"
	fieldIssuedAt = "issued_at"
)

// Cache is a Redis-backed passcode store.
//
// Each email maps to a single hash; writing a new passcode replaces the
// previous one and resets the TTL.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func key(email string) string {
	return keyPrefix + email
}

// Put stores otp under its email with the given TTL, replacing any previous
// passcode for that email.
func (c *Cache) Put(ctx context.Context, otp entity.OTP, ttl time.Duration) error {
	ctx, span := c.ins.Tracer("verification.outbound.cache").Start(ctx, "Put")
	defer span.End()

	// Hash write and expiry must land together so a stored passcode can
	// never outlive its TTL.
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key(otp.Email), map[string]any{
		fieldCode:     otp.Code,
		fieldIssuedAt: strconv.FormatInt(otp.IssuedAt.UnixMilli(), 10),
	})
	pipe.Expire(ctx, key(otp.Email), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Get returns the passcode stored for email, or goerror.ErrNotFound when no
// record exists (including records removed by TTL expiry).
func (c *Cache) Get(ctx context.Context, email string) (*entity.OTP, error) {
	ctx, span := c.ins.Tracer("verification.outbound.cache").Start(ctx, "Get")
	defer span.End()

	fields, err := c.client.HGetAll(ctx, key(email)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// HGETALL on a missing key returns an empty map, not redis.Nil.
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}

	issuedAtMs, err := strconv.ParseInt(fields[fieldIssuedAt], 10, 64)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &entity.OTP{
		Email:    email,
		Code:     fields[fieldCode],
		IssuedAt: time.UnixMilli(issuedAtMs),
	}, nil
}

// Delete removes the stored passcode for email. Deleting a missing key is
// not an error.
func (c *Cache) Delete(ctx context.Context, email string) error {
	ctx, span := c.ins.Tracer("verification.outbound.cache").Start(ctx, "Delete")
	defer span.End()

	if err := c.client.Del(ctx, key(email)).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

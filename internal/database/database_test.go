package database

import (
	"chip8arcade/config"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, GAME_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	db := &DB{}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
	assert.Nil(t, db.Cache.Game)
}

func TestDB_CloseWithoutConnections(t *testing.T) {
	db := &DB{}

	assert.NoError(t, db.Close())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "localhost",
		DatabasePort:     5432,
		DatabaseUser:     "chip8",
		DatabasePassword: "secret",
		DatabaseName:     "arcade",
	})

	assert.Equal(
		t,
		"host=localhost port=5432 user=chip8 password=secret dbname=arcade sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestCacheBuilder_KeyFormatting(t *testing.T) {
	id := uuid.MustParse("0190a8f0-0000-7000-8000-000000000001")

	cb := NewCacheBuilder(nil, id).WithHash("game_config")

	assert.Equal(t, "game_config:0190a8f0-0000-7000-8000-000000000001", cb.Key())
}

func TestCacheBuilder_NilClientIsNoop(t *testing.T) {
	cb := NewCacheBuilder(nil, "key").WithStruct(map[string]int{"a": 1})

	require.NoError(t, cb.Set())

	var result map[string]int
	found, err := cb.Get(&result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, result)

	assert.NoError(t, cb.Delete())
}

func TestCacheBuilder_RequiresKeyAndValue(t *testing.T) {
	assert.EqualError(t, NewCacheBuilder(nil, "").WithValue("v").Set(), "key is required")
	assert.EqualError(t, NewCacheBuilder(nil, "k").Set(), "value is required")

	_, err := NewCacheBuilder(nil, "").Get(&struct{}{})
	assert.EqualError(t, err, "key is required")
}

func TestCacheBuilder_MarshalError(t *testing.T) {
	cb := NewCacheBuilder(nil, "k").WithStruct(make(chan int))

	err := cb.Set()
	assert.ErrorContains(t, err, "failed to marshal value to json")
}

func TestCacheBuilder_TimeoutContextRespectsShorterDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cb := NewCacheBuilder(nil, "k").WithContext(parent).WithTimeout(time.Minute)
	ctx, done := cb.createTimeoutContext()
	defer done()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestIsKeyNotFoundError(t *testing.T) {
	assert.False(t, isKeyNotFoundError(nil))
	assert.True(t, isKeyNotFoundError(errors.New("key not found")))
	assert.False(t, isKeyNotFoundError(errors.New("connection refused")))
}

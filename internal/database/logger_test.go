package database

import (
	"bytes"
	"fmt"
	"testing"

	"shop/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLogger_SkipsRecordNotFound(t *testing.T) {
	db, err := Open(Config{
		Driver:       DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db, DriverSQLite))

	var buf bytes.Buffer
	quiet := db.Session(&gorm.Session{Logger: newLogger(&buf)})

	var order models.Order
	err = quiet.Where("stripe_session_id = ?", "cs_missing").Take(&order).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = quiet.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}

package sql_test

import (
	"context"
	"testing"

	"formfield-server/internal/infra/sql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string `gorm:"primaryKey"`
	Body string
}

func TestMemoryORM_CreateAndFind(t *testing.T) {
	orm, err := sql.NewMemoryORM()
	require.NoError(t, err)
	require.NoError(t, orm.AutoMigrate(&note{}))

	ctx := context.Background()
	err = orm.WithContext(ctx).Create(&note{ID: "n1", Body: "hello"}).Error()
	require.NoError(t, err)

	var got note
	err = orm.WithContext(ctx).First(&got, "id = ?", "n1").Error()
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)
}

func TestMemoryORM_NotFound(t *testing.T) {
	orm, err := sql.NewMemoryORM()
	require.NoError(t, err)
	require.NoError(t, orm.AutoMigrate(&note{}))

	var got note
	err = orm.WithContext(context.Background()).First(&got, "id = ?", "missing").Error()
	assert.ErrorIs(t, err, sql.ErrRecordNotFound)
}

func TestMemoryORM_IsolatedPerCall(t *testing.T) {
	first, err := sql.NewMemoryORM()
	require.NoError(t, err)
	require.NoError(t, first.AutoMigrate(&note{}))
	require.NoError(t, first.Create(&note{ID: "n1"}).Error())

	second, err := sql.NewMemoryORM()
	require.NoError(t, err)
	require.NoError(t, second.AutoMigrate(&note{}))

	var count int64
	require.NoError(t, second.Model(&note{}).Count(&count).Error())
	assert.Zero(t, count)
}

func TestMemoryORM_TransactionRollback(t *testing.T) {
	orm, err := sql.NewMemoryORM()
	require.NoError(t, err)
	require.NoError(t, orm.AutoMigrate(&note{}))

	err = orm.Transaction(func(tx sql.ORM) error {
		if err := tx.Create(&note{ID: "n1"}).Error(); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	var count int64
	require.NoError(t, orm.Model(&note{}).Count(&count).Error())
	assert.Zero(t, count)
}

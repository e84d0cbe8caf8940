package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClubRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClubRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT count(*) FROM `clubs` WHERE clubs.name LIKE ?").
		WithArgs("%chess%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("AS member_count").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image", "facebook_url", "created_at", "updated_at", "event_count", "member_count"}).
			AddRow(1, "Chess Club", "Play chess", nil, nil, now, now, 4, 17))

	clubs, total, err := repo.List(context.Background(), NewPage(1, 10), "chess")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Chess Club", clubs[0].Name)
	assert.Equal(t, int64(4), clubs[0].EventCount)
	assert.Equal(t, int64(17), clubs[0].MemberCount)
	assert.Nil(t, clubs[0].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClubRepository(db)

	mock.ExpectQuery("SELECT count(*) FROM `clubs` WHERE id = ?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.Exists(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClubRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClubRepository(db)

	mock.ExpectExec("DELETE FROM `clubs`").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), gorm.ErrRecordNotFound)
}

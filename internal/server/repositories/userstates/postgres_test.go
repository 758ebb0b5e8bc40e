package userstates

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func owner() models.Identity {
	var id models.Identity
	id[0], id[31] = 0xAB, 0xCD
	return id
}

func ownerBytes() []byte {
	id := owner()
	return id[:]
}

var columns = []string{
	"owner", "runes",
	"books_novice", "books_adept", "books_master", "books_legendary",
	"expiry_novice", "expiry_adept", "expiry_master", "expiry_legendary",
	"multiplier", "buff_expiry", "active_tier", "layout_version",
}

const (
	insertQ    = `(?s)^INSERT\s+INTO\s+user_states\s*\(owner,\s*runes,.*layout_version\)\s*VALUES\s*\(\$1,.*\$14\)\s*$`
	selectQ    = `(?s)^SELECT\s+owner,\s*runes,.*FROM\s+user_states\s+WHERE\s+owner\s*=\s*\$1$`
	selectForQ = `(?s)^SELECT\s+owner,\s*runes,.*FROM\s+user_states\s+WHERE\s+owner\s*=\s*\$1\s+FOR\s+UPDATE$`
	updateQ    = `(?s)^UPDATE\s+user_states\s+SET\s+runes\s*=\s*\$2,.*layout_version\s*=\s*\$14\s+WHERE\s+owner\s*=\s*\$1\s*$`
)

func TestCreate_NewRecord(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	u := models.NewUserState(owner())
	mock.ExpectExec(insertQ).
		WithArgs(owner(), "0", "0", "0", "0", "0",
			int64(0), int64(0), int64(0), int64(0),
			1.0, int64(0), int64(0), int64(models.LayoutCurrent)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AlreadyInitialized(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})
	u := models.NewUserState(owner())
	assert.ErrorIs(t, repo.Create(context.Background(), &u), common.ErrAlreadyInitialized)
}

func TestGet_CurrentLayout(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).AddRow(
		ownerBytes(), "15000000000",
		"1", "2", "3", "4",
		int64(100), int64(0), int64(0), int64(200),
		2.1, int64(200), int64(3), int64(2),
	)
	mock.ExpectQuery(selectQ).WithArgs(owner()).WillReturnRows(rows)

	u, err := repo.Get(context.Background(), owner())
	require.NoError(t, err)

	assert.Equal(t, owner(), u.Owner)
	assert.Equal(t, uint64(15_000_000_000), u.Runes)
	assert.Equal(t, [models.TierCount]uint64{1, 2, 3, 4}, u.Spellbooks)
	assert.Equal(t, [models.TierCount]int64{100, 0, 0, 200}, u.TierExpiry)
	assert.Equal(t, 2.1, u.Multiplier)
	assert.Equal(t, int64(200), u.BuffExpiry)
	assert.Equal(t, models.TierLegendary, u.ActiveTier)
	assert.False(t, u.Outdated())
}

func TestGet_LegacyLayoutHasNullExpiries(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).AddRow(
		ownerBytes(), "5",
		"0", "0", "0", "0",
		nil, nil, nil, nil,
		1.25, int64(77), int64(1), int64(1),
	)
	mock.ExpectQuery(selectQ).WithArgs(owner()).WillReturnRows(rows)

	u, err := repo.Get(context.Background(), owner())
	require.NoError(t, err)
	assert.True(t, u.Outdated())
	assert.Equal(t, [models.TierCount]int64{}, u.TierExpiry)
	assert.Equal(t, 1.25, u.Multiplier)
	assert.Equal(t, models.TierAdept, u.ActiveTier)
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).AddRow(
		ownerBytes(), "0", "0", "0", "0", "0",
		int64(0), int64(0), int64(0), int64(0),
		1.0, int64(0), int64(0), int64(2),
	)
	mock.ExpectQuery(selectForQ).WithArgs(owner()).WillReturnRows(rows)

	_, err := repo.GetForUpdate(context.Background(), owner())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFoundAndDBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQ).WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), owner())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("db err"))
	_, err = repo.Get(context.Background(), owner())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestUpdate_CurrentLayout(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	u := models.NewUserState(owner())
	u.Runes = 5_000_000_000
	u.Spellbooks[models.TierMaster] = 9
	u.TierExpiry[models.TierNovice] = 1_700_864_000
	u.Multiplier = 1.1
	u.BuffExpiry = 1_700_864_000

	mock.ExpectExec(updateQ).
		WithArgs(owner(), "5000000000", "0", "0", "9", "0",
			int64(1_700_864_000), int64(0), int64(0), int64(0),
			1.1, int64(1_700_864_000), int64(0), int64(models.LayoutCurrent)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_LegacyLayoutKeepsNulls(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	u := models.UserState{Owner: owner(), Runes: 1, Multiplier: 1, LayoutVersion: models.LayoutLegacy}

	mock.ExpectExec(updateQ).
		WithArgs(owner(), "1", "0", "0", "0", "0",
			nil, nil, nil, nil,
			1.0, int64(0), int64(0), int64(models.LayoutLegacy)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRowAndDBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	u := models.NewUserState(owner())

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), &u), common.ErrorNotFound)

	mock.ExpectExec(updateQ).WillReturnError(errors.New("db err"))
	err := repo.Update(context.Background(), &u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

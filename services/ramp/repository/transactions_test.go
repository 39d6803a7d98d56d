package repository_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablehq/treasury/internal/pkg/database"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/services/ramp/repository"
)

func setupMockDB(t *testing.T) (*database.PostgresClient, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	return database.NewPostgresClientWithDB(db), mock
}

func transactionColumns() []string {
	return []string{"id", "organization_id", "amount", "currency", "transaction_type", "status", "metadata", "created_at", "updated_at"}
}

func TestCreateTransaction_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	txn := &models.Transaction{
		ID:              uuid.New(),
		OrganizationID:  uuid.New(),
		Amount:          250,
		Currency:        "USD",
		TransactionType: models.TransactionTypeDeposit,
		Status:          models.TransactionStatusSimulated,
		Metadata:        models.TransactionMetadata{ExecutionID: "exec_1", Provider: "zynk"},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(txn.ID, txn.OrganizationID, txn.Amount, txn.Currency,
			txn.TransactionType, txn.Status, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateTransaction(context.Background(), txn)
	assert.NoError(t, err)
	assert.False(t, txn.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_DecodesMetadata(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	id := uuid.New()
	orgID := uuid.New()
	metadata, err := json.Marshal(models.TransactionMetadata{ExecutionID: "exec_9", Fee: 1.5})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, organization_id, amount, currency, transaction_type, status, metadata, created_at, updated_at")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(id, orgID, 250.0, "USD", models.TransactionTypeDeposit,
				models.TransactionStatusSimulated, metadata, time.Now(), time.Now()))

	txn, err := repo.GetTransaction(context.Background(), id.String())
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, id, txn.ID)
	assert.Equal(t, "exec_9", txn.Metadata.ExecutionID)
	assert.Equal(t, 1.5, txn.Metadata.Fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction_NotFoundReturnsNil(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	id := uuid.NewString()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, organization_id")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(transactionColumns()))

	txn, err := repo.GetTransaction(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, txn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransactionStatus_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	id := uuid.NewString()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status")).
		WithArgs(models.TransactionStatusProcessing, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTransactionStatus(context.Background(), id, models.TransactionStatusProcessing)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransactionStatus_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	id := uuid.NewString()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status")).
		WithArgs(models.TransactionStatusProcessing, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTransactionStatus(context.Background(), id, models.TransactionStatusProcessing)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTransactions_NewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepo(db)

	orgID := uuid.New()
	newer := uuid.New()
	older := uuid.New()
	metadata, err := json.Marshal(models.TransactionMetadata{Provider: "zynk"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(orgID.String(), 10, 0).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow(newer, orgID, 50.0, "USD", models.TransactionTypeDeposit,
				models.TransactionStatusCompleted, metadata, time.Now(), time.Now()).
			AddRow(older, orgID, 20.0, "EUR", models.TransactionTypeWithdrawal,
				models.TransactionStatusProcessing, metadata, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))

	txns, err := repo.ListTransactions(context.Background(), orgID.String(), 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, newer, txns[0].ID)
	assert.Equal(t, "zynk", txns[0].Metadata.Provider)
	assert.Equal(t, older, txns[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

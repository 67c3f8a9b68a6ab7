package workers_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/workers"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

const sampleCSV = `name,description,category,price,quantity,low_stock_threshold,barcode
Tata Salt 1kg,Iodised salt,staples,28.00,50,10,8901034000011
Amul Butter 500g,,dairy,₹295.00,12,5,
,missing name row,staples,10.00,1,1,
Parle-G 250g,Glucose biscuits,snacks,25.00,-3,2,8901063010124
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func importTask(t *testing.T, job *ports.CSVImportJob) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return asynq.NewTask(ports.TaskCSVImport, b)
}

func TestCSVProcessor_ImportsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)
	processor := workers.NewCSVProcessor(service, helpers.TestLogger())

	storeID := uuid.New()
	job := &ports.CSVImportJob{
		JobID:    uuid.New(),
		StoreID:  storeID,
		FilePath: writeTempCSV(t, sampleCSV),
	}

	var saved []domain.InventoryItem
	service.EXPECT().SaveItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []domain.InventoryItem) error {
			saved = items
			return nil
		})

	err := processor.ProcessCSV(context.Background(), importTask(t, job))
	require.NoError(t, err)

	// The nameless row is skipped, the rest import
	require.Len(t, saved, 3)

	salt := saved[0]
	assert.Equal(t, storeID, salt.StoreID)
	assert.Equal(t, "Tata Salt 1kg", salt.Name)
	assert.Equal(t, domain.CategoryStaples, salt.Category)
	assert.True(t, salt.Price.Equal(decimalFromString(t, "28.00")))
	assert.Equal(t, 50, salt.Quantity)
	assert.Equal(t, 10, salt.LowStockThreshold)
	assert.Equal(t, "8901034000011", salt.Barcode)

	// Rupee prefix is stripped from prices
	butter := saved[1]
	assert.True(t, butter.Price.Equal(decimalFromString(t, "295.00")))

	// Negative quantities are clamped to zero
	parle := saved[2]
	assert.Equal(t, 0, parle.Quantity)
}

func TestCSVProcessor_EmptyFileSavesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)
	processor := workers.NewCSVProcessor(service, helpers.TestLogger())

	job := &ports.CSVImportJob{
		JobID:    uuid.New(),
		StoreID:  uuid.New(),
		FilePath: writeTempCSV(t, "name,description,category,price,quantity,low_stock_threshold,barcode\n"),
	}

	// No SaveItems expectation: an empty import must not hit the service
	err := processor.ProcessCSV(context.Background(), importTask(t, job))
	require.NoError(t, err)
}

func TestCSVProcessor_MissingFileFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockInventoryService(ctrl)
	processor := workers.NewCSVProcessor(service, helpers.TestLogger())

	job := &ports.CSVImportJob{
		JobID:    uuid.New(),
		StoreID:  uuid.New(),
		FilePath: "/nonexistent/import.csv",
	}

	err := processor.ProcessCSV(context.Background(), importTask(t, job))
	require.Error(t, err)
}

package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/realtime"
)

func TestInventoryCheckoutAndReturn(t *testing.T) {
	db := setupTestDB(t)
	seedEmployee(t, db, "FE400", models.EmployeeRoleFieldEngineer)
	rec := &recorder{}
	svc := NewInventoryService(db, rec)
	svc.Now = at(9, 0)

	item, err := svc.CreateItem(ItemInput{Code: "8901234567890", Name: "Crimping tool", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Available)

	_, err = svc.CreateItem(ItemInput{Code: "8901234567890", Name: "Dup"})
	assert.True(t, IsKind(err, KindConflict))

	loan, err := svc.Checkout(CheckoutInput{ItemCode: "8901234567890", EmployeeCode: "FE400", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOut, loan.Status)
	assert.Equal(t, 1, loan.Item.Available)

	_, err = svc.Checkout(CheckoutInput{ItemCode: "8901234567890", EmployeeCode: "FE400", Quantity: 2})
	assert.True(t, IsKind(err, KindConflict))

	found, err := svc.FindByCode("8901234567890")
	require.NoError(t, err)
	assert.Equal(t, 1, found.Available)

	returned, err := svc.Return(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)

	_, err = svc.Return(loan.ID)
	assert.True(t, IsKind(err, KindConflict))
	_, err = svc.Return(9999)
	assert.True(t, IsKind(err, KindNotFound))

	found, err = svc.FindByCode("8901234567890")
	require.NoError(t, err)
	assert.Equal(t, 3, found.Available)

	assert.Equal(t, []string{realtime.EventInventoryUpdated, realtime.EventInventoryUpdated}, rec.Events())
}

func TestInventoryValidation(t *testing.T) {
	db := setupTestDB(t)
	seedEmployee(t, db, "FE401", models.EmployeeRoleFieldEngineer)
	svc := NewInventoryService(db, nil)

	_, err := svc.CreateItem(ItemInput{Name: "No code"})
	assert.True(t, IsKind(err, KindInvalidArgument))
	_, err = svc.CreateItem(ItemInput{Code: "X", Quantity: -1})
	assert.True(t, IsKind(err, KindInvalidArgument))

	_, err = svc.Checkout(CheckoutInput{ItemCode: "X", EmployeeCode: "FE401", Quantity: 0})
	assert.True(t, IsKind(err, KindInvalidArgument))
	_, err = svc.Checkout(CheckoutInput{ItemCode: "MISSING", EmployeeCode: "FE401", Quantity: 1})
	assert.True(t, IsKind(err, KindNotFound))
	_, err = svc.Checkout(CheckoutInput{ItemCode: "X", EmployeeCode: "NOPE", Quantity: 1})
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.FindByCode("MISSING")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	db := setupTestDB(t)
	seedEmployee(t, db, "FE402", models.EmployeeRoleFieldEngineer)
	svc := NewInventoryService(db, nil)

	_, err := svc.CreateItem(ItemInput{Code: "DRILL", Name: "Drill", Quantity: 5})
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Checkout(CheckoutInput{ItemCode: "DRILL", EmployeeCode: "FE402", Quantity: 1}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	item, err := svc.FindByCode("DRILL")
	require.NoError(t, err)
	assert.Zero(t, item.Available)
}

func TestListLoans(t *testing.T) {
	db := setupTestDB(t)
	seedEmployee(t, db, "FE403", models.EmployeeRoleFieldEngineer)
	seedEmployee(t, db, "FE404", models.EmployeeRoleFieldEngineer)
	svc := NewInventoryService(db, nil)

	_, err := svc.CreateItem(ItemInput{Code: "LADDER", Name: "Ladder", Quantity: 4})
	require.NoError(t, err)

	svc.Now = at(9, 0)
	first, err := svc.Checkout(CheckoutInput{ItemCode: "LADDER", EmployeeCode: "FE403", Quantity: 1})
	require.NoError(t, err)
	svc.Now = at(9, 5)
	_, err = svc.Checkout(CheckoutInput{ItemCode: "LADDER", EmployeeCode: "FE404", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Return(first.ID)
	require.NoError(t, err)

	all, err := svc.ListLoans(false, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "FE404", all[0].Employee.EmployeeCode)

	open, err := svc.ListLoans(true, "")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "LADDER", open[0].Item.Code)

	mine, err := svc.ListLoans(false, "FE403")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.LoanStatusReturned, mine[0].Status)
}

func TestOverdueMonitorReportsOnce(t *testing.T) {
	db := setupTestDB(t)
	seedEmployee(t, db, "FE405", models.EmployeeRoleFieldEngineer)
	svc := NewInventoryService(db, nil)
	svc.Now = at(9, 0)

	_, err := svc.CreateItem(ItemInput{Code: "METER", Name: "Multimeter", Quantity: 3})
	require.NoError(t, err)

	due := at(12, 0)()
	_, err = svc.Checkout(CheckoutInput{ItemCode: "METER", EmployeeCode: "FE405", Quantity: 1, DueAt: &due})
	require.NoError(t, err)
	_, err = svc.Checkout(CheckoutInput{ItemCode: "METER", EmployeeCode: "FE405", Quantity: 1})
	require.NoError(t, err)
	returnedLoan, err := svc.Checkout(CheckoutInput{ItemCode: "METER", EmployeeCode: "FE405", Quantity: 1, DueAt: &due})
	require.NoError(t, err)
	_, err = svc.Return(returnedLoan.ID)
	require.NoError(t, err)

	rec := &recorder{}
	monitor := NewOverdueMonitor(svc, rec, time.Hour)

	assert.Zero(t, monitor.CheckOnce())

	svc.Now = at(13, 0)
	assert.Equal(t, 1, monitor.CheckOnce())
	assert.Zero(t, monitor.CheckOnce())
	assert.Equal(t, []string{realtime.EventLoanOverdue}, rec.Events())

	monitor.Start()
	monitor.Stop()
	monitor.Stop()
}

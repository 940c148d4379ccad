package tracker

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"bytebank/internal/logger"
	"bytebank/internal/models"
	"bytebank/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// TrackerTestSuite exercises the tracker against an in-memory store
type TrackerTestSuite struct {
	suite.Suite
	db  *storage.DB
	tr  *Tracker
	ctx context.Context
}

// SetupTest runs before each test
func (suite *TrackerTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()
	suite.tr = New(db, logger.Discard(), WithClock(func() time.Time { return fixedNow }))

	for _, name := range []string{"alice", "bob"} {
		_, err := suite.tr.Register(suite.ctx, name, "pw-"+name)
		require.NoError(suite.T(), err)
	}
}

// TearDownTest runs after each test
func (suite *TrackerTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *TrackerTestSuite) mustAdd(owner, date, category, amount string) *models.Expense {
	e, err := suite.tr.AddExpense(suite.ctx, owner, ExpenseInput{Date: date, Category: category, Amount: amount})
	require.NoError(suite.T(), err)
	return e
}

func (suite *TrackerTestSuite) TestAddNormalizesCategory() {
	e := suite.mustAdd("alice", "2024-01-05", "food", "12.5")
	assert.Equal(suite.T(), models.Food, e.Category)

	got, err := suite.tr.GetExpense(suite.ctx, "alice", e.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), *e, *got)
	assert.Equal(suite.T(), "Food", string(got.Category))
}

func (suite *TrackerTestSuite) TestAddRejectsInvalidInput() {
	cases := []struct {
		name string
		in   ExpenseInput
		want error
	}{
		{"unknown category", ExpenseInput{Date: "2024-01-05", Category: "Snacks", Amount: "5"}, models.ErrInvalidCategory},
		{"negative amount", ExpenseInput{Category: "food", Amount: "-5"}, models.ErrInvalidAmount},
		{"zero amount", ExpenseInput{Category: "food", Amount: "0"}, models.ErrInvalidAmount},
		{"bad date", ExpenseInput{Date: "2024-13-01", Category: "food", Amount: "5"}, models.ErrInvalidDate},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			_, err := suite.tr.AddExpense(suite.ctx, "alice", tc.in)
			assert.ErrorIs(suite.T(), err, tc.want)
			assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)
		})
	}

	list, err := suite.tr.ListExpenses(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list, "rejected input never reaches storage")

	_, err = suite.tr.AddExpense(suite.ctx, "alice", ExpenseInput{Category: "food", Amount: "5"})
	assert.NoError(suite.T(), err)
}

func (suite *TrackerTestSuite) TestAddEmptyDateMeansToday() {
	e := suite.mustAdd("alice", "", "Rent", "900")
	assert.Equal(suite.T(), "2024-03-15", e.DateString())
	assert.Equal(suite.T(), "", e.Description)
}

func (suite *TrackerTestSuite) TestUpdate() {
	e := suite.mustAdd("alice", "2024-01-05", "food", "12.5")

	updated, err := suite.tr.UpdateExpense(suite.ctx, "alice", e.ID, UpdateInput{
		Category:    ptr("BILLS"),
		Description: ptr("  phone  "),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.Bills, updated.Category)
	assert.Equal(suite.T(), "phone", updated.Description)
	assert.Equal(suite.T(), 12.5, updated.Amount)

	_, err = suite.tr.UpdateExpense(suite.ctx, "alice", e.ID, UpdateInput{Amount: ptr("0")})
	assert.ErrorIs(suite.T(), err, models.ErrInvalidAmount)

	got, err := suite.tr.GetExpense(suite.ctx, "alice", e.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), *updated, *got, "a rejected update leaves the record untouched")
}

func (suite *TrackerTestSuite) TestUpdateNoFieldsIsNoop() {
	e := suite.mustAdd("alice", "2024-01-05", "transport", "3.2")

	updated, err := suite.tr.UpdateExpense(suite.ctx, "alice", e.ID, UpdateInput{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), *e, *updated)
}

func (suite *TrackerTestSuite) TestDeleteThenGet() {
	e := suite.mustAdd("alice", "2024-01-05", "food", "1")

	require.NoError(suite.T(), suite.tr.DeleteExpense(suite.ctx, "alice", e.ID))

	_, err := suite.tr.GetExpense(suite.ctx, "alice", e.ID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.ErrorIs(suite.T(), suite.tr.DeleteExpense(suite.ctx, "alice", e.ID), models.ErrNotFound)
}

func (suite *TrackerTestSuite) TestCrossUserIsolation() {
	e := suite.mustAdd("alice", "2024-01-05", "food", "1")

	_, err := suite.tr.GetExpense(suite.ctx, "bob", e.ID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)

	total, err := suite.tr.Total(suite.ctx, "bob")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, total)
}

func (suite *TrackerTestSuite) TestTotalsMatchListAfterMutations() {
	a := suite.mustAdd("alice", "2024-01-01", "food", "10")
	b := suite.mustAdd("alice", "2024-01-01", "rent", "20.10")
	suite.mustAdd("alice", "2024-01-02", "food", "5")
	suite.mustAdd("bob", "2024-01-02", "food", "1000")

	_, err := suite.tr.UpdateExpense(suite.ctx, "alice", b.ID, UpdateInput{Amount: ptr("20.20")})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.tr.DeleteExpense(suite.ctx, "alice", a.ID))
	suite.mustAdd("alice", "2024-01-03", "others", "0.3")

	list, err := suite.tr.ListExpenses(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	var sum float64
	for _, e := range list {
		sum += e.Amount
	}

	total, err := suite.tr.Total(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	assert.InDelta(suite.T(), sum, total, 1e-9)
	assert.InDelta(suite.T(), 25.5, total, 1e-9)

	byCat, err := suite.tr.ByCategory(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	var catSum float64
	for _, v := range byCat {
		catSum += v
	}
	assert.InDelta(suite.T(), total, catSum, 1e-9)
	_, hasBills := byCat[models.Bills]
	assert.False(suite.T(), hasBills)
	_, hasFood := byCat[models.Food]
	assert.True(suite.T(), hasFood)
}

func (suite *TrackerTestSuite) TestByDateExample() {
	suite.mustAdd("alice", "2024-01-01", "food", "10")
	suite.mustAdd("alice", "2024-01-01", "food", "20")
	suite.mustAdd("alice", "2024-01-02", "food", "5")

	got, err := suite.tr.ByDate(suite.ctx, "alice")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got, 2)
	assert.Equal(suite.T(), "2024-01-01", got[0].DateString())
	assert.Equal(suite.T(), 30.0, got[0].Total)
	assert.Equal(suite.T(), "2024-01-02", got[1].DateString())
	assert.Equal(suite.T(), 5.0, got[1].Total)
}

func (suite *TrackerTestSuite) TestFilters() {
	suite.mustAdd("alice", "2024-01-01", "food", "10")
	suite.mustAdd("alice", "2024-01-02", "rent", "20")

	list, err := suite.tr.FilterByCategory(suite.ctx, "alice", "FoOd")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), models.Food, list[0].Category)

	list, err = suite.tr.FilterByCategory(suite.ctx, "alice", "bills")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), list)

	list, err = suite.tr.FilterByCategory(suite.ctx, "alice", "Snacks")
	require.NoError(suite.T(), err, "unknown category matches nothing")
	assert.NotNil(suite.T(), list)
	assert.Empty(suite.T(), list)

	list, err = suite.tr.FilterByDate(suite.ctx, "alice", "2024-01-02")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), models.Rent, list[0].Category)

	_, err = suite.tr.FilterByDate(suite.ctx, "alice", "Jan 2")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidDate)
}

func (suite *TrackerTestSuite) TestExportCSV() {
	suite.mustAdd("alice", "2024-01-01", "food", "10")
	suite.mustAdd("alice", "2024-01-02", "rent", "20")

	var buf bytes.Buffer
	n, err := suite.tr.ExportCSV(suite.ctx, "alice", &buf)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(suite.T(), lines, 3)
	assert.Equal(suite.T(), "ID,Date,Category,Description,Amount", lines[0])
	assert.Contains(suite.T(), lines[1], "2024-01-02,Rent", "rows follow list order")
}

func (suite *TrackerTestSuite) TestRegisterAndLogin() {
	_, err := suite.tr.Register(suite.ctx, "alice", "again")
	assert.ErrorIs(suite.T(), err, models.ErrDuplicateUser)

	_, err = suite.tr.Register(suite.ctx, "  ", "pw")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidInput)

	u, err := suite.tr.Login(suite.ctx, "alice", "pw-alice")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice", u.Username)

	_, err = suite.tr.Login(suite.ctx, "alice", "pw-bob")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

package dialog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firemove/my-money-manager-chatbot/ledger"
)

type shownMessage struct {
	text   string
	sender Sender
}

type shownInput struct {
	placeholder string
	prefill     string
}

// fakePresenter records every directive the controller issues.
type fakePresenter struct {
	messages   []shownMessage
	actions    []Action
	input      *shownInput
	dateShown  bool
	dateValue  string
}

func (p *fakePresenter) ShowMessage(text string, sender Sender) {
	p.messages = append(p.messages, shownMessage{text: text, sender: sender})
}

func (p *fakePresenter) ShowActions(actions []Action) {
	p.actions = actions
}

func (p *fakePresenter) ClearActions() {
	p.actions = nil
	p.dateShown = false
}

func (p *fakePresenter) ShowTextInput(placeholder, prefill string) {
	p.input = &shownInput{placeholder: placeholder, prefill: prefill}
}

func (p *fakePresenter) HideTextInput() {
	p.input = nil
}

func (p *fakePresenter) ShowDatePicker(current string) {
	p.dateShown = true
	p.dateValue = current
}

func (p *fakePresenter) lastSystemMessage() string {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].sender == SenderSystem {
			return p.messages[i].text
		}
	}
	return ""
}

func (p *fakePresenter) systemMessageContaining(substr string) bool {
	for _, m := range p.messages {
		if m.sender == SenderSystem && strings.Contains(m.text, substr) {
			return true
		}
	}
	return false
}

func (p *fakePresenter) actionIDs() []string {
	ids := make([]string, 0, len(p.actions))
	for _, a := range p.actions {
		ids = append(ids, a.ID)
	}
	return ids
}

var testNow = time.Date(2025, time.July, 22, 12, 0, 0, 0, time.UTC)

func newTestController() (*Controller, *fakePresenter, ledger.Storage) {
	store := ledger.NewRamStorage()
	book := ledger.NewLedger()
	p := &fakePresenter{}
	c := NewWithClock(store, book, p, func() time.Time { return testNow })
	return c, p, store
}

// identify walks the controller through name entry.
func identify(c *Controller, name string) {
	c.Start()
	c.TextSubmitted(name)
}

// addCategory walks the category-add flow from the main menu.
func addCategoryFlow(c *Controller, name string) {
	c.ActionSelected(actManageCategories)
	c.ActionSelected(actAddCategory)
	c.TextSubmitted(name)
}

func TestEmptyNameReprompts(t *testing.T) {
	c, p, _ := newTestController()
	c.Start()

	c.TextSubmitted("   ")

	assert.Equal(t, "", c.User())
	assert.Equal(t, AwaitingUserName, c.State())
	require.NotNil(t, p.input)
	assert.Equal(t, namePlaceholder, p.input.placeholder)

	c.TextSubmitted("  Kim  ")
	assert.Equal(t, "Kim", c.User(), "name must be trimmed")
	assert.Equal(t, MainMenu, c.State())
}

func TestStartGreetsKnownUsers(t *testing.T) {
	store := ledger.NewRamStorage()
	book := ledger.NewLedger()
	book.Upsert("Kim")
	book.Upsert("Lee")
	p := &fakePresenter{}
	c := NewWithClock(store, book, p, func() time.Time { return testNow })

	c.Start()
	assert.True(t, p.systemMessageContaining("Kim"))
	assert.True(t, p.systemMessageContaining("Lee"))
}

func TestWelcomeBackForReturningUser(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	assert.True(t, p.systemMessageContaining("Nice to meet a new user"))

	c.ActionSelected(actSwitchUser)
	assert.Equal(t, "", c.User())

	c.TextSubmitted("Kim")
	assert.True(t, p.systemMessageContaining("Welcome back, Kim!"))
}

func TestRecordIncomeWithoutCategories(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")

	c.ActionSelected(actRecordIncome)

	assert.True(t, p.systemMessageContaining("register a category first"))
	assert.Contains(t, p.actionIDs(), actManageCategories)
	book := c.book
	profile, _ := book.Get("Kim")
	assert.Empty(t, profile.Records, "no record may be created")
}

func TestIncomeHappyPathDefaultDate(t *testing.T) {
	c, p, store := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")

	c.ActionSelected(actMainMenu)
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")

	assert.Equal(t, AwaitingAmount, c.State())
	c.TextSubmitted("50000")

	assert.Equal(t, ConfirmingDate, c.State())
	assert.ElementsMatch(t, []string{actEditDate, actKeepDate}, p.actionIDs())

	c.ActionSelected(actKeepDate)

	profile, _ := c.book.Get("Kim")
	require.Len(t, profile.Records, 1)
	rec := profile.Records[0]
	assert.Equal(t, "Salary", rec.Category)
	assert.Equal(t, 50000, rec.Amount)
	assert.Equal(t, "2025-07-22", rec.Date)

	assert.True(t, p.systemMessageContaining("Total income for July 2025 is now 50,000"))
	assert.Equal(t, MainMenu, c.State())

	// persisted wholesale
	saved, err := store.Load()
	require.NoError(t, err)
	savedProfile, found := saved.Get("Kim")
	require.True(t, found)
	require.Len(t, savedProfile.Records, 1)
}

func TestBadAmountPreservesPendingContext(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")

	for _, bad := range []string{"-5", "0", "abc", "12.5"} {
		c.TextSubmitted(bad)
		assert.Equal(t, AwaitingAmount, c.State(), "input %q", bad)
		require.NotNil(t, p.input)
		assert.Equal(t, bad, p.input.prefill, "offending input must be preserved")
	}

	profile, _ := c.book.Get("Kim")
	assert.Empty(t, profile.Records)

	// the pending category and date survived all the failures
	c.TextSubmitted("100")
	c.ActionSelected(actKeepDate)
	require.Len(t, profile.Records, 1)
	assert.Equal(t, "Salary", profile.Records[0].Category)
	assert.Equal(t, "2025-07-22", profile.Records[0].Date)
}

func TestInvalidDateKeepsDraft(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")
	c.TextSubmitted("50000")
	c.ActionSelected(actEditDate)

	assert.True(t, p.dateShown)
	assert.Equal(t, "2025-07-22", p.dateValue)

	profile, _ := c.book.Get("Kim")
	for _, bad := range []string{"2025/06/30", "30-06-2025", "2025-6-30", "hello"} {
		c.DateConfirmed(bad)
		assert.Empty(t, profile.Records, "input %q must not commit", bad)
	}

	c.DateConfirmed("2025-06-30")
	require.Len(t, profile.Records, 1)
	assert.Equal(t, "2025-06-30", profile.Records[0].Date)
	assert.True(t, p.systemMessageContaining("Total income for June 2025"))
}

// countingStorage counts writes going through to the wrapped storage.
type countingStorage struct {
	ledger.Storage
	saves int
}

func (s *countingStorage) Save(l ledger.Ledger) error {
	s.saves++
	return s.Storage.Save(l)
}

func TestDuplicateCategoryNotice(t *testing.T) {
	store := &countingStorage{Storage: ledger.NewRamStorage()}
	book := ledger.NewLedger()
	p := &fakePresenter{}
	c := NewWithClock(store, book, p, func() time.Time { return testNow })

	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	savesBefore := store.saves

	c.ActionSelected(actAddCategory)
	c.TextSubmitted("Salary")

	assert.True(t, p.systemMessageContaining("already exists"))
	profile, _ := c.book.Get("Kim")
	assert.Equal(t, []string{"Salary"}, profile.Categories)
	assert.Equal(t, ManagingCategories, c.State())
	assert.Equal(t, savesBefore, store.saves, "duplicate add must write nothing to storage")
}

func TestEmptyCategoryNameReprompts(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	c.ActionSelected(actManageCategories)
	c.ActionSelected(actAddCategory)

	c.TextSubmitted("  ")
	assert.Equal(t, AwaitingNewCategoryName, c.State())
	require.NotNil(t, p.input)
	assert.Equal(t, categoryPlaceholder, p.input.placeholder)

	c.TextSubmitted("Bonus")
	profile, _ := c.book.Get("Kim")
	assert.Equal(t, []string{"Bonus"}, profile.Categories)
}

func TestRemoveCategoryKeepsRecords(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	c.ActionSelected(actMainMenu)
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")
	c.TextSubmitted("50000")
	c.ActionSelected(actKeepDate)

	c.ActionSelected(actManageCategories)
	c.ActionSelected(actRemoveCategory)
	c.ActionSelected(removeActPrefix + "Salary")
	assert.Equal(t, ConfirmingRemoval, c.State())
	c.ActionSelected(actConfirmRemove)

	profile, _ := c.book.Get("Kim")
	assert.Empty(t, profile.Categories)
	require.Len(t, profile.Records, 1, "records must survive removal")
	assert.Equal(t, "Salary", profile.Records[0].Category)
	assert.True(t, p.systemMessageContaining("has been removed"))
}

func TestRemoveCategoryCancel(t *testing.T) {
	c, _, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	c.ActionSelected(actRemoveCategory)
	c.ActionSelected(removeActPrefix + "Salary")
	c.ActionSelected(actCancelRemove)

	profile, _ := c.book.Get("Kim")
	assert.Equal(t, []string{"Salary"}, profile.Categories)
	assert.Equal(t, ManagingCategories, c.State())
}

func TestRecordsViewCurrentMonthSorted(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")

	profile, _ := c.book.Get("Kim")
	profile.AddRecord(*ledger.NewIncomeRecord("Salary", 300, "2025-07-15"))
	profile.AddRecord(*ledger.NewIncomeRecord("Bonus", 200, "2025-06-10"))
	profile.AddRecord(*ledger.NewIncomeRecord("Salary", 100, "2025-07-01"))

	c.ActionSelected(actViewRecords)

	listing := ""
	for _, m := range p.messages {
		if m.sender == SenderSystem && strings.HasPrefix(m.text, "Records for July 2025") {
			listing = m.text
		}
	}
	require.NotEmpty(t, listing)
	assert.NotContains(t, listing, "2025-06-10", "June records must be filtered out")
	first := strings.Index(listing, "2025-07-01")
	second := strings.Index(listing, "2025-07-15")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second, "records must be date ascending")
	assert.Equal(t, MainMenu, c.State())
}

func TestSummaryGroupsByCategory(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")

	profile, _ := c.book.Get("Kim")
	profile.AddRecord(*ledger.NewIncomeRecord("Salary", 50000, "2025-07-10"))
	profile.AddRecord(*ledger.NewIncomeRecord("Salary", 20000, "2025-07-20"))
	profile.AddRecord(*ledger.NewIncomeRecord("Bonus", 5000, "2025-07-01"))
	profile.AddRecord(*ledger.NewIncomeRecord("Salary", 99999, "2025-08-05"))

	c.ActionSelected(actViewSummary)

	assert.True(t, p.systemMessageContaining("Salary: 70,000"))
	assert.True(t, p.systemMessageContaining("Bonus: 5,000"))
	assert.True(t, p.systemMessageContaining("Total: 75,000"))
}

func TestSummaryEmpty(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	c.ActionSelected(actViewSummary)
	assert.True(t, p.systemMessageContaining("Nothing has been recorded for July 2025"))
}

// failingStorage accepts nothing.
type failingStorage struct{}

func (failingStorage) Load() (ledger.Ledger, error) { return ledger.NewLedger(), nil }
func (failingStorage) Save(ledger.Ledger) error     { return errors.New("store is gone") }

func TestSaveFailureWarnsButKeepsChange(t *testing.T) {
	book := ledger.NewLedger()
	p := &fakePresenter{}
	c := NewWithClock(failingStorage{}, book, p, func() time.Time { return testNow })

	identify(c, "Kim")
	addCategoryFlow(c, "Salary")

	assert.True(t, p.systemMessageContaining("may not have been saved"))
	profile, found := book.Get("Kim")
	require.True(t, found, "in-memory change must stand")
	assert.Equal(t, []string{"Salary"}, profile.Categories)
	assert.Equal(t, ManagingCategories, c.State(), "dialogue must continue")

	// same for a committed record: the append stands, the user is warned
	p.messages = nil
	c.ActionSelected(actMainMenu)
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")
	c.TextSubmitted("50000")
	c.ActionSelected(actKeepDate)

	assert.True(t, p.systemMessageContaining("may not have been saved"))
	require.Len(t, profile.Records, 1)
	assert.Equal(t, 50000, profile.Records[0].Amount)
	assert.Equal(t, MainMenu, c.State(), "dialogue must continue")
}

func TestSwitchUserRetainsLedgerEntries(t *testing.T) {
	c, _, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")

	c.ActionSelected(actMainMenu)
	c.ActionSelected(actSwitchUser)
	c.TextSubmitted("Lee")

	assert.Equal(t, "Lee", c.User())
	kim, found := c.book.Get("Kim")
	require.True(t, found)
	assert.Equal(t, []string{"Salary"}, kim.Categories)

	lee, found := c.book.Get("Lee")
	require.True(t, found)
	assert.Empty(t, lee.Categories)
}

func TestRestartDiscardsTransientControls(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	addCategoryFlow(c, "Salary")
	c.ActionSelected(actMainMenu)
	require.NotEmpty(t, p.actions, "the main menu must be on screen")

	c.Start()

	assert.Equal(t, AwaitingUserName, c.State())
	assert.Empty(t, p.actions, "a restart must retract the previous menu")

	// a draft pending date confirmation is discarded as well
	identify(c, "Kim")
	c.ActionSelected(actRecordIncome)
	c.ActionSelected(categoryActPrefix + "Salary")
	c.TextSubmitted("50000")
	c.Start()
	c.DateConfirmed("2025-07-01")

	profile, _ := c.book.Get("Kim")
	assert.Empty(t, profile.Records, "no record may be committed after a restart")
}

func TestRemoveFlowWithoutCategories(t *testing.T) {
	c, p, _ := newTestController()
	identify(c, "Kim")
	c.ActionSelected(actManageCategories)

	// reachable only through a keyboard from an earlier turn, but a press
	// there must still land somewhere sane
	c.ActionSelected(actRemoveCategory)

	assert.True(t, p.systemMessageContaining("There is no category to remove"))
	assert.Equal(t, ManagingCategories, c.State())
}

func TestTextWithNothingPendingIsIgnored(t *testing.T) {
	c, _, _ := newTestController()
	identify(c, "Kim")

	c.TextSubmitted("stray text")
	assert.Equal(t, MainMenu, c.State())
	profile, _ := c.book.Get("Kim")
	assert.Empty(t, profile.Records)
	assert.Empty(t, profile.Categories)
}

package dialog

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/firemove/my-money-manager-chatbot/ledger"
)

// Action ids understood by the controller. Category choices are dynamic and
// carry the category name behind a prefix.
const (
	actRecordIncome     = "record-income"
	actViewSummary      = "view-summary"
	actViewRecords      = "view-records"
	actManageCategories = "manage-categories"
	actSwitchUser       = "switch-user"
	actMainMenu         = "main-menu"
	actAddCategory      = "add-category"
	actRemoveCategory   = "remove-category"
	actKeepDate         = "keep-date"
	actEditDate         = "edit-date"
	actConfirmRemove    = "confirm-remove"
	actCancelRemove     = "cancel-remove"

	categoryActPrefix = "category:"
	removeActPrefix   = "remove:"
)

const (
	namePlaceholder     = "Enter your name"
	amountPlaceholder   = "Amount (digits only)"
	categoryPlaceholder = "Category name"
)

// recordDraft is a validated amount waiting for its date to be confirmed.
type recordDraft struct {
	category string
	amount   int
	date     string
}

// Controller runs one dialogue session over the shared ledger. All state a
// session needs lives here; nothing is process-global, so independent
// sessions (one per chat, or per test) coexist freely.
type Controller struct {
	store ledger.Storage
	book  ledger.Ledger
	p     Presenter
	now   func() time.Time

	state   State
	user    string
	pending pendingInput
	draft   *recordDraft
	removal string
}

func New(store ledger.Storage, book ledger.Ledger, p Presenter) *Controller {
	return NewWithClock(store, book, p, time.Now)
}

// NewWithClock is New with an explicit time source.
func NewWithClock(store ledger.Storage, book ledger.Ledger, p Presenter, now func() time.Time) *Controller {
	c := &Controller{store: store,
		book:  book,
		p:     p,
		now:   now,
		state: AwaitingUserName}
	return c
}

func (c *Controller) State() State {
	return c.state
}

// User returns the identified user name, or "" before identification.
func (c *Controller) User() string {
	return c.user
}

// Start opens the dialogue with the name prompt. When the loaded ledger
// already has users their names are offered in the greeting.
func (c *Controller) Start() {
	c.state = AwaitingUserName
	c.pending = pendingUserName{}
	c.draft = nil
	c.removal = ""
	c.p.ClearActions()
	c.p.HideTextInput()

	names := c.book.Names()
	if len(names) > 0 {
		c.p.ShowMessage(fmt.Sprintf("Hello! Who is this? Known users: %s. Or enter a new name.", strings.Join(names, ", ")), SenderSystem)
	} else {
		c.p.ShowMessage("Hello! What is your name? (e.g. \"Kim\")", SenderSystem)
	}
	c.p.ShowTextInput(namePlaceholder, "")
}

// TextSubmitted handles one free-text submission according to the pending
// input marker. Text arriving with nothing pending is dropped.
func (c *Controller) TextSubmitted(text string) {
	log.Printf("Text submitted in state '%s': %s", c.state, text)
	c.p.ShowMessage(text, SenderUser)

	switch pending := c.pending.(type) {
	case pendingUserName:
		c.identifyUser(text)
	case pendingAmount:
		c.recordAmount(pending, text)
	case pendingNewCategory:
		c.addCategory(text)
	default:
		log.Printf("No pending input in state '%s', ignoring text", c.state)
	}
}

// ActionSelected handles one chosen action.
func (c *Controller) ActionSelected(id string) {
	log.Printf("Action '%s' selected in state '%s'", id, c.state)

	if c.user == "" {
		log.Printf("Action '%s' selected without an identified user, re-prompting for name", id)
		c.Start()
		return
	}

	switch {
	case id == actRecordIncome:
		c.showIncomeFlow()
	case id == actViewSummary:
		c.viewSummary()
	case id == actViewRecords:
		c.viewRecords()
	case id == actManageCategories:
		c.showCategoryMenu()
	case id == actSwitchUser:
		c.switchUser()
	case id == actMainMenu:
		c.showMainMenu()
	case id == actAddCategory:
		c.promptNewCategory()
	case id == actRemoveCategory:
		c.showRemovalFlow()
	case id == actKeepDate:
		c.commitDraft()
	case id == actEditDate:
		c.promptDate()
	case id == actConfirmRemove:
		c.removeCategory()
	case id == actCancelRemove:
		c.showCategoryMenu()
	case strings.HasPrefix(id, categoryActPrefix):
		c.selectCategory(strings.TrimPrefix(id, categoryActPrefix))
	case strings.HasPrefix(id, removeActPrefix):
		c.confirmRemoval(strings.TrimPrefix(id, removeActPrefix))
	default:
		log.Printf("Unknown action '%s', ignoring", id)
	}
}

// DateConfirmed handles a date coming back from the date control while a
// draft record waits for its date.
func (c *Controller) DateConfirmed(value string) {
	log.Printf("Date '%s' confirmed in state '%s'", value, c.state)
	if c.draft == nil {
		log.Printf("No pending record draft, ignoring date")
		return
	}
	if !ledger.ValidDate(value) {
		c.p.ShowMessage("The date is not in YYYY-MM-DD form. Please pick or type it again.", SenderSystem)
		c.p.ShowDatePicker(c.draft.date)
		return
	}
	c.draft.date = value
	c.commitDraft()
}

func (c *Controller) profile() *ledger.UserProfile {
	return c.book.Upsert(c.user)
}

// persist writes the whole ledger. A write failure is reported to the user
// but the in-memory change stands; the dialogue continues either way.
func (c *Controller) persist() {
	if err := c.store.Save(c.book); err != nil {
		log.Printf("Could not save ledger: %s", err)
		c.p.ShowMessage("Warning: the last change may not have been saved.", SenderSystem)
	}
}

func (c *Controller) identifyUser(text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		c.p.ShowMessage("Please enter a proper name.", SenderSystem)
		c.p.ShowTextInput(namePlaceholder, "")
		return
	}

	_, known := c.book.Get(name)
	c.book.Upsert(name)
	c.user = name
	if known {
		c.p.ShowMessage(fmt.Sprintf("Welcome back, %s!", name), SenderSystem)
	} else {
		c.p.ShowMessage(fmt.Sprintf("Welcome, %s! Nice to meet a new user.", name), SenderSystem)
	}
	c.persist()
	c.showMainMenu()
}

func (c *Controller) switchUser() {
	log.Printf("User '%s' is switching away", c.user)
	c.user = ""
	c.p.ClearActions()
	c.p.ShowMessage("Switching to another user. Please enter a name.", SenderSystem)
	c.state = AwaitingUserName
	c.pending = pendingUserName{}
	c.p.ShowTextInput(namePlaceholder, "")
}

func (c *Controller) showMainMenu() {
	c.state = MainMenu
	c.pending = nil
	c.draft = nil
	c.removal = ""
	c.p.ClearActions()
	c.p.HideTextInput()

	c.p.ShowMessage("What can I do for you?", SenderSystem)
	c.p.ShowActions([]Action{
		{ID: actRecordIncome, Label: "Record income", Style: StylePrimary},
		{ID: actViewSummary, Label: "Monthly summary"},
		{ID: actViewRecords, Label: "This month's records"},
		{ID: actManageCategories, Label: "Manage categories"},
		{ID: actSwitchUser, Label: "Switch user"},
	})
}

func (c *Controller) showIncomeFlow() {
	c.state = SelectingCategoryForIncome
	c.pending = nil
	c.p.ClearActions()
	c.p.HideTextInput()

	profile := c.profile()
	if len(profile.Categories) == 0 {
		c.p.ShowMessage("There are no income categories yet. Please register a category first.", SenderSystem)
		c.p.ShowActions([]Action{
			{ID: actManageCategories, Label: "Manage categories", Style: StylePrimary},
			{ID: actMainMenu, Label: "Main menu"},
		})
		return
	}

	c.p.ShowMessage("Which category should this income go under?", SenderSystem)
	actions := make([]Action, 0, len(profile.Categories)+1)
	for _, cat := range profile.Categories {
		actions = append(actions, Action{ID: categoryActPrefix + cat, Label: cat})
	}
	actions = append(actions, Action{ID: actMainMenu, Label: "Main menu"})
	c.p.ShowActions(actions)
}

func (c *Controller) selectCategory(category string) {
	if !c.profile().HasCategory(category) {
		log.Printf("Category '%s' no longer exists for user '%s'", category, c.user)
		c.p.ShowMessage(fmt.Sprintf("The category \"%s\" no longer exists.", category), SenderSystem)
		c.showIncomeFlow()
		return
	}

	date := ledger.Today(c.now())
	c.state = AwaitingAmount
	c.pending = pendingAmount{category: category, date: date}

	c.p.ClearActions()
	c.p.ShowMessage(fmt.Sprintf("You picked \"%s\". How much was it? (e.g. 50000)", category), SenderSystem)
	c.p.ShowTextInput(amountPlaceholder, "")
}

func (c *Controller) recordAmount(pending pendingAmount, text string) {
	amount, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || amount <= 0 {
		log.Printf("Rejecting amount input '%s' from user '%s'", text, c.user)
		c.p.ShowMessage("Please enter a valid amount: a positive whole number.", SenderSystem)
		c.p.ShowTextInput(amountPlaceholder, text)
		return
	}

	c.draft = &recordDraft{category: pending.category, amount: amount, date: pending.date}
	c.pending = nil
	c.state = ConfirmingDate
	c.p.HideTextInput()
	c.p.ClearActions()

	c.p.ShowMessage(fmt.Sprintf("Recording %s under \"%s\", dated %s.", formatAmount(amount), pending.category, pending.date), SenderSystem)
	c.p.ShowMessage("Would you like to change the date?", SenderSystem)
	c.p.ShowActions([]Action{
		{ID: actEditDate, Label: "Yes, change the date", Style: StylePrimary},
		{ID: actKeepDate, Label: "No, record it as is"},
	})
}

func (c *Controller) promptDate() {
	if c.draft == nil {
		log.Printf("Date edit requested without a record draft, showing main menu")
		c.showMainMenu()
		return
	}
	c.p.ClearActions()
	c.p.HideTextInput()
	c.p.ShowMessage(fmt.Sprintf("Pick a date or type one in YYYY-MM-DD form. Current: %s", c.draft.date), SenderSystem)
	c.p.ShowDatePicker(c.draft.date)
}

func (c *Controller) commitDraft() {
	if c.draft == nil {
		log.Printf("Commit requested without a record draft, showing main menu")
		c.showMainMenu()
		return
	}
	draft := c.draft

	profile := c.profile()
	profile.AddRecord(*ledger.NewIncomeRecord(draft.category, draft.amount, draft.date))
	c.persist()

	c.p.ShowMessage(fmt.Sprintf("✅ Recorded %s under \"%s\" on %s!", formatAmount(draft.amount), draft.category, draft.date), SenderSystem)

	// the total is for the record's month, which is not necessarily the
	// current one
	when, err := time.Parse(ledger.DateFormat, draft.date)
	if err != nil {
		log.Panicf("Committed date '%s' does not parse: %s", draft.date, err)
	}
	total := profile.MonthlyTotal(when.Year(), when.Month())
	c.p.ShowMessage(fmt.Sprintf("Total income for %s is now %s.", when.Format("January 2006"), formatAmount(total)), SenderSystem)

	c.showMainMenu()
}

func (c *Controller) showCategoryMenu() {
	c.state = ManagingCategories
	c.pending = nil
	c.draft = nil
	c.removal = ""
	c.p.ClearActions()
	c.p.HideTextInput()

	c.p.ShowMessage("Category management.", SenderSystem)

	profile := c.profile()
	if len(profile.Categories) > 0 {
		c.p.ShowMessage("Current categories: "+strings.Join(profile.Categories, ", "), SenderSystem)
		c.p.ShowActions([]Action{
			{ID: actAddCategory, Label: "Add a category", Style: StylePrimary},
			{ID: actRemoveCategory, Label: "Remove a category"},
			{ID: actMainMenu, Label: "Main menu"},
		})
	} else {
		c.p.ShowMessage("There are no registered categories yet.", SenderSystem)
		c.p.ShowActions([]Action{
			{ID: actAddCategory, Label: "Add your first category", Style: StylePrimary},
			{ID: actMainMenu, Label: "Main menu"},
		})
	}
}

func (c *Controller) promptNewCategory() {
	c.state = AwaitingNewCategoryName
	c.pending = pendingNewCategory{}
	c.p.ClearActions()
	c.p.ShowMessage("Enter the name of the category to add. (e.g. \"Side job\")", SenderSystem)
	c.p.ShowTextInput(categoryPlaceholder, "")
}

func (c *Controller) addCategory(text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		c.p.ShowMessage("Please enter a proper category name.", SenderSystem)
		c.p.ShowTextInput(categoryPlaceholder, text)
		return
	}

	if c.profile().AddCategory(name) {
		c.persist()
		c.p.ShowMessage(fmt.Sprintf("The category \"%s\" has been added!", name), SenderSystem)
	} else {
		c.p.ShowMessage("That category already exists.", SenderSystem)
	}
	c.showCategoryMenu()
}

func (c *Controller) showRemovalFlow() {
	c.state = SelectingCategoryToRemove
	c.pending = nil
	c.p.ClearActions()
	c.p.HideTextInput()

	profile := c.profile()
	if len(profile.Categories) == 0 {
		c.p.ShowMessage("There is no category to remove.", SenderSystem)
		c.showCategoryMenu()
		return
	}

	c.p.ShowMessage("Which category should be removed?", SenderSystem)
	actions := make([]Action, 0, len(profile.Categories)+1)
	for _, cat := range profile.Categories {
		actions = append(actions, Action{ID: removeActPrefix + cat, Label: cat, Style: StyleDanger})
	}
	actions = append(actions, Action{ID: actManageCategories, Label: "Cancel"})
	c.p.ShowActions(actions)
}

func (c *Controller) confirmRemoval(category string) {
	if !c.profile().HasCategory(category) {
		log.Printf("Category '%s' no longer exists for user '%s'", category, c.user)
		c.p.ShowMessage(fmt.Sprintf("The category \"%s\" no longer exists.", category), SenderSystem)
		c.showCategoryMenu()
		return
	}

	c.state = ConfirmingRemoval
	c.removal = category
	c.p.ClearActions()
	c.p.ShowMessage(fmt.Sprintf("Really remove \"%s\"? Records under it will be kept.", category), SenderSystem)
	c.p.ShowActions([]Action{
		{ID: actConfirmRemove, Label: "Yes, remove it", Style: StyleDanger},
		{ID: actCancelRemove, Label: "No, cancel"},
	})
}

func (c *Controller) removeCategory() {
	if c.removal == "" {
		log.Printf("Removal confirmed without a selected category, showing category menu")
		c.showCategoryMenu()
		return
	}
	category := c.removal

	c.profile().RemoveCategory(category)
	c.persist()
	c.p.ShowMessage(fmt.Sprintf("The category \"%s\" has been removed.", category), SenderSystem)
	c.showCategoryMenu()
}

func (c *Controller) viewSummary() {
	c.state = ViewingSummary
	c.p.ClearActions()
	c.p.HideTextInput()

	now := c.now()
	profile := c.profile()
	summary := profile.MonthlySummary(now.Year(), now.Month())
	monthName := now.Format("January 2006")

	if len(summary.ByCategory) == 0 {
		c.p.ShowMessage(fmt.Sprintf("Nothing has been recorded for %s yet.", monthName), SenderSystem)
		c.showMainMenu()
		return
	}

	type keyValue struct {
		key   string
		value int
	}
	var sorted []keyValue
	for k, v := range summary.ByCategory {
		sorted = append(sorted, keyValue{key: k, value: v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].value != sorted[j].value {
			return sorted[i].value > sorted[j].value // biggest earner first
		}
		return sorted[i].key < sorted[j].key
	})

	msg := fmt.Sprintf("Income for %s:", monthName)
	for _, kv := range sorted {
		msg = fmt.Sprintf("%s\n%s: %s", msg, kv.key, formatAmount(kv.value))
	}
	msg = fmt.Sprintf("%s\nTotal: %s", msg, formatAmount(summary.Total))
	c.p.ShowMessage(msg, SenderSystem)

	c.showMainMenu()
}

func (c *Controller) viewRecords() {
	c.state = ViewingRecords
	c.p.ClearActions()
	c.p.HideTextInput()

	now := c.now()
	records := c.profile().MonthlyRecords(now.Year(), now.Month())
	monthName := now.Format("January 2006")

	if len(records) == 0 {
		c.p.ShowMessage(fmt.Sprintf("Nothing has been recorded for %s yet.", monthName), SenderSystem)
		c.showMainMenu()
		return
	}

	msg := fmt.Sprintf("Records for %s:", monthName)
	for _, rec := range records {
		msg = fmt.Sprintf("%s\n%s \"%s\": %s", msg, rec.Date, rec.Category, formatAmount(rec.Amount))
	}
	c.p.ShowMessage(msg, SenderSystem)

	c.showMainMenu()
}

package dialog

// State is the dialogue position. The machine has no terminal state; every
// completed action or validation failure loops back to a menu or re-presents
// the current prompt.
type State int

const (
	AwaitingUserName State = iota
	MainMenu
	SelectingCategoryForIncome
	AwaitingAmount
	ConfirmingDate
	ManagingCategories
	AwaitingNewCategoryName
	SelectingCategoryToRemove
	ConfirmingRemoval
	ViewingSummary
	ViewingRecords
)

var stateNames = map[State]string{
	AwaitingUserName:           "awaiting-user-name",
	MainMenu:                   "main-menu",
	SelectingCategoryForIncome: "selecting-category-for-income",
	AwaitingAmount:             "awaiting-amount",
	ConfirmingDate:             "confirming-date",
	ManagingCategories:         "managing-categories",
	AwaitingNewCategoryName:    "awaiting-new-category-name",
	SelectingCategoryToRemove:  "selecting-category-to-remove",
	ConfirmingRemoval:          "confirming-removal",
	ViewingSummary:             "viewing-summary",
	ViewingRecords:             "viewing-records",
}

func (s State) String() string {
	if name, found := stateNames[s]; found {
		return name
	}
	return "unknown"
}

// pendingInput says what the next free-text submission means. nil means text
// is not expected. Modeled as one type per case so a handler cannot read a
// payload that belongs to a different case.
type pendingInput interface {
	pendingInput()
}

type pendingUserName struct{}

// pendingAmount carries the chosen category and the default date captured at
// selection time.
type pendingAmount struct {
	category string
	date     string
}

type pendingNewCategory struct{}

func (pendingUserName) pendingInput()    {}
func (pendingAmount) pendingInput()      {}
func (pendingNewCategory) pendingInput() {}

package dialog

// Sender tags a rendered message as coming from the system or echoing the
// user's own input.
type Sender string

const (
	SenderSystem Sender = "system"
	SenderUser   Sender = "user"
)

// Action styles, advisory only. Presenters without styled controls may
// ignore them.
const (
	StyleDefault = ""
	StylePrimary = "primary"
	StyleDanger  = "danger"
)

// Action is one selectable choice offered to the user.
type Action struct {
	ID    string
	Label string
	Style string
}

// Presenter renders the dialogue. The controller never touches presentation
// state beyond these directives; events flow back through the controller's
// TextSubmitted, ActionSelected and DateConfirmed methods.
type Presenter interface {
	// ShowMessage renders one chat message.
	ShowMessage(text string, sender Sender)

	// ShowActions renders a set of selectable actions, replacing any
	// previously shown set.
	ShowActions(actions []Action)

	// ClearActions removes the current action set and any visible date
	// control; both live in the same transient input area.
	ClearActions()

	// ShowTextInput enables free-text entry. prefill carries a previously
	// rejected value back into the field for correction.
	ShowTextInput(placeholder, prefill string)

	// HideTextInput disables free-text entry.
	HideTextInput()

	// ShowDatePicker enables date selection, preset to current (YYYY-MM-DD).
	ShowDatePicker(current string)
}

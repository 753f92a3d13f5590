package components

import (
	"github.com/rivo/tview"

	"github.com/natter-io/natter/internal/theme"
)

// ConfirmModal creates a yes/no confirmation dialog. The callbacks are
// matched on the button label, not the index, because tview reports the
// two in inconsistent order depending on focus.
func ConfirmModal(th *theme.Theme, message string, onConfirm, onCancel func()) *tview.Modal {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"[ Yes ]", "[ No ]"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel == "[ Yes ]" && onConfirm != nil {
				onConfirm()
			} else if buttonLabel == "[ No ]" && onCancel != nil {
				onCancel()
			}
		})

	modal.SetBackgroundColor(th.Surface)
	modal.SetButtonBackgroundColor(th.Accent)
	modal.SetButtonTextColor(th.BannerText)
	// Default to the safe answer.
	modal.SetFocus(1)
	return modal
}

// ErrorModal creates an error message dialog.
func ErrorModal(th *theme.Theme, message string, onDismiss func()) *tview.Modal {
	modal := tview.NewModal().
		SetText("Error: " + message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if onDismiss != nil {
				onDismiss()
			}
		})

	modal.SetBackgroundColor(th.Surface)
	modal.SetButtonBackgroundColor(th.Danger)
	modal.SetButtonTextColor(th.BannerText)
	return modal
}

// InfoModal creates an informational dialog.
func InfoModal(th *theme.Theme, title, message string, onDismiss func()) *tview.Modal {
	modal := tview.NewModal().
		SetText(title + "\n\n" + message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if onDismiss != nil {
				onDismiss()
			}
		})

	modal.SetBackgroundColor(th.Surface)
	modal.SetButtonBackgroundColor(th.Success)
	modal.SetButtonTextColor(th.BannerText)
	return modal
}

// InputModal creates a single-field input dialog, centered on screen.
func InputModal(title, label, initialValue string, onSubmit func(string), onCancel func()) tview.Primitive {
	form := tview.NewForm()

	input := initialValue
	form.AddInputField(label, initialValue, 0, nil, func(text string) {
		input = text
	})
	form.AddButton("Submit", func() {
		if onSubmit != nil {
			onSubmit(input)
		}
	})
	form.AddButton("Cancel", func() {
		if onCancel != nil {
			onCancel()
		}
	})
	form.SetBorder(true).SetTitle(title).SetTitleAlign(tview.AlignLeft)

	return Center(form, 50, 10)
}

// Center wraps a primitive in spacer flexes so it floats centered at the
// given size.
func Center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

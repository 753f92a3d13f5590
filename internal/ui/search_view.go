package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"gopkg.in/yaml.v3"

	"github.com/natter-io/natter/internal/chat"
	"github.com/natter-io/natter/internal/models"
	"github.com/natter-io/natter/internal/ui/components"
)

// SearchView is the cross-channel message search: a query form on the
// left, the result table on the right and a markdown-rendered detail
// popup for single messages.
type SearchView struct {
	ui          *UIManager
	mainFlex    *tview.Flex
	form        *tview.Form
	resultTable *tview.Table
	statusText  *tview.TextView

	channelPattern string
	sender         string
	contains       string
	ageOp          string
	ageValue       string
	ageUnit        string
	limit          string

	results       []*models.Message
	sortColumn    int
	sortAscending bool
	searching     bool
}

// NewSearchView creates a new search view.
func NewSearchView(ui *UIManager) *SearchView {
	view := &SearchView{
		ui:             ui,
		channelPattern: "*",
		ageOp:          "any",
		ageUnit:        "h",
		limit:          "100",
		sortColumn:     0,
		sortAscending:  true,
	}

	view.buildUI()
	view.setupKeybindings()

	return view
}

func (v *SearchView) buildUI() {
	v.form = tview.NewForm()
	v.buildFormFields()
	v.form.SetBorder(true).
		SetTitle(" Message Search ").
		SetTitleAlign(tview.AlignCenter)

	v.resultTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	v.resultTable.SetBorder(true).
		SetTitle(" Results - Enter opens a message, click header to sort ").
		SetTitleAlign(tview.AlignCenter)
	v.setupResultHeaders()

	v.statusText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	v.statusText.SetBorder(true)
	v.updateStatus(0)

	leftFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.form, 0, 1, true).
		AddItem(v.statusText, 3, 0, false)

	v.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftFlex, 0, 1, true).
		AddItem(v.resultTable, 0, 2, false)
}

func (v *SearchView) buildFormFields() {
	v.form.AddInputField("Channel Pattern", v.channelPattern, 30, nil, func(text string) {
		v.channelPattern = text
	})
	v.form.AddInputField("Sender", v.sender, 30, nil, func(text string) {
		v.sender = text
	})
	v.form.AddInputField("Contains", v.contains, 30, nil, func(text string) {
		v.contains = text
	})

	ageOps := []string{"any", "within", "older"}
	ageIndex := 0
	for i, op := range ageOps {
		if op == v.ageOp {
			ageIndex = i
		}
	}
	v.form.AddDropDown("Age Operator", ageOps, ageIndex, func(option string, optionIndex int) {
		v.ageOp = option
	})
	v.form.AddInputField("Age Value", v.ageValue, 10, tview.InputFieldInteger, func(text string) {
		v.ageValue = text
	})

	ageUnits := []string{"m", "h", "d"}
	unitIndex := 1
	for i, u := range ageUnits {
		if u == v.ageUnit {
			unitIndex = i
		}
	}
	v.form.AddDropDown("Age Unit", ageUnits, unitIndex, func(option string, optionIndex int) {
		v.ageUnit = option
	})

	v.form.AddInputField("Limit", v.limit, 10, tview.InputFieldInteger, func(text string) {
		v.limit = text
	})

	v.form.AddButton("[ Search ]", func() {
		v.runSearch()
	})
	v.form.AddButton("[ Load Search ]", func() {
		v.showLoadSearchDialog()
	})
	v.form.AddButton("[ Save Search ]", func() {
		v.saveSearch()
	})
	v.form.AddButton("[ Clear ]", func() {
		v.clearSearch()
	})
	v.form.AddButton("[ Cancel ]", func() {
		v.ui.ShowChannelList()
	})
}

func (v *SearchView) setupResultHeaders() {
	headers := []string{"TIME", "CHANNEL", "SENDER", "MESSAGE"}
	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(true)
		v.resultTable.SetCell(0, i, cell)
	}
}

func (v *SearchView) setupKeybindings() {
	v.mainFlex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			v.ui.ShowChannelList()
			return nil
		}
		if event.Key() == tcell.KeyTab && v.ui.app.GetFocus() == v.resultTable {
			v.ui.app.SetFocus(v.form)
			return nil
		}
		return event
	})

	v.resultTable.SetSelectedFunc(func(row, column int) {
		if row == 0 {
			if v.sortColumn == column {
				v.sortAscending = !v.sortAscending
			} else {
				v.sortColumn = column
				v.sortAscending = true
			}
			v.sortResults()
			return
		}
		if row > 0 && row <= len(v.results) {
			v.showDetail(v.results[row-1])
		}
	})
}

// query assembles the search query from the current form state.
func (v *SearchView) query() chat.SearchQuery {
	q := chat.SearchQuery{
		ChannelPattern: v.channelPattern,
		Sender:         v.sender,
		Contains:       v.contains,
		AgeOp:          v.ageOp,
	}

	var ageVal int
	fmt.Sscanf(v.ageValue, "%d", &ageVal)
	if ageVal > 0 {
		switch v.ageUnit {
		case "m":
			q.Age = time.Duration(ageVal) * time.Minute
		case "d":
			q.Age = time.Duration(ageVal) * 24 * time.Hour
		default:
			q.Age = time.Duration(ageVal) * time.Hour
		}
	}

	fmt.Sscanf(v.limit, "%d", &q.Limit)
	return q
}

func (v *SearchView) runSearch() {
	if v.searching {
		return
	}
	v.searching = true
	v.statusText.SetText("[yellow]Searching...[white]")

	q := v.query()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		results, err := v.ui.client.SearchMessages(ctx, q)

		v.ui.app.QueueUpdateDraw(func() {
			v.searching = false
			if err != nil {
				v.updateStatus(0)
				v.ui.ShowError(fmt.Sprintf("Search failed: %v", err))
				return
			}
			v.results = results
			v.sortColumn = 0
			v.sortAscending = true
			v.updateResultTable()
			v.updateStatus(len(results))
			if len(results) > 0 {
				v.ui.app.SetFocus(v.resultTable)
			}
		})
	}()
}

func (v *SearchView) updateResultTable() {
	for row := v.resultTable.GetRowCount() - 1; row > 0; row-- {
		v.resultTable.RemoveRow(row)
	}

	for i, msg := range v.results {
		row := i + 1
		v.resultTable.SetCell(row, 0, tview.NewTableCell(msg.Time.Local().Format("2006-01-02 15:04")))
		v.resultTable.SetCell(row, 1, tview.NewTableCell("#"+msg.Channel))
		v.resultTable.SetCell(row, 2, tview.NewTableCell(msg.Sender).SetTextColor(v.ui.theme.UserColor(msg.Sender)))
		v.resultTable.SetCell(row, 3, tview.NewTableCell(truncate(msg.Body, 60)))
	}
}

func (v *SearchView) sortResults() {
	if len(v.results) == 0 {
		return
	}

	sort.Slice(v.results, func(i, j int) bool {
		var less bool
		switch v.sortColumn {
		case 0:
			less = v.results[i].Time.Before(v.results[j].Time)
		case 1:
			less = v.results[i].Channel < v.results[j].Channel
		case 2:
			less = v.results[i].Sender < v.results[j].Sender
		case 3:
			less = v.results[i].Body < v.results[j].Body
		}
		if !v.sortAscending {
			less = !less
		}
		return less
	})

	v.updateResultTable()
}

func (v *SearchView) updateStatus(count int) {
	if count == 0 {
		v.statusText.SetText("[gray]Press 'Search' to scan channel history[white]")
	} else {
		v.statusText.SetText(fmt.Sprintf("[yellow]%d messages match[white]", count))
	}
}

// showDetail renders one message as markdown in a centered popup. Chat
// messages are plain markdown on the wire, so glamour handles code
// blocks and emphasis for free.
func (v *SearchView) showDetail(msg *models.Message) {
	body := msg.Body
	if rendered, err := glamour.Render(msg.Body, "dark"); err == nil {
		body = tview.TranslateANSI(rendered)
	}

	detail := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	detail.SetBorder(true).
		SetTitle(fmt.Sprintf(" #%s - %s ", msg.Channel, msg.Sender)).
		SetTitleAlign(tview.AlignCenter)

	header := fmt.Sprintf("[cyan]From:[white] %s    [cyan]Channel:[white] #%s    [cyan]Time:[white] %s\n",
		msg.Sender, msg.Channel, msg.Time.Local().Format("2006-01-02 15:04:05"))
	if msg.Seq > 0 {
		header += fmt.Sprintf("[cyan]Seq:[white] %d\n", msg.Seq)
	}
	detail.SetText(header + "\n" + body)

	detail.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Rune() == 'q' {
			v.ui.CloseModal()
			v.ui.app.SetFocus(v.resultTable)
			return nil
		}
		return event
	})

	v.ui.ShowModal(components.Center(detail, 80, 24))
	v.ui.app.SetFocus(detail)
}

func (v *SearchView) saveSearch() {
	v.ui.ShowInputDialog("Save Search", "Search Name:", "", func(name string) {
		if name == "" {
			v.ui.ShowError("Search name cannot be empty")
			return
		}

		search := models.SavedSearch{
			Name:           name,
			ChannelPattern: v.channelPattern,
			Sender:         v.sender,
			Contains:       v.contains,
			AgeOp:          v.ageOp,
			AgeUnit:        v.ageUnit,
		}
		fmt.Sscanf(v.ageValue, "%d", &search.AgeValue)
		fmt.Sscanf(v.limit, "%d", &search.Limit)

		if err := v.saveSearchToFile(search); err != nil {
			v.ui.ShowError(fmt.Sprintf("Failed to save search: %v", err))
			return
		}

		modal := components.InfoModal(v.ui.theme, "Search Saved",
			fmt.Sprintf("Search '%s' saved to ~/.config/natter/searches.yaml", name),
			func() {
				v.ui.CloseModal()
			})
		v.ui.ShowModal(modal)
	})
}

func searchesPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "natter", "searches.yaml"), nil
}

func (v *SearchView) saveSearchToFile(search models.SavedSearch) error {
	path, err := searchesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var config models.SearchConfig
	if data, err := os.ReadFile(path); err == nil {
		yaml.Unmarshal(data, &config)
	}

	for _, s := range config.Searches {
		if s.Name == search.Name {
			return fmt.Errorf("search '%s' already exists", search.Name)
		}
	}
	config.Searches = append(config.Searches, search)

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal searches: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write searches file: %w", err)
	}
	return nil
}

func (v *SearchView) loadSavedSearches() ([]models.SavedSearch, error) {
	path, err := searchesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.SavedSearch{}, nil
		}
		return nil, err
	}

	var config models.SearchConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return config.Searches, nil
}

func (v *SearchView) showLoadSearchDialog() {
	savedSearches, err := v.loadSavedSearches()
	if err != nil {
		v.ui.ShowError(fmt.Sprintf("Failed to load searches: %v", err))
		return
	}
	if len(savedSearches) == 0 {
		v.ui.ShowError("No saved searches found.\n\nSave one first using 'Save Search'.")
		return
	}

	names := make([]string, len(savedSearches))
	for i, s := range savedSearches {
		names[i] = s.Name
	}

	selectForm := tview.NewForm()
	var selectedIndex int
	selectForm.AddDropDown("Saved Searches", names, 0, func(option string, optionIndex int) {
		selectedIndex = optionIndex
	})
	selectForm.AddButton("[ Load ]", func() {
		if selectedIndex >= 0 && selectedIndex < len(savedSearches) {
			v.ui.CloseModal()
			v.loadSearch(savedSearches[selectedIndex])
		}
	})
	selectForm.AddButton("[ Cancel ]", func() {
		v.ui.CloseModal()
	})
	selectForm.SetBorder(true).
		SetTitle(" Load Saved Search ").
		SetTitleAlign(tview.AlignCenter)

	v.ui.ShowModal(components.Center(selectForm, 50, 8))
	v.ui.app.SetFocus(selectForm)
}

func (v *SearchView) loadSearch(search models.SavedSearch) {
	v.channelPattern = search.ChannelPattern
	v.sender = search.Sender
	v.contains = search.Contains
	v.ageOp = search.AgeOp
	if search.AgeValue > 0 {
		v.ageValue = fmt.Sprintf("%d", search.AgeValue)
	} else {
		v.ageValue = ""
	}
	v.ageUnit = search.AgeUnit
	if search.Limit > 0 {
		v.limit = fmt.Sprintf("%d", search.Limit)
	}

	v.form.Clear(true)
	v.buildFormFields()
	v.ui.app.SetFocus(v.form)

	v.runSearch()
}

func (v *SearchView) clearSearch() {
	v.channelPattern = "*"
	v.sender = ""
	v.contains = ""
	v.ageOp = "any"
	v.ageValue = ""
	v.ageUnit = "h"
	v.limit = "100"
	v.results = nil

	v.form.Clear(true)
	v.buildFormFields()

	for row := v.resultTable.GetRowCount() - 1; row > 0; row-- {
		v.resultTable.RemoveRow(row)
	}
	v.updateStatus(0)

	v.ui.app.SetFocus(v.form)
	v.ui.app.ForceDraw()
}

// Show displays the search view.
func (v *SearchView) Show() {
	v.ui.currentPage = "search"
	v.ui.pages.SwitchToPage("search")
	v.ui.app.SetFocus(v.form)
	v.ui.footer.Update("Tab: Navigate fields  Enter: Activate/Open dropdown  Esc: Back")
}

// GetPrimitive returns the primitive for this view.
func (v *SearchView) GetPrimitive() tview.Primitive {
	return v.mainFlex
}

package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

const logDebounceInterval = 150 * time.Millisecond

type uiState struct {
	service *vibematch.Service
	cfgPath string
	cfg     vibematch.Config

	inputPath string

	w             fyne.Window
	log           *widget.Entry
	inputLabel    *widget.Label
	status        *widget.Label
	progress      *widget.ProgressBarInfinite
	configSummary *widget.Label
	resTbl        *widget.Table
	columns       []tableColumn
	rows          []vibematch.ResultRow
	statusBind    binding.String
	logBind       binding.String
	logs          *logBuffer
	logUpdateCh   chan struct{}

	matchBtn  *widget.Button
	exportBtn *widget.Button
	loadBtn   *widget.Button
}

func buildUI(a fyne.App, svc *vibematch.Service, cfgPath string, logs *logBuffer) *uiState {
	u := &uiState{service: svc, cfgPath: cfgPath, logs: logs}
	u.cfg = svc.Config()
	u.w = a.NewWindow("Vibematch")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Ready")
	u.logBind = binding.NewString()
	u.startLogUpdater()

	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.Disable()

	u.inputLabel = widget.NewLabel("No submissions file loaded")
	u.inputLabel.Wrapping = fyne.TextWrapBreak
	u.status = widget.NewLabelWithData(u.statusBind)
	u.progress = widget.NewProgressBarInfinite()
	u.progress.Hide()
	u.configSummary = widget.NewLabel("")
	u.configSummary.Wrapping = fyne.TextWrapWord

	u.loadBtn = widget.NewButtonWithIcon("Load submissions", theme.FolderOpenIcon(), func() { u.onLoadFile() })
	u.matchBtn = widget.NewButtonWithIcon("Match", theme.ConfirmIcon(), func() { u.onMatch() })
	u.exportBtn = widget.NewButtonWithIcon("Export CSV", theme.DocumentSaveIcon(), func() { u.onExport() })
	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), func() { u.openSettings() })
	u.matchBtn.Disable()

	u.columns = resultColumns(u.cfg.Aura.Enabled)
	u.resTbl = widget.NewTable(
		func() (int, int) { return len(u.rows) + 1, len(u.columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Col >= len(u.columns) {
				lbl.SetText("")
				return
			}
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(u.columns[id.Col].Title)
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			if id.Row-1 >= len(u.rows) {
				lbl.SetText("")
				return
			}
			lbl.SetText(u.columns[id.Col].Render(u.rows[id.Row-1]))
		},
	)
	u.resTbl.OnSelected = func(id widget.TableCellID) {
		if id.Row <= 0 || id.Row-1 >= len(u.rows) {
			return
		}
		u.showDetail(u.rows[id.Row-1])
	}
	u.applyColumnWidths()

	left := container.NewVBox(
		widget.NewLabelWithStyle("Submissions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.inputLabel,
		container.NewGridWithColumns(2, u.loadBtn, u.matchBtn),
		container.NewGridWithColumns(2, u.exportBtn, settingsBtn),
		widget.NewSeparator(),
		u.progress,
		u.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.configSummary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	leftPane := container.NewBorder(left, nil, nil, nil, u.log)
	split := container.NewHSplit(leftPane, u.resTbl)
	split.Offset = 0.3

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1280, 760))
	u.updateConfigSummary()
	return u
}

func (u *uiState) applyColumnWidths() {
	for i, col := range u.columns {
		u.resTbl.SetColumnWidth(i, col.Width)
	}
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.matchBtn.Disable()
			u.exportBtn.Disable()
			u.loadBtn.Disable()
			u.progress.Show()
			u.progress.Start()
			return
		}
		if u.inputPath != "" {
			u.matchBtn.Enable()
		}
		u.exportBtn.Enable()
		u.loadBtn.Enable()
		u.progress.Stop()
		u.progress.Hide()
	})
}

func (u *uiState) startLogUpdater() {
	if u.logUpdateCh != nil {
		return
	}
	u.logUpdateCh = make(chan struct{}, 1)
	u.logs.setOnChange(func() {
		select {
		case u.logUpdateCh <- struct{}{}:
		default:
		}
	})
	go u.logUpdateLoop()
}

// logUpdateLoop coalesces bursts of log lines into one pane refresh.
func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.logUpdateCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			_ = u.logBind.Set(u.logs.String())
		}
	}
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) updateConfigSummary() {
	u.configSummary.SetText(summarize(u.cfg))
}

func (u *uiState) onLoadFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		meta, err := vibematch.ReadInputFileMetadata(path)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.chooseColumns(path, meta)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv"}))
	fd.Show()
}

// chooseColumns lets the user confirm or override the detected columns.
func (u *uiState) chooseColumns(path string, meta vibematch.InputFileMetadata) {
	options := columnChoices(meta.Columns)
	picked := meta.Suggested
	fields := []struct {
		title string
		dst   *string
	}{
		{"Name", &picked.NameColumn},
		{"Class", &picked.GroupColumn},
		{"Gender", &picked.GenderColumn},
		{"Looking for", &picked.TargetColumn},
		{"Pickup line", &picked.TextColumn},
		{"Submitted at", &picked.TimeColumn},
		{"Effort", &picked.EffortColumn},
	}
	items := make([]*widget.FormItem, 0, len(fields))
	for _, f := range fields {
		dst := f.dst
		sel := widget.NewSelect(options, func(v string) { *dst = choiceValue(v) })
		sel.SetSelected(choiceLabel(*dst))
		items = append(items, widget.NewFormItem(f.title, sel))
	}

	dialog.NewForm("Columns: "+filepath.Base(path), "Use", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if picked.NameColumn == "" {
			dialog.ShowInformation("Columns", "A name column is required", u.w)
			return
		}
		cfg := u.cfg
		cfg.Columns = picked
		if err := u.service.UpdateConfig(cfg); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.cfg = u.service.Config()
		u.inputPath = path
		u.inputLabel.SetText(path)
		u.matchBtn.Enable()
		u.setStatus("Ready")
	}, u.w).Show()
}

func (u *uiState) onMatch() {
	if u.inputPath == "" {
		dialog.ShowInformation("Match", "Load a submissions file first", u.w)
		return
	}
	u.setBusy(true)
	u.setStatus("Matching...")
	start := time.Now()

	go func(path string, cols vibematch.InputParseOptions) {
		defer u.setBusy(false)
		subs, err := vibematch.ParseSubmissions(path, cols)
		if err == nil && len(subs) == 0 {
			err = fmt.Errorf("%s has no submissions", filepath.Base(path))
		}
		var rows []vibematch.ResultRow
		if err == nil {
			rows, err = u.service.Run(context.Background(), subs)
		}
		if err != nil {
			u.setStatus("Error")
			fyne.Do(func() { dialog.ShowError(err, u.w) })
			return
		}
		matched := 0
		for _, r := range rows {
			if r.Matched {
				matched++
			}
		}
		fyne.Do(func() {
			u.rows = rows
			u.resTbl.Refresh()
		})
		u.setStatus(fmt.Sprintf("%d people, %d paired (%.1fs)", len(rows), matched, time.Since(start).Seconds()))
	}(u.inputPath, u.cfg.Columns)
}

func (u *uiState) onExport() {
	if len(u.rows) == 0 {
		dialog.ShowInformation("Export", "Nothing to export yet", u.w)
		return
	}
	rows := u.rows
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := vibematch.EncodeResultsCSV(uc, rows); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.setStatus("Exported " + uc.URI().Name())
	}, u.w)
	fd.SetFileName(filepath.Base(u.cfg.Server.ResultsPath))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (u *uiState) showDetail(r vibematch.ResultRow) {
	text := fmt.Sprintf("%s (%s)\n\n%s", r.Name, r.Group, r.Text)
	if r.Matched {
		text += fmt.Sprintf("\n\nPaired with %s (%s)\n%s, %s, %.1f%%\n\n%s",
			r.MatchName, r.MatchGroup, r.Label, r.Fate, r.Score, r.Message)
	} else {
		text += "\n\n" + r.Message
	}
	lbl := widget.NewLabel(text)
	lbl.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom("Detail", "Close", container.NewVScroll(lbl), u.w)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}

func (u *uiState) openSettings() {
	in := settingsFrom(u.cfg.Matcher)

	strategySel := widget.NewSelect([]string{string(matcher.StrategyGreedy), string(matcher.StrategyShortlist)}, nil)
	strategySel.SetSelected(in.Strategy)
	sizeEntry := widget.NewEntry()
	sizeEntry.SetText(in.ShortlistSize)
	rerankEntry := widget.NewEntry()
	rerankEntry.SetText(in.RerankWeight)
	floorCheck := widget.NewCheck("Enabled", nil)
	floorCheck.SetChecked(in.FloorEnabled)
	floorEntry := widget.NewEntry()
	floorEntry.SetText(in.Floor)
	symbolicEntry := widget.NewEntry()
	symbolicEntry.SetText(in.Symbolic)
	temporalEntry := widget.NewEntry()
	temporalEntry.SetText(in.Temporal)
	effortCheck := widget.NewCheck("Scale by effort", nil)
	effortCheck.SetChecked(in.UseEffort)

	items := []*widget.FormItem{
		widget.NewFormItem("Strategy", strategySel),
		widget.NewFormItem("Shortlist size", sizeEntry),
		widget.NewFormItem("Rerank weight", rerankEntry),
		widget.NewFormItem("Floor", floorCheck),
		widget.NewFormItem("Floor value", floorEntry),
		widget.NewFormItem("Symbolic weight", symbolicEntry),
		widget.NewFormItem("Temporal weight", temporalEntry),
		widget.NewFormItem("Effort", effortCheck),
		widget.NewFormItem("", widget.NewLabel(embedderRestartNote)),
	}
	dialog.NewForm("Settings", "OK", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		form := settingsInput{
			Strategy:      strategySel.Selected,
			ShortlistSize: sizeEntry.Text,
			RerankWeight:  rerankEntry.Text,
			FloorEnabled:  floorCheck.Checked,
			Floor:         floorEntry.Text,
			Symbolic:      symbolicEntry.Text,
			Temporal:      temporalEntry.Text,
			UseEffort:     effortCheck.Checked,
		}
		mc, err := form.apply(u.cfg.Matcher)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		cfg := u.cfg
		cfg.Matcher = mc
		if err := u.service.UpdateConfig(cfg); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.cfg = u.service.Config()
		if err := vibematch.SaveConfig(u.cfgPath, cfg); err != nil {
			dialog.ShowError(fmt.Errorf("save config: %w", err), u.w)
		}
		u.updateConfigSummary()
	}, u.w).Show()
}

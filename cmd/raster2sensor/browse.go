package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rivo/tview"
)

// configureStyles sets the tview global styles for the browser.
// Note: This modifies global state in tview.Styles.
func configureStyles() {
	tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
	tview.Styles.ContrastBackgroundColor = tcell.ColorDarkSlateGray
	tview.Styles.BorderColor = tcell.ColorWhite
	tview.Styles.TitleColor = tcell.ColorWhite
	tview.Styles.PrimaryTextColor = tcell.ColorWhite
	tview.Styles.SecondaryTextColor = tcell.ColorYellow
}

// plotBrowser is a two-pane terminal view over a trial's plots: a list of
// plot names and the selected plot's GeoJSON.
type plotBrowser struct {
	app      *tview.Application
	list     *tview.List
	detail   *tview.TextView
	trialID  string
	features []*geojson.Feature
	current  int
}

func runBrowser(ctx context.Context, trialID string, features []*geojson.Feature) error {
	configureStyles()

	b := &plotBrowser{
		app:      tview.NewApplication(),
		list:     tview.NewList().ShowSecondaryText(true),
		detail:   tview.NewTextView().SetScrollable(true).SetWrap(false),
		trialID:  trialID,
		features: features,
	}

	b.list.SetBorder(true)
	b.list.SetTitle(fmt.Sprintf(" Plots: %s ", trialID))
	b.detail.SetBorder(true)
	b.detail.SetTitle(" GeoJSON ")

	for i, feature := range features {
		secondary := ""
		if feature.ID != nil {
			secondary = fmt.Sprintf("id: %v", feature.ID)
		}
		b.list.AddItem(featureLabel(feature, i), secondary, 0, nil)
	}
	b.list.SetWrapAround(false)
	b.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		b.showFeature(index)
	})
	b.showFeature(0)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]↑/↓[white] select  |  [yellow]s[white] save JSON  |  [yellow]q/Esc[white] quit")

	layout := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(b.detail, 0, 2, false)
	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(layout, 0, 1, true).
		AddItem(help, 1, 0, false)

	b.app.SetInputCapture(b.onInputCapture)

	// Stop the UI when the caller's context is cancelled.
	stop := context.AfterFunc(ctx, b.app.Stop)
	defer stop()

	return b.app.SetRoot(root, true).Run()
}

func (b *plotBrowser) showFeature(index int) {
	if index < 0 || index >= len(b.features) {
		return
	}
	b.current = index
	encoded, err := json.MarshalIndent(b.features[index], "", "  ")
	if err != nil {
		b.detail.SetText(fmt.Sprintf("failed to render JSON: %v", err))
		return
	}
	b.detail.SetText(string(encoded))
	b.detail.ScrollToBeginning()
}

func (b *plotBrowser) saveCurrent() {
	feature := b.features[b.current]
	encoded, err := json.MarshalIndent(feature, "", "  ")
	if err != nil {
		return
	}
	filename := fmt.Sprintf("%s_plot_%d.json", b.trialID, b.current+1)
	if err := os.WriteFile(filename, append(encoded, '\n'), 0o644); err != nil {
		b.detail.SetTitle(fmt.Sprintf(" GeoJSON (save failed: %v) ", err))
		return
	}
	b.detail.SetTitle(fmt.Sprintf(" GeoJSON (saved to %s) ", filename))
}

func (b *plotBrowser) onInputCapture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			b.app.Stop()
			return nil
		case 's', 'S':
			b.saveCurrent()
			return nil
		}
	}
	return event
}

func featureLabel(feature *geojson.Feature, index int) string {
	if name, ok := feature.Properties["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("plot-%d", index+1)
}

// Package dashboard renders the paginated catalog as an interactive terminal
// list that loads more items as the user scrolls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/torosent/scrollfeed/internal/catalog"
	"github.com/torosent/scrollfeed/internal/logger"
	"github.com/torosent/scrollfeed/internal/metrics"
	"github.com/torosent/scrollfeed/internal/paginator"
)

const (
	pageStep     = 10
	tickInterval = 150 * time.Millisecond
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Sharer shares an item outside the application.
type Sharer interface {
	Share(item catalog.Item) (string, error)
}

// Opener opens an item's link.
type Opener interface {
	Open(ctx context.Context, item catalog.Item) error
}

// Config holds display parameters.
type Config struct {
	Prefetch   int    // rows from the end that trigger the next fetch
	SourceName string // shown in the header
	ConfigFile string // path to config file if used
}

// Dashboard renders a live terminal list over a paginator.
type Dashboard struct {
	pager        *paginator.Paginator
	collector    *metrics.Collector
	sharer       Sharer
	opener       Opener
	log          *logger.Logger
	cfg          Config
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	// Widgets
	grid        *ui.Grid
	list        *widgets.List
	detailsPara *widgets.Paragraph
	headerPara  *widgets.Paragraph
	statusPara  *widgets.Paragraph

	// Owned by the run loop.
	pending  <-chan paginator.Result
	notices  chan string
	notice   string
	selected int
	frame    int
	rendered int
}

// New initializes the terminal and creates a Dashboard.
func New(pager *paginator.Paginator, collector *metrics.Collector, sharer Sharer, opener Opener, log *logger.Logger, cfg Config, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	d := newDashboard(pager, collector, sharer, opener, log, cfg, shutdownFunc)
	d.setupGrid()
	return d, nil
}

func newDashboard(pager *paginator.Paginator, collector *metrics.Collector, sharer Sharer, opener Opener, log *logger.Logger, cfg Config, shutdownFunc func()) *Dashboard {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Prefetch < 0 {
		cfg.Prefetch = 0
	}
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		pager:        pager,
		collector:    collector,
		sharer:       sharer,
		opener:       opener,
		log:          log.WithComponent("dashboard"),
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		notices:      make(chan string, 4),
	}
	d.initWidgets()
	return d
}

// initWidgets initializes all dashboard widgets.
func (d *Dashboard) initWidgets() {
	d.headerPara = widgets.NewParagraph()
	d.headerPara.Title = "Scrollfeed"
	d.headerPara.BorderStyle.Fg = ui.ColorCyan

	d.list = widgets.NewList()
	d.list.Title = "Articles"
	d.list.Rows = []string{"Loading..."}
	d.list.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.list.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorCyan)
	d.list.WrapText = false
	d.list.BorderStyle.Fg = ui.ColorCyan

	d.detailsPara = widgets.NewParagraph()
	d.detailsPara.Title = "Details"
	d.detailsPara.Text = "Nothing selected"
	d.detailsPara.BorderStyle.Fg = ui.ColorCyan

	d.statusPara = widgets.NewParagraph()
	d.statusPara.Title = "Status"
	d.statusPara.BorderStyle.Fg = ui.ColorCyan
}

// setupGrid configures the layout grid.
func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.12,
			ui.NewCol(1.0, d.headerPara),
		),
		ui.NewRow(0.72,
			ui.NewCol(0.6, d.list),
			ui.NewCol(0.4, d.detailsPara),
		),
		ui.NewRow(0.16,
			ui.NewCol(1.0, d.statusPara),
		),
	)
}

// Start begins the dashboard event loop and triggers the first fetch.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	if results, ok := d.pager.Start(d.ctx); ok {
		d.pending = results
	}
	d.update()
	d.render()

	for {
		select {
		case <-d.ctx.Done():
			return
		case e := <-uiEvents:
			if e.ID == "<Resize>" {
				payload := e.Payload.(ui.Resize)
				d.mu.Lock()
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				d.mu.Unlock()
				ui.Clear()
			} else {
				d.handleKey(e.ID)
			}
		case res := <-d.pending:
			d.complete(res)
		case msg := <-d.notices:
			d.notice = msg
		case <-ticker.C:
			d.frame++
		}
		d.update()
		d.render()
	}
}

// handleKey applies a key press. It runs on the loop goroutine.
func (d *Dashboard) handleKey(id string) {
	switch id {
	case "q", "<C-c>":
		if d.shutdownFunc != nil {
			d.shutdownFunc()
		}
		// Do not return here; wait for Stop() to cancel context
	case "j", "<Down>", "<MouseWheelDown>":
		d.move(1)
	case "k", "<Up>", "<MouseWheelUp>":
		d.move(-1)
	case "<PageDown>", "<C-d>":
		d.move(pageStep)
	case "<PageUp>", "<C-u>":
		d.move(-pageStep)
	case "g", "<Home>":
		d.move(-d.selected)
	case "G", "<End>":
		d.move(d.pager.Len())
	case "m":
		d.loadMore()
	case "s":
		d.share()
	case "o", "<Enter>":
		d.open()
	}
}

func (d *Dashboard) move(delta int) {
	d.selected = clampSelection(d.selected+delta, d.pager.Len())
	if shouldPrefetch(d.selected, d.pager.Len(), d.cfg.Prefetch) {
		d.fetch()
	}
}

// loadMore is the explicit "load more" command.
func (d *Dashboard) loadMore() {
	switch {
	case d.pending != nil:
		d.notice = "Already loading"
	case !d.pager.CanFetchMore():
		d.notice = "All items loaded"
	default:
		d.fetch()
	}
}

// fetch starts a fetch when none is pending. The read runs on a worker
// goroutine and its result comes back through d.pending.
func (d *Dashboard) fetch() bool {
	if d.pending != nil || !d.pager.CanFetchMore() {
		return false
	}
	results, ok := d.pager.FetchAsync(d.ctx)
	if !ok {
		return false
	}
	d.pending = results
	return true
}

func (d *Dashboard) complete(res paginator.Result) {
	d.pending = nil
	n, err := d.pager.Complete(res)
	if err != nil {
		if errors.Is(err, context.Canceled) && d.ctx.Err() != nil {
			return
		}
		d.notice = "Load failed: " + err.Error()
		return
	}
	d.log.WithField(logger.FieldCount, n).Debug("rows appended")
	if strings.HasPrefix(d.notice, "Load failed") {
		d.notice = ""
	}
	// A short first page may already sit inside the prefetch window.
	if shouldPrefetch(d.selected, d.pager.Len(), d.cfg.Prefetch) {
		d.fetch()
	}
}

func (d *Dashboard) share() {
	item, ok := d.pager.Item(d.selected)
	if !ok || d.sharer == nil {
		return
	}
	go func() {
		msg := "Copied link to clipboard: " + item.Title
		if _, err := d.sharer.Share(item); err != nil {
			d.log.WithError(err).WithField(logger.FieldItemID, item.ID).Warn("share failed")
			msg = "Could not share: " + err.Error()
		}
		d.postNotice(msg)
	}()
}

func (d *Dashboard) open() {
	item, ok := d.pager.Item(d.selected)
	if !ok || d.opener == nil {
		return
	}
	go func() {
		msg := "Opened " + item.URL
		if err := d.opener.Open(d.ctx, item); err != nil {
			d.log.WithError(err).WithField(logger.FieldItemID, item.ID).Warn("open failed")
			msg = "Could not open link: " + err.Error()
		}
		d.postNotice(msg)
	}()
}

func (d *Dashboard) postNotice(msg string) {
	select {
	case d.notices <- msg:
	case <-d.ctx.Done():
	}
}

// update refreshes widget data from the paginator and collector.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	visible := d.pager.Visible()
	if len(visible) > d.rendered || len(visible) == 0 {
		d.list.Rows = formatRows(visible, d.pager.Total())
		d.rendered = len(visible)
	}
	d.selected = clampSelection(d.selected, len(visible))
	d.list.SelectedRow = d.selected

	if item, ok := d.pager.Item(d.selected); ok {
		d.detailsPara.Text = formatDetails(item)
	} else {
		d.detailsPara.Text = "Nothing selected"
	}

	d.headerPara.Text = d.formatHeader()

	var stats metrics.Stats
	if d.collector != nil {
		stats = d.collector.Stats(d.collector.Elapsed())
	}
	d.statusPara.Text = formatStatus(len(visible), d.pager.Total(), d.pager.Loading(), d.frame, stats, d.notice)
}

// render draws all widgets to the screen.
func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

func (d *Dashboard) formatHeader() string {
	parts := []string{fmt.Sprintf("Source: %s", orDefault(d.cfg.SourceName, "builtin"))}
	parts = append(parts, fmt.Sprintf("Batch: %d", d.pager.BatchSize()))
	parts = append(parts, fmt.Sprintf("Prefetch: %d", d.cfg.Prefetch))
	if d.cfg.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", d.cfg.ConfigFile))
	}
	return strings.Join(parts, " | ") + "\n[j/k](fg:yellow) move  [m](fg:yellow) more  [s](fg:yellow) share  [o](fg:yellow) open  [q](fg:yellow) quit"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// shouldPrefetch reports whether the selection is within prefetch rows of
// the end of the visible list.
func shouldPrefetch(selected, visible, prefetch int) bool {
	if visible == 0 {
		return true
	}
	return selected >= visible-1-prefetch
}

func clampSelection(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func formatRows(items []catalog.Item, total int) []string {
	if len(items) == 0 {
		if total == 0 {
			return []string{"[No items](fg:yellow)"}
		}
		return []string{"Loading..."}
	}
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = formatItemRow(i, item)
	}
	return rows
}

func formatItemRow(i int, item catalog.Item) string {
	return fmt.Sprintf("%3d. %s [%s](fg:cyan)", i+1, escapeMarkup(item.Title), escapeMarkup(item.Author))
}

// escapeMarkup keeps brackets in data from being parsed as termui styles.
func escapeMarkup(s string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(s)
}

func formatDetails(item catalog.Item) string {
	lines := []string{
		fmt.Sprintf("[%s](mod:bold)", escapeMarkup(item.Title)),
		"",
		fmt.Sprintf("Author:  %s", item.Author),
		fmt.Sprintf("Avatar:  %s", item.AvatarPath()),
	}
	if !item.PublicationDate.IsZero() {
		lines = append(lines, fmt.Sprintf("Date:    %s", item.PublicationDate.Format("January 2, 2006")))
	}
	if item.ImageKey != "" {
		lines = append(lines, fmt.Sprintf("Image:   %s", item.ImageKey))
	}
	if item.URL != "" {
		lines = append(lines, fmt.Sprintf("Link:    %s", item.URL))
	}
	return strings.Join(lines, "\n")
}

func formatStatus(loaded, total int, loading bool, frame int, stats metrics.Stats, notice string) string {
	state := "scroll down or press m for more"
	switch {
	case loading:
		state = fmt.Sprintf("[%s loading](fg:yellow)", spinnerFrames[frame%len(spinnerFrames)])
	case loaded >= total:
		state = "[all loaded](fg:green)"
	}
	line := fmt.Sprintf("Loaded %d/%d | %s | Batches: %d | Fetch P99: %.1fms", loaded, total, state, stats.Batches, stats.P99LatencyMs)
	if stats.Failures > 0 {
		line += fmt.Sprintf(" | [Failures: %d](fg:red)", stats.Failures)
	}
	if notice != "" {
		line += "\n" + escapeMarkup(notice)
	}
	return line
}

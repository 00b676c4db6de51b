package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/mlehnert/stickerforge/pkg/errors"
	"github.com/mlehnert/stickerforge/pkg/editor"
	"github.com/mlehnert/stickerforge/pkg/genai"
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/render"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// Editor styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	editorFusedStyle    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	editorChainStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	editorBrokenStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorSingleStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorSelectedStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	editorCursorStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	editorCropStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	editorBorderStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim)
)

// Terminal cells are not square, so the canvas maps each cell to a
// cellW x cellH pixel block for distance and size calculations.
const (
	cellW = 8.0
	cellH = 16.0
)

// Canvas rows reserved above/below the bordered canvas in the layout.
const (
	canvasTop    = 2 // title + palette bar
	canvasChrome = 7 // title, palette, border x2, status x2, help
)

// =============================================================================
// Messages
// =============================================================================

// editResultMsg carries the outcome of an asynchronous apply (generation
// or crop) back to the event loop.
type editResultMsg struct {
	artifact []byte
	err      error
	verb     string // "stickers", "crop", "adjustment"
}

// editTickMsg drives the busy spinner animation.
type editTickMsg time.Time

func editTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return editTickMsg(t)
	})
}

// =============================================================================
// EditorModel - Interactive photo editor
// =============================================================================

// dispatchSlot is shared between model copies so the action binding's
// procedures can hand a command back to the event loop.
type dispatchSlot struct {
	cmd tea.Cmd
}

// editorModel is the bubbletea model for the interactive editor.
type editorModel struct {
	cli    *CLI
	ctx    context.Context
	doc    *editor.Document
	client *genai.Client
	slot   *dispatchSlot

	photo    string
	savePath string
	srcW     int // source image pixel dimensions, for crop mapping
	srcH     int

	palette []string
	palIdx  int

	canvasW int
	canvasH int
	cursorX int
	cursorY int

	// keyboard gesture accumulators
	resizeDelta float64
	rotateAngle float64

	// crop anchor (first corner), cell coordinates
	cropAnchorX int
	cropAnchorY int
	cropAnchor  bool
	mouseRotate bool

	frame   int
	status  string
	failure string
}

// newEditorModel loads the photo into a fresh document and prepares the
// editor state.
func newEditorModel(ctx context.Context, c *CLI, photo string, artifact []byte, savePath string, noCache bool) (editorModel, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(artifact))
	if err != nil {
		return editorModel{}, apperrors.Wrap(apperrors.ErrCodeDecode, err, "%s is not a decodable image", photo)
	}

	doc := editor.NewDocument()
	doc.SetPlacementSize(c.Config.Editor.DefaultSize)
	doc.LoadArtifact(artifact)

	palette := c.Config.Editor.Palette
	if len(palette) > 0 {
		doc.SelectTag(palette[0])
	}

	return editorModel{
		cli:      c,
		ctx:      ctx,
		doc:      doc,
		client:   c.newGenClient(ctx, noCache),
		slot:     &dispatchSlot{},
		photo:    photo,
		savePath: savePath,
		srcW:     cfg.Width,
		srcH:     cfg.Height,
		palette:  palette,
		canvasW:  78,
		canvasH:  20,
	}, nil
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// =============================================================================
// Update
// =============================================================================

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvasW = msg.Width - 2
		m.canvasH = msg.Height - canvasChrome
		if m.canvasW < 20 {
			m.canvasW = 20
		}
		if m.canvasH < 8 {
			m.canvasH = 8
		}
		m.clampCursor()
		if m.cropAnchor {
			m.cropAnchorX = int(geo.Clamp(float64(m.cropAnchorX), 0, float64(m.canvasW-1)))
			m.cropAnchorY = int(geo.Clamp(float64(m.cropAnchorY), 0, float64(m.canvasH-1)))
		}
		m.doc.SetContainer(geo.Container{
			Width:  float64(m.canvasW) * cellW,
			Height: float64(m.canvasH) * cellH,
		})
		return m, nil

	case editTickMsg:
		if !m.doc.Busy() {
			return m, nil
		}
		m.frame++
		return m, editTick()

	case editResultMsg:
		m.doc.SetBusy(false)
		if msg.err != nil {
			m.failure = fmt.Sprintf("Failed to apply the %s. %s", msg.verb, apperrors.UserMessage(msg.err))
			return m, nil
		}
		m.doc.CommitArtifact(msg.artifact)
		m.palIdx = 0
		if len(m.palette) > 0 {
			m.doc.SelectTag(m.palette[0])
		}
		m.failure = ""
		m.status = fmt.Sprintf("Applied the %s (history %d/%d)", msg.verb, m.doc.HistoryCursor()+1, m.doc.HistoryLen())
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit always works, even mid-generation (the call is abandoned).
	if key == "ctrl+c" || (key == "q" && !m.promptTool()) {
		return m, tea.Quit
	}
	if m.doc.Busy() {
		return m, nil
	}

	m.status = ""

	switch key {
	case "tab":
		m.cycleTool()
		return m, nil
	case "ctrl+z":
		m.undo()
		return m, nil
	case "ctrl+y":
		m.redo()
		return m, nil
	}

	if m.promptTool() {
		return m.updatePromptKey(msg)
	}

	switch key {
	case "u":
		m.undo()
	case "r":
		m.redo()
	case "a", "enter":
		if m.doc.Tool() == editor.ToolCrop && key == "enter" {
			m.anchorCrop()
			return m, nil
		}
		if key == "enter" && m.doc.Tool() == editor.ToolStickers {
			if _, g := m.doc.Gesture().(editor.GestureNone); !g {
				m.endGesture()
				return m, nil
			}
			m.place()
			return m, nil
		}
		return m.apply()
	case " ":
		switch m.doc.Tool() {
		case editor.ToolStickers:
			m.place()
		case editor.ToolCrop:
			m.anchorCrop()
		}
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "[":
		m.cyclePalette(-1)
	case "]":
		m.cyclePalette(1)
	case "n":
		m.cycleSelection(1)
	case "p":
		m.cycleSelection(-1)
	case "g":
		m.toggleGesture(func(id string) { m.doc.BeginDrag(id) })
	case "s":
		m.resizeDelta = 0
		m.toggleGesture(func(id string) { m.doc.BeginResize(id, 0) })
	case "o":
		m.rotateAngle = 0
		m.toggleGesture(func(id string) { m.doc.BeginRotate(id, 0) })
	case "esc":
		m.endGesture()
		m.cropAnchor = false
		m.doc.ClearCropRegion()
	case "x":
		if id := m.doc.Selection(); id != "" {
			m.doc.BreakChainLink(id)
		}
	case "d", "delete", "backspace":
		if id := m.doc.Selection(); id != "" {
			m.doc.Delete(id)
		}
	case "i":
		if mk, ok := m.doc.Marker(m.doc.Selection()); ok {
			m.doc.SetImpact(mk.ID, mk.Impact.Next())
		}
	}
	return m, nil
}

// updatePromptKey routes printable input into the instruction text for
// the filters and adjust tools.
func (m editorModel) updatePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.apply()
	case "esc":
		m.doc.SetPrompt("")
	case "backspace":
		if r := []rune(m.doc.Prompt()); len(r) > 0 {
			m.doc.SetPrompt(string(r[:len(r)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.doc.SetPrompt(m.doc.Prompt() + string(msg.Runes))
		} else if msg.Type == tea.KeySpace {
			m.doc.SetPrompt(m.doc.Prompt() + " ")
		}
	}
	return m, nil
}

func (m editorModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.doc.Busy() {
		return m, nil
	}
	cx, cy := msg.X-1, msg.Y-canvasTop-1
	if cx < 0 || cy < 0 || cx >= m.canvasW || cy >= m.canvasH {
		return m, nil
	}
	m.cursorX, m.cursorY = cx, cy

	switch msg.Action {
	case tea.MouseActionPress:
		// Right button on a marker starts a pointer rotation around its
		// center.
		if msg.Button == tea.MouseButtonRight && m.doc.Tool() == editor.ToolStickers {
			if id := m.markerAt(cx, cy); id != "" {
				m.doc.Select(id)
				px, py := m.pointerPixels(cx, cy)
				mx, my := m.markerPixels(id)
				m.doc.BeginRotate(id, geo.Angle(px, py, mx, my))
				m.mouseRotate = true
			}
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch m.doc.Tool() {
		case editor.ToolStickers:
			if id := m.markerAt(cx, cy); id != "" {
				m.doc.Select(id)
				m.doc.BeginDrag(id)
			} else {
				m.place()
			}
		case editor.ToolCrop:
			m.anchorCrop()
		}
	case tea.MouseActionMotion:
		switch g := m.doc.Gesture().(type) {
		case editor.Dragging:
			m.doc.UpdateDrag(m.cellToPercent(cx, cy))
		case editor.Rotating:
			if m.mouseRotate {
				px, py := m.pointerPixels(cx, cy)
				mx, my := m.markerPixels(g.ID)
				m.doc.UpdateRotate(geo.Angle(px, py, mx, my))
			}
		}
	case tea.MouseActionRelease:
		m.endGesture()
	}
	return m, nil
}

// pointerPixels maps a canvas cell to the pixel position of its center.
func (m editorModel) pointerPixels(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * cellW, (float64(cy) + 0.5) * cellH
}

// markerPixels returns a marker's center in container pixel space.
func (m editorModel) markerPixels(id string) (float64, float64) {
	mk, ok := m.doc.Marker(id)
	if !ok {
		return 0, 0
	}
	c := m.doc.Container()
	return mk.Pos.X / 100 * c.Width, mk.Pos.Y / 100 * c.Height
}

// =============================================================================
// State Transitions
// =============================================================================

func (m *editorModel) promptTool() bool {
	t := m.doc.Tool()
	return t == editor.ToolFilters || t == editor.ToolAdjust
}

func (m *editorModel) cycleTool() {
	order := []editor.Tool{editor.ToolStickers, editor.ToolCrop, editor.ToolFilters, editor.ToolAdjust}
	cur := m.doc.Tool()
	for i, t := range order {
		if t == cur {
			m.doc.SetTool(order[(i+1)%len(order)])
			break
		}
	}
	m.doc.EndGesture()
	m.cropAnchor = false
	m.doc.RefreshBinding(m.actions())
}

func (m *editorModel) cyclePalette(step int) {
	if len(m.palette) == 0 {
		return
	}
	m.palIdx = (m.palIdx + step + len(m.palette)) % len(m.palette)
	m.doc.SelectTag(m.palette[m.palIdx])
}

func (m *editorModel) cycleSelection(step int) {
	markers := m.doc.Markers()
	if len(markers) == 0 {
		return
	}
	cur := -1
	for i, mk := range markers {
		if mk.ID == m.doc.Selection() {
			cur = i
			break
		}
	}
	next := (cur + step + len(markers) + 1) % (len(markers) + 1)
	if next == len(markers) {
		next = 0
	}
	if cur == -1 {
		next = 0
	}
	m.doc.Select(markers[next].ID)
}

func (m *editorModel) place() {
	if id := m.doc.Place(m.cellToPercent(m.cursorX, m.cursorY)); id != "" {
		m.doc.Select(id)
		m.doc.RefreshBinding(m.actions())
	}
}

// toggleGesture starts the gesture on the selection, or ends the one in
// progress. Starting while another gesture is active replaces it.
func (m *editorModel) toggleGesture(begin func(id string)) {
	if _, none := m.doc.Gesture().(editor.GestureNone); !none {
		m.endGesture()
		return
	}
	if id := m.doc.Selection(); id != "" {
		begin(id)
	}
}

func (m *editorModel) endGesture() {
	m.doc.EndGesture()
	m.resizeDelta = 0
	m.rotateAngle = 0
	m.mouseRotate = false
}

// move feeds arrow input either to the active gesture or to the cursor.
func (m *editorModel) move(dx, dy int) {
	switch m.doc.Gesture().(type) {
	case editor.Dragging:
		if mk, ok := m.doc.Marker(m.doc.Selection()); ok {
			m.doc.UpdateDrag(geo.Pos{
				X: mk.Pos.X + float64(dx)*100/float64(m.canvasW),
				Y: mk.Pos.Y + float64(dy)*100/float64(m.canvasH),
			})
		}
	case editor.Resizing:
		m.resizeDelta += float64(dx) * cellW
		m.doc.UpdateResize(m.resizeDelta)
	case editor.Rotating:
		m.rotateAngle += float64(dx) * math.Pi / 12
		m.doc.UpdateRotate(m.rotateAngle)
	default:
		m.cursorX += dx
		m.cursorY += dy
		m.clampCursor()
	}
}

func (m *editorModel) clampCursor() {
	m.cursorX = int(geo.Clamp(float64(m.cursorX), 0, float64(m.canvasW-1)))
	m.cursorY = int(geo.Clamp(float64(m.cursorY), 0, float64(m.canvasH-1)))
}

// anchorCrop records the first corner, then completes the region on the
// second press.
func (m *editorModel) anchorCrop() {
	if !m.cropAnchor {
		m.cropAnchorX, m.cropAnchorY = m.cursorX, m.cursorY
		m.cropAnchor = true
		m.doc.ClearCropRegion()
		return
	}
	m.cropAnchor = false
	x0, x1 := m.cropAnchorX, m.cursorX
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := m.cropAnchorY, m.cursorY
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	m.doc.SetCropRegion(editor.CropRegion{
		X:      float64(x0) * cellW,
		Y:      float64(y0) * cellH,
		Width:  float64(x1-x0+1) * cellW,
		Height: float64(y1-y0+1) * cellH,
	})
	m.doc.RefreshBinding(m.actions())
}

func (m *editorModel) undo() {
	if m.doc.Undo() {
		m.status = fmt.Sprintf("Undo (history %d/%d)", m.doc.HistoryCursor()+1, m.doc.HistoryLen())
	}
}

func (m *editorModel) redo() {
	if m.doc.Redo() {
		m.status = fmt.Sprintf("Redo (history %d/%d)", m.doc.HistoryCursor()+1, m.doc.HistoryLen())
	}
}

// =============================================================================
// Apply Dispatch
// =============================================================================

// actions builds the tool-specific commit procedures. Each validates and
// assembles its request synchronously, then hands the asynchronous part
// to the event loop through the dispatch slot.
func (m editorModel) actions() editor.Actions {
	doc, slot, client, ctx := m.doc, m.slot, m.client, m.ctx
	scale := m.cropScale()
	return editor.Actions{
		ApplyStickers: func() error {
			placements := genai.Placements(doc.Markers(), doc.Relationships())
			req := genai.Request{Artifact: doc.CurrentArtifact(), Placements: placements}
			slot.cmd = func() tea.Msg {
				out, err := client.Generate(ctx, req)
				return editResultMsg{artifact: out, err: err, verb: "stickers"}
			}
			return nil
		},
		ApplyCrop: func() error {
			r := doc.CropRegion()
			if r == nil {
				return apperrors.New(apperrors.ErrCodeInvalidRegion, "no crop region selected")
			}
			rect := render.DisplayToSource(r.X, r.Y, r.Width, r.Height, scale)
			artifact := doc.CurrentArtifact()
			slot.cmd = func() tea.Msg {
				out, err := render.Crop(artifact, rect)
				return editResultMsg{artifact: out, err: err, verb: "crop"}
			}
			return nil
		},
		ApplyPrompt: func(prompt string) error {
			req := genai.Request{Artifact: doc.CurrentArtifact(), Instruction: prompt}
			slot.cmd = func() tea.Msg {
				out, err := client.Generate(ctx, req)
				return editResultMsg{artifact: out, err: err, verb: "adjustment"}
			}
			return nil
		},
	}
}

// apply fires the current tool's commit action if it is enabled.
func (m editorModel) apply() (tea.Model, tea.Cmd) {
	m.slot.cmd = nil
	b := m.doc.RefreshBinding(m.actions())
	if !b.Enabled {
		m.status = "Nothing to apply"
		return m, nil
	}
	if err := b.Action(); err != nil {
		m.failure = apperrors.UserMessage(err)
		return m, nil
	}
	if m.slot.cmd == nil {
		return m, nil
	}
	m.doc.SetBusy(true)
	m.doc.RefreshBinding(m.actions())
	m.failure = ""
	m.status = ""
	return m, tea.Batch(m.slot.cmd, editTick())
}

// cropScale converts display-space pixels to source-image pixels.
func (m editorModel) cropScale() float64 {
	c := m.doc.Container()
	if !c.Valid() {
		return 1
	}
	return float64(m.srcW) / c.Width
}

// =============================================================================
// Geometry Mapping
// =============================================================================

func (m editorModel) cellToPercent(cx, cy int) geo.Pos {
	return geo.Pos{
		X: float64(cx) / float64(m.canvasW-1) * 100,
		Y: float64(cy) / float64(m.canvasH-1) * 100,
	}
}

func (m editorModel) percentToCell(p geo.Pos) (int, int) {
	cx := int(math.Round(p.X / 100 * float64(m.canvasW-1)))
	cy := int(math.Round(p.Y / 100 * float64(m.canvasH-1)))
	return cx, cy
}

// markerAt returns the topmost marker whose cell footprint covers the
// given cell, or "".
func (m editorModel) markerAt(cx, cy int) string {
	markers := m.doc.Markers()
	for i := len(markers) - 1; i >= 0; i-- {
		mx, my := m.percentToCell(markers[i].Pos)
		rw := int(math.Max(markers[i].Size/cellW/2, 1))
		rh := int(math.Max(markers[i].Size/cellH/2, 1))
		if abs(cx-mx) <= rw && abs(cy-my) <= rh {
			return markers[i].ID
		}
	}
	return ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// View
// =============================================================================

var editSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.toolLine())
	b.WriteString("\n")
	b.WriteString(editorBorderStyle.Render(m.canvas()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.helpLine()))

	return b.String()
}

func (m editorModel) titleLine() string {
	title := StyleTitle.Render(appName) + " " + StyleDim.Render(filepath.Base(m.photo))
	hist := StyleDim.Render(fmt.Sprintf("history %d/%d", m.doc.HistoryCursor()+1, m.doc.HistoryLen()))
	if m.doc.Busy() {
		hist = styleIconSpinner.Render(editSpinnerFrames[m.frame%len(editSpinnerFrames)]) + " " + StyleHighlight.Render("applying…")
	}
	return title + "  " + hist
}

func (m editorModel) toolLine() string {
	var b strings.Builder
	b.WriteString(StyleDim.Render("tool "))
	b.WriteString(StyleHighlight.Render(string(m.doc.Tool())))
	b.WriteString("  ")

	switch m.doc.Tool() {
	case editor.ToolStickers:
		for i, tag := range m.palette {
			if i == m.palIdx {
				b.WriteString(listSelectedStyle.Render("[" + tag + "]"))
			} else {
				b.WriteString(listDimStyle.Render(" " + tag + " "))
			}
		}
	case editor.ToolCrop:
		if r := m.doc.CropRegion(); r != nil {
			b.WriteString(StyleValue.Render(fmt.Sprintf("region %.0f,%.0f %gx%g", r.X, r.Y, r.Width, r.Height)))
		} else if m.cropAnchor {
			b.WriteString(StyleDim.Render("corner set, move and press space to complete"))
		} else {
			b.WriteString(StyleDim.Render("press space to set the first corner"))
		}
	case editor.ToolFilters, editor.ToolAdjust:
		b.WriteString(StyleValue.Render(m.doc.Prompt()))
		b.WriteString(editorCursorStyle.Render("▏"))
	}
	return b.String()
}

func (m editorModel) canvas() string {
	type cellStyle struct {
		ch    string
		style lipgloss.Style
	}
	grid := make([][]cellStyle, m.canvasH)
	for y := range grid {
		grid[y] = make([]cellStyle, m.canvasW)
		for x := range grid[y] {
			grid[y][x] = cellStyle{ch: " "}
		}
	}

	// crop region shading under everything else
	if m.doc.Tool() == editor.ToolCrop {
		if r := m.doc.CropRegion(); r != nil {
			x0, y0 := int(r.X/cellW), int(r.Y/cellH)
			x1, y1 := int((r.X+r.Width)/cellW)-1, int((r.Y+r.Height)/cellH)-1
			for y := y0; y <= y1 && y < m.canvasH; y++ {
				for x := x0; x <= x1 && x < m.canvasW; x++ {
					if y >= 0 && x >= 0 {
						grid[y][x] = cellStyle{ch: "░", style: editorCropStyle}
					}
				}
			}
		} else if m.cropAnchor {
			grid[m.cropAnchorY][m.cropAnchorX] = cellStyle{ch: "┌", style: editorCropStyle}
		}
	}

	rel := m.doc.Relationships()
	fused := map[string]bool{}
	for _, comp := range rel.Fusions {
		for _, id := range comp {
			fused[id] = true
		}
	}
	chained := map[string]bool{}
	for _, comp := range rel.Chains {
		for _, id := range comp {
			chained[id] = true
		}
	}
	broken := m.doc.BrokenLinks()

	for _, mk := range m.doc.Markers() {
		cx, cy := m.percentToCell(mk.Pos)
		if cx < 0 || cy < 0 || cx >= m.canvasW || cy >= m.canvasH {
			continue
		}
		style := editorSingleStyle
		switch {
		case mk.ID == m.doc.Selection():
			style = editorSelectedStyle
		case fused[mk.ID]:
			style = editorFusedStyle
		case chained[mk.ID]:
			style = editorChainStyle
		case broken[mk.ID]:
			style = editorBrokenStyle
		}
		ch := string([]rune(mk.Tag)[0])
		grid[cy][cx] = cellStyle{ch: ch, style: style}
	}

	// cursor on top, only for cursor-driven tools
	if m.doc.Tool() == editor.ToolStickers || m.doc.Tool() == editor.ToolCrop {
		if grid[m.cursorY][m.cursorX].ch == " " {
			grid[m.cursorY][m.cursorX] = cellStyle{ch: "+", style: editorCursorStyle}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteString("\n")
		}
		for _, c := range row {
			b.WriteString(c.style.Render(c.ch))
		}
	}
	return b.String()
}

func (m editorModel) statusLine() string {
	rel := m.doc.Relationships()
	singles := m.doc.MarkerCount()
	claimed := rel.Claimed()
	for _, mk := range m.doc.Markers() {
		if claimed[mk.ID] {
			singles--
		}
	}
	parts := []string{
		fmt.Sprintf("%d fusions", len(rel.Fusions)),
		fmt.Sprintf("%d chains", len(rel.Chains)),
		fmt.Sprintf("%d singles", singles),
	}
	line := StyleDim.Render(strings.Join(parts, " · "))

	if mk, ok := m.doc.Marker(m.doc.Selection()); ok {
		sel := fmt.Sprintf("%s %s %.0fpx %.0f° %s",
			mk.Tag, sticker.Categorize(mk.Size), mk.Size, mk.Rotation, mk.Impact)
		line += "  " + StyleValue.Render(sel)
	}
	if g := m.doc.Gesture(); g.TargetID() != "" {
		switch g.(type) {
		case editor.Dragging:
			line += "  " + StyleHighlight.Render("dragging")
		case editor.Resizing:
			line += "  " + StyleHighlight.Render("resizing")
		case editor.Rotating:
			line += "  " + StyleHighlight.Render("rotating")
		}
	}
	return line
}

func (m editorModel) messageLine() string {
	if m.failure != "" {
		return styleIconError.Render(iconError) + " " + m.failure
	}
	if m.status != "" {
		return styleIconInfo.Render(iconInfo) + " " + m.status
	}
	return ""
}

func (m editorModel) helpLine() string {
	switch m.doc.Tool() {
	case editor.ToolStickers:
		return "space place  [/] tag  n/p select  g drag  s resize  o rotate  x break  d delete  i impact  a apply  u/r undo/redo  tab tool  q quit"
	case editor.ToolCrop:
		return "space corner  a apply  esc clear  u/r undo/redo  tab tool  q quit"
	default:
		return "type instruction  enter apply  esc clear  ctrl+z/ctrl+y undo/redo  tab tool  ctrl+c quit"
	}
}

// =============================================================================
// Exit
// =============================================================================

// finish writes any requested outputs after the editor closes: the marker
// document (when --save was given) and the edited photo when history
// advanced past the original.
func (m editorModel) finish() error {
	if m.savePath != "" {
		set := sticker.Set{
			Markers:   m.doc.Markers(),
			Container: m.doc.Container(),
		}
		for id := range m.doc.BrokenLinks() {
			set.Broken = append(set.Broken, id)
		}
		if err := sticker.WriteSetFile(set, m.savePath); err != nil {
			return err
		}
		printSuccess("Saved marker document")
		printFile(m.savePath)
	}

	if m.doc.HistoryLen() > 1 {
		ext := filepath.Ext(m.photo)
		out := strings.TrimSuffix(m.photo, ext) + "-edited.png"
		if err := os.WriteFile(out, m.doc.CurrentArtifact(), 0644); err != nil {
			return err
		}
		printSuccess("Saved edited photo")
		printFile(out)
	}
	return nil
}

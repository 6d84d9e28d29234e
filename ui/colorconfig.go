package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"checkers-local/config"
	"checkers-local/types"
)

// ColorConfigUI provides a square color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()
	onSaveErr func(error)

	selectedLight int
	selectedDark  int
	editingDark   bool // true = editing dark squares, false = editing light squares
}

type paletteEntry struct {
	code int
	name string
}

var lightSquareColors = []paletteEntry{
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{223, "Peach"},
	{222, "Gold"},
	{187, "Wheat"},
	{188, "Light Beige"},
	{180, "Tan"},
	{252, "Light Gray"},
	{250, "Gray"},
	{194, "Mint"},
	{153, "Sky"},
	{216, "Salmon"},
}

var darkSquareColors = []paletteEntry{
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{136, "Dark Brown"},
	{88, "Dark Red"},
	{52, "Dark Maroon"},
	{22, "Dark Green"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{17, "Navy Blue"},
	{54, "Purple"},
	{236, "Dark Gray"},
	{240, "Gray"},
}

// NewColorConfig creates a new color configuration screen.
// onSaveErr is called when writing the config file fails.
func NewColorConfig(cfg *config.Config, onDone func(), onSaveErr func(error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:           cfg,
		onDone:        onDone,
		onSaveErr:     onSaveErr,
		selectedLight: cfg.Theme.Colors.LightSquare,
		selectedDark:  cfg.Theme.Colors.DarkSquare,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.SetBorderColor(MenuColors.BorderFocus)
	cc.colorList.SetTitleColor(MenuColors.Title)
	cc.colorList.SetSelectedBackgroundColor(MenuColors.Selected)
	cc.colorList.ShowSecondaryText(false)

	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.preselect(index)
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.preselect(index)
		cc.apply()
		if cc.editingDark {
			cc.editingDark = false
			cc.populateColorList()
			return
		}
		if cc.onDone != nil {
			cc.onDone()
		}
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetBorderColor(MenuColors.Border)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) entries() []paletteEntry {
	if cc.editingDark {
		return darkSquareColors
	}
	return lightSquareColors
}

// preselect updates the preview selection without saving.
func (cc *ColorConfigUI) preselect(index int) {
	entries := cc.entries()
	if index < 0 || index >= len(entries) {
		return
	}
	if cc.editingDark {
		cc.selectedDark = entries[index].code
	} else {
		cc.selectedLight = entries[index].code
	}
}

// apply stores the previewed colors in the config and saves it.
func (cc *ColorConfigUI) apply() {
	cc.cfg.Theme.Colors.LightSquare = cc.selectedLight
	cc.cfg.Theme.Colors.DarkSquare = cc.selectedDark
	if err := cc.cfg.Save(); err != nil && cc.onSaveErr != nil {
		cc.onSaveErr(err)
	}
}

func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedLight
	if cc.editingDark {
		cc.colorList.SetTitle(" Dark Squares (Tab: light) ")
		current = cc.selectedDark
	} else {
		cc.colorList.SetTitle(" Light Squares (Tab: dark) ")
	}
	for i, c := range cc.entries() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.entries() {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// previewPieces is a fixed midgame position shown in the preview.
var previewPieces = map[types.Pos]types.Color{
	{Row: 0, Col: 1}: types.Black,
	{Row: 1, Col: 2}: types.Black,
	{Row: 2, Col: 3}: types.Black,
	{Row: 3, Col: 4}: types.White,
	{Row: 4, Col: 1}: types.White,
	{Row: 5, Col: 2}: types.White,
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const size = 6
	if width < size*cellWidth+4 || height < size+4 {
		return x, y, width, height
	}
	light := tcell.PaletteColor(cc.selectedLight)
	dark := tcell.PaletteColor(cc.selectedDark)
	blackFg := tcell.PaletteColor(cc.cfg.Theme.Colors.BlackPiece)
	whiteFg := tcell.PaletteColor(cc.cfg.Theme.Colors.WhitePiece)

	startX := x + 2
	startY := y + 1
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			p := types.Pos{Row: row, Col: col}
			style := tcell.StyleDefault.Background(light)
			if p.Playable() {
				style = style.Background(dark)
			}
			r := ' '
			switch previewPieces[p] {
			case types.Black:
				r = rune(cc.cfg.Theme.Symbols.BlackPiece)
				style = style.Foreground(blackFg)
			case types.White:
				r = rune(cc.cfg.Theme.Symbols.WhitePiece)
				style = style.Foreground(whiteFg)
			}
			drawPieceCell(screen, style, r, startX+col*cellWidth, startY+row)
		}
	}

	info := fmt.Sprintf("Light: %d  Dark: %d", cc.selectedLight, cc.selectedDark)
	infoStyle := tcell.StyleDefault.Foreground(MenuColors.Hint)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+size+1, ch, nil, infoStyle)
		}
	}
	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between light and dark square editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingDark = !cc.editingDark
	cc.populateColorList()
}

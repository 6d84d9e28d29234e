package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the palette for frames and secondary screens.
var MenuColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	BorderFocus tcell.Color // Brighter blue for focused borders
	Title       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	ModalBG     tcell.Color
	ModalText   tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	Title:       tcell.PaletteColor(255),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(109),
	ModalBG:     tcell.PaletteColor(236),
	ModalText:   tcell.PaletteColor(255),
}

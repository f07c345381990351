package ui

import (
	"image/color"

	"Doodler/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Actions are the toolbar callbacks. Nil actions are left out.
type Actions struct {
	SetColor func(name string)
	SetWidth func(width float64)
	New      func()
	Replay   func()
	Erase    func()
	Save     func()
	Open     func()
	Export   func()
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	Color    color.Color
	OnTapped func(name string)
}

func newColorSwatch(name string, c color.Color, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

// NewToolbar builds the toolbar row. Palette entries that are not valid
// colours are skipped.
func NewToolbar(palette []string, a Actions) fyne.CanvasObject {
	var items []fyne.CanvasObject

	var tools []widget.ToolbarItem
	add := func(icon fyne.Resource, fn func()) {
		if fn != nil {
			tools = append(tools, widget.NewToolbarAction(icon, fn))
		}
	}
	add(theme.DocumentCreateIcon(), a.New)
	add(theme.FolderOpenIcon(), a.Open)
	add(theme.DocumentSaveIcon(), a.Save)
	add(theme.DownloadIcon(), a.Export)
	add(theme.MediaPlayIcon(), a.Replay)
	add(theme.DeleteIcon(), a.Erase)
	if len(tools) > 0 {
		items = append(items, widget.NewToolbar(tools...))
	}

	// --- Color Palette ---
	if a.SetColor != nil {
		colorBox := container.NewHBox()
		for _, name := range palette {
			c, err := export.ParseColor(name)
			if err != nil {
				continue
			}
			colorBox.Add(newColorSwatch(name, c, a.SetColor))
		}
		items = append(items, widget.NewSeparator(), widget.NewLabel("Color:"), colorBox)
	}

	// --- Stroke Width Slider ---
	if a.SetWidth != nil {
		strokeSlider := widget.NewSlider(1.0, 50.0)
		strokeSlider.SetValue(1.0)
		strokeSlider.OnChangeEnded = a.SetWidth
		sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)
		items = append(items, widget.NewSeparator(), widget.NewLabel("Size:"), sliderContainer)
	}

	items = append(items, layout.NewSpacer())
	return container.NewHBox(items...)
}

package main

import (
	"image/color"

	"github.com/milk9111/toybox/common"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// paletteWidth is the fixed width of the left-hand panel. Pointer input at
// x < paletteWidth belongs to the UI, not the world.
const paletteWidth = 200

// NewPaletteUI builds the left-hand palette with spawn, scene and utility
// buttons. Buttons use colored nine-slices and the built-in basic font, so
// no theme assets are needed.
func NewPaletteUI(g *Game, toys, scenes []string) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x14, G: 0x16, B: 0x1c, A: 220})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	headerColor := color.NRGBA{R: 0x9f, G: 0xb4, B: 0xc8, A: 0xff}

	header := func(label string) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(label, &face, headerColor),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
		)
	}
	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 14, Right: 14}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(paletteWidth, common.BaseHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)

	panel.AddChild(header("toybox"))

	panel.AddChild(header("spawn"))
	for _, name := range toys {
		panel.AddChild(button(name, func() {
			g.SpawnNamed(name)
		}))
	}

	panel.AddChild(header("scenes"))
	for _, name := range scenes {
		panel.AddChild(button(name, func() {
			g.LoadScene(name)
		}))
	}

	panel.AddChild(header("actions"))
	panel.AddChild(button("clear", func() { g.ClearToys() }))
	panel.AddChild(button("reset (R)", func() { g.LoadScene(g.sceneName) }))
	panel.AddChild(button("gravity", func() { g.ToggleGravity() }))
	panel.AddChild(button("mute (M)", func() { g.ToggleMute() }))
	panel.AddChild(button("debug (F1)", func() { g.ToggleDebug() }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

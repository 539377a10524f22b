package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/toybox/assets"
	"github.com/milk9111/toybox/playground"
)

// ToySprite renders one toy and receives its image and scale updates.
type ToySprite struct {
	toy   *playground.Toy
	image string
	scale float64
}

func NewToySprite() *ToySprite {
	return &ToySprite{scale: 1}
}

func (s *ToySprite) SetImage(id string) {
	s.image = id
}

func (s *ToySprite) SetScale(scale float64) {
	if scale > 0 {
		s.scale = scale
	}
}

func (s *ToySprite) bind(t *playground.Toy) {
	s.toy = t
}

func (s *ToySprite) Draw(screen *ebiten.Image) {
	if s.toy == nil || !s.toy.Alive() {
		return
	}

	img := assets.Image(s.image)
	b := img.Bounds()

	pos := s.toy.Position()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(s.scale, s.scale)
	op.GeoM.Rotate(s.toy.Angle())
	op.GeoM.Translate(pos.X, pos.Y)
	screen.DrawImage(img, op)
}

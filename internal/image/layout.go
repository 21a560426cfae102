package imagepkg

import "image"

// Layout fixes where every element of the voting card lands on the
// template. Resize targets and paste offsets are both derived from it.
type Layout struct {
	PhotoOrigin   image.Point
	PhotoDiameter int

	NameAnchor image.Point
	NameSize   float64

	TitleAnchor image.Point
	TitleSize   float64

	QRRect image.Rectangle
}

// DefaultLayout matches the pixel layout of the shipped vote.png template.
var DefaultLayout = Layout{
	PhotoOrigin:   image.Pt(397, 308),
	PhotoDiameter: 285,
	NameAnchor:    image.Pt(549, 653),
	NameSize:      50,
	TitleAnchor:   image.Pt(537, 714),
	TitleSize:     30,
	QRRect:        image.Rect(266, 850, 799, 1376),
}

// PhotoRect is the bounding box of the circular photo on the template.
func (l Layout) PhotoRect() image.Rectangle {
	return image.Rectangle{Min: l.PhotoOrigin, Max: l.PhotoOrigin.Add(image.Pt(l.PhotoDiameter, l.PhotoDiameter))}
}

// QRSize returns the width and height the QR bitmap is stretched to.
func (l Layout) QRSize() (int, int) {
	return l.QRRect.Dx(), l.QRRect.Dy()
}

// Fits reports whether every pasted region and text anchor lies inside b.
func (l Layout) Fits(b image.Rectangle) bool {
	return l.PhotoDiameter > 0 &&
		!l.QRRect.Empty() &&
		l.PhotoRect().In(b) &&
		l.QRRect.In(b) &&
		l.NameAnchor.In(b) &&
		l.TitleAnchor.In(b)
}

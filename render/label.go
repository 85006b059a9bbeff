package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Label renders a text label onto the image.  The text is drawn on a
// filled banner of the given color with pos being the banner's top left
// corner
func Label(img *gocv.Mat, text string, pos image.Point, bannerClr color.RGBA,
	fnt Font) {

	textSize := gocv.GetTextSize(text, fnt.Face, fnt.Scale, fnt.Thickness)

	// create box for placing text on
	bRect := image.Rect(pos.X, pos.Y,
		pos.X+textSize.X+fnt.LeftPad+fnt.RightPad,
		pos.Y+textSize.Y+fnt.TopPad+fnt.BottomPad)

	gocv.Rectangle(img, bRect, bannerClr, -1)

	// PutText positions text by the baseline of the first character
	textPos := image.Pt(pos.X+fnt.LeftPad, pos.Y+fnt.TopPad+textSize.Y)

	gocv.PutTextWithParams(img, text, textPos, fnt.Face, fnt.Scale,
		fnt.Color, fnt.Thickness, fnt.LineType, false)
}

// LabelTTF renders a text label onto the image using a TrueType font, pos
// is the baseline of the first character.  This is much slower than Label
// so only use it when the text has characters the Hershey fonts lack
func LabelTTF(img *gocv.Mat, text string, pos image.Point, clr color.RGBA,
	fnt *TTFFont) error {

	// create image with text writing
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: fnt.Face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(pos.X * 64),
			Y: fixed.Int26_6(pos.Y * 64),
		},
	}
	dr.DrawString(text)

	// Convert image.RGBA to gocv.Mat
	imgRGBA, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if imgRGBA.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer imgRGBA.Close()

	gocv.CvtColor(imgRGBA, &imgRGBA, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, imgRGBA, 1.0, 0, img)

	return nil
}

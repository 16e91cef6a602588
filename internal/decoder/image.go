// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package decoder

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// Pixels is a decoded image as a flat buffer in row-major, channel-last
// order with values in [0, 255].
type Pixels struct {
	Height   int
	Width    int
	Channels int
	Data     []float64
}

// Image decodes one still image.
type Image interface {
	Decode(r io.Reader) (image.Image, error)
}

// Frames decodes an ordered sequence of frames.
type Frames interface {
	Decode(r io.Reader) ([]image.Image, error)
}

// StdImage decodes PNG, JPEG and GIF (first frame) with the standard image
// codecs.
type StdImage struct{}

func (StdImage) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}
	return img, nil
}

// GIF decodes every frame of an animated GIF, composited onto the logical
// screen so each frame is a complete picture.
type GIF struct{}

func (GIF) Decode(r io.Reader) ([]image.Image, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gif decode: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif decode: no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		frames = append(frames, snapshot)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames, nil
}

// Rasterize samples img into a height x width x channels buffer using
// nearest-neighbour scaling. A zero height or width keeps the source size.
// Channels must be 1 (luminance), 3 (RGB) or 4 (RGBA).
func Rasterize(img image.Image, height, width, channels int) (Pixels, error) {
	if channels != 1 && channels != 3 && channels != 4 {
		return Pixels{}, fmt.Errorf("unsupported channel count %d", channels)
	}
	b := img.Bounds()
	if b.Empty() {
		return Pixels{}, fmt.Errorf("empty image")
	}
	if height <= 0 {
		height = b.Dy()
	}
	if width <= 0 {
		width = b.Dx()
	}

	data := make([]float64, 0, height*width*channels)
	for y := range height {
		sy := b.Min.Y + y*b.Dy()/height
		for x := range width {
			sx := b.Min.X + x*b.Dx()/width
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			switch channels {
			case 1:
				g := color.GrayModel.Convert(c).(color.Gray)
				data = append(data, float64(g.Y))
			case 3:
				data = append(data, float64(c.R), float64(c.G), float64(c.B))
			case 4:
				data = append(data, float64(c.R), float64(c.G), float64(c.B), float64(c.A))
			}
		}
	}

	return Pixels{Height: height, Width: width, Channels: channels, Data: data}, nil
}

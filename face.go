package wordcloud

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
)

// FaceDetector finds faces in a mask image, so that words can be kept off them.
type FaceDetector struct {
	classifier *pigo.Pigo
	// Angle is the rotation angle of the faces, as a fraction of a full turn.
	Angle float64
	// MinSize is the minimum detected face size in pixels.
	MinSize int
	// Threshold is the minimum detection score of a face.
	Threshold float32
}

// NewFaceDetector unpacks a pigo cascade classifier.
func NewFaceDetector(cascade []byte) (fd *FaceDetector, err error) {
	// The unpacker indexes the data without bound checks.
	defer func() {
		if r := recover(); r != nil {
			fd, err = nil, errors.Errorf("error unpacking the cascade file: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return &FaceDetector{
		classifier: classifier,
		MinSize:    20,
		Threshold:  5.0,
	}, nil
}

// LoadFaceDetector reads the cascade classifier from a file.
func LoadFaceDetector(path string) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the cascade file %q", path)
	}
	return NewFaceDetector(cascade)
}

// Detect returns the bounding squares of the faces found in the image.
func (fd *FaceDetector) Detect(img image.Image) []image.Rectangle {
	src := imgToNRGBA(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := fd.classifier.RunCascade(cParams, fd.Angle)
	faces = fd.classifier.ClusterDetections(faces, 0.2)

	rects := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		if face.Q < fd.Threshold {
			continue
		}
		half := face.Scale / 2
		rects = append(rects, image.Rect(face.Col-half, face.Row-half, face.Col+half, face.Row+half))
	}
	return rects
}

// Package encoder turns data into a QR module matrix.
package encoder

import (
	"github.com/yeqown/go-qrcode/v2"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// Encoder encodes data into a square module matrix.
type Encoder interface {
	Encode(data string, qr style.QROptions) (*layout.Matrix, error)
}

// GoQRCode encodes with github.com/yeqown/go-qrcode.
type GoQRCode struct{}

var levels = map[style.ErrorCorrectionLevel]qrcode.EncodeOption{
	style.ECLevelL: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow),
	style.ECLevelM: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	style.ECLevelQ: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart),
	style.ECLevelH: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
}

var modes = map[style.Mode]qrcode.EncodeOption{
	style.ModeNumeric:      qrcode.WithEncodingMode(qrcode.EncModeNumeric),
	style.ModeAlphanumeric: qrcode.WithEncodingMode(qrcode.EncModeAlphanumeric),
	style.ModeByte:         qrcode.WithEncodingMode(qrcode.EncModeByte),
	style.ModeKanji:        qrcode.WithEncodingMode(qrcode.EncModeJP),
}

// Encode returns the module matrix for data. A type number of 0 picks the
// smallest version the data fits in.
func (GoQRCode) Encode(data string, qr style.QROptions) (*layout.Matrix, error) {
	if data == "" {
		return nil, qrerrors.New(qrerrors.ErrCodeEncoding, "no data to encode")
	}
	opts := []qrcode.EncodeOption{levels[style.ECLevelQ]}
	if lvl, ok := levels[qr.ErrorCorrectionLevel]; ok {
		opts[0] = lvl
	}
	if qr.TypeNumber > 0 {
		opts = append(opts, qrcode.WithVersion(qr.TypeNumber))
	}
	if mode, ok := modes[qr.Mode]; ok {
		opts = append(opts, mode)
	}

	qrc, err := qrcode.NewWith(data, opts...)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeEncoding, err, "encode %d bytes", len(data))
	}
	var w capture
	if err := qrc.Save(&w); err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeEncoding, err, "read QR matrix")
	}
	if w.m == nil {
		return nil, qrerrors.New(qrerrors.ErrCodeEncoding, "encoder produced no matrix")
	}
	return w.m, nil
}

// capture is a qrcode.Writer that keeps the matrix instead of drawing it.
type capture struct {
	m *layout.Matrix
}

func (c *capture) Write(mat qrcode.Matrix) error {
	size := mat.Width()
	dark := make([]bool, size*size)
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if x < size && y < size {
			dark[y*size+x] = v.IsSet()
		}
	})
	c.m = layout.NewMatrix(size, func(row, col int) bool { return dark[row*size+col] })
	return nil
}

func (c *capture) Close() error { return nil }

package export

import (
	"hilanderia-pos/pkg/apperr"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// QR encodes text as a PNG QR code.
func QR(text string) ([]byte, error) {
	if text == "" {
		return nil, apperr.ErrEncoding.Wrap(apperr.Invalid("empty QR payload"))
	}
	png, err := qrcode.Encode(text, qrcode.Medium, qrSize)
	if err != nil {
		return nil, apperr.ErrEncoding.Wrap(err)
	}
	return png, nil
}

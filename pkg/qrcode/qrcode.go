// Package qrcode builds displayable QR image references for PIX copy-paste
// codes, for providers that return no renderable image of their own.
package qrcode

import (
	"fmt"
	"net/url"
)

const endpoint = "https://api.qrserver.com/v1/create-qr-code/"

// ImageURL returns an image URL encoding data as a 300x300 QR code.
func ImageURL(data string) string {
	if data == "" {
		return ""
	}
	return fmt.Sprintf("%s?size=300x300&data=%s", endpoint, url.QueryEscape(data))
}

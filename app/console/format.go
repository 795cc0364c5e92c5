// Package console renders the client on a terminal.
package console

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodexplorer/app/api"
)

// NoImage stands in for dishes without a picture.
const NoImage = "(sem imagem)"

// BRL formats an amount the way the menu shows prices: "R$ 50,00".
func BRL(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ImageURL is where files serves image, or NoImage.
func ImageURL(files *api.Client, image string) string {
	if image == "" {
		return NoImage
	}
	return files.FileURL(image)
}

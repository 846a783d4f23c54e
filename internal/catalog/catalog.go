// Package catalog собирает витрину товаров и внешние ссылки магазина:
// WhatsApp, Instagram и телефоны
package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/asquebay/dreamgirl-boutique/internal/config"
)

// Item - товар витрины вместе с готовой ссылкой на WhatsApp
type Item struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	WhatsApp string `json:"whatsapp"`
}

// Phone - номер и tel:-ссылка на него
type Phone struct {
	Number string `json:"number"`
	Href   string `json:"href"`
}

// Links - общие ссылки магазина
type Links struct {
	PricingInquiry string  `json:"pricingInquiry"`
	Instagram      string  `json:"instagram"`
	Phones         []Phone `json:"phones"`
}

// Catalog - неизменяемая витрина, собирается один раз при старте
type Catalog struct {
	ShopName string `json:"shopName"`
	Products []Item `json:"products"`
	Links    Links  `json:"links"`
}

// New строит витрину из конфига
func New(products []config.Product, contacts config.Contacts) *Catalog {
	c := &Catalog{
		ShopName: contacts.ShopName,
		Products: make([]Item, 0, len(products)),
		Links: Links{
			PricingInquiry: WhatsAppLink(contacts.PricingWhatsApp, pricingMessage(contacts.ShopName)),
			Instagram:      contacts.Instagram,
			Phones:         make([]Phone, 0, len(contacts.Phones)),
		},
	}

	for _, p := range products {
		c.Products = append(c.Products, Item{
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			WhatsApp: WhatsAppLink(contacts.ProductWhatsApp, productMessage(contacts.ShopName, p.Name)),
		})
	}

	for _, number := range contacts.Phones {
		c.Links.Phones = append(c.Links.Phones, Phone{Number: number, Href: TelLink(number)})
	}

	return c
}

// WhatsAppLink собирает ссылку https://wa.me/<номер>?text=<сообщение>
// пробелы кодируются как %20, так WhatsApp показывает текст без плюсов
func WhatsAppLink(number, text string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	if number == "" {
		return ""
	}
	link := "https://wa.me/" + url.PathEscape(number)
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link
}

// TelLink собирает tel:-ссылку без пробелов и дефисов
func TelLink(number string) string {
	return "tel:" + strings.NewReplacer(" ", "", "-", "").Replace(number)
}

func productMessage(shop, product string) string {
	return fmt.Sprintf("Hello %s,\n\nI am interested in this product: %s.\n\nPlease share details.", shop, product)
}

func pricingMessage(shop string) string {
	return fmt.Sprintf("Hello %s,\n\nI would like to know more about your stitching prices.", shop)
}

package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kiogloss/storefront/internal/core/domain"
)

// flexString tolerates upstream fields that arrive as either a JSON
// string or a number. Prices in particular come back both ways.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type productDTO struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Price         flexString `json:"price"`
	DiscountPrice flexString `json:"discountPrice"`
	Images        []string   `json:"images"`
	Image         string     `json:"image"`
	Stock         int        `json:"stock"`
	Tags          []int64    `json:"tags"`
}

func (d productDTO) toDomain() domain.Product {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	images := d.Images
	if len(images) == 0 && d.Image != "" {
		images = []string{d.Image}
	}
	return domain.Product{
		ID:            d.ID,
		Title:         title,
		Slug:          d.Slug,
		Price:         string(d.Price),
		DiscountPrice: string(d.DiscountPrice),
		Images:        images,
		Stock:         d.Stock,
		TagIDs:        d.Tags,
	}
}

// decodeProductPage accepts both the paged `content` wrapper and a
// bare array.
func decodeProductPage(raw []byte) (domain.ProductPage, error) {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var list []productDTO
		if err := json.Unmarshal(raw, &list); err != nil {
			return domain.ProductPage{}, err
		}
		return domain.ProductPage{Products: productsToDomain(list), TotalPages: 1}, nil
	}

	var resp struct {
		Content    []productDTO `json:"content"`
		TotalPages int          `json:"totalPages"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.ProductPage{}, err
	}
	totalPages := resp.TotalPages
	if totalPages == 0 {
		totalPages = 1
	}
	return domain.ProductPage{
		Products:   productsToDomain(resp.Content),
		TotalPages: totalPages,
	}, nil
}

func productsToDomain(list []productDTO) []domain.Product {
	ps := make([]domain.Product, len(list))
	for i, d := range list {
		ps[i] = d.toDomain()
	}
	return ps
}

type tagDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"productCount"`
}

func decodeTags(raw []byte) ([]domain.Tag, error) {
	var list []tagDTO
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
	} else {
		var resp struct {
			Content []tagDTO `json:"content"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, err
		}
		list = resp.Content
	}

	tags := make([]domain.Tag, len(list))
	for i, d := range list {
		tags[i] = domain.Tag{
			ID:           d.ID,
			Name:         d.Name,
			Slug:         d.Slug,
			ProductCount: d.ProductCount,
		}
	}
	return tags, nil
}

type favoritePayload struct {
	Product int64 `json:"product"`
	Account int64 `json:"account"`
}

// favoritesResponse mirrors the upstream account favorites shape. The
// favorite-record id lives in idFa and is distinct from the product
// id.
type favoritesResponse struct {
	Account struct {
		Favorite []favoriteDTO `json:"favorite"`
	} `json:"account"`
}

type favoriteDTO struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Title  string     `json:"title"`
	Price  flexString `json:"price"`
	Images []string   `json:"images"`
	Image  string     `json:"image"`
	Slug   string     `json:"slug"`
	IDFa   int64      `json:"idFa"`
}

func (r favoritesResponse) toDomain() []domain.WishlistEntry {
	list := make([]domain.WishlistEntry, 0, len(r.Account.Favorite))
	for _, d := range r.Account.Favorite {
		title := d.Name
		if title == "" {
			title = d.Title
		}
		image := d.Image
		if len(d.Images) > 0 {
			image = d.Images[0]
		}

		favoriteID := d.IDFa
		list = append(list, domain.WishlistEntry{
			ProductID:  d.ID,
			Title:      title,
			Price:      domain.NormalizePrice(string(d.Price)),
			Image:      image,
			Slug:       d.Slug,
			FavoriteID: &favoriteID,
		})
	}
	return list
}

type ordersResponse struct {
	Content    []orderDTO `json:"content"`
	Results    []orderDTO `json:"results"`
	TotalPages int        `json:"totalPages"`
	Pages      int        `json:"pages"`
}

type orderDTO struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status"`
	Date      string         `json:"date"`
	CreatedAt string         `json:"createdAt"`
	Amount    flexString     `json:"amount"`
	Total     flexString     `json:"total"`
	User      orderUserDTO   `json:"user"`
	Shopping  []orderItemDTO `json:"shopping"`
	Products  []orderItemDTO `json:"products"`
	Items     []orderItemDTO `json:"items"`
}

type orderUserDTO struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type orderItemDTO struct {
	Title     string     `json:"title"`
	Name      string     `json:"name"`
	Size      string     `json:"size"`
	Color     string     `json:"color"`
	Quantity  int        `json:"quantity"`
	Qty       int        `json:"qty"`
	Price     flexString `json:"price"`
	UnitPrice flexString `json:"unitPrice"`
}

func (r ordersResponse) toDomain() domain.OrderPage {
	list := r.Content
	if list == nil {
		list = r.Results
	}

	orders := make([]domain.Order, len(list))
	for i, d := range list {
		orders[i] = d.toDomain()
	}

	totalPages := r.TotalPages
	if totalPages == 0 {
		totalPages = r.Pages
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return domain.OrderPage{Orders: orders, TotalPages: totalPages}
}

func (d orderDTO) toDomain() domain.Order {
	date := d.Date
	if date == "" {
		date = d.CreatedAt
	}
	amount := string(d.Amount)
	if amount == "" {
		amount = string(d.Total)
	}

	items := d.Shopping
	if items == nil {
		items = d.Products
	}
	if items == nil {
		items = d.Items
	}

	o := domain.Order{
		ID:     d.ID,
		Status: d.Status,
		Date:   date,
		Amount: parseAmount(amount),
		User: domain.OrderUser{
			Name:    d.User.Name,
			Phone:   pick(d.User.PhoneNumber, d.User.Phone),
			Address: d.User.Address,
		},
		Items: make([]domain.OrderItem, len(items)),
	}
	for i, it := range items {
		o.Items[i] = domain.OrderItem{
			Title:    pick(it.Title, it.Name),
			Size:     it.Size,
			Color:    it.Color,
			Quantity: max(it.Quantity, it.Qty),
			Price:    parseAmount(pick(string(it.Price), string(it.UnitPrice))),
		}
	}
	return o
}

func pick(first, second string) string {
	if first != "" {
		return first
	}
	return second
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.NormalizePrice(s)
	}
	return v
}

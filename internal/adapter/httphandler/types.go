package httphandler

import (
	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/service"
)

type (
	BrowseView struct {
		State      string    `json:"state"`
		Products   []Product `json:"products"`
		TotalPages int       `json:"totalPages"`
		Message    string    `json:"message,omitempty"`
		Filters    Filters   `json:"filters"`
		Search     string    `json:"search,omitempty"`
		Sort       string    `json:"sort"`
		Page       int       `json:"page"`
		PageParams string    `json:"pageParams"`
	}

	Product struct {
		ID            int64    `json:"id"`
		Title         string   `json:"title"`
		Slug          string   `json:"slug,omitempty"`
		Price         string   `json:"price"`
		DiscountPrice string   `json:"discountPrice,omitempty"`
		Images        []string `json:"images,omitempty"`
		Stock         int      `json:"stock"`
	}

	Filters struct {
		Tags     []int64 `json:"tags"`
		MinPrice string  `json:"minPrice,omitempty"`
		MaxPrice string  `json:"maxPrice,omitempty"`
	}

	Tag struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Slug         string `json:"slug,omitempty"`
		ProductCount int    `json:"productCount,omitempty"`
	}

	SessionRequest struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken,omitempty"`
	}

	SessionState struct {
		Authenticated bool `json:"authenticated"`
	}

	WishlistItem struct {
		ProductID  int64   `json:"productId"`
		Title      string  `json:"title"`
		Price      float64 `json:"price"`
		Image      string  `json:"image,omitempty"`
		Slug       string  `json:"slug,omitempty"`
		FavoriteID *int64  `json:"favoriteId"`
	}

	WishlistAddRequest struct {
		Product Product `json:"product"`
	}

	WishlistAddResponse struct {
		Favorited bool `json:"favorited"`
	}

	Order struct {
		ID     int64       `json:"id"`
		Status string      `json:"status"`
		Date   string      `json:"date"`
		Amount float64     `json:"amount"`
		Items  []OrderItem `json:"items"`
		User   OrderUser   `json:"user"`
	}

	OrderItem struct {
		Title    string  `json:"title"`
		Size     string  `json:"size,omitempty"`
		Color    string  `json:"color,omitempty"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	}

	OrderUser struct {
		Name    string `json:"name,omitempty"`
		Phone   string `json:"phone,omitempty"`
		Address string `json:"address,omitempty"`
	}

	OrdersPage struct {
		Orders     []Order `json:"orders"`
		TotalPages int     `json:"totalPages"`
	}

	TrendingProduct struct {
		ProductID   int64  `json:"productId"`
		ProductName string `json:"productName"`
		Events      int64  `json:"events"`
	}
)

func viewToResponse(v service.BrowseView) BrowseView {
	products := make([]Product, len(v.Products))
	for i, p := range v.Products {
		products[i] = Product{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Price:         p.Price,
			DiscountPrice: p.DiscountPrice,
			Images:        p.Images,
			Stock:         p.Stock,
		}
	}

	tags := v.Filters.TagIDs
	if tags == nil {
		tags = []int64{}
	}

	return BrowseView{
		State:      string(v.State),
		Products:   products,
		TotalPages: v.TotalPages,
		Message:    v.Message,
		Filters: Filters{
			Tags:     tags,
			MinPrice: v.Filters.MinPrice,
			MaxPrice: v.Filters.MaxPrice,
		},
		Search:     v.Search,
		Sort:       v.Sort.String(),
		Page:       v.Page,
		PageParams: v.PageParams.Encode(),
	}
}

func tagsToResponse(tags []domain.Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = Tag(t)
	}
	return out
}

func wishlistToResponse(list []domain.WishlistEntry) []WishlistItem {
	out := make([]WishlistItem, len(list))
	for i, e := range list {
		out[i] = WishlistItem(e)
	}
	return out
}

func (o Order) toDomain() domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = domain.OrderItem(it)
	}
	return domain.Order{
		ID:     o.ID,
		Status: o.Status,
		Date:   o.Date,
		Amount: o.Amount,
		Items:  items,
		User:   domain.OrderUser(o.User),
	}
}

func ordersToResponse(page domain.OrderPage) OrdersPage {
	orders := make([]Order, len(page.Orders))
	for i, o := range page.Orders {
		items := make([]OrderItem, len(o.Items))
		for j, it := range o.Items {
			items[j] = OrderItem(it)
		}
		orders[i] = Order{
			ID:     o.ID,
			Status: o.Status,
			Date:   o.Date,
			Amount: o.Amount,
			Items:  items,
			User:   OrderUser(o.User),
		}
	}
	return OrdersPage{Orders: orders, TotalPages: page.TotalPages}
}

func trendingToResponse(list []domain.ProductActivity) []TrendingProduct {
	out := make([]TrendingProduct, len(list))
	for i, a := range list {
		out[i] = TrendingProduct(a)
	}
	return out
}
